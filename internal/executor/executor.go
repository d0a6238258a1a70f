// Package executor drives translation jobs through a bounded worker pool
// with a sliding-window rate limiter, exponential-backoff retries, and a
// persistent cache consulted before any network call. A job that cannot be
// translated falls back to its original text instead of failing the batch.
package executor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valpere/doctran/internal"
	"github.com/valpere/doctran/internal/cache"
	"github.com/valpere/doctran/internal/chunker"
	"github.com/valpere/doctran/internal/ratelimit"
	"github.com/valpere/doctran/internal/translator"
)

// Defaults applied by New when the corresponding Config field is zero.
const (
	DefaultWorkers     = 5
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 2 * time.Second
	DefaultRateWindow  = time.Minute
)

// Config tunes the executor.
type Config struct {
	// Workers bounds the number of concurrent provider calls.
	Workers int
	// MaxAttempts is the total number of attempts per call, including the
	// first (1 = no retries).
	MaxAttempts int
	// RetryDelay is the base backoff; the wait before retry n is
	// RetryDelay * 2^(n-1).
	RetryDelay time.Duration
	// CallTimeout bounds each provider call; expiry counts as a transient
	// failure. 0 = no per-call timeout.
	CallTimeout time.Duration
	// MaxChars splits longer texts into chunks translated sequentially
	// within one job. 0 = no chunking.
	MaxChars int
	// RateLimit admits at most this many provider calls per RateWindow
	// across all workers. 0 disables rate limiting.
	RateLimit  int
	RateWindow time.Duration
}

// Result is the typed outcome for one job. Fallback results carry the
// original text so the document round-trips even when translation fails.
type Result struct {
	Text      string
	FromCache bool
	Fallback  bool
	Err       error // reason when Fallback is set
}

// Stats is an advisory snapshot of call counters.
type Stats struct {
	TotalCalls      int64
	Succeeded       int64
	Failed          int64
	CacheHits       int64
	CharsTranslated int64
}

// Executor runs translation batches. Safe for use by a single batch at a
// time; the cache it shares may serve several executors concurrently.
type Executor struct {
	provider translator.Provider
	cache    *cache.Cache // nil disables caching
	limiter  *ratelimit.Limiter
	cfg      Config

	totalCalls atomic.Int64
	succeeded  atomic.Int64
	failed     atomic.Int64
	cacheHits  atomic.Int64
	chars      atomic.Int64
}

// New creates an executor for provider. c may be nil to disable caching.
func New(provider translator.Provider, c *cache.Cache, cfg Config) *Executor {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = DefaultRateWindow
	}
	return &Executor{
		provider: provider,
		cache:    c,
		limiter:  ratelimit.New(cfg.RateLimit, cfg.RateWindow),
		cfg:      cfg,
	}
}

// TranslateBatch resolves every job to a Result, keyed by the job's unique
// text. Cache hits never touch the network; the rest are dispatched to the
// worker pool. Results are keyed by job identity, so the mapping is
// deterministic regardless of completion order.
func (e *Executor) TranslateBatch(ctx context.Context, jobs []internal.TranslationJob) map[string]Result {
	results := make([]Result, len(jobs))

	// Phase 1: cache lookups, synchronous and cheap.
	var pending []int
	for i, job := range jobs {
		if e.cache != nil {
			if hit, ok := e.cache.Get(job.Text, job.SourceLang, job.TargetLang); ok {
				e.cacheHits.Add(1)
				results[i] = Result{Text: hit, FromCache: true}
				continue
			}
		}
		pending = append(pending, i)
	}

	// Phase 2: bounded worker pool over the misses. Each worker writes
	// only its own job's slot.
	if len(pending) > 0 {
		workers := e.cfg.Workers
		if workers > len(pending) {
			workers = len(pending)
		}

		idxCh := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range idxCh {
					results[i] = e.translateOne(ctx, jobs[i])
				}
			}()
		}
		for _, i := range pending {
			idxCh <- i
		}
		close(idxCh)
		wg.Wait()
	}

	// Phase 3: write fresh translations back to the cache, grouped by
	// language pair.
	if e.cache != nil {
		type pair struct{ src, tgt string }
		fresh := make(map[pair]map[string]string)
		for i, job := range jobs {
			r := results[i]
			if r.FromCache || r.Fallback {
				continue
			}
			p := pair{job.SourceLang, job.TargetLang}
			if fresh[p] == nil {
				fresh[p] = make(map[string]string)
			}
			fresh[p][job.Text] = r.Text
		}
		for p, pairs := range fresh {
			if err := e.cache.SetBatch(pairs, p.src, p.tgt); err != nil {
				// Cache write failures are recovered locally; the
				// translations themselves are already in hand.
				continue
			}
		}
	}

	out := make(map[string]Result, len(jobs))
	for i, job := range jobs {
		out[job.Text] = results[i]
	}
	return out
}

// Stats returns a snapshot of the executor's counters.
func (e *Executor) Stats() Stats {
	return Stats{
		TotalCalls:      e.totalCalls.Load(),
		Succeeded:       e.succeeded.Load(),
		Failed:          e.failed.Load(),
		CacheHits:       e.cacheHits.Load(),
		CharsTranslated: e.chars.Load(),
	}
}

// translateOne runs a single job, chunking over-long texts, and converts
// any terminal failure into a fallback result.
func (e *Executor) translateOne(ctx context.Context, job internal.TranslationJob) Result {
	if e.cfg.MaxChars > 0 && len([]rune(job.Text)) > e.cfg.MaxChars {
		pieces := chunker.Split(job.Text, e.cfg.MaxChars)
		translated := make([]string, 0, len(pieces))
		for _, piece := range pieces {
			out, err := e.callWithRetry(ctx, piece, job.SourceLang, job.TargetLang)
			if err != nil {
				return Result{Text: job.Text, Fallback: true, Err: err}
			}
			translated = append(translated, out)
		}
		return Result{Text: chunker.Join(translated)}
	}

	out, err := e.callWithRetry(ctx, job.Text, job.SourceLang, job.TargetLang)
	if err != nil {
		return Result{Text: job.Text, Fallback: true, Err: err}
	}
	return Result{Text: out}
}

// callWithRetry performs up to MaxAttempts provider calls with exponential
// backoff. Permanent failures abort immediately; transient ones retry
// until attempts are exhausted.
func (e *Executor) callWithRetry(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < e.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := e.cfg.RetryDelay * (1 << (attempt - 1))
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", fmt.Errorf("batch canceled: %w", ctx.Err())
			case <-timer.C:
			}
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("batch canceled: %w", err)
		}

		callCtx := ctx
		cancel := context.CancelFunc(func() {})
		if e.cfg.CallTimeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, e.cfg.CallTimeout)
		}

		out, err := e.provider.Translate(callCtx, translator.Request{
			Text:       text,
			SourceLang: sourceLang,
			TargetLang: targetLang,
		})
		cancel()
		e.totalCalls.Add(1)

		if err == nil {
			e.succeeded.Add(1)
			e.chars.Add(int64(len([]rune(text))))
			return out, nil
		}

		e.failed.Add(1)
		lastErr = translator.Classify(e.provider.Name(), err)
		if translator.IsPermanent(lastErr) {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	return "", lastErr
}
