// Package orchestrator composes the translation pipeline: classify and
// deduplicate extracted occurrences, translate the unique texts through
// the concurrent executor, then redistribute each translated string across
// the original formatting segments and synchronize mirrored regions.
//
// A run never aborts because individual texts failed to translate; the
// Report tells the caller how many occurrences kept their original text.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/valpere/doctran/internal"
	"github.com/valpere/doctran/internal/dedupe"
	"github.com/valpere/doctran/internal/document"
	"github.com/valpere/doctran/internal/executor"
	"github.com/valpere/doctran/internal/redistribute"
)

// FallbackRecord names one occurrence that kept its original text and why.
type FallbackRecord struct {
	Location document.Location
	Text     string
	Reason   string
}

// Report summarises one document run.
type Report struct {
	Total         int // input occurrences
	Skipped       int // classified Skip, passed through unchanged
	Translated    int // occurrences that received translated text
	Fallback      int // occurrences that kept their original text
	UniqueJobs    int // unique texts submitted to the executor
	CacheHits     int // occurrences resolved without a network call
	MirrorSynced  int // mirror members updated
	MirrorPartial int // mirror members that could not be updated at all
	ApplyFailures int // locations the document collaborator rejected

	Fallbacks []FallbackRecord
}

// Orchestrator runs the full pipeline for one document at a time.
type Orchestrator struct {
	exec *executor.Executor
	opts redistribute.Options
}

func New(exec *executor.Executor, opts redistribute.Options) *Orchestrator {
	return &Orchestrator{exec: exec, opts: opts}
}

// Run translates occs from sourceLang to targetLang and applies the result
// through target. All occurrences are accounted for in the Report: skipped
// ones keep their text untouched (and are not rewritten), translated ones
// are redistributed and applied, failed ones fall back to their original
// text.
func (o *Orchestrator) Run(ctx context.Context, occs []document.TextOccurrence, target document.Target, sourceLang, targetLang string) *Report {
	report := &Report{Total: len(occs)}

	ded := dedupe.Dedupe(occs)
	report.Skipped = len(ded.Skipped)
	report.UniqueJobs = len(ded.Unique)

	jobs := make([]internal.TranslationJob, 0, len(ded.Unique))
	for _, text := range ded.Unique {
		jobs = append(jobs, internal.TranslationJob{
			Text:       text,
			SourceLang: sourceLang,
			TargetLang: targetLang,
		})
	}

	results := o.exec.TranslateBatch(ctx, jobs)

	// Fan each unique result back out to every occurrence that shares it,
	// in original order.
	for _, text := range ded.Unique {
		res := results[text]
		for _, idx := range ded.Index[text] {
			occ := occs[idx]

			if res.Fallback {
				report.Fallback++
				reason := "translation failed"
				if res.Err != nil {
					reason = res.Err.Error()
				}
				report.Fallbacks = append(report.Fallbacks, FallbackRecord{
					Location: occ.Location,
					Text:     occ.RawText,
					Reason:   reason,
				})
				continue
			}
			if res.FromCache {
				report.CacheHits++
			}

			group, mirrored := target.ResolveMirrorGroup(occ.Location)
			segs := redistribute.Redistribute(occ, res.Text, mirrored, o.opts)
			redistribute.ApplyFontHint(segs, targetLang, o.opts.FontHints)

			if err := target.ApplyText(occ.Location, segs); err != nil {
				report.ApplyFailures++
				report.Fallbacks = append(report.Fallbacks, FallbackRecord{
					Location: occ.Location,
					Text:     occ.RawText,
					Reason:   fmt.Sprintf("apply failed: %v", err),
				})
				continue
			}
			report.Translated++

			if mirrored {
				sync := redistribute.SyncMirror(target, group, occ.Location, segs)
				report.MirrorSynced += len(sync.Applied)
				report.MirrorPartial += len(sync.Failed)
			}
		}
	}

	return report
}

// Stats exposes the underlying executor counters for the finished run.
func (o *Orchestrator) Stats() executor.Stats {
	return o.exec.Stats()
}
