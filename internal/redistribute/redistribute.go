// Package redistribute maps one translated string back onto the
// fine-grained formatting segments of the original occurrence, and keeps
// mirrored regions (merged cells and the like) displaying identical text.
//
// Every algorithm here upholds a single invariant: the concatenation of
// the produced segment texts equals the translated string exactly — no
// characters created, dropped, or duplicated.
package redistribute

import (
	"fmt"

	"github.com/valpere/doctran/internal/document"
)

// Options holds the tunable constants of the split heuristics. The
// defaults reproduce the behavior the engine was calibrated with; neither
// number is load-bearing beyond visual inspection.
type Options struct {
	// MaxProportionalSegments caps proportional splitting; above it the
	// whole translated string takes the first segment's style, since
	// proportional cuts across many segments land mid-word anyway.
	MaxProportionalSegments int
	// PrimaryShare is the fraction of the translated text given to the
	// longest original segment in the mirror-biased split.
	PrimaryShare float64
	// FontHints maps a target language to a replacement font family for
	// scripts the original fonts cannot render.
	FontHints map[string]string
}

// DefaultFontHints covers scripts that commonly need a dedicated font.
var DefaultFontHints = map[string]string{
	"th": "TH SarabunPSK",
}

// DefaultOptions returns the calibrated defaults.
func DefaultOptions() Options {
	return Options{
		MaxProportionalSegments: 5,
		PrimaryShare:            0.7,
		FontHints:               DefaultFontHints,
	}
}

// Redistribute produces new segments carrying translated across the
// occurrence's original styles. mirrored selects the biased split for
// multi-segment mirror-group members.
func Redistribute(occ document.TextOccurrence, translated string, mirrored bool, opts Options) []document.FormatSegment {
	if opts.MaxProportionalSegments <= 0 {
		opts.MaxProportionalSegments = 5
	}
	if opts.PrimaryShare <= 0 || opts.PrimaryShare >= 1 {
		opts.PrimaryShare = 0.7
	}

	segs := occ.Segments
	if len(segs) == 0 {
		return []document.FormatSegment{{Text: translated}}
	}
	if len(segs) == 1 {
		return []document.FormatSegment{{Text: translated, Style: segs[0].Style.Clone()}}
	}

	// A malformed occurrence (segments not concatenating to rawText) fails
	// closed: full translated string, first segment's style. Truncating
	// text is never acceptable.
	if !occ.SegmentsValid() {
		return []document.FormatSegment{{Text: translated, Style: segs[0].Style.Clone()}}
	}

	if mirrored && len(segs) > 2 {
		return biasedSplit(segs, translated, opts.PrimaryShare)
	}
	if len(segs) > opts.MaxProportionalSegments {
		return []document.FormatSegment{{Text: translated, Style: segs[0].Style.Clone()}}
	}
	return proportionalSplit(occ.RawText, segs, translated)
}

// proportionalSplit cuts translated at the same relative positions as the
// original segment boundaries. The last segment takes the remainder so
// integer rounding never drops trailing characters.
func proportionalSplit(original string, segs []document.FormatSegment, translated string) []document.FormatSegment {
	origTotal := len([]rune(original))
	trRunes := []rune(translated)

	out := make([]document.FormatSegment, 0, len(segs))
	pos := 0
	for i, seg := range segs {
		var take int
		if i == len(segs)-1 {
			take = len(trRunes) - pos
		} else {
			share := float64(len([]rune(seg.Text))) / float64(origTotal)
			take = int(float64(len(trRunes)) * share)
			if pos+take > len(trRunes) {
				take = len(trRunes) - pos
			}
		}
		out = append(out, document.FormatSegment{
			Text:  string(trRunes[pos : pos+take]),
			Style: seg.Style.Clone(),
		})
		pos += take
	}
	return out
}

// biasedSplit gives the longest original segment a fixed share of the
// translated text and divides the rest evenly, keeping the dominant visual
// weight of a merged region intact. The final segment absorbs the rounding
// remainder.
func biasedSplit(segs []document.FormatSegment, translated string, primaryShare float64) []document.FormatSegment {
	trRunes := []rune(translated)

	primary := 0
	for i, seg := range segs {
		if len([]rune(seg.Text)) > len([]rune(segs[primary].Text)) {
			primary = i
		}
	}

	lengths := make([]int, len(segs))
	primaryLen := int(float64(len(trRunes)) * primaryShare)
	otherLen := (len(trRunes) - primaryLen) / (len(segs) - 1)
	sum := 0
	for i := range segs {
		if i == primary {
			lengths[i] = primaryLen
		} else {
			lengths[i] = otherLen
		}
		sum += lengths[i]
	}
	lengths[len(segs)-1] += len(trRunes) - sum

	out := make([]document.FormatSegment, 0, len(segs))
	pos := 0
	for i, seg := range segs {
		out = append(out, document.FormatSegment{
			Text:  string(trRunes[pos : pos+lengths[i]]),
			Style: seg.Style.Clone(),
		})
		pos += lengths[i]
	}
	return out
}

// ApplyFontHint substitutes the font family of styled segments when the
// target language needs a dedicated script font. Segments without an
// explicit style keep inheriting the document default.
func ApplyFontHint(segs []document.FormatSegment, targetLang string, hints map[string]string) {
	family, ok := hints[targetLang]
	if !ok {
		return
	}
	for _, seg := range segs {
		if seg.Style != nil {
			seg.Style.Family = family
		}
	}
}

// SyncReport records the per-member outcome of a mirror synchronization.
type SyncReport struct {
	Applied []document.Location
	Failed  []document.Location
	Errs    []error
}

// SyncMirror applies segments to every member of the group other than
// origin. When styled application fails for a member, the member still
// gets at least the plain translated text; a member that rejects both is
// recorded and synchronization continues with the rest. Partial success is
// reported, never fatal.
func SyncMirror(target document.Target, group *document.MirrorGroup, origin document.Location, segs []document.FormatSegment) SyncReport {
	var report SyncReport
	if group == nil {
		return report
	}

	plain := ""
	for _, s := range segs {
		plain += s.Text
	}

	for _, member := range group.Members {
		if member == origin {
			continue
		}
		if err := target.ApplyText(member, segs); err == nil {
			report.Applied = append(report.Applied, member)
			continue
		}
		// Styling failed; plain text is still better than stale text.
		if err := target.ApplyText(member, []document.FormatSegment{{Text: plain}}); err != nil {
			report.Failed = append(report.Failed, member)
			report.Errs = append(report.Errs, fmt.Errorf("mirror member %s: %w", member, err))
			continue
		}
		report.Applied = append(report.Applied, member)
	}
	return report
}
