package redistribute_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/valpere/doctran/internal/document"
	"github.com/valpere/doctran/internal/redistribute"
)

func style(family string, bold bool) *document.FontStyle {
	return &document.FontStyle{Family: family, Bold: bold}
}

// segmentsOf slices raw into n contiguous equal-ish segments with distinct
// styles, so occ.SegmentsValid() holds.
func segmentsOf(raw string, n int) []document.FormatSegment {
	runes := []rune(raw)
	per := len(runes) / n
	segs := make([]document.FormatSegment, 0, n)
	pos := 0
	for i := 0; i < n; i++ {
		end := pos + per
		if i == n-1 {
			end = len(runes)
		}
		segs = append(segs, document.FormatSegment{
			Text:  string(runes[pos:end]),
			Style: style(fmt.Sprintf("Font%d", i), i%2 == 0),
		})
		pos = end
	}
	return segs
}

func concat(segs []document.FormatSegment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestRedistribute_SingleSegment(t *testing.T) {
	occ := document.TextOccurrence{
		RawText:  "Hello",
		Segments: []document.FormatSegment{{Text: "Hello", Style: style("Arial", true)}},
	}
	segs := redistribute.Redistribute(occ, "Bonjour", false, redistribute.DefaultOptions())

	if len(segs) != 1 || segs[0].Text != "Bonjour" {
		t.Fatalf("expected single segment Bonjour, got %+v", segs)
	}
	if segs[0].Style == nil || segs[0].Style.Family != "Arial" || !segs[0].Style.Bold {
		t.Errorf("style not preserved: %+v", segs[0].Style)
	}
	// The clone must be independent of the original style.
	segs[0].Style.Family = "Changed"
	if occ.Segments[0].Style.Family != "Arial" {
		t.Error("redistribute mutated the source occurrence's style")
	}
}

func TestRedistribute_NoSegments(t *testing.T) {
	occ := document.TextOccurrence{RawText: "Hello"}
	segs := redistribute.Redistribute(occ, "Bonjour", false, redistribute.DefaultOptions())
	if len(segs) != 1 || segs[0].Text != "Bonjour" || segs[0].Style != nil {
		t.Errorf("expected one unstyled segment, got %+v", segs)
	}
}

func TestRedistribute_TwoSegmentProportional(t *testing.T) {
	// "He"+"llo" → "Bonjour" splits 2/5 and the remainder: "Bo" + "njour".
	occ := document.TextOccurrence{
		RawText: "Hello",
		Segments: []document.FormatSegment{
			{Text: "He", Style: style("Arial", true)},
			{Text: "llo", Style: style("Arial", false)},
		},
	}
	segs := redistribute.Redistribute(occ, "Bonjour", false, redistribute.DefaultOptions())

	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].Text != "Bo" || segs[1].Text != "njour" {
		t.Errorf("split = %q + %q, want Bo + njour", segs[0].Text, segs[1].Text)
	}
	if !segs[0].Style.Bold || segs[1].Style.Bold {
		t.Error("styles not carried per segment")
	}
}

func TestRedistribute_ConcatInvariant_Proportional(t *testing.T) {
	raw := "The quick brown fox jumps over the lazy dog"
	translated := "Le renard brun rapide saute par-dessus le chien paresseux"
	for n := 1; n <= 5; n++ {
		occ := document.TextOccurrence{RawText: raw, Segments: segmentsOf(raw, n)}
		segs := redistribute.Redistribute(occ, translated, false, redistribute.DefaultOptions())
		if got := concat(segs); got != translated {
			t.Errorf("n=%d: concat = %q, want %q", n, got, translated)
		}
	}
}

func TestRedistribute_ConcatInvariant_Biased(t *testing.T) {
	raw := "The quick brown fox jumps over the lazy dog"
	translated := "Le renard brun rapide saute par-dessus le chien paresseux"
	for n := 3; n <= 10; n++ {
		occ := document.TextOccurrence{RawText: raw, Segments: segmentsOf(raw, n)}
		segs := redistribute.Redistribute(occ, translated, true, redistribute.DefaultOptions())
		if got := concat(segs); got != translated {
			t.Errorf("n=%d mirrored: concat = %q, want %q", n, got, translated)
		}
		if len(segs) != n {
			t.Errorf("n=%d mirrored: got %d segments", n, len(segs))
		}
	}
}

func TestRedistribute_ManySegmentsCollapse(t *testing.T) {
	// Above the proportional cap the whole string takes the first style.
	raw := "abcdefghijklmnopqrstuvwxyz and some more text"
	occ := document.TextOccurrence{RawText: raw, Segments: segmentsOf(raw, 6)}

	segs := redistribute.Redistribute(occ, "translated text", false, redistribute.DefaultOptions())
	if len(segs) != 1 {
		t.Fatalf("expected collapse to 1 segment, got %d", len(segs))
	}
	if segs[0].Text != "translated text" {
		t.Errorf("text = %q", segs[0].Text)
	}
	if segs[0].Style == nil || segs[0].Style.Family != "Font0" {
		t.Errorf("expected first segment's style, got %+v", segs[0].Style)
	}
}

func TestRedistribute_BiasedPrimaryShare(t *testing.T) {
	// The longest original segment takes roughly the primary share.
	occ := document.TextOccurrence{
		RawText: "aa" + strings.Repeat("b", 20) + "cc",
		Segments: []document.FormatSegment{
			{Text: "aa", Style: style("A", false)},
			{Text: strings.Repeat("b", 20), Style: style("B", true)},
			{Text: "cc", Style: style("C", false)},
		},
	}
	translated := strings.Repeat("x", 40)
	segs := redistribute.Redistribute(occ, translated, true, redistribute.DefaultOptions())

	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	if got := len(segs[1].Text); got != 28 { // 40 * 0.7
		t.Errorf("primary segment length = %d, want 28", got)
	}
	if got := concat(segs); got != translated {
		t.Errorf("concat = %q", got)
	}
}

func TestRedistribute_InvalidSegmentsFailClosed(t *testing.T) {
	// Segments that do not concatenate to RawText must not truncate output.
	occ := document.TextOccurrence{
		RawText: "Hello world",
		Segments: []document.FormatSegment{
			{Text: "Hel", Style: style("A", false)},
			{Text: "xyz", Style: style("B", false)},
		},
	}
	segs := redistribute.Redistribute(occ, "Bonjour le monde", false, redistribute.DefaultOptions())
	if len(segs) != 1 || segs[0].Text != "Bonjour le monde" {
		t.Errorf("invalid segmentation must fail closed, got %+v", segs)
	}
}

func TestRedistribute_MultibyteRunes(t *testing.T) {
	occ := document.TextOccurrence{
		RawText: "你好世界",
		Segments: []document.FormatSegment{
			{Text: "你好", Style: style("A", false)},
			{Text: "世界", Style: style("B", false)},
		},
	}
	translated := "Hello world"
	segs := redistribute.Redistribute(occ, translated, false, redistribute.DefaultOptions())
	if got := concat(segs); got != translated {
		t.Errorf("concat = %q, want %q", got, translated)
	}
}

func TestApplyFontHint(t *testing.T) {
	segs := []document.FormatSegment{
		{Text: "a", Style: style("Calibri", false)},
		{Text: "b"}, // unstyled, must stay unstyled
	}
	redistribute.ApplyFontHint(segs, "th", redistribute.DefaultFontHints)

	if segs[0].Style.Family != "TH SarabunPSK" {
		t.Errorf("family = %q, want TH SarabunPSK", segs[0].Style.Family)
	}
	if segs[1].Style != nil {
		t.Error("unstyled segment must not gain a style")
	}

	// Languages without a hint are untouched.
	segs2 := []document.FormatSegment{{Text: "a", Style: style("Calibri", false)}}
	redistribute.ApplyFontHint(segs2, "fr", redistribute.DefaultFontHints)
	if segs2[0].Style.Family != "Calibri" {
		t.Errorf("family changed without a hint: %q", segs2[0].Style.Family)
	}
}

// mirrorTarget is a Target recording ApplyText calls, with per-location
// failure injection.
type mirrorTarget struct {
	applied  map[document.Location]string
	failAll  map[document.Location]bool // reject styled and plain
	failSegs map[document.Location]bool // reject styled only
}

func newMirrorTarget() *mirrorTarget {
	return &mirrorTarget{
		applied:  make(map[document.Location]string),
		failAll:  make(map[document.Location]bool),
		failSegs: make(map[document.Location]bool),
	}
}

func (m *mirrorTarget) ApplyText(loc document.Location, segs []document.FormatSegment) error {
	if m.failAll[loc] {
		return errors.New("location rejected")
	}
	if m.failSegs[loc] && (len(segs) > 1 || segs[0].Style != nil) {
		return errors.New("styled write rejected")
	}
	m.applied[loc] = concat(segs)
	return nil
}

func (m *mirrorTarget) ResolveMirrorGroup(document.Location) (*document.MirrorGroup, bool) {
	return nil, false
}

func TestSyncMirror_AllMembersIdentical(t *testing.T) {
	target := newMirrorTarget()
	group := &document.MirrorGroup{
		ID:      "m1",
		Members: []document.Location{"a", "b", "c"},
	}
	segs := []document.FormatSegment{{Text: "Bonjour", Style: style("Arial", false)}}

	report := redistribute.SyncMirror(target, group, "a", segs)

	if len(report.Applied) != 2 || len(report.Failed) != 0 {
		t.Fatalf("report = %+v", report)
	}
	// Origin is written by the caller, not by SyncMirror.
	if _, ok := target.applied["a"]; ok {
		t.Error("origin must not be rewritten")
	}
	if target.applied["b"] != "Bonjour" || target.applied["c"] != "Bonjour" {
		t.Errorf("members differ: %v", target.applied)
	}
}

func TestSyncMirror_PlainTextFallback(t *testing.T) {
	target := newMirrorTarget()
	target.failSegs["b"] = true
	group := &document.MirrorGroup{ID: "m1", Members: []document.Location{"a", "b"}}
	segs := []document.FormatSegment{
		{Text: "Bon", Style: style("Arial", true)},
		{Text: "jour", Style: style("Arial", false)},
	}

	report := redistribute.SyncMirror(target, group, "a", segs)

	if len(report.Applied) != 1 || len(report.Failed) != 0 {
		t.Fatalf("report = %+v", report)
	}
	if target.applied["b"] != "Bonjour" {
		t.Errorf("plain fallback text = %q, want Bonjour", target.applied["b"])
	}
}

func TestSyncMirror_FailureDoesNotStopOthers(t *testing.T) {
	target := newMirrorTarget()
	target.failAll["b"] = true
	group := &document.MirrorGroup{ID: "m1", Members: []document.Location{"a", "b", "c"}}
	segs := []document.FormatSegment{{Text: "Bonjour"}}

	report := redistribute.SyncMirror(target, group, "a", segs)

	if len(report.Failed) != 1 || report.Failed[0] != "b" {
		t.Errorf("Failed = %v, want [b]", report.Failed)
	}
	if len(report.Errs) != 1 {
		t.Errorf("expected 1 recorded error, got %d", len(report.Errs))
	}
	if target.applied["c"] != "Bonjour" {
		t.Error("later members must still be synchronized")
	}
}

func TestSyncMirror_NilGroup(t *testing.T) {
	report := redistribute.SyncMirror(newMirrorTarget(), nil, "a", nil)
	if len(report.Applied) != 0 || len(report.Failed) != 0 {
		t.Errorf("nil group should be a no-op, got %+v", report)
	}
}
