// Package classifier decides whether a text fragment extracted from a
// document is worth sending to a translation service. The rules are
// deliberately asymmetric: short ASCII tokens dominate spreadsheets as
// labels, codes, and identifiers, and must not burn API budget.
package classifier

import (
	"regexp"
	"strings"
	"unicode"
)

// Outcome is the classification result for one text fragment.
type Outcome int

const (
	// Skip means the fragment keeps its original text unconditionally.
	Skip Outcome = iota
	// Translatable means the fragment should be submitted for translation.
	Translatable
)

func (o Outcome) String() string {
	if o == Translatable {
		return "translatable"
	}
	return "skip"
}

var (
	reAlphaOnly     = regexp.MustCompile(`^[a-zA-Z]+$`)
	reAlnumToken    = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	reSnakeCase     = regexp.MustCompile(`^[a-zA-Z0-9]+(_[a-zA-Z0-9]+)+$`)
	reCamelCase     = regexp.MustCompile(`^[a-z]+(?:[A-Z][a-z0-9]*)+$`)
	reUnit          = regexp.MustCompile(`(?i)^\d+(?:[.,]\d+)?\s*(mm|cm|m|km|kg|g|ml|l|°C|°F|%|px|pt|em|rem|in|ft)$`)
	reVersion       = regexp.MustCompile(`v\d+\.\d+|ver\.\d+|version\s*\d+`)
	reDate          = regexp.MustCompile(`\d{4}[-/]\d{1,2}[-/]\d{1,2}|\d{1,2}[-/]\d{1,2}[-/]\d{4}`)
	reTime          = regexp.MustCompile(`\d{1,2}:\d{2}(\s*(AM|PM))?`)
	reURLish        = regexp.MustCompile(`https?://|www\.|@.*\.|\.com|\.org|\.net|\.edu`)
	rePathish       = regexp.MustCompile(`[A-Za-z]:\\|/[a-zA-Z]|\.exe|\.dll|\.pdf|\.docx?|\.xlsx?|\.pptx?`)
	reLabel         = regexp.MustCompile(`^[A-Za-z]+\s*\d+$|^\d+\s*[A-Za-z]+$`)
	reCodeFragment  = regexp.MustCompile(`^[A-Z0-9]{2,}$|\d`)
)

// Classify reports whether text should be translated. It is pure and
// deterministic; skip rules are applied in order and the first match wins.
func Classify(text string) Outcome {
	t := strings.TrimSpace(text)
	if t == "" {
		return Skip
	}

	// Purely numeric fragments (prices, percentages, separators) and pure
	// punctuation carry no language. Checked rune-wise: regexp classes like
	// \W are ASCII-oriented in RE2 and would misfire on CJK text.
	if !containsLetter(t) {
		return Skip
	}

	// Very short alphabetic tokens ("OK", "ID", "№" markers).
	if reAlphaOnly.MatchString(t) && len(t) <= 2 {
		return Skip
	}

	// Single tokens that read as identifiers or codes: letters+digits with
	// no separator ("ABC123"), snake_case, camelCase.
	if !strings.ContainsAny(t, " \t") {
		if reAlnumToken.MatchString(t) && !reAlphaOnly.MatchString(t) {
			return Skip
		}
		if reSnakeCase.MatchString(t) || reCamelCase.MatchString(t) {
			return Skip
		}
	}

	// Numbers with measurement units ("12mm", "50 kg").
	if reUnit.MatchString(t) {
		return Skip
	}

	// Version strings, dates, times.
	lower := strings.ToLower(t)
	if reVersion.MatchString(lower) {
		return Skip
	}
	if reDate.MatchString(t) || reTime.MatchString(strings.ToUpper(t)) {
		return Skip
	}

	// URLs, e-mail addresses, file paths.
	if reURLish.MatchString(lower) || rePathish.MatchString(t) {
		return Skip
	}

	// Spreadsheet formulas.
	if strings.HasPrefix(t, "=") {
		return Skip
	}

	// Any non-ASCII character means a foreign script is present.
	if hasNonASCII(t) {
		return Translatable
	}

	words := strings.Fields(t)
	if len(words) >= 2 {
		// Simple labels like "Item 1" or "2 Pages".
		if reLabel.MatchString(t) {
			return Skip
		}
		// Short combinations containing a code fragment ("ID ABC123").
		if len(words) <= 2 && anyCodeFragment(words) {
			return Skip
		}
		// Genuine phrases: at least 3 words, or long enough to be one.
		if len(words) >= 3 || len(t) > 20 {
			return Translatable
		}
		return Skip
	}

	// A lone alphabetic word of 3+ letters ("Hello", "Summary") is a real
	// word, not a code, and is translated.
	if reAlphaOnly.MatchString(t) && len(t) >= 3 {
		return Translatable
	}

	return Skip
}

// ShouldTranslate is a convenience wrapper around Classify.
func ShouldTranslate(text string) bool {
	return Classify(text) == Translatable
}

func hasNonASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return true
		}
	}
	return false
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func anyCodeFragment(words []string) bool {
	for _, w := range words {
		if reCodeFragment.MatchString(w) {
			return true
		}
	}
	return false
}
