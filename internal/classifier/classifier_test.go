package classifier_test

import (
	"testing"

	"github.com/valpere/doctran/internal/classifier"
)

func TestClassify_SkipRules(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace only", "   \t  "},
		{"pure number", "12345"},
		{"decimal", "3.14"},
		{"negative percent", "-15%"},
		{"punctuation only", "---"},
		{"symbols only", "***"},
		{"two letter token", "OK"},
		{"single letter", "X"},
		{"alnum code", "ABC123"},
		{"snake case", "order_id"},
		{"camel case", "totalAmount"},
		{"unit mm", "12mm"},
		{"unit spaced", "50 kg"},
		{"version", "v1.2"},
		{"iso date", "2024-01-15"},
		{"slash date", "15/01/2024"},
		{"time", "14:30"},
		{"url", "https://example.com"},
		{"www", "www.example.org"},
		{"email", "user@example.com"},
		{"windows path", `C:\data\report.xlsx`},
		{"file extension", "report.pdf"},
		{"formula", "=SUM(A1:A10)"},
		{"label word number", "Item 1"},
		{"label number word", "2 Pages"},
		{"two word with code", "ID ABC123"},
		{"two short words", "see above"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.Classify(tt.text); got != classifier.Skip {
				t.Errorf("Classify(%q) = %v, want skip", tt.text, got)
			}
		})
	}
}

func TestClassify_Translatable(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"single real word", "Hello"},
		{"capitalized word", "Summary"},
		{"three word phrase", "Please review this"},
		{"long two word phrase", "Extraordinary circumstances apply"},
		{"sentence", "The quarterly report is attached."},
		{"chinese", "你好"},
		{"japanese", "こんにちは"},
		{"cyrillic", "Привіт"},
		{"thai", "สวัสดี"},
		{"accented", "Café au lait"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.Classify(tt.text); got != classifier.Translatable {
				t.Errorf("Classify(%q) = %v, want translatable", tt.text, got)
			}
		})
	}
}

// The classifier must be a pure function: same input, same outcome.
func TestClassify_Deterministic(t *testing.T) {
	inputs := []string{"Hello", "12345", "你好", "ID ABC123", "", "The quarterly report"}
	for _, in := range inputs {
		first := classifier.Classify(in)
		for i := 0; i < 10; i++ {
			if got := classifier.Classify(in); got != first {
				t.Fatalf("Classify(%q) changed from %v to %v on repeat call", in, first, got)
			}
		}
	}
}

func TestShouldTranslate(t *testing.T) {
	if !classifier.ShouldTranslate("Hello") {
		t.Error("expected Hello to be translatable")
	}
	if classifier.ShouldTranslate("12345") {
		t.Error("expected 12345 to be skipped")
	}
}
