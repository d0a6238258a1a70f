// Package detector wraps lingua-go for source-language auto-detection.
// Building the detector is expensive; construct once and reuse.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	d := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		Build()
	return &Detector{detector: d}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the ISO 639-1 code of the detected language.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// DetectFromSamples joins up to maxSamples fragments and detects the
// dominant language of the whole. Documents rarely mix sources, so a
// pooled sample is both cheaper and more reliable than per-fragment
// detection.
func (d *Detector) DetectFromSamples(samples []string, maxSamples int) (string, bool) {
	if maxSamples <= 0 {
		maxSamples = 50
	}
	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	pooled := strings.TrimSpace(strings.Join(samples, " "))
	if pooled == "" {
		return "", false
	}
	return d.DetectISO(pooled)
}
