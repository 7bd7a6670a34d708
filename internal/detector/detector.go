// Package detector guesses the language of plain text for locale
// auto-detection.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// minConfidence is the lowest confidence DetectLocale accepts.
const minConfidence = 0.5

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector over the given languages, or over every language
// lingua knows when none are given. Building is expensive; reuse the result.
func New(languages ...lingua.Language) *Detector {
	builder := lingua.NewLanguageDetectorBuilder()
	var detector lingua.LanguageDetector
	if len(languages) >= 2 {
		detector = builder.FromLanguages(languages...).Build()
	} else {
		detector = builder.FromAllLanguages().Build()
	}
	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the ISO 639-1 code in upper case, as lingua prints it.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return lang.IsoCode639_1().String(), true
}

// DetectLocale returns a lower-case ISO 639-1 code usable as a locale
// identifier. It fails when the top candidate's confidence is too low.
func (d *Detector) DetectLocale(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	if d.detector.ComputeLanguageConfidence(text, lang) < minConfidence {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
