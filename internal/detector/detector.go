// Package detector guesses the language of submitted text so it can be kept
// alongside the request in history. It never influences the prompt.
package detector

import (
	"strings"
	"sync"

	lingua "github.com/pemistahl/lingua-go"
)

// minDetectLength is the rune count below which detection is not attempted.
const minDetectLength = 3

// Detector wraps a lingua detector that is built on first use; building it
// loads the language models.
type Detector struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

func New() *Detector {
	return &Detector{}
}

func (d *Detector) init(preload bool) {
	d.once.Do(func() {
		builder := lingua.NewLanguageDetectorBuilder().FromAllLanguages()
		if preload {
			builder = builder.WithPreloadedLanguageModels()
		}
		d.detector = builder.Build()
	})
}

// Preload builds the detector with every language model loaded up front, so
// the first Detect call does not pay for it. Call it once at startup.
func (d *Detector) Preload() {
	d.init(true)
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < minDetectLength {
		return lingua.Unknown, false
	}
	d.init(false)
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the ISO 639-1 code of the detected language, e.g. "fr".
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
