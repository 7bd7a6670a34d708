// Package validator checks that content is written in its declared locale.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/valpere/prosemark/internal/detector"
	"github.com/valpere/prosemark/internal/locale"
)

// minValidationLength is the minimum rune count required to attempt language detection.
const minValidationLength = 20

// ErrLocaleMismatch is wrapped by errors reporting that the detected
// language differs from the declared locale.
var ErrLocaleMismatch = errors.New("locale mismatch")

// Validator compares declared locales with detected languages. The
// underlying detector is expensive to build; reuse the instance.
type Validator struct {
	det *detector.Detector
}

func New(det *detector.Detector) *Validator {
	if det == nil {
		det = detector.New()
	}
	return &Validator{det: det}
}

// CheckLocale returns true when text appears to be written in the language
// of the locale identifier.
//
// Empty locales, short texts and texts whose language cannot be determined
// pass. Malformed locales fail.
func (v *Validator) CheckLocale(text, id string) (bool, error) {
	if id == "" {
		return true, nil
	}
	tag, err := locale.Parse(id)
	if err != nil {
		return false, fmt.Errorf("invalid locale %q: %w", id, err)
	}
	base, _ := tag.Base()

	text = strings.TrimSpace(text)
	if len([]rune(text)) < minValidationLength {
		return true, nil
	}

	detected, ok := v.det.DetectLocale(text)
	if !ok {
		return true, nil
	}
	if detected != base.String() {
		return false, fmt.Errorf("%w: declared %s but detected %s", ErrLocaleMismatch, id, detected)
	}
	return true, nil
}
