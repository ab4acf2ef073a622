package validator

import (
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/kptbarbarossa/validationly-sub003/pkg/errors"
)

// unsafePattern catches script injection attempts before markup is stripped.
var unsafePattern = regexp.MustCompile(`(?i)<script|javascript:|\bon\w+\s*=`)

var controlCharsPattern = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

var horizontalSpacePattern = regexp.MustCompile(`[ \t]+`)

type Bounds struct {
	Min int
	Max int
}

// Validator enforces the idea-text contract. The bounds are configuration, not constants
// of the domain: stricter and looser endpoints construct their own Validator.
type Validator struct {
	bounds Bounds
	field  string
}

func New(bounds Bounds) *Validator {
	return &Validator{bounds: bounds, field: "idea"}
}

// Validate returns the sanitized text or a *errors.ValidationError.
func (v *Validator) Validate(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", errors.NewValidationError("Idea or content is required", errors.ValidationMissing, v.field, text)
	}
	if unsafePattern.MatchString(trimmed) {
		return "", errors.NewValidationError("Input contains potentially unsafe content", errors.ValidationUnsafe, v.field, nil)
	}

	clean := Sanitize(trimmed)
	length := utf8.RuneCountInString(clean)
	switch {
	case length == 0:
		return "", errors.NewValidationError("Idea or content is required", errors.ValidationMissing, v.field, text)
	case length < v.bounds.Min:
		return "", errors.NewValidationError(
			fmt.Sprintf("Content must be at least %d characters long", v.bounds.Min),
			errors.ValidationTooShort, v.field, length)
	case length > v.bounds.Max:
		return "", errors.NewValidationError(
			fmt.Sprintf("Content must be less than %d characters", v.bounds.Max),
			errors.ValidationTooLong, v.field, length)
	}

	return clean, nil
}

// ValidateFirst validates the candidates in order and returns the first that passes.
// Candidates that are blank or below the minimum length are skipped; when none
// remain the request counts as missing its input. Any other failure is returned
// as is.
func (v *Validator) ValidateFirst(candidates ...string) (string, error) {
	for _, candidate := range candidates {
		clean, err := v.Validate(candidate)
		if err == nil {
			return clean, nil
		}
		var verr *errors.ValidationError
		if stderrors.As(err, &verr) && (verr.Kind == errors.ValidationMissing || verr.Kind == errors.ValidationTooShort) {
			continue
		}
		return "", err
	}
	return "", errors.NewValidationError("Idea or content is required", errors.ValidationMissing, v.field, nil)
}

// Sanitize strips HTML markup and control characters and collapses runs of spaces.
// Line breaks survive so multi-line ideas keep their shape.
func Sanitize(text string) string {
	if strings.ContainsAny(text, "<>&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
			text = doc.Text()
		}
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = controlCharsPattern.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalSpacePattern.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
