// internal/guardrail/content.go
package guardrail

import (
	"regexp"
	"strings"

	"prepline/internal/models"
)

// Screener classifies free text. Implementations return BLOCK violations for
// disallowed content and WARN violations for sensitive-looking patterns.
type Screener interface {
	Screen(field, text string) []models.Violation
}

// patternScreener is the default rule-based screener. It blocks a small term
// list and warns on substrings shaped like structured identifiers.
type patternScreener struct {
	blockedTerms []string
	sensitive    []*regexp.Regexp
}

var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),             // SSN-shaped
	regexp.MustCompile(`\b(?:\d[ -]?){15,16}\b`),            // card-number-shaped
	regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`),  // IBAN-shaped
}

func NewPatternScreener(blockedTerms []string) Screener {
	terms := make([]string, len(blockedTerms))
	for i, t := range blockedTerms {
		terms[i] = strings.ToLower(t)
	}
	return &patternScreener{
		blockedTerms: terms,
		sensitive:    sensitivePatterns,
	}
}

// DefaultScreener blocks exam-fraud solicitations, the one content category
// the pipeline refuses outright.
func DefaultScreener() Screener {
	return NewPatternScreener([]string{
		"take the exam for me",
		"sit the exam for me",
		"leaked exam questions",
		"braindump",
	})
}

func (s *patternScreener) Screen(field, text string) []models.Violation {
	if text == "" {
		return nil
	}

	var out []models.Violation
	lowered := strings.ToLower(text)
	for _, term := range s.blockedTerms {
		if strings.Contains(lowered, term) {
			out = append(out, block("CONTENT_DISALLOWED", field, "text contains disallowed content"))
			break
		}
	}

	for _, pattern := range s.sensitive {
		if pattern.MatchString(text) {
			out = append(out, warn("CONTENT_SENSITIVE_PATTERN", field, "text contains a structured-identifier-looking substring"))
			break
		}
	}

	return out
}
