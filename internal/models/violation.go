// internal/models/violation.go
package models

import "fmt"

// Violation is one guardrail rule outcome.
type Violation struct {
	RuleCode string   `json:"ruleCode"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Field    string   `json:"field,omitempty"`
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s: %s", v.Severity, v.RuleCode, v.Message)
}
