// Package guardrail evaluates named validation rules at pipeline stage
// boundaries. The engine is side-effect-free: it never logs and never halts
// execution; the orchestrator interprets the Result.
package guardrail

import (
	"fmt"

	"prepline/internal/models"
)

// Stage names used to group rules.
const (
	StageInput    = "input"
	StageProfile  = "profile"
	StagePlan     = "plan"
	StageProgress = "progress"
	StageQuiz     = "quiz"
)

// Rule is a named pure predicate evaluated against a stage subject. A rule
// may report any number of violations; nil means the rule passed.
type Rule struct {
	Code  string
	Check func(subject interface{}) []models.Violation
}

// Result is the outcome of evaluating every rule registered for a stage.
type Result struct {
	Violations []models.Violation
}

// Blocked reports whether any violation carries BLOCK severity.
func (r Result) Blocked() bool {
	for _, v := range r.Violations {
		if v.Severity == models.SeverityBlock {
			return true
		}
	}
	return false
}

// Warnings returns the WARN-severity subset.
func (r Result) Warnings() []models.Violation {
	var out []models.Violation
	for _, v := range r.Violations {
		if v.Severity == models.SeverityWarn {
			out = append(out, v)
		}
	}
	return out
}

// Engine is a registry of rules grouped by stage.
type Engine struct {
	rules map[string][]Rule
}

func NewEngine() *Engine {
	return &Engine{rules: make(map[string][]Rule)}
}

// Register appends a rule to a stage's rule set. Registration order is
// evaluation order.
func (e *Engine) Register(stage string, rule Rule) {
	e.rules[stage] = append(e.rules[stage], rule)
}

// Evaluate runs every rule registered for the stage and concatenates the
// violations. There is no short-circuiting; the full violation set is always
// visible for audit.
func (e *Engine) Evaluate(stage string, subject interface{}) Result {
	var violations []models.Violation
	for _, rule := range e.rules[stage] {
		violations = append(violations, rule.Check(subject)...)
	}
	return Result{Violations: violations}
}

// typedRule wraps a typed check so that a subject of the wrong type surfaces
// loudly as a BLOCK instead of being silently skipped.
func typedRule[T any](code string, check func(T) []models.Violation) Rule {
	return Rule{
		Code: code,
		Check: func(subject interface{}) []models.Violation {
			s, ok := subject.(T)
			if !ok {
				return []models.Violation{{
					RuleCode: code,
					Severity: models.SeverityBlock,
					Message:  fmt.Sprintf("unexpected subject type %T", subject),
				}}
			}
			return check(s)
		},
	}
}

func block(code, field, message string) models.Violation {
	return models.Violation{RuleCode: code, Severity: models.SeverityBlock, Message: message, Field: field}
}

func warn(code, field, message string) models.Violation {
	return models.Violation{RuleCode: code, Severity: models.SeverityWarn, Message: message, Field: field}
}
