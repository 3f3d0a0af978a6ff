// internal/models/input.go
package models

// RawInput is the learner-supplied intake form. It is the only object in the
// pipeline that arrives unvalidated; the intake guardrails run before anything
// downstream sees it.
type RawInput struct {
	LearnerID        string   `json:"learnerId"`
	TargetCode       string   `json:"targetCode"`
	Background       string   `json:"background"`
	PriorCredentials []string `json:"priorCredentials,omitempty"`
	HoursPerWeek     float64  `json:"hoursPerWeek"`
	DurationWeeks    int      `json:"durationWeeks"`
	Concerns         []string `json:"concerns,omitempty"`
	StylePreference  string   `json:"stylePreference,omitempty"`
	Goal             string   `json:"goal,omitempty"`
	Contact          string   `json:"contact,omitempty"`
}

// TotalUnits is the study-hour budget implied by the intake rate and duration.
func (r RawInput) TotalUnits() int {
	return int(r.HoursPerWeek * float64(r.DurationWeeks))
}
