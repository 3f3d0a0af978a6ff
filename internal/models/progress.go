// internal/models/progress.go
package models

// ProgressSnapshot is the human-supplied check-in that releases the
// AwaitProgress gate. PracticeScore is optional; nil means no practice test
// was taken yet.
type ProgressSnapshot struct {
	UnitsSpent    float64        `json:"unitsSpent"`
	SelfRatings   map[string]int `json:"selfRatings"`
	PracticeScore *float64       `json:"practiceScore,omitempty"`
	Notes         string         `json:"notes,omitempty"`
}
