// internal/models/recommendation.go
package models

// Recommendation is the terminal pipeline output. Remediations is non-empty
// exactly when Ready is false.
type Recommendation struct {
	Ready        bool     `json:"ready"`
	NextTarget   string   `json:"nextTarget,omitempty"`
	Checklist    []string `json:"checklist"`
	Remediations []string `json:"remediations,omitempty"`
}
