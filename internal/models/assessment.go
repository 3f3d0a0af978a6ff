// internal/models/assessment.go
package models

// ReadinessAssessment is the scored readiness state after a progress check-in.
type ReadinessAssessment struct {
	Percentage     float64  `json:"percentage"`
	Verdict        Verdict  `json:"verdict"`
	WeakCategories []string `json:"weakCategories,omitempty"`
	Nudges         []string `json:"nudges,omitempty"`
}

// Question is one sampled quiz question. Answer is the index into Choices.
type Question struct {
	ID           string   `json:"id"`
	CategoryCode string   `json:"categoryCode"`
	Prompt       string   `json:"prompt"`
	Choices      []string `json:"choices"`
	Answer       int      `json:"answer"`
}

// QuizSheet is the proportionally sampled question set presented at the
// AwaitQuiz gate.
type QuizSheet struct {
	Version   int        `json:"version"`
	Questions []Question `json:"questions"`
}

// QuizSubmission is the human-supplied answer set, keyed by question ID.
type QuizSubmission struct {
	Answers map[string]int `json:"answers"`
}

// AssessmentResult is the graded quiz outcome.
type AssessmentResult struct {
	OverallPercent   float64            `json:"overallPercent"`
	CategoryPercents map[string]float64 `json:"categoryPercents"`
	Passed           bool               `json:"passed"`
	WeakCategories   []string           `json:"weakCategories,omitempty"`
}
