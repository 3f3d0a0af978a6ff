// internal/models/profile.go
package models

// CategoryWeight is one weighted sub-topic within a target. Weights for a
// target sum to 1.0.
type CategoryWeight struct {
	Code   string  `json:"code"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

// CategoryAssessment is the profiled state of one category for one learner.
type CategoryAssessment struct {
	CategoryCode string        `json:"categoryCode"`
	Confidence   float64       `json:"confidence"`
	Knowledge    KnowledgeTier `json:"knowledge"`
	Skip         bool          `json:"skip,omitempty"`
	Notes        string        `json:"notes,omitempty"`
}

// ProfileMeta records provenance: which capability tier produced the profile
// and against which backend.
type ProfileMeta struct {
	Tier     CapabilityTier `json:"tier"`
	Backend  string         `json:"backend,omitempty"`
	Produced string         `json:"produced,omitempty"`
}

// Profile is the profiled learner, produced once per run by the capability
// resolver and never mutated afterwards.
type Profile struct {
	LearnerID      string               `json:"learnerId"`
	TargetCode     string               `json:"targetCode"`
	Experience     ExperienceTier       `json:"experience"`
	Style          string               `json:"style,omitempty"`
	Assessments    []CategoryAssessment `json:"assessments"`
	RiskCategories []string             `json:"riskCategories,omitempty"`
	Summary        string               `json:"summary,omitempty"`
	Meta           ProfileMeta          `json:"meta"`
}

// ConfidenceByCategory flattens the assessments into a confidence lookup.
func (p Profile) ConfidenceByCategory() map[string]float64 {
	out := make(map[string]float64, len(p.Assessments))
	for _, a := range p.Assessments {
		out[a.CategoryCode] = a.Confidence
	}
	return out
}

// WithLoweredConfidence returns a copy of the profile in which the named
// categories have their confidence reduced to at most ceiling. Used by the
// remediation loop; the original profile is left untouched.
func (p Profile) WithLoweredConfidence(categories []string, ceiling float64) Profile {
	lowered := make(map[string]bool, len(categories))
	for _, c := range categories {
		lowered[c] = true
	}

	out := p
	out.Assessments = make([]CategoryAssessment, len(p.Assessments))
	copy(out.Assessments, p.Assessments)
	for i := range out.Assessments {
		if lowered[out.Assessments[i].CategoryCode] && out.Assessments[i].Confidence > ceiling {
			out.Assessments[i].Confidence = ceiling
		}
	}

	out.RiskCategories = make([]string, 0, len(p.RiskCategories)+len(categories))
	out.RiskCategories = append(out.RiskCategories, p.RiskCategories...)
	for _, c := range categories {
		found := false
		for _, existing := range p.RiskCategories {
			if existing == c {
				found = true
				break
			}
		}
		if !found {
			out.RiskCategories = append(out.RiskCategories, c)
		}
	}
	return out
}
