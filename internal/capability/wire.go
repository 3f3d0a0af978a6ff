// internal/capability/wire.go
package capability

import (
	"strings"
	"time"

	"prepline/internal/models"
)

// wireProfile is the JSON shape both remote tiers return. It is decoded
// tolerantly; schema validation happens after mapping.
type wireProfile struct {
	LearnerID   string `json:"learnerId"`
	TargetCode  string `json:"targetCode"`
	Experience  string `json:"experience"`
	Style       string `json:"style"`
	Assessments []struct {
		CategoryCode string  `json:"categoryCode"`
		Confidence   float64 `json:"confidence"`
		Knowledge    string  `json:"knowledge"`
		Skip         bool    `json:"skip"`
		Notes        string  `json:"notes"`
	} `json:"assessments"`
	RiskCategories []string `json:"riskCategories"`
	Summary        string   `json:"summary"`
}

func (w wireProfile) toProfile(backend string) models.Profile {
	p := models.Profile{
		LearnerID:      w.LearnerID,
		TargetCode:     w.TargetCode,
		Experience:     models.ParseExperienceTier(w.Experience),
		Style:          strings.TrimSpace(w.Style),
		RiskCategories: w.RiskCategories,
		Summary:        strings.TrimSpace(w.Summary),
		Meta: models.ProfileMeta{
			Backend:  backend,
			Produced: time.Now().UTC().Format(time.RFC3339),
		},
	}
	for _, a := range w.Assessments {
		p.Assessments = append(p.Assessments, models.CategoryAssessment{
			CategoryCode: a.CategoryCode,
			Confidence:   a.Confidence,
			Knowledge:    models.ParseKnowledgeTier(a.Knowledge),
			Skip:         a.Skip,
			Notes:        strings.TrimSpace(a.Notes),
		})
	}
	return p
}
