// Package scoring combines confidence, utilisation, and practice signals into
// a readiness percentage and verdict.
package scoring

import (
	"sort"

	"prepline/internal/models"
)

// Signal weights for the composite score.
const (
	confidenceWeight  = 0.55
	utilisationWeight = 0.25
	practiceWeight    = 0.20
)

// Band maps a minimum percentage to a verdict tier.
type Band struct {
	Verdict    models.Verdict
	MinPercent float64
}

// DefaultBands are the compiled-in verdict cut points. Deployments may
// override them via config; the bottom tier is implicit.
func DefaultBands() []Band {
	return []Band{
		{Verdict: models.VerdictReady, MinPercent: 80},
		{Verdict: models.VerdictAlmostThere, MinPercent: 65},
		{Verdict: models.VerdictNeedsWork, MinPercent: 50},
	}
}

// Score computes the composite readiness percentage and its verdict band.
//
// The confidence signal is the registry-weighted mean of per-category
// confidence. A category present in conf but absent from the registry weights
// participates through an equal-weight fallback rather than being dropped.
// Utilisation is capped at 1.0, so over-spending earns no extra credit. The
// function is pure: identical inputs always produce the identical result.
func Score(conf map[string]float64, weights map[string]float64, unitsSpent, unitsBudget, practiceScore float64, bands []Band) (float64, models.Verdict) {
	cbar := weightedConfidence(conf, weights)

	utilisation := 0.0
	if unitsBudget > 0 {
		utilisation = unitsSpent / unitsBudget
		if utilisation > 1.0 {
			utilisation = 1.0
		}
	}

	practice := practiceScore / 100.0
	if practice < 0 {
		practice = 0
	}
	if practice > 1 {
		practice = 1
	}

	percentage := (confidenceWeight*cbar + utilisationWeight*utilisation + practiceWeight*practice) * 100

	return percentage, verdictFor(percentage, bands)
}

func weightedConfidence(conf map[string]float64, weights map[string]float64) float64 {
	if len(conf) == 0 {
		return 0
	}

	// Deterministic iteration: float accumulation order must not depend on
	// map ordering.
	codes := make([]string, 0, len(conf))
	for code := range conf {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	covered := true
	for _, code := range codes {
		if _, ok := weights[code]; !ok {
			covered = false
			break
		}
	}

	if !covered {
		// Equal-weight fallback: a snapshot category missing from the
		// registry still counts rather than silently vanishing.
		total := 0.0
		for _, code := range codes {
			total += clampUnit(conf[code])
		}
		return total / float64(len(codes))
	}

	weightSum := 0.0
	weighted := 0.0
	for _, code := range codes {
		w := weights[code]
		weightSum += w
		weighted += w * clampUnit(conf[code])
	}
	if weightSum == 0 {
		total := 0.0
		for _, code := range codes {
			total += clampUnit(conf[code])
		}
		return total / float64(len(codes))
	}
	return weighted / weightSum
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func verdictFor(percentage float64, bands []Band) models.Verdict {
	if len(bands) == 0 {
		bands = DefaultBands()
	}
	for _, band := range bands {
		if percentage >= band.MinPercent {
			return band.Verdict
		}
	}
	return models.VerdictNotReady
}

// RatingToConfidence converts a 1–5 self-rating to the [0,1] confidence scale.
func RatingToConfidence(rating int) float64 {
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}
	return float64(rating-1) / 4.0
}

// WeakCategories returns the category codes whose confidence falls below
// threshold, ordered worst first with ties broken by code.
func WeakCategories(conf map[string]float64, threshold float64) []string {
	type weak struct {
		code string
		conf float64
	}
	weaks := make([]weak, 0, len(conf))
	for code, c := range conf {
		if c < threshold {
			weaks = append(weaks, weak{code: code, conf: c})
		}
	}
	sort.Slice(weaks, func(a, b int) bool {
		if weaks[a].conf != weaks[b].conf {
			return weaks[a].conf < weaks[b].conf
		}
		return weaks[a].code < weaks[b].code
	})

	out := make([]string, len(weaks))
	for i, w := range weaks {
		out[i] = w.code
	}
	return out
}
