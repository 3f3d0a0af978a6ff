// Package registry maps a target-category code to its weighted category list.
package registry

import (
	"encoding/json"
	"math"
	"os"
	"sort"

	"prepline/internal/common/errors"
	"prepline/internal/models"
)

// WeightTolerance is the allowed deviation of a target's weight sum from 1.0.
const WeightTolerance = 0.01

// Provider supplies the per-target category weights. Implementations must
// answer freshly per call; targets vary per run so process-start caching of
// the resolved list is not allowed.
type Provider interface {
	GetCategoryWeights(targetCode string) ([]models.CategoryWeight, error)
	Targets() []string
}

// Static is a Provider backed by an in-memory table.
type Static struct {
	targets map[string][]models.CategoryWeight
}

// NewStatic builds a Static provider, validating every target's weight sum.
func NewStatic(targets map[string][]models.CategoryWeight) (*Static, error) {
	for code, weights := range targets {
		if err := validateWeights(code, weights); err != nil {
			return nil, err
		}
	}
	return &Static{targets: targets}, nil
}

func (s *Static) GetCategoryWeights(targetCode string) ([]models.CategoryWeight, error) {
	weights, ok := s.targets[targetCode]
	if !ok {
		return nil, errors.NewRegistryUnknownTargetError(targetCode)
	}
	out := make([]models.CategoryWeight, len(weights))
	copy(out, weights)
	return out, nil
}

func (s *Static) Targets() []string {
	out := make([]string, 0, len(s.targets))
	for code := range s.targets {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// registryFile is the on-disk registry format.
type registryFile struct {
	Version string `json:"version"`
	Targets []struct {
		Code       string                  `json:"code"`
		Label      string                  `json:"label"`
		Categories []models.CategoryWeight `json:"categories"`
	} `json:"targets"`
}

// LoadFile reads a registry from a JSON file and validates it.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file registryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	targets := make(map[string][]models.CategoryWeight, len(file.Targets))
	for _, t := range file.Targets {
		targets[t.Code] = t.Categories
	}
	return NewStatic(targets)
}

// Default returns the compiled-in registry used when no registry file is
// configured.
func Default() *Static {
	s, err := NewStatic(defaultTargets())
	if err != nil {
		// The compiled-in table is validated by tests; a bad sum here is a
		// build defect, not a runtime condition.
		panic(err)
	}
	return s
}

func validateWeights(targetCode string, weights []models.CategoryWeight) error {
	sum := 0.0
	for _, w := range weights {
		sum += w.Weight
	}
	if math.Abs(sum-1.0) > WeightTolerance {
		return errors.NewRegistryBadWeightsError(targetCode, sum)
	}
	return nil
}

func defaultTargets() map[string][]models.CategoryWeight {
	return map[string][]models.CategoryWeight{
		"backend-developer": {
			{Code: "apis", Label: "API Design & HTTP Services", Weight: 0.225},
			{Code: "databases", Label: "Databases & Data Modeling", Weight: 0.225},
			{Code: "concurrency", Label: "Concurrency & Distributed Basics", Weight: 0.175},
			{Code: "testing", Label: "Testing & Quality", Weight: 0.175},
			{Code: "security", Label: "Security Fundamentals", Weight: 0.10},
			{Code: "observability", Label: "Observability & Operations", Weight: 0.10},
		},
		"cloud-architect": {
			{Code: "compute", Label: "Compute & Networking", Weight: 0.25},
			{Code: "storage", Label: "Storage & Databases", Weight: 0.20},
			{Code: "security", Label: "Identity & Security", Weight: 0.20},
			{Code: "resilience", Label: "Resilience & Scaling", Weight: 0.20},
			{Code: "cost", Label: "Cost Optimization", Weight: 0.15},
		},
		"data-engineer": {
			{Code: "pipelines", Label: "Pipelines & Orchestration", Weight: 0.30},
			{Code: "warehousing", Label: "Warehousing & Modeling", Weight: 0.25},
			{Code: "streaming", Label: "Streaming Systems", Weight: 0.20},
			{Code: "quality", Label: "Data Quality & Testing", Weight: 0.15},
			{Code: "governance", Label: "Governance & Security", Weight: 0.10},
		},
	}
}
