// Package quiz turns the category weighting of a target into a verification
// quiz: questions are sampled from a bank in proportion to category weight,
// and graded against a configurable pass threshold.
package quiz

import (
	"hash/fnv"
	"math/rand"
	"sort"

	"prepline/internal/allocation"
	"prepline/internal/models"
)

// Sampler draws questions from a category-keyed bank.
type Sampler struct {
	bank map[string][]models.Question
}

func NewSampler(bank map[string][]models.Question) *Sampler {
	if bank == nil {
		bank = DefaultBank()
	}
	return &Sampler{bank: bank}
}

// Sample apportions questionCount across the categories that carry weight and
// have bank coverage, reusing the study-plan apportionment so every active
// category gets at least one question. The seed makes the draw reproducible:
// the same seed and weights always yield the same sheet, in category order.
// A category allocated more questions than its pool holds contributes its
// whole pool.
func (s *Sampler) Sample(weights []models.CategoryWeight, questionCount int, seed string) (models.QuizSheet, error) {
	var active []models.CategoryWeight
	for _, w := range weights {
		if w.Weight > 0 && len(s.bank[w.Code]) > 0 {
			active = append(active, w)
		}
	}
	if len(active) == 0 {
		return models.QuizSheet{Version: 1}, nil
	}

	values := make([]float64, len(active))
	for i, w := range active {
		values[i] = w.Weight
	}
	counts, err := allocation.Allocate(values, questionCount, 1)
	if err != nil {
		return models.QuizSheet{}, err
	}

	sheet := models.QuizSheet{Version: 1}
	for i, w := range active {
		pool := s.bank[w.Code]
		n := counts[i]
		if n > len(pool) {
			n = len(pool)
		}
		sheet.Questions = append(sheet.Questions, pick(pool, n, seed+"/"+w.Code)...)
	}
	return sheet, nil
}

// pick selects n questions from the pool in a seeded shuffle order, then
// restores ID order within the selection so the sheet layout is stable.
func pick(pool []models.Question, n int, seed string) []models.Question {
	order := rand.New(rand.NewSource(seedValue(seed))).Perm(len(pool))

	selected := make([]models.Question, 0, n)
	for _, idx := range order[:n] {
		selected = append(selected, pool[idx])
	}
	sort.Slice(selected, func(i, j int) bool { return selected[i].ID < selected[j].ID })
	return selected
}

func seedValue(seed string) int64 {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return int64(h.Sum64())
}
