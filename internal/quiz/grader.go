// internal/quiz/grader.go
package quiz

import (
	"sort"

	"prepline/internal/models"
)

// Grade scores a submission against a sheet. Unanswered questions count as
// wrong. A category scoring below passPercent is weak; weak categories come
// back worst first, ties broken by code.
func Grade(sheet models.QuizSheet, submission models.QuizSubmission, passPercent float64) models.AssessmentResult {
	type tally struct {
		correct int
		total   int
	}
	byCategory := make(map[string]*tally)

	correct := 0
	for _, q := range sheet.Questions {
		t := byCategory[q.CategoryCode]
		if t == nil {
			t = &tally{}
			byCategory[q.CategoryCode] = t
		}
		t.total++

		if answer, ok := submission.Answers[q.ID]; ok && answer == q.Answer {
			t.correct++
			correct++
		}
	}

	result := models.AssessmentResult{
		CategoryPercents: make(map[string]float64, len(byCategory)),
	}
	if len(sheet.Questions) > 0 {
		result.OverallPercent = float64(correct) / float64(len(sheet.Questions)) * 100
	}
	result.Passed = result.OverallPercent >= passPercent

	for code, t := range byCategory {
		result.CategoryPercents[code] = float64(t.correct) / float64(t.total) * 100
	}

	for code, pct := range result.CategoryPercents {
		if pct < passPercent {
			result.WeakCategories = append(result.WeakCategories, code)
		}
	}
	sort.Slice(result.WeakCategories, func(i, j int) bool {
		a, b := result.WeakCategories[i], result.WeakCategories[j]
		if result.CategoryPercents[a] != result.CategoryPercents[b] {
			return result.CategoryPercents[a] < result.CategoryPercents[b]
		}
		return a < b
	})

	return result
}
