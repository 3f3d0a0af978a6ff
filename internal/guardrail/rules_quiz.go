// internal/guardrail/rules_quiz.go
package guardrail

import (
	"fmt"

	"prepline/internal/models"
)

// RegisterQuizRules installs the G-quiz rule family, covering both the
// sampled sheet and the learner's submission.
func RegisterQuizRules(e *Engine) {
	e.Register(StageQuiz, typedRule("QUIZ_DUPLICATE_QUESTION", func(s QuizSubject) []models.Violation {
		seen := make(map[string]bool, len(s.Sheet.Questions))
		var out []models.Violation
		for _, q := range s.Sheet.Questions {
			if seen[q.ID] {
				out = append(out, block("QUIZ_DUPLICATE_QUESTION", "questions",
					fmt.Sprintf("question %q sampled more than once", q.ID)))
			}
			seen[q.ID] = true
		}
		return out
	}))

	e.Register(StageQuiz, typedRule("QUIZ_QUESTION_SHAPE", func(s QuizSubject) []models.Violation {
		var out []models.Violation
		for _, q := range s.Sheet.Questions {
			if len(q.Choices) < 2 {
				out = append(out, block("QUIZ_QUESTION_SHAPE", "questions",
					fmt.Sprintf("question %q has fewer than two choices", q.ID)))
				continue
			}
			if q.Answer < 0 || q.Answer >= len(q.Choices) {
				out = append(out, block("QUIZ_QUESTION_SHAPE", "questions",
					fmt.Sprintf("question %q answer index out of range", q.ID)))
			}
		}
		return out
	}))

	e.Register(StageQuiz, typedRule("QUIZ_ANSWER_MEMBERSHIP", func(s QuizSubject) []models.Violation {
		if s.Submission == nil {
			return nil
		}
		known := make(map[string]int, len(s.Sheet.Questions))
		for _, q := range s.Sheet.Questions {
			known[q.ID] = len(q.Choices)
		}
		var out []models.Violation
		for id, choice := range s.Submission.Answers {
			choices, ok := known[id]
			if !ok {
				out = append(out, block("QUIZ_ANSWER_MEMBERSHIP", "answers",
					fmt.Sprintf("answer references unknown question %q", id)))
				continue
			}
			if choice < 0 || choice >= choices {
				out = append(out, block("QUIZ_ANSWER_MEMBERSHIP", "answers",
					fmt.Sprintf("answer for question %q selects choice %d out of range", id, choice)))
			}
		}
		return out
	}))
}
