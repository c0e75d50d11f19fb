// Package quiz strips answer keys for delivery and grades submissions
// against the authoritative key. Correctness is always re-derived server
// side; nothing the client sends is trusted beyond the selected index.
package quiz

import (
	"errors"

	"github.com/practicelearn/course-portal/internal/domain"
)

var (
	ErrAnswerCountMismatch = errors.New("question and answer counts differ")
	ErrUnknownQuestion     = errors.New("unknown question id")
)

// SafeQuestion is the only question shape allowed to leave the server
// before submission: no answer index, no rationale.
type SafeQuestion struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Prompt   string   `json:"prompt"`
	Options  []string `json:"options"`
}

// Strip converts authoritative questions into their deliverable form.
func Strip(questions []domain.Question) []SafeQuestion {
	out := make([]SafeQuestion, 0, len(questions))
	for _, q := range questions {
		out = append(out, SafeQuestion{
			ID:       q.ID,
			Category: q.Category,
			Prompt:   q.Prompt,
			Options:  q.Options,
		})
	}
	return out
}

type QuestionResult struct {
	QuestionID  string `json:"question_id"`
	Correct     bool   `json:"correct"`
	AnswerIndex int    `json:"answer_index"`
	Rationale   string `json:"rationale"`
}

type Result struct {
	Score             int              `json:"score"`
	Total             int              `json:"total"`
	Percentage        int              `json:"percentage"`
	PerQuestion       []QuestionResult `json:"per_question"`
	TopWeakCategories []string         `json:"top_weak_categories"`
}

// Grade scores a submission. questionIDs and answers are parallel slices;
// a length mismatch or a question id not in the module is a malformed
// submission. Weak categories are ranked by miss count, ties broken by the
// order in which each category first appears in the module's question list.
func Grade(questions []domain.Question, questionIDs []string, answers []int) (*Result, error) {
	if len(questionIDs) != len(answers) {
		return nil, ErrAnswerCountMismatch
	}

	byID := make(map[string]domain.Question, len(questions))
	categoryOrder := make(map[string]int)
	for i, q := range questions {
		byID[q.ID] = q
		if _, seen := categoryOrder[q.Category]; !seen {
			categoryOrder[q.Category] = i
		}
	}

	res := &Result{
		Total:       len(questionIDs),
		PerQuestion: make([]QuestionResult, 0, len(questionIDs)),
	}
	misses := make(map[string]int)

	for i, id := range questionIDs {
		q, ok := byID[id]
		if !ok {
			return nil, ErrUnknownQuestion
		}
		correct := answers[i] == q.AnswerIndex
		if correct {
			res.Score++
		} else {
			misses[q.Category]++
		}
		res.PerQuestion = append(res.PerQuestion, QuestionResult{
			QuestionID:  q.ID,
			Correct:     correct,
			AnswerIndex: q.AnswerIndex,
			Rationale:   q.Rationale,
		})
	}

	if res.Total > 0 {
		res.Percentage = res.Score * 100 / res.Total
	}
	res.TopWeakCategories = rankWeakCategories(misses, categoryOrder)

	return res, nil
}

func rankWeakCategories(misses map[string]int, order map[string]int) []string {
	ranked := make([]string, 0, len(misses))
	for cat := range misses {
		ranked = append(ranked, cat)
	}
	// Insertion sort keeps the tie-break explicit: more misses first, then
	// first-encountered category order.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0; j-- {
			a, b := ranked[j-1], ranked[j]
			if misses[b] > misses[a] || (misses[b] == misses[a] && order[b] < order[a]) {
				ranked[j-1], ranked[j] = b, a
			} else {
				break
			}
		}
	}
	return ranked
}
