package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/practicelearn/course-portal/internal/domain"
	"github.com/practicelearn/course-portal/internal/policy"
	"github.com/practicelearn/course-portal/internal/quiz"
	"github.com/practicelearn/course-portal/internal/repository"
)

type QuizUsecase struct {
	content repository.ContentRepository
}

func NewQuizUsecase(content repository.ContentRepository) *QuizUsecase {
	return &QuizUsecase{content: content}
}

func (u *QuizUsecase) gate(ctx context.Context, tier domain.Tier, moduleID string) error {
	m, err := u.content.FindModule(ctx, moduleID)
	if err != nil {
		if errors.Is(err, domain.ErrModuleNotFound) {
			return domain.ErrModuleNotFound
		}
		return fmt.Errorf("find module: %w", err)
	}

	d, err := policy.CanReadModule(tier, m.MinTier)
	if err != nil {
		return domain.ErrUnauthorized
	}
	if !d.Allowed {
		return domain.ErrUpgradeRequired
	}
	return nil
}

// Start returns the module's questions with the answer key and rationale
// stripped before serialization. Filtering happens here, never client-side.
func (u *QuizUsecase) Start(ctx context.Context, tier domain.Tier, moduleID string) ([]quiz.SafeQuestion, error) {
	if err := u.gate(ctx, tier, moduleID); err != nil {
		return nil, err
	}

	questions, err := u.content.ListQuestions(ctx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return quiz.Strip(questions), nil
}

// Submit grades a submission against the authoritative answer key.
func (u *QuizUsecase) Submit(ctx context.Context, tier domain.Tier, moduleID string, questionIDs []string, answers []int) (*quiz.Result, error) {
	if err := u.gate(ctx, tier, moduleID); err != nil {
		return nil, err
	}

	questions, err := u.content.ListQuestions(ctx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return quiz.Grade(questions, questionIDs, answers)
}
