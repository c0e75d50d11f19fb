package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/practicelearn/course-portal/internal/domain"
	"github.com/practicelearn/course-portal/internal/usecase"
)

func quizContentRepo() *fakeContentRepo {
	return &fakeContentRepo{
		findModule: func(_ context.Context, id string) (*domain.Module, error) {
			return &domain.Module{ID: id, MinTier: domain.TierOnlineOnly}, nil
		},
		listQuestions: func(_ context.Context, moduleID string) ([]domain.Question, error) {
			return []domain.Question{
				{
					ID: "q1", ModuleID: moduleID, Category: "assessment",
					Prompt:      "Which element of TIME addresses non-viable tissue?",
					Options:     []string{"Tissue", "Infection", "Moisture", "Edge"},
					AnswerIndex: 0,
					Rationale:   "T stands for tissue management.",
				},
				{
					ID: "q2", ModuleID: moduleID, Category: "documentation",
					Prompt:      "Depth is measured with:",
					Options:     []string{"A gloved finger", "A sterile probe"},
					AnswerIndex: 1,
					Rationale:   "A sterile probe gives repeatable depth.",
				},
			}, nil
		},
	}
}

func TestQuizStart_StripsAnswerKey(t *testing.T) {
	uc := usecase.NewQuizUsecase(quizContentRepo())

	questions, err := uc.Start(context.Background(), domain.TierOnlineOnly, "wound-assessment")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}
	for _, q := range questions {
		if q.Prompt == "" || len(q.Options) == 0 {
			t.Errorf("question %s missing prompt or options", q.ID)
		}
	}
}

func TestQuizStart_InsufficientTier(t *testing.T) {
	uc := usecase.NewQuizUsecase(quizContentRepo())

	_, err := uc.Start(context.Background(), domain.TierPreview, "wound-assessment")
	if !errors.Is(err, domain.ErrUpgradeRequired) {
		t.Errorf("want ErrUpgradeRequired, got %v", err)
	}
}

func TestQuizSubmit_GradesAgainstServerKey(t *testing.T) {
	uc := usecase.NewQuizUsecase(quizContentRepo())

	result, err := uc.Submit(context.Background(), domain.TierFullCourse, "wound-assessment",
		[]string{"q1", "q2"}, []int{0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 1 || result.Total != 2 {
		t.Errorf("score = %d/%d, want 1/2", result.Score, result.Total)
	}
	if result.Percentage != 50 {
		t.Errorf("percentage = %d, want 50", result.Percentage)
	}
	if len(result.TopWeakCategories) != 1 || result.TopWeakCategories[0] != "documentation" {
		t.Errorf("weak categories = %v, want [documentation]", result.TopWeakCategories)
	}
}

func TestQuizSubmit_UnknownModule(t *testing.T) {
	repo := &fakeContentRepo{
		findModule: func(_ context.Context, _ string) (*domain.Module, error) {
			return nil, domain.ErrModuleNotFound
		},
	}
	uc := usecase.NewQuizUsecase(repo)

	_, err := uc.Submit(context.Background(), domain.TierFullCourse, "missing", nil, nil)
	if !errors.Is(err, domain.ErrModuleNotFound) {
		t.Errorf("want ErrModuleNotFound, got %v", err)
	}
}
