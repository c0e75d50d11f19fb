package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/practicelearn/course-portal/internal/domain"
)

type ContentRepository struct {
	pool *pgxpool.Pool
}

func NewContentRepository(pool *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{pool: pool}
}

func (r *ContentRepository) ListModules(ctx context.Context) ([]*domain.Module, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, duration_minutes, points, min_tier, position
		FROM modules ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	var modules []*domain.Module
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

func (r *ContentRepository) FindModule(ctx context.Context, id string) (*domain.Module, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, title, duration_minutes, points, min_tier, position
		FROM modules WHERE id = $1`, id)
	m, err := scanModule(row)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT position, title, body FROM sections
		WHERE module_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.Section
		if err := rows.Scan(&s.Position, &s.Title, &s.Body); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		m.Sections = append(m.Sections, s)
	}
	return m, rows.Err()
}

func (r *ContentRepository) ListQuestions(ctx context.Context, moduleID string) ([]domain.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, module_id, position, category, prompt, options, answer_index, rationale
		FROM questions WHERE module_id = $1 ORDER BY position`, moduleID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		err := rows.Scan(&q.ID, &q.ModuleID, &q.Position, &q.Category,
			&q.Prompt, &q.Options, &q.AnswerIndex, &q.Rationale)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func scanModule(row pgx.Row) (*domain.Module, error) {
	var (
		m        domain.Module
		tierRank int
	)
	err := row.Scan(&m.ID, &m.Title, &m.DurationMinutes, &m.Points, &tierRank, &m.Position)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrModuleNotFound
		}
		return nil, fmt.Errorf("scan module: %w", err)
	}

	m.MinTier, err = domain.TierFromRank(tierRank)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
