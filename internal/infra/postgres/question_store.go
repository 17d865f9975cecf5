package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"live-mcq-service/internal/domain"
)

// QuestionStore persists questions as JSONB rows ordered by insertion.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

func (s *QuestionStore) LoadAll(ctx context.Context) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM questions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		var q domain.Question
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, fmt.Errorf("unmarshal question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	return questions, nil
}

func (s *QuestionStore) Append(ctx context.Context, q domain.Question) (domain.Question, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	data, err := json.Marshal(q)
	if err != nil {
		return domain.Question{}, fmt.Errorf("marshal question: %w", err)
	}
	if _, err := s.pool.Exec(ctx, `INSERT INTO questions (id, data) VALUES ($1, $2)`, q.ID, data); err != nil {
		return domain.Question{}, fmt.Errorf("insert question: %w", err)
	}
	return q, nil
}
