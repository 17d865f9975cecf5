package app

import (
	"context"
	"fmt"

	"live-mcq-service/internal/domain"
)

// QuestionStore abstracts where questions live (memory, Postgres,
// Redis-cached). LoadAll seeds the session at startup; Append assigns
// an id and persists an authored question.
type QuestionStore interface {
	LoadAll(ctx context.Context) ([]domain.Question, error)
	Append(ctx context.Context, q domain.Question) (domain.Question, error)
}

// QuizService composes the live session with question persistence. The
// authoring endpoint goes through here so a new question is stored and
// visible to the running session in one step.
type QuizService struct {
	session *Session
	store   QuestionStore
}

func NewQuizService(session *Session, store QuestionStore) *QuizService {
	return &QuizService{session: session, store: store}
}

// Session exposes the coordinator to transports.
func (s *QuizService) Session() *Session {
	return s.session
}

// AddQuestion validates, persists, and publishes a question.
func (s *QuizService) AddQuestion(ctx context.Context, q domain.Question) (domain.Question, error) {
	if !q.Valid() {
		return domain.Question{}, domain.ErrInvalidQuestion
	}
	stored, err := s.store.Append(ctx, q)
	if err != nil {
		return domain.Question{}, fmt.Errorf("append question: %w", err)
	}
	s.session.AppendQuestion(stored)
	return stored, nil
}
