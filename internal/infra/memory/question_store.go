package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"live-mcq-service/internal/domain"
)

// QuestionStore keeps the ordered question list in process memory.
// Useful standalone for demos and as the inner store behind the Redis
// cache in tests.
type QuestionStore struct {
	mu        sync.RWMutex
	questions []domain.Question
}

// NewQuestionStore seeds the store; questions without an id get one.
func NewQuestionStore(seed []domain.Question) *QuestionStore {
	questions := make([]domain.Question, len(seed))
	copy(questions, seed)
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
	}
	return &QuestionStore{questions: questions}
}

func (s *QuestionStore) LoadAll(_ context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Question, len(s.questions))
	copy(out, s.questions)
	return out, nil
}

func (s *QuestionStore) Append(_ context.Context, q domain.Question) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	s.questions = append(s.questions, q)
	return q, nil
}

// SampleQuestions returns the demo set served when no datastore is
// configured.
func SampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:            "q-capital-france",
			Text:          "What is the capital of France?",
			Options:       []string{"Paris", "Berlin", "Rome", "Madrid"},
			CorrectOption: 0,
		},
		{
			ID:            "q-red-planet",
			Text:          "Which planet is known as the Red Planet?",
			Options:       []string{"Earth", "Mars", "Jupiter", "Saturn"},
			CorrectOption: 1,
		},
	}
}
