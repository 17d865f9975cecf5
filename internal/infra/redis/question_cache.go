package redis

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"live-mcq-service/internal/app"
	"live-mcq-service/internal/domain"
)

const questionsKey = "mcq:questions"

// QuestionCache is a read-through cache in front of another question
// store. The full ordered list is cached as one JSON blob:
// SET mcq:questions <json> EX <ttl>. Appends write through to the
// inner store and invalidate the blob so the next load is fresh.
type QuestionCache struct {
	client *redis.Client
	inner  app.QuestionStore
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionCache(client *redis.Client, inner app.QuestionStore, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		inner:  inner,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) LoadAll(ctx context.Context) ([]domain.Question, error) {
	if questions, ok := c.cached(ctx); ok {
		return questions, nil
	}

	result, err, _ := c.sf.Do(questionsKey, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		if questions, ok := c.cached(ctx); ok {
			return questions, nil
		}

		questions, err := c.inner.LoadAll(ctx)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(questions); err == nil {
			_ = c.client.Set(ctx, questionsKey, data, c.ttlWithJitter()).Err()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *QuestionCache) Append(ctx context.Context, q domain.Question) (domain.Question, error) {
	stored, err := c.inner.Append(ctx, q)
	if err != nil {
		return domain.Question{}, err
	}
	if err := c.client.Del(ctx, questionsKey).Err(); err != nil {
		// The write-through already succeeded; a stale blob ages out by TTL.
		log.Printf("question cache invalidation failed: %v", err)
	}
	return stored, nil
}

func (c *QuestionCache) cached(ctx context.Context) ([]domain.Question, bool) {
	raw, err := c.client.Get(ctx, questionsKey).Bytes()
	if err != nil {
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, false
	}
	return questions, true
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
