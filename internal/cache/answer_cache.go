package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"veridoc/internal/model"
)

// AnswerCache stores shaped query results keyed by normalized question text,
// so repeated questions skip the full pipeline within the TTL window.
type AnswerCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewAnswerCache(client *redisv9.Client, ttl time.Duration) *AnswerCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AnswerCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *AnswerCache) Get(ctx context.Context, question string, k int) (*model.QueryResult, bool, error) {
	raw, err := c.client.Get(ctx, c.answerKey(question, k)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get answer failed: %w", err)
	}

	var result model.QueryResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached answer failed: %w", err)
	}
	return &result, true, nil
}

func (c *AnswerCache) Set(ctx context.Context, question string, k int, result *model.QueryResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal answer cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.answerKey(question, k), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set answer failed: %w", err)
	}
	return nil
}

func (c *AnswerCache) answerKey(question string, k int) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(question))))
	return fmt.Sprintf("qa:answer:%s:%d", hex.EncodeToString(sum[:8]), k)
}
