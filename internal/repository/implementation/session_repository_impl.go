package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"en-garde-armory-be/internal/entity"
	"en-garde-armory-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "armory:session:"

// RedisSessionRepository shares view states between instances. Each Save refreshes the TTL,
// so a session expires ttl after its last action.
type RedisSessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionRepository(rdb *redis.Client, ttl time.Duration) contract.SessionRepository {
	return &RedisSessionRepository{
		rdb: rdb,
		ttl: ttl,
	}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (r *RedisSessionRepository) Save(ctx context.Context, view *entity.ViewState) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal view state: %w", err)
	}
	if err := r.rdb.Set(ctx, sessionKey(view.SessionId), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", view.SessionId, err)
	}
	return nil
}

func (r *RedisSessionRepository) Get(ctx context.Context, sessionID string) (*entity.ViewState, bool, error) {
	data, err := r.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	var view entity.ViewState
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, false, fmt.Errorf("unmarshal session %s: %w", sessionID, err)
	}
	return &view, true, nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, sessionKey(sessionID)).Err()
}
