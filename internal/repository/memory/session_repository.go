package memory

import (
	"context"
	"time"

	"en-garde-armory-be/internal/entity"
	"en-garde-armory-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository keeps view states for ttl after their last save, purging expired
// entries every ttl/6.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	c := cache.New(ttl, ttl/6)
	return &SessionRepository{
		cache: c,
	}
}

// Save stores a copy so callers can't mutate the stored state outside the service lock.
func (r *SessionRepository) Save(_ context.Context, view *entity.ViewState) error {
	stored := *view
	r.cache.Set(view.SessionId, &stored, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, sessionID string) (*entity.ViewState, bool, error) {
	if x, found := r.cache.Get(sessionID); found {
		view := *x.(*entity.ViewState)
		return &view, true, nil
	}
	return nil, false, nil
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}
