package contract

import (
	"context"

	"en-garde-armory-be/internal/entity"
)

type SessionRepository interface {
	Save(ctx context.Context, view *entity.ViewState) error
	Get(ctx context.Context, sessionID string) (*entity.ViewState, bool, error)
	Delete(ctx context.Context, sessionID string) error
}
