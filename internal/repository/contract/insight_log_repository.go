package contract

import (
	"context"

	"en-garde-armory-be/internal/entity"
	"en-garde-armory-be/internal/repository/specification"
)

type InsightLogRepository interface {
	Create(ctx context.Context, log *entity.InsightLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.InsightLog, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
