package implementation

import (
	"context"

	"en-garde-armory-be/internal/entity"
	"en-garde-armory-be/internal/mapper"
	"en-garde-armory-be/internal/model"
	"en-garde-armory-be/internal/repository/contract"
	"en-garde-armory-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InsightLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.InsightMapper
}

func NewInsightLogRepository(db *gorm.DB) contract.InsightLogRepository {
	return &InsightLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewInsightMapper(),
	}
}

func (r *InsightLogRepositoryImpl) Create(ctx context.Context, log *entity.InsightLog) error {
	if log.Id == uuid.Nil {
		log.Id = uuid.New()
	}
	m := r.mapper.InsightLogToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	log.CreatedAt = m.CreatedAt
	return nil
}

func (r *InsightLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.InsightLog, error) {
	var logs []*model.InsightLog
	query := specification.Apply(r.db.WithContext(ctx).Model(&model.InsightLog{}), specs...)
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return r.mapper.InsightLogsToEntities(logs), nil
}

func (r *InsightLogRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := specification.Apply(r.db.WithContext(ctx).Model(&model.InsightLog{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
