package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fieldserve/repairline/internal/domain"
	"github.com/fieldserve/repairline/internal/ports"
)

type AudioTemplateRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAudioTemplateRepository(db *gorm.DB, log *zap.Logger) ports.AudioTemplateRepository {
	return &AudioTemplateRepository{
		db:  db,
		log: log,
	}
}

func (r *AudioTemplateRepository) ListByKeys(ctx context.Context, tenantID string, keys []string) ([]domain.AudioTemplate, error) {
	var tpls []domain.AudioTemplate
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND key IN ?", tenantID, keys).
		Find(&tpls).Error
	return tpls, err
}

func (r *AudioTemplateRepository) FindByKey(ctx context.Context, tenantID, key string) (*domain.AudioTemplate, error) {
	var tpl domain.AudioTemplate
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND key = ?", tenantID, key).
		First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tpl, nil
}

// Upsert replaces any existing clip for the same (tenant, key) pair.
func (r *AudioTemplateRepository) Upsert(ctx context.Context, tpl *domain.AudioTemplate) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"url", "transcript", "updated_at"}),
		}).
		Create(tpl).Error
}

func (r *AudioTemplateRepository) IncrementUsage(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&domain.AudioTemplate{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error
}
