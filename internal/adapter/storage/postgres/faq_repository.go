package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fieldserve/repairline/internal/domain"
	"github.com/fieldserve/repairline/internal/ports"
)

type FAQRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewFAQRepository(db *gorm.DB, log *zap.Logger) ports.FAQRepository {
	return &FAQRepository{
		db:  db,
		log: log,
	}
}

func (r *FAQRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.FAQ, error) {
	var faqs []domain.FAQ
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&faqs).Error
	return faqs, err
}

func (r *FAQRepository) Insert(ctx context.Context, faq *domain.FAQ) error {
	return r.db.WithContext(ctx).Create(faq).Error
}

func (r *FAQRepository) Update(ctx context.Context, faq *domain.FAQ) error {
	result := r.db.WithContext(ctx).
		Model(&domain.FAQ{}).
		Where("id = ?", faq.ID).
		Updates(map[string]interface{}{
			"question":  faq.Question,
			"answer":    faq.Answer,
			"keywords":  faq.Keywords,
			"audio_url": faq.AudioURL,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("faq %s not found", faq.ID)
	}
	return nil
}

func (r *FAQRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.FAQ{}, "id = ?", id).Error
}

// IncrementUsage bumps the counter in SQL so concurrent matches never lose an
// increment.
func (r *FAQRepository) IncrementUsage(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&domain.FAQ{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error
}
