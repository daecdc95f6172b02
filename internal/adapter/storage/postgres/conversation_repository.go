package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fieldserve/repairline/internal/domain"
	"github.com/fieldserve/repairline/internal/ports"
)

type ConversationRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewConversationRepository(db *gorm.DB, log *zap.Logger) ports.ConversationRepository {
	return &ConversationRepository{
		db:  db,
		log: log,
	}
}

// FindActive returns the newest active conversation for the pair, or nil.
func (r *ConversationRepository) FindActive(ctx context.Context, tenantID, contactID string) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND contact_id = ? AND active = ?", tenantID, contactID, true).
		Order("updated_at DESC").
		First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

func (r *ConversationRepository) Insert(ctx context.Context, conv *domain.Conversation) error {
	return r.db.WithContext(ctx).Create(conv).Error
}

// UpdateState merge-writes the mutable turn state onto the row. Writes are
// last-write-wins; two in-flight turns for the same record do not coordinate.
func (r *ConversationRepository) UpdateState(ctx context.Context, id string, slots domain.SlotSet, step domain.ConversationStep, history []string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"slots":      slots,
			"step":       step,
			"history":    history,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("conversation %s not found", id)
	}
	return nil
}

// Reap deactivates active conversations expired before cutoff.
func (r *ConversationRepository) Reap(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("active = ? AND expires_at < ?", true, cutoff).
		Updates(map[string]interface{}{
			"active":     false,
			"updated_at": time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}
