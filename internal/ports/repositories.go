package ports

import (
	"context"
	"time"

	"github.com/fieldserve/repairline/internal/domain"
)

// ConversationRepository is the row store behind the conversation lifecycle.
// Implementations exist for the REST row store and for Postgres.
type ConversationRepository interface {
	// FindActive returns the most recently updated active conversation for
	// the (tenant, contact) pair, or nil when none exists.
	FindActive(ctx context.Context, tenantID, contactID string) (*domain.Conversation, error)
	Insert(ctx context.Context, conv *domain.Conversation) error
	// UpdateState merge-writes slots, step and history onto an existing row.
	UpdateState(ctx context.Context, id string, slots domain.SlotSet, step domain.ConversationStep, history []string) error
	// Reap deactivates conversations whose expiry is before cutoff and
	// returns how many rows were touched.
	Reap(ctx context.Context, cutoff time.Time) (int64, error)
}

type FAQRepository interface {
	ListByTenant(ctx context.Context, tenantID string) ([]domain.FAQ, error)
	Insert(ctx context.Context, faq *domain.FAQ) error
	Update(ctx context.Context, faq *domain.FAQ) error
	Delete(ctx context.Context, id string) error
	IncrementUsage(ctx context.Context, id string) error
}

type AudioTemplateRepository interface {
	ListByKeys(ctx context.Context, tenantID string, keys []string) ([]domain.AudioTemplate, error)
	FindByKey(ctx context.Context, tenantID, key string) (*domain.AudioTemplate, error)
	Upsert(ctx context.Context, tpl *domain.AudioTemplate) error
	IncrementUsage(ctx context.Context, id string) error
}

type TenantRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Tenant, error)
	FindByNumber(ctx context.Context, number string) (*domain.Tenant, error)
}

// Cache is the small key/value layer in front of hot lookups (active
// conversations, tenant records, catalogs).
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}

// ObjectStore uploads rendered audio and returns a public URL.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, path string, contentType string, data []byte) (string, error)
}
