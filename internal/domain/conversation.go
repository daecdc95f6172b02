package domain

import (
	"time"

	"github.com/google/uuid"
)

type ConversationStep string

const (
	StepGreeting   ConversationStep = "greeting"
	StepCollecting ConversationStep = "collecting"
	StepConfirming ConversationStep = "confirming"
	StepComplete   ConversationStep = "complete"
)

// ConversationTTL is how long a conversation stays active after creation.
const ConversationTTL = 24 * time.Hour

// Conversation is the per-(tenant, contact) dialogue record. At most one
// active record exists per pair; lookups take the most recently updated one.
type Conversation struct {
	ID        string           `json:"id" gorm:"primaryKey"`
	TenantID  string           `json:"tenant_id" gorm:"index:idx_conv_tenant_contact"`
	ContactID string           `json:"contact_id" gorm:"index:idx_conv_tenant_contact"`
	Channel   Channel          `json:"channel"`
	Step      ConversationStep `json:"step"`
	Slots     SlotSet          `json:"slots" gorm:"serializer:json"`
	History   []string         `json:"history" gorm:"serializer:json"`
	Active    bool             `json:"active" gorm:"index"`
	ExpiresAt time.Time        `json:"expires_at"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewConversation builds a fresh active record for the pair, ready to be
// inserted into the store.
func NewConversation(tenantID, contactID string, ch Channel) *Conversation {
	now := time.Now().UTC()
	return &Conversation{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		ContactID: contactID,
		Channel:   ch,
		Step:      StepGreeting,
		Slots:     SlotSet{},
		Active:    true,
		ExpiresAt: now.Add(ConversationTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// LookupOutcome says how a conversation lookup was satisfied. Degraded means
// the store was unreachable and the returned record is transient: it has no ID
// and will not be persisted.
type LookupOutcome string

const (
	LookupFound    LookupOutcome = "found"
	LookupCreated  LookupOutcome = "created"
	LookupDegraded LookupOutcome = "degraded"
)

// ConversationLookup pairs a conversation with how it was obtained, so callers
// can tell a persisted turn from a best-effort one.
type ConversationLookup struct {
	Conversation *Conversation
	Outcome      LookupOutcome
}

// Persisted reports whether state writes against this record will stick.
func (l ConversationLookup) Persisted() bool {
	return l.Outcome != LookupDegraded
}
