package rest

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/domain"
	"github.com/fieldserve/repairline/internal/ports"
)

type ConversationRepository struct {
	client *Client
	log    *zap.Logger
}

func NewConversationRepository(client *Client, log *zap.Logger) ports.ConversationRepository {
	return &ConversationRepository{client: client, log: log}
}

// FindActive returns the newest active conversation for the pair. Concurrent
// turns can race two actives into existence; ordering by updated_at makes both
// racers converge on the same row from the next turn on.
func (r *ConversationRepository) FindActive(ctx context.Context, tenantID, contactID string) (*domain.Conversation, error) {
	q := url.Values{}
	q.Set("tenant_id", "eq."+tenantID)
	q.Set("contact_id", "eq."+contactID)
	q.Set("active", "is.true")
	q.Set("order", "updated_at.desc")
	q.Set("limit", "1")

	var rows []domain.Conversation
	if err := r.client.Select(ctx, "conversations", q, &rows); err != nil {
		return nil, fmt.Errorf("find active conversation: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *ConversationRepository) Insert(ctx context.Context, conv *domain.Conversation) error {
	if err := r.client.Insert(ctx, "conversations", conv, nil); err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

// UpdateState merge-writes the mutable turn state. Whole-row writes would let
// two in-flight turns clobber each other's channel and timestamps too.
func (r *ConversationRepository) UpdateState(ctx context.Context, id string, slots domain.SlotSet, step domain.ConversationStep, history []string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)

	patch := map[string]interface{}{
		"slots":      slots,
		"step":       step,
		"history":    history,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	n, err := r.client.Update(ctx, "conversations", q, patch)
	if err != nil {
		return fmt.Errorf("update conversation state: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("conversation %s not found", id)
	}
	return nil
}

// Reap deactivates every active conversation that expired before cutoff.
func (r *ConversationRepository) Reap(ctx context.Context, cutoff time.Time) (int64, error) {
	q := url.Values{}
	q.Set("active", "is.true")
	q.Set("expires_at", "lt."+cutoff.UTC().Format(time.RFC3339))

	patch := map[string]interface{}{
		"active":     false,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	n, err := r.client.Update(ctx, "conversations", q, patch)
	if err != nil {
		return 0, fmt.Errorf("reap conversations: %w", err)
	}
	return n, nil
}
