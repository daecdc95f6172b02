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

type FAQRepository struct {
	client *Client
	log    *zap.Logger
}

func NewFAQRepository(client *Client, log *zap.Logger) ports.FAQRepository {
	return &FAQRepository{client: client, log: log}
}

func (r *FAQRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.FAQ, error) {
	q := url.Values{}
	q.Set("tenant_id", "eq."+tenantID)
	q.Set("order", "created_at.asc")

	var rows []domain.FAQ
	if err := r.client.Select(ctx, "faqs", q, &rows); err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}
	return rows, nil
}

func (r *FAQRepository) Insert(ctx context.Context, faq *domain.FAQ) error {
	if err := r.client.Insert(ctx, "faqs", faq, faq); err != nil {
		return fmt.Errorf("insert faq: %w", err)
	}
	return nil
}

func (r *FAQRepository) Update(ctx context.Context, faq *domain.FAQ) error {
	q := url.Values{}
	q.Set("id", "eq."+faq.ID)

	patch := map[string]interface{}{
		"question":   faq.Question,
		"answer":     faq.Answer,
		"keywords":   faq.Keywords,
		"audio_url":  faq.AudioURL,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	n, err := r.client.Update(ctx, "faqs", q, patch)
	if err != nil {
		return fmt.Errorf("update faq: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("faq %s not found", faq.ID)
	}
	return nil
}

func (r *FAQRepository) Delete(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	if err := r.client.Delete(ctx, "faqs", q); err != nil {
		return fmt.Errorf("delete faq: %w", err)
	}
	return nil
}

// IncrementUsage bumps the usage counter through a stored procedure so
// concurrent matches never lose an increment.
func (r *FAQRepository) IncrementUsage(ctx context.Context, id string) error {
	return r.client.RPC(ctx, "increment_faq_usage", map[string]string{"faq_id": id})
}
