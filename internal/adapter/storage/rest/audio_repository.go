package rest

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/domain"
	"github.com/fieldserve/repairline/internal/ports"
)

type AudioTemplateRepository struct {
	client *Client
	log    *zap.Logger
}

func NewAudioTemplateRepository(client *Client, log *zap.Logger) ports.AudioTemplateRepository {
	return &AudioTemplateRepository{client: client, log: log}
}

// ListByKeys batch-fetches the named template keys in one request. Voice turns
// call this on every reply, so one round trip matters.
func (r *AudioTemplateRepository) ListByKeys(ctx context.Context, tenantID string, keys []string) ([]domain.AudioTemplate, error) {
	q := url.Values{}
	q.Set("tenant_id", "eq."+tenantID)
	q.Set("key", "in.("+strings.Join(keys, ",")+")")

	var rows []domain.AudioTemplate
	if err := r.client.Select(ctx, "audio_templates", q, &rows); err != nil {
		return nil, fmt.Errorf("list audio templates: %w", err)
	}
	return rows, nil
}

func (r *AudioTemplateRepository) FindByKey(ctx context.Context, tenantID, key string) (*domain.AudioTemplate, error) {
	q := url.Values{}
	q.Set("tenant_id", "eq."+tenantID)
	q.Set("key", "eq."+key)
	q.Set("limit", "1")

	var rows []domain.AudioTemplate
	if err := r.client.Select(ctx, "audio_templates", q, &rows); err != nil {
		return nil, fmt.Errorf("find audio template: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Upsert writes a template, replacing any existing clip for the same
// (tenant, key) pair.
func (r *AudioTemplateRepository) Upsert(ctx context.Context, tpl *domain.AudioTemplate) error {
	q := url.Values{}
	q.Set("on_conflict", "tenant_id,key")
	if err := r.client.Upsert(ctx, "audio_templates", q, tpl); err != nil {
		return fmt.Errorf("upsert audio template: %w", err)
	}
	return nil
}

func (r *AudioTemplateRepository) IncrementUsage(ctx context.Context, id string) error {
	return r.client.RPC(ctx, "increment_audio_usage", map[string]string{"template_id": id})
}
