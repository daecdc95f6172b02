package rest

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/domain"
	"github.com/fieldserve/repairline/internal/ports"
)

type TenantRepository struct {
	client *Client
	log    *zap.Logger
}

func NewTenantRepository(client *Client, log *zap.Logger) ports.TenantRepository {
	return &TenantRepository{client: client, log: log}
}

func (r *TenantRepository) FindByID(ctx context.Context, id string) (*domain.Tenant, error) {
	q := url.Values{}
	q.Set("id", "eq."+id)
	q.Set("limit", "1")
	return r.findOne(ctx, q)
}

func (r *TenantRepository) FindByNumber(ctx context.Context, number string) (*domain.Tenant, error) {
	q := url.Values{}
	q.Set("from_number", "eq."+number)
	q.Set("active", "is.true")
	q.Set("limit", "1")
	return r.findOne(ctx, q)
}

func (r *TenantRepository) findOne(ctx context.Context, q url.Values) (*domain.Tenant, error) {
	var rows []domain.Tenant
	if err := r.client.Select(ctx, "tenants", q, &rows); err != nil {
		return nil, fmt.Errorf("find tenant: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
