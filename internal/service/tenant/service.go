package tenant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/domain"
	"github.com/fieldserve/repairline/internal/ports"
)

// cacheTTL is generous: tenant records change on provisioning, not in
// conversation.
const cacheTTL = 15 * time.Minute

type Service struct {
	repo  ports.TenantRepository
	cache ports.Cache
	log   *zap.Logger
}

func NewService(repo ports.TenantRepository, cache ports.Cache, log *zap.Logger) ports.TenantService {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func (s *Service) ByID(ctx context.Context, id string) (*domain.Tenant, error) {
	return s.lookup(ctx, "tenant:"+id, func() (*domain.Tenant, error) {
		return s.repo.FindByID(ctx, id)
	})
}

// ByNumber resolves the tenant owning an inbound phone number. Every webhook
// hits this, so the cache matters here.
func (s *Service) ByNumber(ctx context.Context, number string) (*domain.Tenant, error) {
	return s.lookup(ctx, "tenant_number:"+number, func() (*domain.Tenant, error) {
		return s.repo.FindByNumber(ctx, number)
	})
}

func (s *Service) lookup(ctx context.Context, key string, fetch func() (*domain.Tenant, error)) (*domain.Tenant, error) {
	if val, err := s.cache.Get(ctx, key); err == nil {
		var t domain.Tenant
		if err := json.Unmarshal([]byte(val), &t); err == nil {
			return &t, nil
		}
	}

	t, err := fetch()
	if err != nil {
		return nil, fmt.Errorf("tenant lookup failed: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("tenant not found")
	}

	if data, err := json.Marshal(t); err == nil {
		if err := s.cache.Set(ctx, key, string(data), cacheTTL); err != nil {
			s.log.Debug("failed to cache tenant", zap.Error(err))
		}
	}
	return t, nil
}
