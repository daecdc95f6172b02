package faq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/dialogue"
	"github.com/fieldserve/repairline/internal/domain"
	"github.com/fieldserve/repairline/internal/ports"
)

// catalogTTL bounds staleness of the per-tenant catalog cache. Admin writes
// invalidate eagerly; the TTL only covers writes from other instances.
const catalogTTL = 5 * time.Minute

type Service struct {
	repo  ports.FAQRepository
	cache ports.Cache
	log   *zap.Logger
}

func NewService(repo ports.FAQRepository, cache ports.Cache, log *zap.Logger) ports.FAQService {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Match scores the utterance against the tenant's catalog. A catalog fetch
// failure degrades to no match so the turn falls through to the flow engine.
// The winner's usage counter is bumped off the turn path.
func (s *Service) Match(ctx context.Context, tenantID, utterance string) (*domain.FAQ, bool) {
	faqs, err := s.List(ctx, tenantID)
	if err != nil {
		s.log.Warn("faq catalog unavailable, skipping match",
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return nil, false
	}
	if len(faqs) == 0 {
		return nil, false
	}

	cands := make([]dialogue.Candidate, len(faqs))
	for i, f := range faqs {
		cands[i] = dialogue.Candidate{
			ID:       f.ID,
			Keywords: f.KeywordList(),
			Text:     f.Question,
			Usage:    f.UsageCount,
		}
	}

	best, ok := dialogue.FAQScorer.Best(cands, utterance)
	if !ok {
		return nil, false
	}

	var hit *domain.FAQ
	for i := range faqs {
		if faqs[i].ID == best.ID {
			hit = &faqs[i]
			break
		}
	}
	if hit == nil {
		return nil, false
	}

	go func(id string) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.repo.IncrementUsage(ctx, id); err != nil {
			s.log.Debug("failed to increment faq usage", zap.String("faq_id", id), zap.Error(err))
		}
	}(hit.ID)

	return hit, true
}

func (s *Service) List(ctx context.Context, tenantID string) ([]domain.FAQ, error) {
	key := "faqs:" + tenantID

	if val, err := s.cache.Get(ctx, key); err == nil {
		var faqs []domain.FAQ
		if err := json.Unmarshal([]byte(val), &faqs); err == nil {
			return faqs, nil
		}
	}

	faqs, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list faqs for tenant %s: %w", tenantID, err)
	}

	if data, err := json.Marshal(faqs); err == nil {
		if err := s.cache.Set(ctx, key, string(data), catalogTTL); err != nil {
			s.log.Debug("failed to cache faq catalog", zap.Error(err))
		}
	}
	return faqs, nil
}

func (s *Service) Create(ctx context.Context, faq *domain.FAQ) error {
	if faq.Question == "" || faq.Answer == "" {
		return fmt.Errorf("faq requires both question and answer")
	}
	if err := s.repo.Insert(ctx, faq); err != nil {
		return fmt.Errorf("failed to create faq: %w", err)
	}
	s.invalidate(ctx, faq.TenantID)
	return nil
}

func (s *Service) Update(ctx context.Context, faq *domain.FAQ) error {
	if faq.ID == "" {
		return fmt.Errorf("faq id is required")
	}
	if err := s.repo.Update(ctx, faq); err != nil {
		return fmt.Errorf("failed to update faq %s: %w", faq.ID, err)
	}
	s.invalidate(ctx, faq.TenantID)
	return nil
}

func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete faq %s: %w", id, err)
	}
	s.invalidate(ctx, tenantID)
	return nil
}

func (s *Service) invalidate(ctx context.Context, tenantID string) {
	if err := s.cache.Delete(ctx, "faqs:"+tenantID); err != nil {
		s.log.Debug("failed to invalidate faq cache", zap.Error(err))
	}
}
