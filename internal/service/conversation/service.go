package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/domain"
	"github.com/fieldserve/repairline/internal/ports"
)

// cacheTTL keeps the hot copy short-lived so a reaped or concurrently updated
// record cannot linger in the cache.
const cacheTTL = 30 * time.Second

type Service struct {
	repo  ports.ConversationRepository
	cache ports.Cache
	log   *zap.Logger
}

func NewService(repo ports.ConversationRepository, cache ports.Cache, log *zap.Logger) ports.ConversationService {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func cacheKey(tenantID, contactID string) string {
	return fmt.Sprintf("conv:%s:%s", tenantID, contactID)
}

// Get returns the active conversation for the pair, creating one when none
// exists. A store failure never fails the turn: the caller gets a transient
// record flagged as degraded and the engine answers from slots already in hand.
func (s *Service) Get(ctx context.Context, tenantID, contactID string, ch domain.Channel) domain.ConversationLookup {
	key := cacheKey(tenantID, contactID)

	if val, err := s.cache.Get(ctx, key); err == nil {
		var conv domain.Conversation
		if err := json.Unmarshal([]byte(val), &conv); err == nil && conv.Active {
			return domain.ConversationLookup{Conversation: &conv, Outcome: domain.LookupFound}
		}
	}

	conv, err := s.repo.FindActive(ctx, tenantID, contactID)
	if err != nil {
		s.log.Warn("conversation store unreachable, degrading to transient record",
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		transient := domain.NewConversation(tenantID, contactID, ch)
		transient.ID = ""
		return domain.ConversationLookup{Conversation: transient, Outcome: domain.LookupDegraded}
	}

	if conv != nil {
		s.cacheConversation(ctx, key, conv)
		return domain.ConversationLookup{Conversation: conv, Outcome: domain.LookupFound}
	}

	fresh := domain.NewConversation(tenantID, contactID, ch)
	if err := s.repo.Insert(ctx, fresh); err != nil {
		s.log.Warn("failed to insert conversation, degrading to transient record",
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		fresh.ID = ""
		return domain.ConversationLookup{Conversation: fresh, Outcome: domain.LookupDegraded}
	}

	s.cacheConversation(ctx, key, fresh)
	return domain.ConversationLookup{Conversation: fresh, Outcome: domain.LookupCreated}
}

// Update merge-writes the turn's outcome onto the stored record and refreshes
// the hot copy. It is fire and forget: failures are logged and swallowed so a
// slow or dead store never delays the reply. Degraded records carry no ID and
// are skipped outright.
func (s *Service) Update(ctx context.Context, conv *domain.Conversation) {
	if conv == nil || conv.ID == "" {
		return
	}

	if err := s.repo.UpdateState(ctx, conv.ID, conv.Slots, conv.Step, conv.History); err != nil {
		s.log.Warn("failed to update conversation state",
			zap.String("conversation_id", conv.ID),
			zap.Error(err),
		)
		// Drop the stale hot copy so the next turn reads the store.
		if err := s.cache.Delete(ctx, cacheKey(conv.TenantID, conv.ContactID)); err != nil {
			s.log.Debug("failed to invalidate conversation cache", zap.Error(err))
		}
		return
	}

	s.cacheConversation(ctx, cacheKey(conv.TenantID, conv.ContactID), conv)
}

// Reap deactivates conversations past their expiry. Runs from the server's
// background ticker, never from the turn path.
func (s *Service) Reap(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := s.repo.Reap(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to reap conversations: %w", err)
	}
	if n > 0 {
		s.log.Info("reaped expired conversations", zap.Int64("count", n))
	}
	return n, nil
}

func (s *Service) cacheConversation(ctx context.Context, key string, conv *domain.Conversation) {
	data, err := json.Marshal(conv)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(data), cacheTTL); err != nil {
		s.log.Debug("failed to cache conversation", zap.Error(err))
	}
}
