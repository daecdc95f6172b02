package audio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/dialogue"
	"github.com/fieldserve/repairline/internal/domain"
	"github.com/fieldserve/repairline/internal/ports"
)

type Service struct {
	repo ports.AudioTemplateRepository
	log  *zap.Logger
}

func NewService(repo ports.AudioTemplateRepository, log *zap.Logger) ports.AudioService {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// MatchReply scores the generated reply text against the tenant's common
// pre-rendered clips. A catalog failure degrades to no match and the reply is
// synthesized instead.
func (s *Service) MatchReply(ctx context.Context, tenantID, replyText string) (*domain.AudioTemplate, bool) {
	templates, err := s.repo.ListByKeys(ctx, tenantID, domain.CommonAudioKeys)
	if err != nil {
		s.log.Warn("audio catalog unavailable, skipping clip match",
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return nil, false
	}
	if len(templates) == 0 {
		return nil, false
	}

	cands := make([]dialogue.Candidate, len(templates))
	for i, tpl := range templates {
		cands[i] = dialogue.Candidate{
			ID:       tpl.ID,
			Keywords: transcriptKeywords(tpl.Transcript),
			Text:     tpl.Transcript,
			Usage:    tpl.UsageCount,
		}
	}

	best, ok := dialogue.AudioScorer.Best(cands, replyText)
	if !ok {
		return nil, false
	}

	var hit *domain.AudioTemplate
	for i := range templates {
		if templates[i].ID == best.ID {
			hit = &templates[i]
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
			s.log.Debug("failed to increment clip usage", zap.String("template_id", id), zap.Error(err))
		}
	}(hit.ID)

	return hit, true
}

func (s *Service) Template(ctx context.Context, tenantID, key string) (*domain.AudioTemplate, error) {
	tpl, err := s.repo.FindByKey(ctx, tenantID, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load audio template %s: %w", key, err)
	}
	return tpl, nil
}

// transcriptKeywords derives matchable phrases from a clip transcript: the
// whole transcript plus each clause of at least eight characters.
func transcriptKeywords(transcript string) []string {
	lower := strings.ToLower(strings.TrimSpace(transcript))
	keys := []string{lower}
	for _, clause := range strings.FieldsFunc(lower, func(r rune) bool {
		return r == '.' || r == ',' || r == '?' || r == '!'
	}) {
		clause = strings.TrimSpace(clause)
		if len(clause) >= 8 && clause != lower {
			keys = append(keys, clause)
		}
	}
	return keys
}
