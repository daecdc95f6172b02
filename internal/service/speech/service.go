package speech

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/domain"
	"github.com/fieldserve/repairline/internal/ports"
)

const audioBucket = "tenant-audio"

// Service pre-renders the clips the voice channel plays instead of
// synthesizing on every call. It runs from admin requests and provisioning,
// never on the turn path.
type Service struct {
	synth ports.SpeechSynthesizer
	store ports.ObjectStore
	repo  ports.AudioTemplateRepository
	log   *zap.Logger
}

func NewService(synth ports.SpeechSynthesizer, store ports.ObjectStore, repo ports.AudioTemplateRepository, log *zap.Logger) ports.SpeechService {
	return &Service{
		synth: synth,
		store: store,
		repo:  repo,
		log:   log,
	}
}

// RenderTemplate synthesizes the text, uploads the clip, and upserts the
// template row so the turn path can match against the transcript.
func (s *Service) RenderTemplate(ctx context.Context, tenantID, key, text string) (*domain.AudioTemplate, error) {
	if text == "" {
		return nil, fmt.Errorf("cannot render an empty transcript")
	}

	audio, contentType, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize %s: %w", key, err)
	}

	path := fmt.Sprintf("%s/%s-%s.mp3", tenantID, key, uuid.NewString()[:8])
	url, err := s.store.Upload(ctx, audioBucket, path, contentType, audio)
	if err != nil {
		return nil, fmt.Errorf("failed to upload clip %s: %w", key, err)
	}

	now := time.Now().UTC()
	tpl := &domain.AudioTemplate{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		Key:        key,
		URL:        url,
		Transcript: text,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Upsert(ctx, tpl); err != nil {
		return nil, fmt.Errorf("failed to save template %s: %w", key, err)
	}

	s.log.Info("audio template rendered",
		zap.String("tenant_id", tenantID),
		zap.String("key", key),
		zap.Int("bytes", len(audio)),
	)

	return tpl, nil
}
