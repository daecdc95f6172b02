package speech

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/domain"
	"github.com/fieldserve/repairline/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestRenderTemplate_UploadsAndSavesTemplate(t *testing.T) {
	// Arrange
	var saved *domain.AudioTemplate
	mockRepo := &mocks.MockAudioTemplateRepository{
		UpsertFunc: func(ctx context.Context, tpl *domain.AudioTemplate) error {
			saved = tpl
			return nil
		},
	}
	store := &mocks.MockObjectStore{}
	service := NewService(&mocks.MockSpeechSynthesizer{}, store, mockRepo, newTestLogger())

	// Act
	tpl, err := service.RenderTemplate(context.Background(), "tenant-1", domain.AudioKeyGreeting,
		"Thanks for calling, how can I help you today?")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if tpl.URL == "" {
		t.Error("rendered template must carry the uploaded URL")
	}
	if tpl.Transcript != "Thanks for calling, how can I help you today?" {
		t.Errorf("template must keep the transcript, got '%s'", tpl.Transcript)
	}
	if saved == nil {
		t.Fatal("expected the template row to be upserted")
	}
	if len(store.Uploaded) != 1 || !strings.HasPrefix(store.Uploaded[0], "tenant-1/greeting-") {
		t.Errorf("expected a tenant-scoped upload path, got %v", store.Uploaded)
	}
}

func TestRenderTemplate_RejectsEmptyTranscript(t *testing.T) {
	// Arrange
	service := NewService(&mocks.MockSpeechSynthesizer{}, &mocks.MockObjectStore{},
		&mocks.MockAudioTemplateRepository{}, newTestLogger())

	// Act
	_, err := service.RenderTemplate(context.Background(), "tenant-1", domain.AudioKeyGreeting, "")

	// Assert
	if err == nil {
		t.Error("expected an error for an empty transcript")
	}
}

func TestRenderTemplate_SynthesisFailurePropagates(t *testing.T) {
	// Arrange
	synth := &mocks.MockSpeechSynthesizer{
		SynthesizeFunc: func(ctx context.Context, text string) ([]byte, string, error) {
			return nil, "", errors.New("tts quota exhausted")
		},
	}
	store := &mocks.MockObjectStore{}
	service := NewService(synth, store, &mocks.MockAudioTemplateRepository{}, newTestLogger())

	// Act
	_, err := service.RenderTemplate(context.Background(), "tenant-1", domain.AudioKeyHours,
		"We're open Monday through Friday.")

	// Assert
	if err == nil {
		t.Error("expected the synthesis failure to propagate")
	}
	if len(store.Uploaded) != 0 {
		t.Error("nothing must be uploaded when synthesis fails")
	}
}
