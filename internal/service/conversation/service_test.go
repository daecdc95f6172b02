package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/domain"
	"github.com/fieldserve/repairline/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestGet_FindsExistingConversation(t *testing.T) {
	// Arrange
	ctx := context.Background()
	existing := &domain.Conversation{
		ID:        "conv-1",
		TenantID:  "tenant-1",
		ContactID: "+15551234567",
		Channel:   domain.ChannelVoice,
		Step:      domain.StepCollecting,
		Slots:     domain.SlotSet{"applianceType": "washer"},
		Active:    true,
	}

	mockRepo := &mocks.MockConversationRepository{
		FindActiveFunc: func(ctx context.Context, tenantID, contactID string) (*domain.Conversation, error) {
			return existing, nil
		},
	}
	service := NewService(mockRepo, mocks.NewMockCache(), newTestLogger())

	// Act
	lookup := service.Get(ctx, "tenant-1", "+15551234567", domain.ChannelVoice)

	// Assert
	if lookup.Outcome != domain.LookupFound {
		t.Errorf("expected outcome 'found', got '%s'", lookup.Outcome)
	}
	if lookup.Conversation.ID != "conv-1" {
		t.Errorf("expected conversation 'conv-1', got '%s'", lookup.Conversation.ID)
	}
	if !lookup.Persisted() {
		t.Error("a found conversation must report as persisted")
	}
}

func TestGet_CreatesWhenNoneActive(t *testing.T) {
	// Arrange
	ctx := context.Background()
	inserted := false

	mockRepo := &mocks.MockConversationRepository{
		FindActiveFunc: func(ctx context.Context, tenantID, contactID string) (*domain.Conversation, error) {
			return nil, nil
		},
		InsertFunc: func(ctx context.Context, conv *domain.Conversation) error {
			inserted = true
			return nil
		},
	}
	service := NewService(mockRepo, mocks.NewMockCache(), newTestLogger())

	// Act
	lookup := service.Get(ctx, "tenant-1", "+15551234567", domain.ChannelText)

	// Assert
	if lookup.Outcome != domain.LookupCreated {
		t.Errorf("expected outcome 'created', got '%s'", lookup.Outcome)
	}
	if !inserted {
		t.Error("expected a new conversation row to be inserted")
	}
	if lookup.Conversation.ID == "" {
		t.Error("created conversation must carry an ID")
	}
	if lookup.Conversation.Step != domain.StepGreeting {
		t.Errorf("new conversation must start at greeting, got '%s'", lookup.Conversation.Step)
	}
	if lookup.Conversation.ExpiresAt.IsZero() {
		t.Error("new conversation must carry an expiry")
	}
}

func TestGet_DegradesWhenStoreUnreachable(t *testing.T) {
	// Arrange
	ctx := context.Background()

	mockRepo := &mocks.MockConversationRepository{
		FindActiveFunc: func(ctx context.Context, tenantID, contactID string) (*domain.Conversation, error) {
			return nil, errors.New("connection refused")
		},
	}
	service := NewService(mockRepo, mocks.NewMockCache(), newTestLogger())

	// Act
	lookup := service.Get(ctx, "tenant-1", "+15551234567", domain.ChannelVoice)

	// Assert
	if lookup.Outcome != domain.LookupDegraded {
		t.Errorf("expected outcome 'degraded', got '%s'", lookup.Outcome)
	}
	if lookup.Conversation == nil {
		t.Fatal("degraded lookup must still return a usable conversation")
	}
	if lookup.Conversation.ID != "" {
		t.Error("degraded conversation must not carry an ID")
	}
	if lookup.Persisted() {
		t.Error("degraded lookup must not report as persisted")
	}
}

func TestGet_DegradesWhenInsertFails(t *testing.T) {
	// Arrange
	ctx := context.Background()

	mockRepo := &mocks.MockConversationRepository{
		InsertFunc: func(ctx context.Context, conv *domain.Conversation) error {
			return errors.New("insert failed")
		},
	}
	service := NewService(mockRepo, mocks.NewMockCache(), newTestLogger())

	// Act
	lookup := service.Get(ctx, "tenant-1", "+15551234567", domain.ChannelVoice)

	// Assert
	if lookup.Outcome != domain.LookupDegraded {
		t.Errorf("expected outcome 'degraded', got '%s'", lookup.Outcome)
	}
}

func TestGet_ServesFromCache(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cached := domain.Conversation{
		ID:        "conv-hot",
		TenantID:  "tenant-1",
		ContactID: "+15551234567",
		Step:      domain.StepCollecting,
		Active:    true,
	}
	data, _ := json.Marshal(cached)

	mockCache := mocks.NewMockCache()
	_ = mockCache.Set(ctx, "conv:tenant-1:+15551234567", string(data), time.Minute)

	repoCalled := false
	mockRepo := &mocks.MockConversationRepository{
		FindActiveFunc: func(ctx context.Context, tenantID, contactID string) (*domain.Conversation, error) {
			repoCalled = true
			return nil, nil
		},
	}
	service := NewService(mockRepo, mockCache, newTestLogger())

	// Act
	lookup := service.Get(ctx, "tenant-1", "+15551234567", domain.ChannelVoice)

	// Assert
	if repoCalled {
		t.Error("a cache hit must not touch the row store")
	}
	if lookup.Conversation.ID != "conv-hot" {
		t.Errorf("expected cached conversation, got '%s'", lookup.Conversation.ID)
	}
}

func TestUpdate_SwallowsStoreFailure(t *testing.T) {
	// Arrange
	ctx := context.Background()

	mockRepo := &mocks.MockConversationRepository{
		UpdateStateFunc: func(ctx context.Context, id string, slots domain.SlotSet, step domain.ConversationStep, history []string) error {
			return errors.New("write timeout")
		},
	}
	service := NewService(mockRepo, mocks.NewMockCache(), newTestLogger())

	conv := domain.NewConversation("tenant-1", "+15551234567", domain.ChannelVoice)

	// Act: must not panic or surface the error
	service.Update(ctx, conv)
}

func TestUpdate_SkipsDegradedRecords(t *testing.T) {
	// Arrange
	ctx := context.Background()
	called := false

	mockRepo := &mocks.MockConversationRepository{
		UpdateStateFunc: func(ctx context.Context, id string, slots domain.SlotSet, step domain.ConversationStep, history []string) error {
			called = true
			return nil
		},
	}
	service := NewService(mockRepo, mocks.NewMockCache(), newTestLogger())

	conv := domain.NewConversation("tenant-1", "+15551234567", domain.ChannelVoice)
	conv.ID = ""

	// Act
	service.Update(ctx, conv)

	// Assert
	if called {
		t.Error("an id-less record must never be written to the store")
	}
}

func TestReap_ReturnsCount(t *testing.T) {
	// Arrange
	ctx := context.Background()

	mockRepo := &mocks.MockConversationRepository{
		ReapFunc: func(ctx context.Context, cutoff time.Time) (int64, error) {
			return 3, nil
		},
	}
	service := NewService(mockRepo, mocks.NewMockCache(), newTestLogger())

	// Act
	n, err := service.Reap(ctx, time.Now())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 reaped conversations, got %d", n)
	}
}
