package mocks

import (
	"context"
	"time"

	"github.com/fieldserve/repairline/internal/domain"
)

// MockConversationRepository is a mock implementation of ConversationRepository
type MockConversationRepository struct {
	FindActiveFunc  func(ctx context.Context, tenantID, contactID string) (*domain.Conversation, error)
	InsertFunc      func(ctx context.Context, conv *domain.Conversation) error
	UpdateStateFunc func(ctx context.Context, id string, slots domain.SlotSet, step domain.ConversationStep, history []string) error
	ReapFunc        func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *MockConversationRepository) FindActive(ctx context.Context, tenantID, contactID string) (*domain.Conversation, error) {
	if m.FindActiveFunc != nil {
		return m.FindActiveFunc(ctx, tenantID, contactID)
	}
	return nil, nil
}

func (m *MockConversationRepository) Insert(ctx context.Context, conv *domain.Conversation) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, conv)
	}
	return nil
}

func (m *MockConversationRepository) UpdateState(ctx context.Context, id string, slots domain.SlotSet, step domain.ConversationStep, history []string) error {
	if m.UpdateStateFunc != nil {
		return m.UpdateStateFunc(ctx, id, slots, step, history)
	}
	return nil
}

func (m *MockConversationRepository) Reap(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.ReapFunc != nil {
		return m.ReapFunc(ctx, cutoff)
	}
	return 0, nil
}

// MockFAQRepository is a mock implementation of FAQRepository
type MockFAQRepository struct {
	ListByTenantFunc   func(ctx context.Context, tenantID string) ([]domain.FAQ, error)
	InsertFunc         func(ctx context.Context, faq *domain.FAQ) error
	UpdateFunc         func(ctx context.Context, faq *domain.FAQ) error
	DeleteFunc         func(ctx context.Context, id string) error
	IncrementUsageFunc func(ctx context.Context, id string) error
}

func (m *MockFAQRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.FAQ, error) {
	if m.ListByTenantFunc != nil {
		return m.ListByTenantFunc(ctx, tenantID)
	}
	return []domain.FAQ{}, nil
}

func (m *MockFAQRepository) Insert(ctx context.Context, faq *domain.FAQ) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, faq)
	}
	return nil
}

func (m *MockFAQRepository) Update(ctx context.Context, faq *domain.FAQ) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, faq)
	}
	return nil
}

func (m *MockFAQRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockFAQRepository) IncrementUsage(ctx context.Context, id string) error {
	if m.IncrementUsageFunc != nil {
		return m.IncrementUsageFunc(ctx, id)
	}
	return nil
}

// MockAudioTemplateRepository is a mock implementation of AudioTemplateRepository
type MockAudioTemplateRepository struct {
	ListByKeysFunc     func(ctx context.Context, tenantID string, keys []string) ([]domain.AudioTemplate, error)
	FindByKeyFunc      func(ctx context.Context, tenantID, key string) (*domain.AudioTemplate, error)
	UpsertFunc         func(ctx context.Context, tpl *domain.AudioTemplate) error
	IncrementUsageFunc func(ctx context.Context, id string) error
}

func (m *MockAudioTemplateRepository) ListByKeys(ctx context.Context, tenantID string, keys []string) ([]domain.AudioTemplate, error) {
	if m.ListByKeysFunc != nil {
		return m.ListByKeysFunc(ctx, tenantID, keys)
	}
	return []domain.AudioTemplate{}, nil
}

func (m *MockAudioTemplateRepository) FindByKey(ctx context.Context, tenantID, key string) (*domain.AudioTemplate, error) {
	if m.FindByKeyFunc != nil {
		return m.FindByKeyFunc(ctx, tenantID, key)
	}
	return nil, nil
}

func (m *MockAudioTemplateRepository) Upsert(ctx context.Context, tpl *domain.AudioTemplate) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tpl)
	}
	return nil
}

func (m *MockAudioTemplateRepository) IncrementUsage(ctx context.Context, id string) error {
	if m.IncrementUsageFunc != nil {
		return m.IncrementUsageFunc(ctx, id)
	}
	return nil
}

// MockTenantRepository is a mock implementation of TenantRepository
type MockTenantRepository struct {
	FindByIDFunc     func(ctx context.Context, id string) (*domain.Tenant, error)
	FindByNumberFunc func(ctx context.Context, number string) (*domain.Tenant, error)
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id string) (*domain.Tenant, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTenantRepository) FindByNumber(ctx context.Context, number string) (*domain.Tenant, error) {
	if m.FindByNumberFunc != nil {
		return m.FindByNumberFunc(ctx, number)
	}
	return nil, nil
}
