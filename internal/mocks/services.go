package mocks

import (
	"context"
	"time"

	"github.com/fieldserve/repairline/internal/domain"
	"github.com/fieldserve/repairline/internal/ports"
)

// MockConversationService is a mock implementation of ConversationService interface
type MockConversationService struct {
	GetFunc    func(ctx context.Context, tenantID, contactID string, ch domain.Channel) domain.ConversationLookup
	UpdateFunc func(ctx context.Context, conv *domain.Conversation)
	ReapFunc   func(ctx context.Context, cutoff time.Time) (int64, error)

	Updated []*domain.Conversation
}

func (m *MockConversationService) Get(ctx context.Context, tenantID, contactID string, ch domain.Channel) domain.ConversationLookup {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, tenantID, contactID, ch)
	}
	return domain.ConversationLookup{
		Conversation: domain.NewConversation(tenantID, contactID, ch),
		Outcome:      domain.LookupCreated,
	}
}

func (m *MockConversationService) Update(ctx context.Context, conv *domain.Conversation) {
	m.Updated = append(m.Updated, conv)
	if m.UpdateFunc != nil {
		m.UpdateFunc(ctx, conv)
	}
}

func (m *MockConversationService) Reap(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.ReapFunc != nil {
		return m.ReapFunc(ctx, cutoff)
	}
	return 0, nil
}

// MockDispatchService is a mock implementation of DispatchService interface
type MockDispatchService struct {
	HandleTurnFunc func(ctx context.Context, turn domain.Turn) (*domain.Reply, error)
	Turns          []domain.Turn
}

func (m *MockDispatchService) HandleTurn(ctx context.Context, turn domain.Turn) (*domain.Reply, error) {
	m.Turns = append(m.Turns, turn)
	if m.HandleTurnFunc != nil {
		return m.HandleTurnFunc(ctx, turn)
	}
	return &domain.Reply{Text: "Got it.", Source: domain.ReplySourceFlow}, nil
}

// MockFAQService is a mock implementation of FAQService interface
type MockFAQService struct {
	MatchFunc  func(ctx context.Context, tenantID, utterance string) (*domain.FAQ, bool)
	ListFunc   func(ctx context.Context, tenantID string) ([]domain.FAQ, error)
	CreateFunc func(ctx context.Context, faq *domain.FAQ) error
	UpdateFunc func(ctx context.Context, faq *domain.FAQ) error
	DeleteFunc func(ctx context.Context, tenantID, id string) error
}

func (m *MockFAQService) Match(ctx context.Context, tenantID, utterance string) (*domain.FAQ, bool) {
	if m.MatchFunc != nil {
		return m.MatchFunc(ctx, tenantID, utterance)
	}
	return nil, false
}

func (m *MockFAQService) List(ctx context.Context, tenantID string) ([]domain.FAQ, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, tenantID)
	}
	return []domain.FAQ{}, nil
}

func (m *MockFAQService) Create(ctx context.Context, faq *domain.FAQ) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, faq)
	}
	return nil
}

func (m *MockFAQService) Update(ctx context.Context, faq *domain.FAQ) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, faq)
	}
	return nil
}

func (m *MockFAQService) Delete(ctx context.Context, tenantID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tenantID, id)
	}
	return nil
}

// MockAudioService is a mock implementation of AudioService interface
type MockAudioService struct {
	MatchReplyFunc func(ctx context.Context, tenantID, replyText string) (*domain.AudioTemplate, bool)
	TemplateFunc   func(ctx context.Context, tenantID, key string) (*domain.AudioTemplate, error)
}

func (m *MockAudioService) MatchReply(ctx context.Context, tenantID, replyText string) (*domain.AudioTemplate, bool) {
	if m.MatchReplyFunc != nil {
		return m.MatchReplyFunc(ctx, tenantID, replyText)
	}
	return nil, false
}

func (m *MockAudioService) Template(ctx context.Context, tenantID, key string) (*domain.AudioTemplate, error) {
	if m.TemplateFunc != nil {
		return m.TemplateFunc(ctx, tenantID, key)
	}
	return nil, nil
}

// MockTenantService is a mock implementation of TenantService interface
type MockTenantService struct {
	ByIDFunc     func(ctx context.Context, id string) (*domain.Tenant, error)
	ByNumberFunc func(ctx context.Context, number string) (*domain.Tenant, error)
}

func (m *MockTenantService) ByID(ctx context.Context, id string) (*domain.Tenant, error) {
	if m.ByIDFunc != nil {
		return m.ByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTenantService) ByNumber(ctx context.Context, number string) (*domain.Tenant, error) {
	if m.ByNumberFunc != nil {
		return m.ByNumberFunc(ctx, number)
	}
	return nil, nil
}

// MockResponder is a mock implementation of Responder interface
type MockResponder struct {
	RespondFunc func(ctx context.Context, utterance, systemPrompt string, history []string) (string, error)
	Calls       int
}

func (m *MockResponder) Respond(ctx context.Context, utterance, systemPrompt string, history []string) (string, error) {
	m.Calls++
	if m.RespondFunc != nil {
		return m.RespondFunc(ctx, utterance, systemPrompt, history)
	}
	return "", nil
}

// MockMessenger is a mock implementation of Messenger interface
type MockMessenger struct {
	SendSMSFunc func(ctx context.Context, from, to, body string) error
	Sent        []string
}

func (m *MockMessenger) SendSMS(ctx context.Context, from, to, body string) error {
	m.Sent = append(m.Sent, body)
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(ctx, from, to, body)
	}
	return nil
}

// MockEmailService is a mock implementation of EmailService interface
type MockEmailService struct {
	SendBookingConfirmationFunc func(ctx context.Context, tenant *domain.Tenant, booking domain.Booking) error
	Bookings                    []domain.Booking
}

func (m *MockEmailService) SendBookingConfirmation(ctx context.Context, tenant *domain.Tenant, booking domain.Booking) error {
	m.Bookings = append(m.Bookings, booking)
	if m.SendBookingConfirmationFunc != nil {
		return m.SendBookingConfirmationFunc(ctx, tenant, booking)
	}
	return nil
}

// MockPaymentService is a mock implementation of PaymentService interface
type MockPaymentService struct {
	CreateDiagnosticFeeLinkFunc func(ctx context.Context, booking domain.Booking) (string, error)
	Links                       int
}

func (m *MockPaymentService) CreateDiagnosticFeeLink(ctx context.Context, booking domain.Booking) (string, error) {
	m.Links++
	if m.CreateDiagnosticFeeLinkFunc != nil {
		return m.CreateDiagnosticFeeLinkFunc(ctx, booking)
	}
	return "https://pay.example.com/link/test", nil
}

// MockSpeechService is a mock implementation of SpeechService interface
type MockSpeechService struct {
	RenderTemplateFunc func(ctx context.Context, tenantID, key, text string) (*domain.AudioTemplate, error)
}

func (m *MockSpeechService) RenderTemplate(ctx context.Context, tenantID, key, text string) (*domain.AudioTemplate, error) {
	if m.RenderTemplateFunc != nil {
		return m.RenderTemplateFunc(ctx, tenantID, key, text)
	}
	return &domain.AudioTemplate{TenantID: tenantID, Key: key, Transcript: text}, nil
}

// MockAuthService is a mock implementation of AuthService interface
type MockAuthService struct {
	LoginFunc         func(ctx context.Context, email, password string) (string, error)
	ValidateTokenFunc func(ctx context.Context, token string) (*ports.AdminClaims, error)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return "", nil
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*ports.AdminClaims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	return &ports.AdminClaims{Subject: "admin@example.com", Role: "admin"}, nil
}
