package ports

import (
	"context"
	"time"

	"github.com/fieldserve/repairline/internal/domain"
)

// DispatchService answers one inbound turn end to end.
type DispatchService interface {
	HandleTurn(ctx context.Context, turn domain.Turn) (*domain.Reply, error)
}

// ConversationService owns the per-(tenant, contact) dialogue record.
type ConversationService interface {
	// Get never fails the turn: a store outage degrades to a transient
	// in-memory record, reported through the lookup outcome.
	Get(ctx context.Context, tenantID, contactID string, ch domain.Channel) domain.ConversationLookup
	// Update is best-effort and a no-op for degraded (id-less) records.
	Update(ctx context.Context, conv *domain.Conversation)
	Reap(ctx context.Context, cutoff time.Time) (int64, error)
}

// FAQService matches utterances against a tenant's FAQ catalog.
type FAQService interface {
	Match(ctx context.Context, tenantID, utterance string) (*domain.FAQ, bool)
	List(ctx context.Context, tenantID string) ([]domain.FAQ, error)
	Create(ctx context.Context, faq *domain.FAQ) error
	Update(ctx context.Context, faq *domain.FAQ) error
	Delete(ctx context.Context, tenantID, id string) error
}

// AudioService matches generated reply text against pre-rendered clips.
type AudioService interface {
	MatchReply(ctx context.Context, tenantID, replyText string) (*domain.AudioTemplate, bool)
	Template(ctx context.Context, tenantID, key string) (*domain.AudioTemplate, error)
}

// TenantService resolves the tenant owning an inbound number.
type TenantService interface {
	ByID(ctx context.Context, id string) (*domain.Tenant, error)
	ByNumber(ctx context.Context, number string) (*domain.Tenant, error)
}

// Responder is the generative fallback, used only when neither the FAQ
// catalog nor the flow engine can answer.
type Responder interface {
	Respond(ctx context.Context, utterance, systemPrompt string, history []string) (string, error)
}

// Messenger pushes outbound SMS replies.
type Messenger interface {
	SendSMS(ctx context.Context, from, to, body string) error
}

// EmailService notifies the tenant's dispatch desk.
type EmailService interface {
	SendBookingConfirmation(ctx context.Context, tenant *domain.Tenant, booking domain.Booking) error
}

// PaymentService creates the diagnostic-fee payment link attached to a
// completed booking.
type PaymentService interface {
	CreateDiagnosticFeeLink(ctx context.Context, booking domain.Booking) (string, error)
}

// SpeechService pre-renders template audio; not on the per-turn path.
type SpeechService interface {
	RenderTemplate(ctx context.Context, tenantID, key, text string) (*domain.AudioTemplate, error)
}

// SpeechSynthesizer turns text into playable audio bytes.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, string, error)
}

// AuthService guards the admin API.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (*AdminClaims, error)
}

// AdminClaims is the validated admin identity.
type AdminClaims struct {
	Subject  string `json:"sub"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
}
