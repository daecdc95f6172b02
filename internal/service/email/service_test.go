package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/domain"
)

// MockProvider is a mock email provider for testing
type MockProvider struct {
	SentEmails []MockEmail
	ShouldFail bool
}

type MockEmail struct {
	To      string
	Subject string
	Body    string
	IsHTML  bool
}

func (m *MockProvider) Send(ctx context.Context, to, subject, body string, isHTML bool) error {
	if m.ShouldFail {
		return errors.New("mock send failed")
	}
	m.SentEmails = append(m.SentEmails, MockEmail{To: to, Subject: subject, Body: body, IsHTML: isHTML})
	return nil
}

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func testService(t *testing.T, provider Provider) *Service {
	t.Helper()
	s, err := NewService(DefaultConfig(), newTestLogger())
	if err != nil {
		t.Fatalf("failed to build email service: %v", err)
	}
	s.provider = provider
	return s
}

func testBooking() domain.Booking {
	return domain.Booking{
		TenantID:      "tenant-1",
		ContactID:     "+15551234567",
		CustomerName:  "John Smith",
		ApplianceMake: "Samsung",
		ApplianceType: "washer",
		Issue:         "leaking",
		StreetAddress: "425 Oak Street",
		City:          "Riverside",
		ZipCode:       "92501",
		Callback:      "5551234567",
		PreferredTime: "tomorrow morning",
	}
}

func TestSendBookingConfirmation_MailsDispatchDesk(t *testing.T) {
	// Arrange
	provider := &MockProvider{}
	service := testService(t, provider)
	tenant := &domain.Tenant{
		ID:            "tenant-1",
		Name:          "Apex Appliance Repair",
		DispatchEmail: "dispatch@apex.example.com",
	}

	// Act
	err := service.SendBookingConfirmation(context.Background(), tenant, testBooking())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(provider.SentEmails) != 1 {
		t.Fatalf("expected one email, got %d", len(provider.SentEmails))
	}

	sent := provider.SentEmails[0]
	if sent.To != "dispatch@apex.example.com" {
		t.Errorf("expected the dispatch address, got '%s'", sent.To)
	}
	if !sent.IsHTML {
		t.Error("booking confirmation must be HTML")
	}
	if !strings.Contains(sent.Subject, "John Smith") {
		t.Errorf("subject must name the customer, got '%s'", sent.Subject)
	}
	for _, want := range []string{"John Smith", "Samsung washer", "425 Oak Street", "Riverside", "92501", "5551234567", "tomorrow morning", "$89"} {
		if !strings.Contains(sent.Body, want) {
			t.Errorf("body missing '%s'", want)
		}
	}
}

func TestSendBookingConfirmation_RequiresDispatchEmail(t *testing.T) {
	// Arrange
	service := testService(t, &MockProvider{})
	tenant := &domain.Tenant{ID: "tenant-1", Name: "Apex Appliance Repair"}

	// Act
	err := service.SendBookingConfirmation(context.Background(), tenant, testBooking())

	// Assert
	if err == nil {
		t.Error("expected an error when the tenant has no dispatch email")
	}
}

func TestSendBookingConfirmation_PropagatesProviderFailure(t *testing.T) {
	// Arrange
	service := testService(t, &MockProvider{ShouldFail: true})
	tenant := &domain.Tenant{
		ID:            "tenant-1",
		Name:          "Apex Appliance Repair",
		DispatchEmail: "dispatch@apex.example.com",
	}

	// Act
	err := service.SendBookingConfirmation(context.Background(), tenant, testBooking())

	// Assert
	if err == nil {
		t.Error("expected the provider failure to propagate")
	}
}

func TestNewService_RejectsUnknownProvider(t *testing.T) {
	// Arrange
	cfg := DefaultConfig()
	cfg.Provider = "carrier-pigeon"

	// Act
	_, err := NewService(cfg, newTestLogger())

	// Assert
	if err == nil {
		t.Error("expected an error for an unknown provider")
	}
}
