package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/domain"
)

// Provider defines the interface for email providers
type Provider interface {
	Send(ctx context.Context, to, subject, body string, isHTML bool) error
}

// Config holds email service configuration
type Config struct {
	// Provider type: "sendgrid" or "smtp"
	Provider string

	FromEmail string
	FromName  string

	SendGridAPIKey string

	// SMTP configuration (for Mailhog or other SMTP servers)
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool
}

// DefaultConfig returns a default configuration for development (Mailhog)
func DefaultConfig() *Config {
	return &Config{
		Provider:   "smtp",
		FromEmail:  "noreply@repairline.io",
		FromName:   "RepairLine",
		SMTPHost:   "localhost",
		SMTPPort:   1025,
		SMTPUseTLS: false,
	}
}

// Service sends dispatch-desk notifications. The only message on the turn
// path is the booking confirmation, fired when a conversation completes.
type Service struct {
	config   *Config
	provider Provider
	booking  *template.Template
	log      *zap.Logger
}

func NewService(config *Config, log *zap.Logger) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Service{
		config:  config,
		booking: template.Must(template.New("booking").Parse(bookingTemplate)),
		log:     log,
	}

	switch config.Provider {
	case "sendgrid":
		if config.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SendGrid API key is required")
		}
		s.provider = NewSendGridProvider(config.SendGridAPIKey, config.FromEmail, config.FromName)
	case "smtp":
		s.provider = NewSMTPProvider(
			config.SMTPHost,
			config.SMTPPort,
			config.SMTPUsername,
			config.SMTPPassword,
			config.FromEmail,
			config.FromName,
			config.SMTPUseTLS,
		)
	default:
		return nil, fmt.Errorf("unknown email provider: %s", config.Provider)
	}

	return s, nil
}

// SendBookingConfirmation mails the collected work order to the tenant's
// dispatch address.
func (s *Service) SendBookingConfirmation(ctx context.Context, tenant *domain.Tenant, booking domain.Booking) error {
	if tenant == nil || tenant.DispatchEmail == "" {
		return fmt.Errorf("no dispatch email configured for tenant %s", booking.TenantID)
	}

	appliance := booking.ApplianceType
	if booking.ApplianceMake != "" {
		appliance = booking.ApplianceMake + " " + booking.ApplianceType
	}

	data := map[string]interface{}{
		"TenantName":    tenant.Name,
		"CustomerName":  booking.CustomerName,
		"Appliance":     appliance,
		"Issue":         booking.Issue,
		"StreetAddress": booking.StreetAddress,
		"City":          booking.City,
		"ZipCode":       booking.ZipCode,
		"Callback":      booking.Callback,
		"PreferredTime": booking.PreferredTime,
		"DiagnosticFee": fmt.Sprintf("$%d", domain.DiagnosticFeeCents/100),
	}

	var buf bytes.Buffer
	if err := s.booking.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render booking email: %w", err)
	}

	subject := fmt.Sprintf("New booking: %s - %s", booking.CustomerName, appliance)

	s.log.Info("sending booking confirmation",
		zap.String("tenant_id", booking.TenantID),
		zap.String("to", tenant.DispatchEmail),
	)

	if err := s.provider.Send(ctx, tenant.DispatchEmail, subject, buf.String(), true); err != nil {
		s.log.Error("failed to send booking confirmation",
			zap.String("tenant_id", booking.TenantID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send booking confirmation: %w", err)
	}

	return nil
}
