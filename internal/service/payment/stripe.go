package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/domain"
	"github.com/fieldserve/repairline/internal/ports"
)

// StripeService creates the hosted checkout link for the diagnostic fee. The
// fee is collected up front and credited toward the repair; the crediting
// itself happens in the dispatcher's invoicing, not here.
type StripeService struct {
	successURL string
	log        *zap.Logger

	// newSession is session.New unless a test swaps it out.
	newSession func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

func NewStripeService(secretKey, successURL string, log *zap.Logger) ports.PaymentService {
	stripe.Key = secretKey
	return &StripeService{
		successURL: successURL,
		log:        log,
		newSession: session.New,
	}
}

func (s *StripeService) CreateDiagnosticFeeLink(ctx context.Context, booking domain.Booking) (string, error) {
	description := fmt.Sprintf("Diagnostic visit for %s %s at %s",
		booking.ApplianceMake, booking.ApplianceType, booking.StreetAddress)

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(domain.DiagnosticFeeCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String("Appliance diagnostic visit"),
					Description: stripe.String(description),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(s.successURL),
	}
	params.AddMetadata("tenant_id", booking.TenantID)
	params.AddMetadata("contact_id", booking.ContactID)
	params.AddMetadata("credited_toward_repair", "true")

	sess, err := s.newSession(params)
	if err != nil {
		return "", fmt.Errorf("stripe checkout error: %w", err)
	}

	s.log.Info("diagnostic fee link created",
		zap.String("tenant_id", booking.TenantID),
		zap.String("session_id", sess.ID),
	)

	return sess.URL, nil
}
