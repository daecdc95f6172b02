package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/domain"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func testBooking() domain.Booking {
	return domain.Booking{
		TenantID:      "tenant-1",
		ContactID:     "+15551234567",
		ApplianceMake: "Samsung",
		ApplianceType: "washer",
		StreetAddress: "425 Oak Street",
	}
}

func TestCreateDiagnosticFeeLink_ChargesTheFlatFee(t *testing.T) {
	// Arrange
	var captured *stripe.CheckoutSessionParams
	service := NewStripeService("sk_test_dummy", "https://book.example.com/paid", newTestLogger()).(*StripeService)
	service.newSession = func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		captured = params
		return &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/pay/cs_test_1"}, nil
	}

	// Act
	url, err := service.CreateDiagnosticFeeLink(context.Background(), testBooking())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if url != "https://checkout.stripe.com/pay/cs_test_1" {
		t.Errorf("expected the hosted checkout URL, got '%s'", url)
	}
	if captured == nil {
		t.Fatal("expected checkout params to be built")
	}
	if got := *captured.LineItems[0].PriceData.UnitAmount; got != 8900 {
		t.Errorf("expected an 8900 cent fee, got %d", got)
	}
	if got := captured.Metadata["tenant_id"]; got != "tenant-1" {
		t.Errorf("expected tenant metadata, got '%s'", got)
	}
	if got := captured.Metadata["credited_toward_repair"]; got != "true" {
		t.Errorf("expected the fee to be flagged as credited, got '%s'", got)
	}
}

func TestCreateDiagnosticFeeLink_WrapsStripeError(t *testing.T) {
	// Arrange
	service := NewStripeService("sk_test_dummy", "https://book.example.com/paid", newTestLogger()).(*StripeService)
	service.newSession = func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		return nil, errors.New("api key expired")
	}

	// Act
	_, err := service.CreateDiagnosticFeeLink(context.Background(), testBooking())

	// Assert
	if err == nil {
		t.Error("expected the stripe failure to propagate")
	}
}
