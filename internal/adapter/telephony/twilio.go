// Package telephony is the Twilio-facing edge: outbound SMS, TwiML rendering
// for voice replies, and webhook signature validation.
package telephony

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/ports"
)

// Client sends messages via the Twilio REST API. The from number is per
// tenant, so it travels with each send instead of living on the client.
type Client struct {
	accountSID string
	authToken  string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(accountSID, authToken string, log *zap.Logger) ports.Messenger {
	return &Client{
		accountSID: accountSID,
		authToken:  authToken,
		httpClient: &http.Client{},
		log:        log,
	}
}

// SendSMS sends a single SMS message via Twilio
func (c *Client) SendSMS(ctx context.Context, from, to, body string) error {
	if c.accountSID == "" || c.authToken == "" {
		c.log.Warn("twilio not configured, skipping send", zap.String("to", to))
		return nil
	}

	apiURL := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", c.accountSID)

	data := url.Values{}
	data.Set("To", to)
	data.Set("From", from)
	data.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("sms: create request: %w", err)
	}

	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Failed to send SMS", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("sms: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var twilioErr struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
		}
		json.NewDecoder(resp.Body).Decode(&twilioErr)
		c.log.Error("Twilio API error",
			zap.Int("status", resp.StatusCode),
			zap.String("message", twilioErr.Message),
			zap.Int("twilio_code", twilioErr.Code),
		)
		return fmt.Errorf("sms: twilio error %d: %s", twilioErr.Code, twilioErr.Message)
	}

	c.log.Info("SMS sent", zap.String("to", to))
	return nil
}
