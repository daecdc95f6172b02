package handlers

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/adapter/telephony"
	"github.com/fieldserve/repairline/internal/domain"
	"github.com/fieldserve/repairline/internal/ports"
)

// Twilio chunks messages above this; long replies go out via the REST API
// instead of inline TwiML.
const smsInlineLimit = 1200

// WebhookHandler answers the Twilio voice and SMS webhooks. These routes are
// the only inbound path for callers; everything else is admin surface.
type WebhookHandler struct {
	dispatch  ports.DispatchService
	tenants   ports.TenantService
	audio     ports.AudioService
	messenger ports.Messenger
	authToken string
	baseURL   string
	log       *zap.Logger
}

func NewWebhookHandler(
	dispatch ports.DispatchService,
	tenants ports.TenantService,
	audio ports.AudioService,
	messenger ports.Messenger,
	authToken string,
	baseURL string,
	log *zap.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		dispatch:  dispatch,
		tenants:   tenants,
		audio:     audio,
		messenger: messenger,
		authToken: authToken,
		baseURL:   baseURL,
		log:       log,
	}
}

// HandleVoice answers one leg of a phone call. The first POST of a call has no
// speech result yet and gets the tenant greeting; later POSTs carry the
// caller's transcribed utterance.
func (h *WebhookHandler) HandleVoice(c *fiber.Ctx) error {
	if !h.validSignature(c) {
		return c.SendStatus(fiber.StatusForbidden)
	}

	to := c.FormValue("To")
	from := c.FormValue("From")
	utterance := c.FormValue("SpeechResult")

	tenant, err := h.tenants.ByNumber(c.Context(), to)
	if err != nil || tenant == nil {
		h.log.Warn("voice webhook for unknown number", zap.String("to", to), zap.Error(err))
		return h.twiml(c, telephony.VoiceHangup("Sorry, this number is not in service."))
	}

	actionURL := h.baseURL + "/webhook/voice"

	if utterance == "" {
		return h.twiml(c, telephony.VoiceReply(h.greetingText(tenant), h.greetingClip(c, tenant.ID), actionURL))
	}

	reply, err := h.dispatch.HandleTurn(c.Context(), domain.Turn{
		TenantID:  tenant.ID,
		ContactID: from,
		Channel:   domain.ChannelVoice,
		Utterance: utterance,
	})
	if err != nil {
		h.log.Error("voice turn failed", zap.String("tenant_id", tenant.ID), zap.Error(err))
		return h.twiml(c, telephony.VoiceReply("Sorry, could you say that again?", "", actionURL))
	}

	return h.twiml(c, telephony.VoiceReply(reply.Text, reply.AudioURL, actionURL))
}

// HandleSMS answers one inbound text message.
func (h *WebhookHandler) HandleSMS(c *fiber.Ctx) error {
	if !h.validSignature(c) {
		return c.SendStatus(fiber.StatusForbidden)
	}

	to := c.FormValue("To")
	from := c.FormValue("From")
	body := c.FormValue("Body")

	tenant, err := h.tenants.ByNumber(c.Context(), to)
	if err != nil || tenant == nil {
		h.log.Warn("sms webhook for unknown number", zap.String("to", to), zap.Error(err))
		return c.SendStatus(fiber.StatusNotFound)
	}

	reply, err := h.dispatch.HandleTurn(c.Context(), domain.Turn{
		TenantID:  tenant.ID,
		ContactID: from,
		Channel:   domain.ChannelText,
		Utterance: body,
	})
	if err != nil {
		h.log.Error("sms turn failed", zap.String("tenant_id", tenant.ID), zap.Error(err))
		return h.twiml(c, telephony.MessageReply("Sorry, something went wrong. Please try again."))
	}

	if len(reply.Text) > smsInlineLimit {
		if err := h.messenger.SendSMS(c.Context(), to, from, reply.Text); err != nil {
			h.log.Error("failed to send long SMS reply", zap.Error(err))
		}
		return h.twiml(c, "<?xml version=\"1.0\" encoding=\"UTF-8\"?><Response></Response>")
	}

	return h.twiml(c, telephony.MessageReply(reply.Text))
}

func (h *WebhookHandler) greetingText(tenant *domain.Tenant) string {
	if tenant.Greeting != "" {
		return tenant.Greeting
	}
	return fmt.Sprintf("Thanks for calling %s. How can I help you today?", tenant.Name)
}

func (h *WebhookHandler) greetingClip(c *fiber.Ctx, tenantID string) string {
	tpl, err := h.audio.Template(c.Context(), tenantID, domain.AudioKeyGreeting)
	if err != nil || tpl == nil {
		return ""
	}
	return tpl.URL
}

func (h *WebhookHandler) validSignature(c *fiber.Ctx) bool {
	// Signature checking is opt-in so local development can post raw forms.
	if h.authToken == "" {
		return true
	}

	form := url.Values{}
	if args := c.Request().PostArgs(); args != nil {
		args.VisitAll(func(key, value []byte) {
			form.Add(string(key), string(value))
		})
	}

	requestURL := h.baseURL + c.Path()
	return telephony.ValidateSignature(h.authToken, requestURL, form, c.Get("X-Twilio-Signature"))
}

func (h *WebhookHandler) twiml(c *fiber.Ctx, body string) error {
	c.Set("Content-Type", "text/xml")
	return c.SendString(body)
}
