package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/adapter/http/fiber/middleware"
	"github.com/fieldserve/repairline/internal/domain"
	"github.com/fieldserve/repairline/internal/ports"
)

// AdminHandler is the dispatcher-facing management API: FAQ catalog CRUD and
// audio template rendering. Every route is tenant-scoped by the JWT.
type AdminHandler struct {
	auth   ports.AuthService
	faqs   ports.FAQService
	speech ports.SpeechService
	log    *zap.Logger
}

func NewAdminHandler(auth ports.AuthService, faqs ports.FAQService, speech ports.SpeechService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		auth:   auth,
		faqs:   faqs,
		speech: speech,
		log:    log,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required"})
	}

	token, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		h.log.Warn("Login failed", zap.String("email", req.Email))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	return c.JSON(fiber.Map{"accessToken": token})
}

func (h *AdminHandler) ListFAQs(c *fiber.Ctx) error {
	faqs, err := h.faqs.List(c.Context(), middleware.TenantID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list faqs"})
	}
	return c.JSON(faqs)
}

type FAQRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Keywords string `json:"keywords"`
	AudioURL string `json:"audio_url"`
}

func (h *AdminHandler) CreateFAQ(c *fiber.Ctx) error {
	var req FAQRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	faq := &domain.FAQ{
		TenantID: middleware.TenantID(c),
		Question: req.Question,
		Answer:   req.Answer,
		Keywords: req.Keywords,
		AudioURL: req.AudioURL,
	}
	if err := h.faqs.Create(c.Context(), faq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(faq)
}

func (h *AdminHandler) UpdateFAQ(c *fiber.Ctx) error {
	var req FAQRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	faq := &domain.FAQ{
		ID:       c.Params("id"),
		TenantID: middleware.TenantID(c),
		Question: req.Question,
		Answer:   req.Answer,
		Keywords: req.Keywords,
		AudioURL: req.AudioURL,
	}
	if err := h.faqs.Update(c.Context(), faq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(faq)
}

func (h *AdminHandler) DeleteFAQ(c *fiber.Ctx) error {
	if err := h.faqs.Delete(c.Context(), middleware.TenantID(c), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete faq"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type RenderAudioRequest struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// RenderAudio pre-renders one template clip for the tenant. Heavyweight but
// rare; called when a dispatcher edits their scripts.
func (h *AdminHandler) RenderAudio(c *fiber.Ctx) error {
	var req RenderAudioRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Key == "" || req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Key and text are required"})
	}

	tpl, err := h.speech.RenderTemplate(c.Context(), middleware.TenantID(c), req.Key, req.Text)
	if err != nil {
		h.log.Error("failed to render audio template", zap.String("key", req.Key), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to render audio"})
	}

	return c.Status(fiber.StatusCreated).JSON(tpl)
}
