package websocket

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/adapter/ai/gemini"
)

// MediaStreamHandler bridges a Twilio media stream to the Gemini live session
// for low-latency voice. This path is experimental; the webhook TwiML path
// remains the production voice surface.
type MediaStreamHandler struct {
	apiKey string
	log    *zap.Logger
}

func NewMediaStreamHandler(apiKey string, log *zap.Logger) *MediaStreamHandler {
	return &MediaStreamHandler{
		apiKey: apiKey,
		log:    log,
	}
}

// twilioFrame is one message on the media stream socket, both directions.
type twilioFrame struct {
	Event     string `json:"event"`
	StreamSid string `json:"streamSid,omitempty"`
	Start     *struct {
		StreamSid        string            `json:"streamSid"`
		CallSid          string            `json:"callSid"`
		CustomParameters map[string]string `json:"customParameters"`
	} `json:"start,omitempty"`
	Media *struct {
		Payload string `json:"payload"`
	} `json:"media,omitempty"`
}

// HandleStream runs one call's media session: caller audio up to the model,
// model audio back down to the call.
func (h *MediaStreamHandler) HandleStream(c *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	live := gemini.NewLiveClient(h.apiKey, h.log)
	defer live.Close()

	var streamSid string
	started := false

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			return
		}

		var frame twilioFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}

		switch frame.Event {
		case "start":
			if frame.Start == nil {
				continue
			}
			streamSid = frame.Start.StreamSid

			instruction := frame.Start.CustomParameters["system_instruction"]
			if instruction == "" {
				instruction = "You are a phone receptionist for an appliance repair company. Collect the caller's name, appliance problem, address and callback number. Keep answers short and spoken-friendly."
			}
			if err := live.Connect(ctx, instruction); err != nil {
				h.log.Error("failed to open live session", zap.Error(err))
				return
			}
			started = true

			go h.pumpModelAudio(ctx, c, live, streamSid)

		case "media":
			if !started || frame.Media == nil {
				continue
			}
			audio, err := base64.StdEncoding.DecodeString(frame.Media.Payload)
			if err != nil {
				continue
			}
			if err := live.SendAudioChunk(ctx, audio); err != nil {
				h.log.Warn("failed to forward caller audio", zap.Error(err))
			}

		case "stop":
			return
		}
	}
}

// pumpModelAudio reads model audio and writes it back onto the call.
func (h *MediaStreamHandler) pumpModelAudio(ctx context.Context, c *websocket.Conn, live *gemini.LiveClient, streamSid string) {
	for {
		resp, err := live.Receive(ctx)
		if err != nil {
			return
		}

		for _, chunk := range resp.AudioChunks() {
			frame := map[string]interface{}{
				"event":     "media",
				"streamSid": streamSid,
				"media": map[string]string{
					"payload": base64.StdEncoding.EncodeToString(chunk),
				},
			}
			payload, err := json.Marshal(frame)
			if err != nil {
				continue
			}
			if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}

// RegisterRoutes mounts the media stream upgrade route.
func (h *MediaStreamHandler) RegisterRoutes(app *fiber.App) {
	app.Use("/ws/media", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/media", websocket.New(h.HandleStream))
}
