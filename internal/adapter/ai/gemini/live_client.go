package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

const liveModel = "gemini-2.0-flash-exp"

// LiveClient bridges a phone media stream to the Gemini Live API for
// low-latency speech-to-speech turns. The dialogue engine still owns state;
// this client only carries audio.
type LiveClient struct {
	apiKey  string
	modelID string
	log     *zap.Logger
	conn    *websocket.Conn
}

func NewLiveClient(apiKey string, log *zap.Logger) *LiveClient {
	return &LiveClient{
		apiKey:  apiKey,
		modelID: liveModel,
		log:     log,
	}
}

// Connect opens the bidirectional stream and sends the session setup. The
// system instruction frames the session; per-turn grounding arrives as text.
func (c *LiveClient) Connect(ctx context.Context, systemInstruction string) error {
	url := "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1alpha.GenerativeService.BidiGenerateContent"

	headers := http.Header{
		"Content-Type": []string{"application/json"},
	}

	conn, _, err := websocket.Dial(ctx, url+"?key="+c.apiKey, &websocket.DialOptions{
		HTTPHeader: headers,
	})
	if err != nil {
		return fmt.Errorf("gemini live: dial: %w", err)
	}

	c.conn = conn

	setup := map[string]interface{}{
		"setup": map[string]interface{}{
			"model": "models/" + c.modelID,
			"generation_config": map[string]interface{}{
				"response_modalities": []string{"AUDIO"},
				"speech_config": map[string]interface{}{
					"voice_config": map[string]interface{}{
						"prebuilt_voice_config": map[string]string{
							"voice_name": "Aoede",
						},
					},
				},
			},
			"system_instruction": map[string]interface{}{
				"parts": []map[string]string{
					{"text": systemInstruction},
				},
			},
		},
	}

	return c.send(ctx, setup)
}

// SendAudioChunk forwards caller PCM16 audio to the model.
func (c *LiveClient) SendAudioChunk(ctx context.Context, audioData []byte) error {
	msg := map[string]interface{}{
		"realtime_input": map[string]interface{}{
			"media_chunks": []map[string]string{
				{
					"mime_type": "audio/pcm",
					"data":      base64.StdEncoding.EncodeToString(audioData),
				},
			},
		},
	}

	return c.send(ctx, msg)
}

// SendText injects a text turn into the live session. Used to ground the model
// with the flow engine's question when the state machine decides the reply.
func (c *LiveClient) SendText(ctx context.Context, text string) error {
	msg := map[string]interface{}{
		"client_content": map[string]interface{}{
			"turns": []map[string]interface{}{
				{
					"role":  "user",
					"parts": []map[string]string{{"text": text}},
				},
			},
			"turn_complete": true,
		},
	}

	return c.send(ctx, msg)
}

// Receive reads the next server message from the live session.
func (c *LiveClient) Receive(ctx context.Context) (*LiveResponse, error) {
	_, data, err := c.conn.Read(ctx)
	if err != nil {
		return nil, err
	}

	var response LiveResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// Close tears down the live session.
func (c *LiveClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close(websocket.StatusNormalClosure, "session ended")
}

func (c *LiveClient) send(ctx context.Context, msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return c.conn.Write(ctx, websocket.MessageText, data)
}

// LiveResponse is one server message from the live session. Audio arrives
// base64-encoded in inline data parts.
type LiveResponse struct {
	ServerContent struct {
		ModelTurn struct {
			Parts []struct {
				Text       string `json:"text,omitempty"`
				InlineData struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData,omitempty"`
			} `json:"parts"`
		} `json:"modelTurn"`
		TurnComplete bool `json:"turnComplete"`
	} `json:"serverContent"`
}

// AudioChunks decodes every audio part in the message.
func (r *LiveResponse) AudioChunks() [][]byte {
	var chunks [][]byte
	for _, p := range r.ServerContent.ModelTurn.Parts {
		if p.InlineData.Data == "" {
			continue
		}
		if decoded, err := base64.StdEncoding.DecodeString(p.InlineData.Data); err == nil {
			chunks = append(chunks, decoded)
		}
	}
	return chunks
}
