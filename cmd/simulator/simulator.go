package main

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// SimulatorConfig holds the simulator configuration
type SimulatorConfig struct {
	ServerURL  string
	Channel    string // voice or sms
	FromNumber string
	ToNumber   string
	CallSid    string
}

// Simulator plays the caller side of a conversation against a running engine.
// Voice turns post SpeechResult the way Twilio does after a gather; SMS turns
// post Body. Replies come back as TwiML and are reduced to their spoken text.
type Simulator struct {
	config *SimulatorConfig
	client *http.Client
	log    *zap.Logger
}

func NewSimulator(config *SimulatorConfig, log *zap.Logger) *Simulator {
	return &Simulator{
		config: config,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

// SendTurn posts one caller utterance and returns the agent's spoken reply.
// An empty utterance on the voice channel is the greeting leg.
func (s *Simulator) SendTurn(utterance string) (string, error) {
	form := url.Values{}
	form.Set("From", s.config.FromNumber)
	form.Set("To", s.config.ToNumber)

	var endpoint string
	if s.config.Channel == "sms" {
		endpoint = s.config.ServerURL + "/webhook/sms"
		form.Set("MessageSid", s.config.CallSid)
		form.Set("Body", utterance)
	} else {
		endpoint = s.config.ServerURL + "/webhook/voice"
		form.Set("CallSid", s.config.CallSid)
		if utterance != "" {
			form.Set("SpeechResult", utterance)
		}
	}

	resp, err := s.client.PostForm(endpoint, form)
	if err != nil {
		return "", fmt.Errorf("post turn: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("engine returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return extractSpokenText(body), nil
}

// RunInteractive reads caller utterances from stdin until EOF.
func (s *Simulator) RunInteractive() {
	fmt.Printf("Simulating a %s conversation with %s. Type what the caller says, Ctrl-D to hang up.\n",
		s.config.Channel, s.config.ToNumber)

	if s.config.Channel == "voice" {
		reply, err := s.SendTurn("")
		if err != nil {
			s.log.Error("Greeting leg failed", zap.Error(err))
			return
		}
		fmt.Println("agent:", reply)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("caller> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		utterance := strings.TrimSpace(scanner.Text())
		if utterance == "" {
			continue
		}

		reply, err := s.SendTurn(utterance)
		if err != nil {
			s.log.Error("Turn failed", zap.Error(err))
			continue
		}
		fmt.Println("agent:", reply)
	}
}

// RunScript replays a file of caller utterances, one per line. Blank lines
// and lines starting with # are skipped.
func (s *Simulator) RunScript(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if s.config.Channel == "voice" {
		reply, err := s.SendTurn("")
		if err != nil {
			return err
		}
		fmt.Println("agent:", reply)
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		utterance := strings.TrimSpace(scanner.Text())
		if utterance == "" || strings.HasPrefix(utterance, "#") {
			continue
		}

		fmt.Println("caller:", utterance)
		reply, err := s.SendTurn(utterance)
		if err != nil {
			return err
		}
		fmt.Println("agent:", reply)
	}
	return scanner.Err()
}

// WatchMonitor tails the dispatcher monitor feed and prints turn events.
func (s *Simulator) WatchMonitor(wsURL, token string) {
	if token != "" {
		sep := "?"
		if strings.Contains(wsURL, "?") {
			sep = "&"
		}
		wsURL = wsURL + sep + "token=" + url.QueryEscape(token)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		s.log.Error("Monitor connection failed", zap.Error(err))
		return
	}
	defer conn.Close()

	s.log.Info("Watching monitor feed", zap.String("url", wsURL))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		fmt.Println("event:", string(data))
	}
}

// extractSpokenText pulls the Say/Message text out of a TwiML reply so the
// terminal shows what the caller would hear.
func extractSpokenText(twiml []byte) string {
	decoder := xml.NewDecoder(strings.NewReader(string(twiml)))

	var parts []string
	var inText bool
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "Say", "Message":
				inText = true
			case "Play":
				parts = append(parts, "[audio clip]")
			case "Hangup":
				parts = append(parts, "[hangup]")
			}
		case xml.EndElement:
			if t.Name.Local == "Say" || t.Name.Local == "Message" {
				inText = false
			}
		case xml.CharData:
			if inText {
				if text := strings.TrimSpace(string(t)); text != "" {
					parts = append(parts, text)
				}
			}
		}
	}

	if len(parts) == 0 {
		return "[no reply]"
	}
	return strings.Join(parts, " ")
}
