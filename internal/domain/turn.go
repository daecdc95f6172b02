package domain

type Channel string

const (
	ChannelVoice Channel = "voice"
	ChannelText  Channel = "text"
)

// ReplySource records which path produced the reply text.
type ReplySource string

const (
	ReplySourceFAQ   ReplySource = "faq"
	ReplySourceFlow  ReplySource = "flow"
	ReplySourceModel ReplySource = "model"
)

// Turn is one inbound message or speech result to be answered.
type Turn struct {
	TenantID  string  `json:"tenant_id"`
	ContactID string  `json:"contact_id"`
	Channel   Channel `json:"channel"`
	Utterance string  `json:"utterance"`
}

// Reply is the outcome of a turn: what to say, the cached clip to play instead
// when one matched, and the accumulated slot state after extraction.
type Reply struct {
	Text       string      `json:"text"`
	AudioURL   string      `json:"audio_url,omitempty"`
	Source     ReplySource `json:"source"`
	Slots      SlotSet     `json:"slots"`
	Completion int         `json:"completion_percentage"`
}
