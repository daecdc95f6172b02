package domain

import "time"

// Audio template keys pre-rendered for every tenant. The batch fetch on each
// voice turn pulls CommonAudioKeys; anything else is looked up on demand.
const (
	AudioKeyGreeting      = "greeting"
	AudioKeyDiagnosticFee = "diagnostic_fee"
	AudioKeyConfirmation  = "confirmation"
	AudioKeyHours         = "hours"
	AudioKeyServiceArea   = "service_area"
	AudioKeyCallback      = "callback"
)

var CommonAudioKeys = []string{
	AudioKeyGreeting,
	AudioKeyDiagnosticFee,
	AudioKeyConfirmation,
	AudioKeyHours,
	AudioKeyServiceArea,
	AudioKeyCallback,
}

// AudioTemplate is a pre-rendered clip with the transcript it was rendered
// from. Matching runs against the transcript; playback uses the URL.
type AudioTemplate struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	TenantID   string    `json:"tenant_id" gorm:"uniqueIndex:idx_audio_tenant_key"`
	Key        string    `json:"key" gorm:"uniqueIndex:idx_audio_tenant_key"`
	URL        string    `json:"url"`
	Transcript string    `json:"transcript"`
	UsageCount int       `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
