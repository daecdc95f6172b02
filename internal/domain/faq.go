package domain

import (
	"strings"
	"time"
)

// FAQ is one tenant-curated question/answer pair matched against inbound
// utterances by keyword. UsageCount is the only field the core mutates.
type FAQ struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	TenantID   string    `json:"tenant_id" gorm:"index"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Keywords   string    `json:"keywords"` // comma-separated trigger list
	UsageCount int       `json:"usage_count"`
	AudioURL   string    `json:"audio_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// KeywordList splits the comma-separated keyword column, trimmed, lower-cased,
// empties dropped.
func (f FAQ) KeywordList() []string {
	parts := strings.Split(f.Keywords, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
