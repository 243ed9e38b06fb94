package model

import (
	"encoding/json"
	"time"
)

// Interaction is one answered question, persisted asynchronously for audit.
// Flags is stored as a JSON array for portability.
type Interaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Question    string    `gorm:"type:text;not null" json:"question"`
	Answer      string    `gorm:"type:text" json:"answer"`
	Confidence  float64   `json:"confidence"`
	Verified    bool      `json:"verified"`
	Flags       string    `gorm:"type:text" json:"-"`
	SourcesUsed int       `json:"sources_used"`
	CreatedAt   time.Time `json:"created_at"`
}

// FlagList returns the parsed flags; empty on parse error.
func (i *Interaction) FlagList() []string {
	if i.Flags == "" {
		return nil
	}
	var flags []string
	_ = json.Unmarshal([]byte(i.Flags), &flags)
	return flags
}

// SetFlagList stores the flags as JSON.
func (i *Interaction) SetFlagList(flags []string) {
	if len(flags) == 0 {
		i.Flags = "[]"
		return
	}
	b, _ := json.Marshal(flags)
	i.Flags = string(b)
}
