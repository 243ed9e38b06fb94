package model

import "time"

// DocumentRecord is the catalog row for one ingested document. The vector
// index is the retrieval source of truth; this row exists for listing.
type DocumentRecord struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Name       string    `gorm:"size:255" json:"name"`
	Type       string    `gorm:"size:16" json:"type"`
	ChunkCount int       `json:"chunk_count"`
	ImageCount int       `json:"image_count"`
	Routing    string    `gorm:"size:32" json:"routing,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
