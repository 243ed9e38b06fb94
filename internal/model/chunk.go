package model

// Chunk is one retrievable unit of document text.
// Page and Paragraph are 1-based source locators; 0 means unknown.
type Chunk struct {
	Content      string  `json:"content"`
	Type         string  `json:"type"`
	Page         int     `json:"page,omitempty"`
	Paragraph    int     `json:"paragraph,omitempty"`
	CharCount    int     `json:"char_count"`
	HasImages    bool    `json:"has_images"`
	ImageContext string  `json:"image_context,omitempty"`
	Confidence   float64 `json:"confidence"`
}

const (
	ChunkTypeText             = "text"
	ChunkTypeImagePlaceholder = "image_placeholder"
)

// ChunkMetadata is the per-chunk record stored alongside the embedding,
// addressed by the same positional index as the vector store.
type ChunkMetadata struct {
	DocumentID string  `json:"document_id"`
	ChunkIndex int     `json:"chunk_index"`
	Type       string  `json:"type"`
	Page       int     `json:"page,omitempty"`
	Paragraph  int     `json:"paragraph,omitempty"`
	HasImages  bool    `json:"has_images"`
	Confidence float64 `json:"confidence"`
}

// RetrievedChunk is one nearest-neighbor hit. Relevance is 1/(1+distance),
// monotonically decreasing in L2 distance and bounded in (0,1].
type RetrievedChunk struct {
	Content   string        `json:"content"`
	Metadata  ChunkMetadata `json:"metadata"`
	Distance  float64       `json:"distance"`
	Relevance float64       `json:"relevance_score"`
}
