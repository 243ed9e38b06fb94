package model

// MultimodalContext summarizes whether retrieved chunks are associated with
// image content that was never itself retrieved.
type MultimodalContext struct {
	HasMultimodalContent    bool   `json:"has_multimodal_content"`
	ImageChunkCount         int    `json:"image_chunk_count"`
	RequiresSpecialHandling bool   `json:"requires_special_handling"`
	UncertaintyLevel        string `json:"uncertainty_level"`
}

// IngestResult is the outcome of processing one document.
type IngestResult struct {
	Success       bool           `json:"success"`
	DocumentID    string         `json:"document_id,omitempty"`
	Type          string         `json:"type,omitempty"`
	ChunksCreated int            `json:"chunks_created"`
	HasImages     bool           `json:"has_images"`
	ImageAnalysis *ImageAnalysis `json:"image_analysis,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// QueryResult is the outcome of answering one question.
type QueryResult struct {
	Success           bool               `json:"success"`
	Response          string             `json:"response"`
	Confidence        float64            `json:"confidence"`
	Verified          bool               `json:"verified"`
	Flags             []string           `json:"flags,omitempty"`
	MultimodalContext *MultimodalContext `json:"multimodal_context,omitempty"`
	SourcesUsed       int                `json:"sources_used"`
	Verification      *Verification      `json:"verification_details,omitempty"`
	Cached            bool               `json:"cached,omitempty"`
	Error             string             `json:"error,omitempty"`
}
