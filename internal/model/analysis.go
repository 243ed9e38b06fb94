package model

// Routing decisions for a document based on its image analysis.
const (
	RoutingTextOnly           = "text_only"
	RoutingTextPrimary        = "text_primary"
	RoutingHybridProcessing   = "hybrid_processing"
	RoutingMultimodalRequired = "multimodal_required"
)

// Image importance tiers and recommended actions as the analysis model reports them.
const (
	ImportanceCritical = "critical"
	ImportanceModerate = "moderate"
	ImportanceLow      = "low"
	ImportanceUnknown  = "unknown"

	RecommendProcessWithText = "process_with_text"
	RecommendDeferToHuman    = "defer_to_human"
	RecommendFlagUncertainty = "flag_uncertainty"
	RecommendHumanReview     = "flag_for_human_review"
)

// ImageInsight is the classification of a single embedded image.
type ImageInsight struct {
	Type                  string  `json:"type"`
	Importance            string  `json:"importance"`
	ContainsEssentialInfo bool    `json:"contains_essential_info"`
	Recommendation        string  `json:"recommendation"`
	Description           string  `json:"description,omitempty"`
	Confidence            float64 `json:"confidence"`
}

// ImageAnalysis aggregates per-image insights for one document.
type ImageAnalysis struct {
	HasImages           bool           `json:"has_images"`
	Insights            []ImageInsight `json:"image_analysis"`
	RoutingDecision     string         `json:"routing_decision"`
	RequiresHumanReview bool           `json:"requires_human_review"`
}
