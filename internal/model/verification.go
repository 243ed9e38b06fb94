package model

// Warning flags attached to a query result. Not mutually exclusive.
const (
	FlagFactualInconsistency = "factual_inconsistency"
	FlagPoorGrounding        = "poor_grounding"
	FlagOverconfidence       = "overconfidence"
	FlagUnsupportedClaims    = "unsupported_claims"
	FlagNoRelevantContext    = "no_relevant_context"
)

// Verifier recommendations by overall confidence band.
const (
	RecommendationAccept = "accept"
	RecommendationReview = "review"
	RecommendationReject = "reject"
)

// FactualCheck reports whether the response makes claims unsupported by or
// contradicting the retrieved context.
type FactualCheck struct {
	IsConsistent      bool     `json:"is_consistent"`
	Confidence        float64  `json:"confidence"`
	Issues            []string `json:"issues,omitempty"`
	UnsupportedClaims []string `json:"unsupported_claims,omitempty"`
}

// GroundingCheck rates how well the response uses the supplied context.
type GroundingCheck struct {
	IsGrounded bool    `json:"is_grounded"`
	Confidence float64 `json:"confidence"`
	Coverage   float64 `json:"coverage"`
	Notes      string  `json:"notes,omitempty"`
}

// UncertaintyCheck reports whether the response hedges appropriately.
type UncertaintyCheck struct {
	HandlesUncertainty     bool    `json:"handles_uncertainty"`
	Confidence             float64 `json:"confidence"`
	OverconfidenceDetected bool    `json:"overconfidence_detected"`
	Notes                  string  `json:"notes,omitempty"`
}

// Verification aggregates the three independent sub-checks. Confidence is the
// minimum of the three sub-confidences so one severe issue cannot be diluted.
type Verification struct {
	Verified       bool             `json:"verified"`
	Confidence     float64          `json:"confidence_score"`
	Factual        FactualCheck     `json:"factual_consistency"`
	Grounding      GroundingCheck   `json:"context_grounding"`
	Uncertainty    UncertaintyCheck `json:"uncertainty_handling"`
	Recommendation string           `json:"recommendation"`
	Flags          []string         `json:"flags,omitempty"`
}
