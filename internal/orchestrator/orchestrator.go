package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"veridoc/internal/agent"
	"veridoc/internal/docproc"
	"veridoc/internal/index"
	"veridoc/internal/model"
)

const noContextMessage = "I don't have enough information to answer this question. Please upload relevant documents first."

const genericFailureMessage = "An error occurred while processing your question."

// DocumentProcessor is the parsing collaborator contract.
type DocumentProcessor interface {
	Process(path string) (*docproc.ParsedDocument, error)
}

// DocumentCatalog records one row per ingested document. Optional.
type DocumentCatalog interface {
	Create(record *model.DocumentRecord) error
}

// InteractionRecorder receives one record per answered question. Optional;
// publish failures are logged and never affect the query result.
type InteractionRecorder interface {
	Publish(ctx context.Context, interaction model.Interaction) error
}

// AnswerCache short-circuits repeated questions. Optional.
type AnswerCache interface {
	Get(ctx context.Context, question string, k int) (*model.QueryResult, bool, error)
	Set(ctx context.Context, question string, k int, result *model.QueryResult) error
}

// Orchestrator drives the ingestion and query pipelines. It is safe for
// concurrent use; the vector index provides the single-writer discipline.
type Orchestrator struct {
	processor  DocumentProcessor
	index      *index.VectorIndex
	classifier *agent.ImageClassifier
	generator  *agent.Generator
	verifier   *agent.Verifier

	catalog      DocumentCatalog
	interactions InteractionRecorder
	answers      AnswerCache
}

// New wires the pipelines. catalog, interactions, and answers may be nil.
func New(
	processor DocumentProcessor,
	idx *index.VectorIndex,
	classifier *agent.ImageClassifier,
	generator *agent.Generator,
	verifier *agent.Verifier,
	catalog DocumentCatalog,
	interactions InteractionRecorder,
	answers AnswerCache,
) *Orchestrator {
	return &Orchestrator{
		processor:    processor,
		index:        idx,
		classifier:   classifier,
		generator:    generator,
		verifier:     verifier,
		catalog:      catalog,
		interactions: interactions,
		answers:      answers,
	}
}

// ProcessDocument parses, classifies images, chunks, and indexes one document.
// It always returns a result; internal panics surface as failure results.
func (o *Orchestrator) ProcessDocument(ctx context.Context, path string) (result *model.IngestResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("orchestrator: ingestion panic recovered: %v", r)
			result = &model.IngestResult{
				Success: false,
				Error:   fmt.Sprintf("internal error: %v", r),
			}
		}
	}()

	doc, err := o.processor.Process(path)
	if err != nil {
		return &model.IngestResult{Success: false, Error: err.Error()}
	}

	documentID := uuid.NewString()

	var analysis *model.ImageAnalysis
	if len(doc.Images) > 0 {
		analysis = o.classifier.Classify(ctx, doc.Images, textSummary(doc.Fragments))
	}

	chunks := buildChunks(doc, analysis)
	if err := o.index.Add(ctx, chunks, documentID); err != nil {
		return &model.IngestResult{Success: false, Error: err.Error()}
	}

	if o.catalog != nil {
		record := &model.DocumentRecord{
			ID:         documentID,
			Name:       path,
			Type:       doc.Type,
			ChunkCount: len(chunks),
			ImageCount: len(doc.Images),
		}
		if analysis != nil {
			record.Routing = analysis.RoutingDecision
		}
		if err := o.catalog.Create(record); err != nil {
			log.Printf("orchestrator: record document failed: %v", err)
		}
	}

	return &model.IngestResult{
		Success:       true,
		DocumentID:    documentID,
		Type:          doc.Type,
		ChunksCreated: len(chunks),
		HasImages:     len(doc.Images) > 0,
		ImageAnalysis: analysis,
		Metadata:      doc.Metadata,
	}
}

// Query answers a question through retrieval, generation, verification, and
// response shaping. It always returns a result; internal panics surface as
// failure results.
func (o *Orchestrator) Query(ctx context.Context, question string, k int) (result *model.QueryResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("orchestrator: query panic recovered: %v", r)
			result = &model.QueryResult{
				Success:  false,
				Response: genericFailureMessage,
				Error:    fmt.Sprintf("internal error: %v", r),
			}
		}
	}()

	if o.answers != nil {
		cached, ok, err := o.answers.Get(ctx, question, k)
		if err != nil {
			log.Printf("orchestrator: answer cache read failed: %v", err)
		} else if ok {
			cached.Cached = true
			return cached
		}
	}

	retrieved, err := o.index.Search(ctx, question, k)
	if err != nil {
		return &model.QueryResult{
			Success:  false,
			Response: genericFailureMessage,
			Error:    err.Error(),
		}
	}

	// An empty knowledge base is a legitimate answer, not a failure.
	if len(retrieved) == 0 {
		return &model.QueryResult{
			Success:    true,
			Response:   noContextMessage,
			Confidence: 0.0,
			Flags:      []string{model.FlagNoRelevantContext},
		}
	}

	mc := analyzeMultimodalContext(retrieved)

	answer, err := o.generator.Generate(ctx, question, retrieved, mc)
	if err != nil {
		return &model.QueryResult{
			Success:  false,
			Response: genericFailureMessage,
			Error:    err.Error(),
		}
	}

	verification := o.verifier.Verify(ctx, answer.Response, retrieved, question)
	shaped := shapeResponse(answer.Response, verification, mc)

	result = &model.QueryResult{
		Success:           true,
		Response:          shaped,
		Confidence:        verification.Confidence,
		Verified:          verification.Verified,
		Flags:             verification.Flags,
		MultimodalContext: &mc,
		SourcesUsed:       len(retrieved),
		Verification:      verification,
	}

	o.recordInteraction(ctx, question, result)

	if o.answers != nil {
		if err := o.answers.Set(ctx, question, k, result); err != nil {
			log.Printf("orchestrator: answer cache write failed: %v", err)
		}
	}
	return result
}

func (o *Orchestrator) recordInteraction(ctx context.Context, question string, result *model.QueryResult) {
	if o.interactions == nil {
		return
	}
	interaction := model.Interaction{
		Question:    question,
		Answer:      result.Response,
		Confidence:  result.Confidence,
		Verified:    result.Verified,
		SourcesUsed: result.SourcesUsed,
	}
	interaction.SetFlagList(result.Flags)
	if err := o.interactions.Publish(ctx, interaction); err != nil {
		log.Printf("orchestrator: publish interaction failed: %v", err)
	}
}

// textSummary concatenates early fragments up to 1000 characters for image
// analysis context. Only the fragment that crosses the cap is truncated, with
// an explicit ellipsis.
func textSummary(fragments []docproc.Fragment) string {
	const maxChars = 1000

	var parts []string
	charCount := 0
	for _, fragment := range fragments {
		if charCount >= maxChars {
			break
		}
		remaining := maxChars - charCount
		if len(fragment.Content) <= remaining {
			parts = append(parts, fragment.Content)
			charCount += len(fragment.Content)
		} else {
			parts = append(parts, fragment.Content[:remaining]+"...")
			break
		}
	}
	return strings.Join(parts, "\n")
}

// buildChunks turns parsed fragments into chunk records, stamping each with
// the routing decision when images were analyzed. A document flagged for
// human review additionally gets one synthetic placeholder chunk whose
// confidence is capped at 0.5.
func buildChunks(doc *docproc.ParsedDocument, analysis *model.ImageAnalysis) []model.Chunk {
	chunks := make([]model.Chunk, 0, len(doc.Fragments)+1)
	for _, fragment := range doc.Fragments {
		chunk := model.Chunk{
			Content:    fragment.Content,
			Type:       model.ChunkTypeText,
			Page:       fragment.Page,
			Paragraph:  fragment.Paragraph,
			CharCount:  fragment.CharCount,
			Confidence: 1.0,
		}
		if analysis != nil && analysis.HasImages {
			chunk.HasImages = true
			chunk.ImageContext = analysis.RoutingDecision
		}
		chunks = append(chunks, chunk)
	}

	if analysis != nil && analysis.RequiresHumanReview {
		chunks = append(chunks, model.Chunk{
			Content: fmt.Sprintf("[IMPORTANT: This document contains %d images that may contain critical information not available in text. Human review recommended for complete understanding.]",
				len(doc.Images)),
			Type:       model.ChunkTypeImagePlaceholder,
			HasImages:  true,
			Confidence: 0.5,
		})
	}
	return chunks
}

// analyzeMultimodalContext summarizes image association across the retrieved
// set. The half boundary is strict: exactly half does not require special
// handling.
func analyzeMultimodalContext(chunks []model.RetrievedChunk) model.MultimodalContext {
	imageChunks := 0
	for _, chunk := range chunks {
		if chunk.Metadata.HasImages {
			imageChunks++
		}
	}

	level := "low"
	if imageChunks > 0 {
		level = "high"
	}
	return model.MultimodalContext{
		HasMultimodalContent:    imageChunks > 0,
		ImageChunkCount:         imageChunks,
		RequiresSpecialHandling: float64(imageChunks) > float64(len(chunks))/2,
		UncertaintyLevel:        level,
	}
}

// shapeResponse applies the verification-driven response decision: verified
// answers pass through unmodified, factual problems get an explicit
// disclaimer, multimodal gaps get an image note, and everything else gets a
// moderate-confidence caveat.
func shapeResponse(response string, verification *model.Verification, mc model.MultimodalContext) string {
	if verification.Verified {
		return response
	}

	if hasFlag(verification.Flags, model.FlagFactualInconsistency) || hasFlag(verification.Flags, model.FlagUnsupportedClaims) {
		return "I need to express some uncertainty about my previous response. Based on the available text context, " +
			response +
			"\n\nHowever, verification indicates there may be some inconsistencies or unsupported claims in my response. Please verify this information independently or consult the original documents directly."
	}

	if mc.HasMultimodalContent {
		return response +
			"\n\nNote: The source documents contain images that may provide additional context relevant to your question. For a complete understanding, you may want to review the visual elements in the original documents."
	}

	return response +
		"\n\nPlease note: I have moderate confidence in this response. You may want to verify this information from the original sources."
}

func hasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}
