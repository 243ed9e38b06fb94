package index

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"veridoc/internal/ai"
	"veridoc/internal/model"
)

const (
	defaultTopK = 5
	// Embedding providers often limit batch size.
	embeddingBatchSize = 10

	indexFileName    = "index.gob"
	metadataFileName = "metadata.json"
)

var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Embedder is the seam to the embedding collaborator.
// *ai.OpenAICompatibleClient satisfies it; tests supply deterministic fakes.
type Embedder interface {
	Embed(ctx context.Context, cfg ai.EmbeddingConfig, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, cfg ai.EmbeddingConfig, texts []string) ([][]float32, error)
}

// VectorIndex is an append-only nearest-neighbor index over L2 distance with
// parallel ordered lists of chunk text and metadata addressed by the same
// position. Writers hold the mutex across the whole append-then-persist
// sequence; searches take a read lock, so they observe either the pre- or
// post-add state, never a partial append.
type VectorIndex struct {
	mu sync.RWMutex

	embedder Embedder
	embCfg   ai.EmbeddingConfig

	dimension int
	vectors   [][]float32
	texts     []string
	metadatas []model.ChunkMetadata

	indexPath    string
	metadataPath string
}

// New creates an index of fixed dimension backed by storageDir. Prior
// persisted state is loaded if both artifacts are present and consistent;
// anything else yields an empty index, never an error.
func New(embedder Embedder, embCfg ai.EmbeddingConfig, dimension int, storageDir string) (*VectorIndex, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("index dimension must be positive, got %d", dimension)
	}
	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return nil, fmt.Errorf("create index storage dir failed: %w", err)
	}

	idx := &VectorIndex{
		embedder:     embedder,
		embCfg:       embCfg,
		dimension:    dimension,
		indexPath:    filepath.Join(storageDir, indexFileName),
		metadataPath: filepath.Join(storageDir, metadataFileName),
	}
	idx.load()
	return idx, nil
}

// Size returns the number of indexed chunks.
func (idx *VectorIndex) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

// Add embeds all chunk contents, appends vectors and metadata under a single
// critical section, and persists the whole index synchronously. On any error
// before the append the index is left untouched.
func (idx *VectorIndex) Add(ctx context.Context, chunks []model.Chunk, documentID string) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	metadatas := make([]model.ChunkMetadata, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
		metadatas[i] = model.ChunkMetadata{
			DocumentID: documentID,
			ChunkIndex: i,
			Type:       chunk.Type,
			Page:       chunk.Page,
			Paragraph:  chunk.Paragraph,
			HasImages:  chunk.HasImages,
			Confidence: chunk.Confidence,
		}
	}

	var vectors [][]float32
	for start := 0; start < len(texts); start += embeddingBatchSize {
		end := start + embeddingBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := idx.embedder.EmbedBatch(ctx, idx.embCfg, texts[start:end])
		if err != nil {
			return fmt.Errorf("embed chunk batch failed: %w", err)
		}
		vectors = append(vectors, batch...)
	}
	if len(vectors) != len(texts) {
		return fmt.Errorf("embedding count mismatch: %d texts, %d vectors", len(texts), len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != idx.dimension {
			return fmt.Errorf("%w: chunk %d has dimension %d, index requires %d",
				ErrDimensionMismatch, i, len(vec), idx.dimension)
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.vectors = append(idx.vectors, vectors...)
	idx.texts = append(idx.texts, texts...)
	idx.metadatas = append(idx.metadatas, metadatas...)

	if err := idx.persistLocked(); err != nil {
		return fmt.Errorf("persist index failed: %w", err)
	}
	return nil
}

// Search embeds the query and returns up to min(k, size) nearest chunks by
// L2 distance, ascending. An empty index yields an empty result, not an error.
func (idx *VectorIndex) Search(ctx context.Context, query string, k int) ([]model.RetrievedChunk, error) {
	if idx.Size() == 0 {
		return nil, nil
	}
	if k <= 0 {
		k = defaultTopK
	}

	queryVec, err := idx.embedder.Embed(ctx, idx.embCfg, query)
	if err != nil {
		return nil, fmt.Errorf("embed query failed: %w", err)
	}
	if len(queryVec) != idx.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, index requires %d",
			ErrDimensionMismatch, len(queryVec), idx.dimension)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	type hit struct {
		position int
		distance float64
	}
	hits := make([]hit, len(idx.vectors))
	for i, vec := range idx.vectors {
		hits[i] = hit{position: i, distance: l2Distance(queryVec, vec)}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].distance < hits[j].distance })

	if k > len(hits) {
		k = len(hits)
	}
	results := make([]model.RetrievedChunk, k)
	for i := 0; i < k; i++ {
		h := hits[i]
		results[i] = model.RetrievedChunk{
			Content:   idx.texts[h.position],
			Metadata:  idx.metadatas[h.position],
			Distance:  h.distance,
			Relevance: 1 / (1 + h.distance),
		}
	}
	return results, nil
}

func l2Distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
