package usecase

import (
	"context"
	"sync"

	"github.com/novacorp/hr-assistant/internal/core/domain"
	"github.com/novacorp/hr-assistant/internal/core/ports"
)

const defaultRetrievalTopK = 15

// HybridRetriever runs the dense and sparse searches for one query and
// fuses their rankings. Both searches carry the caller's role so each
// index applies its own access filter; nothing here ever sees an
// unauthorized chunk.
type HybridRetriever struct {
	embedder ports.Embedder
	dense    ports.DenseIndex
	lexical  ports.LexicalIndex
	fusion   *FusionEngine
	topK     int
}

func NewHybridRetriever(
	embedder ports.Embedder,
	dense ports.DenseIndex,
	lexical ports.LexicalIndex,
	fusion *FusionEngine,
	topK int,
) *HybridRetriever {
	if topK <= 0 {
		topK = defaultRetrievalTopK
	}
	return &HybridRetriever{
		embedder: embedder,
		dense:    dense,
		lexical:  lexical,
		fusion:   fusion,
		topK:     topK,
	}
}

// Retrieve embeds the query once, issues the two searches concurrently
// (they are independent), joins, and fuses. The query embedding is
// reused for the semantic re-rank inside fusion.
func (r *HybridRetriever) Retrieve(
	ctx context.Context,
	query string,
	role domain.Role,
) ([]domain.ScoredChunk, error) {
	queryVector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, domain.WrapError(domain.ErrEmbedding, "embed query", err)
	}

	var (
		wg           sync.WaitGroup
		denseChunks  []domain.ScoredChunk
		sparseChunks []domain.ScoredChunk
		denseErr     error
		sparseErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		denseChunks, denseErr = r.dense.Search(ctx, queryVector, role, r.topK)
	}()
	go func() {
		defer wg.Done()
		sparseChunks, sparseErr = r.lexical.Search(ctx, query, role, r.topK)
	}()
	wg.Wait()

	if denseErr != nil {
		return nil, wrapIndexErr("dense search", denseErr)
	}
	if sparseErr != nil {
		return nil, wrapIndexErr("sparse search", sparseErr)
	}

	return r.fusion.Fuse(ctx, denseChunks, sparseChunks, queryVector)
}

func wrapIndexErr(operation string, err error) error {
	if domain.IsKind(err, domain.ErrIndexUnavailable) {
		return err
	}
	return domain.WrapError(domain.ErrIndexUnavailable, operation, err)
}
