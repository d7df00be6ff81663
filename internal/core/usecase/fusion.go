package usecase

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"sync"

	"github.com/novacorp/hr-assistant/internal/core/domain"
	"github.com/novacorp/hr-assistant/internal/core/ports"
)

const (
	defaultRRFK      = 60
	defaultFusionTop = 8

	// The semantic term is a tie-breaking boost, not a primary signal.
	semanticBoostWeight = 0.1

	// Only the head of a chunk is embedded for re-ranking.
	semanticSnippetChars = 500
)

// FusionEngine merges a dense and a sparse ranking for the same query
// via reciprocal rank fusion, then re-ranks with a small semantic boost.
// RRF is rank-based and scale-invariant, so the two heterogeneous score
// systems never need calibrating against each other.
type FusionEngine struct {
	embedder ports.Embedder
	rrfK     int
	topN     int

	// Candidate snippet embeddings are cached per chunk id for the
	// process lifetime; recomputing one per call is the cost the
	// design trades for quality.
	mu       sync.Mutex
	embCache map[string][]float32
}

func NewFusionEngine(embedder ports.Embedder, rrfK, topN int) *FusionEngine {
	if rrfK <= 0 {
		rrfK = defaultRRFK
	}
	if topN <= 0 {
		topN = defaultFusionTop
	}
	return &FusionEngine{
		embedder: embedder,
		rrfK:     rrfK,
		topN:     topN,
		embCache: make(map[string][]float32),
	}
}

type fusedCandidate struct {
	chunk      domain.ScoredChunk
	rrf        float64
	denseRank  int
	sparseRank int
}

// Fuse merges the two rankings and returns the fused top candidates,
// re-ranked by rrf + boost weight x cosine(query, snippet embedding).
func (e *FusionEngine) Fuse(
	ctx context.Context,
	dense, sparse []domain.ScoredChunk,
	queryVector []float32,
) ([]domain.ScoredChunk, error) {
	merged := mergeRankingsRRF(dense, sparse, e.rrfK)
	if len(merged) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	similarities, err := e.semanticSimilarities(ctx, keys, merged, queryVector)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ScoredChunk, 0, len(merged))
	for _, key := range keys {
		candidate := merged[key]
		chunk := candidate.chunk
		chunk.SearchType = domain.SearchHybrid
		chunk.DenseRank = candidate.denseRank
		chunk.SparseRank = candidate.sparseRank
		chunk.RRFScore = candidate.rrf
		chunk.SemanticSimilarity = similarities[key]
		chunk.FinalScore = candidate.rrf + semanticBoostWeight*similarities[key]
		out = append(out, chunk)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FinalScore != out[j].FinalScore {
			return out[i].FinalScore > out[j].FinalScore
		}
		return chunkKey(out[i]) < chunkKey(out[j])
	})

	if len(out) > e.topN {
		out = out[:e.topN]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// mergeRankingsRRF accumulates rrf = sum 1/(k+rank) per chunk over the
// lists it appears in; absence from a list contributes nothing. The
// union is order-independent.
func mergeRankingsRRF(dense, sparse []domain.ScoredChunk, k int) map[string]fusedCandidate {
	merged := make(map[string]fusedCandidate, len(dense)+len(sparse))

	for _, chunk := range dense {
		key := chunkKey(chunk)
		candidate := merged[key]
		if candidate.chunk.Content == "" {
			candidate.chunk = chunk
		}
		candidate.rrf += 1.0 / float64(k+chunk.Rank)
		candidate.denseRank = chunk.Rank
		merged[key] = candidate
	}
	for _, chunk := range sparse {
		key := chunkKey(chunk)
		candidate := merged[key]
		if candidate.chunk.Content == "" {
			candidate.chunk = chunk
		}
		candidate.rrf += 1.0 / float64(k+chunk.Rank)
		candidate.sparseRank = chunk.Rank
		merged[key] = candidate
	}
	return merged
}

// chunkKey is the merge identity: the stable chunk id when present,
// otherwise a content-derived key so unidentified duplicates still
// collapse instead of being silently lost.
func chunkKey(chunk domain.ScoredChunk) string {
	if chunk.ID != "" {
		return chunk.ID
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(snippet(chunk.Content, 100)))
	return fmt.Sprintf("content-%016x", h.Sum64())
}

func (e *FusionEngine) semanticSimilarities(
	ctx context.Context,
	keys []string,
	merged map[string]fusedCandidate,
	queryVector []float32,
) (map[string]float64, error) {
	vectors := make(map[string][]float32, len(keys))

	missing := make([]string, 0, len(keys))
	e.mu.Lock()
	for _, key := range keys {
		if vec, ok := e.embCache[key]; ok {
			vectors[key] = vec
		} else {
			missing = append(missing, key)
		}
	}
	e.mu.Unlock()

	if len(missing) > 0 {
		texts := make([]string, len(missing))
		for i, key := range missing {
			texts[i] = snippet(merged[key].chunk.Content, semanticSnippetChars)
		}
		embedded, err := e.embedder.Embed(ctx, texts)
		if err != nil {
			return nil, domain.WrapError(domain.ErrEmbedding, "embed rerank candidates", err)
		}
		if len(embedded) != len(missing) {
			return nil, domain.WrapError(domain.ErrEmbedding, "embed rerank candidates",
				fmt.Errorf("got %d vectors for %d texts", len(embedded), len(missing)))
		}

		e.mu.Lock()
		for i, key := range missing {
			e.embCache[key] = embedded[i]
			vectors[key] = embedded[i]
		}
		e.mu.Unlock()
	}

	out := make(map[string]float64, len(keys))
	for _, key := range keys {
		out[key] = cosineSimilarity(queryVector, vectors[key])
	}
	return out, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func snippet(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
