package domain

// SearchType records which retrieval path produced a scored chunk.
type SearchType string

const (
	SearchDense  SearchType = "dense"
	SearchSparse SearchType = "sparse"
	SearchHybrid SearchType = "hybrid"
)

// Chunk is the immutable unit of retrievable text. It is produced once
// by ingestion and never mutated here.
type Chunk struct {
	ID           string      `json:"chunk_id"`
	Content      string      `json:"content"`
	Source       string      `json:"source"`
	Page         int         `json:"page"`
	AccessLevel  AccessLevel `json:"access_level"`
	DocumentType string      `json:"document_type"`
	Department   string      `json:"department"`
}

// ScoredChunk is a chunk plus per-search ranking metadata. It is created
// fresh per query and never persisted. Score is the raw similarity from
// the search that produced it; the fusion fields are filled in when two
// rankings are merged.
type ScoredChunk struct {
	Chunk

	Score      float64    `json:"score"`
	SearchType SearchType `json:"search_type"`
	Rank       int        `json:"rank"`

	DenseRank          int     `json:"dense_rank,omitempty"`
	SparseRank         int     `json:"sparse_rank,omitempty"`
	RRFScore           float64 `json:"rrf_score,omitempty"`
	SemanticSimilarity float64 `json:"semantic_similarity,omitempty"`
	FinalScore         float64 `json:"final_score,omitempty"`
}
