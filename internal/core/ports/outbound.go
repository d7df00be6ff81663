package ports

import (
	"context"

	"github.com/novacorp/hr-assistant/internal/core/domain"
)

// Embedder builds vectors for query text and re-rank candidates.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// DenseIndex is the query interface to the vector store. The access
// filter for the role is pushed down to the store; implementations must
// never fetch unfiltered results and post-filter.
type DenseIndex interface {
	Search(ctx context.Context, queryVector []float32, role domain.Role, topK int) ([]domain.ScoredChunk, error)
}

// LexicalIndex is the term-weighted sparse search over the corpus,
// filtered by role before ranking.
type LexicalIndex interface {
	Search(ctx context.Context, query string, role domain.Role, topK int) ([]domain.ScoredChunk, error)
}

// CorpusSource exports the flat chunk collection the lexical index is
// built from.
type CorpusSource interface {
	ExportCorpus(ctx context.Context) ([]domain.Chunk, error)
}

// JudgmentOracle wraps the external text-judgment capability. The four
// check/grade calls return raw response text; callers validate it
// against the yes/no contract.
type JudgmentOracle interface {
	Grade(ctx context.Context, question, documents string) (string, error)
	EnhanceQuery(ctx context.Context, query string) (string, error)
	Generate(ctx context.Context, role domain.Role, question, context string) (string, error)
	CheckHallucination(ctx context.Context, answer, documents string) (string, error)
	CheckRelevance(ctx context.Context, question, answer string) (string, error)
}

// EscalationQueue delivers escalation events to downstream reviewers.
type EscalationQueue interface {
	PublishEscalationRaised(ctx context.Context, event domain.EscalationEvent) error
	SubscribeEscalationRaised(ctx context.Context, handler func(context.Context, domain.EscalationEvent) error) error
}

// EscalationStore persists escalation tickets for human review.
type EscalationStore interface {
	CreateTicket(ctx context.Context, ticket *domain.EscalationTicket) error
	GetTicketByID(ctx context.Context, id string) (*domain.EscalationTicket, error)
}
