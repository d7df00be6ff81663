package domain

import "time"

// Status is the terminal outcome of one workflow run. Exactly one holds
// at termination.
type Status string

const (
	StatusSuccess         Status = "success"
	StatusEscalated       Status = "escalated"
	StatusIrrelevantQuery Status = "irrelevant_query"

	// StatusAccessDenied exists in the external contract but no
	// transition produces it. Reserved for future requirements.
	StatusAccessDenied Status = "access_denied"
)

// ConfidenceComponents are the five weighted signals behind a confidence
// score, retained for observability.
type ConfidenceComponents struct {
	Retrieval     float64 `json:"retrieval"`
	Document      float64 `json:"document"`
	Hallucination float64 `json:"hallucination"`
	Relevance     float64 `json:"relevance"`
	Source        float64 `json:"source"`
}

// EscalationInfo is the human hand-off record emitted when a run
// escalates.
type EscalationInfo struct {
	ID        string    `json:"id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// WorkflowState is the single mutable record threaded through the state
// machine. Created at workflow entry, mutated node by node, discarded
// after the terminal response is emitted; no cross-query state survives.
type WorkflowState struct {
	Query         string
	EnhancedQuery string
	UserID        string
	Timestamp     time.Time

	UserRole               Role
	AuthorizedAccessLevels []AccessLevel

	RetrievedChunks []ScoredChunk

	DocumentGrade Verdict

	// RetryCount is shared by the document-relevance and
	// answer-relevance loops; GenerationRetryCount is private to the
	// hallucination loop. Both only ever increase within a run.
	RetryCount           int
	GenerationRetryCount int

	GeneratedAnswer    string
	HallucinationCheck Verdict
	RelevanceCheck     Verdict

	ConfidenceScore      float64
	ConfidenceLevel      string
	ConfidenceComponents ConfidenceComponents

	EscalationNeeded bool
	EscalationInfo   *EscalationInfo

	Status Status
}

// ActiveQuery is the query the next retrieval pass should use: the
// enhanced rewrite when one exists, otherwise the original.
func (s *WorkflowState) ActiveQuery() string {
	if s.EnhancedQuery != "" {
		return s.EnhancedQuery
	}
	return s.Query
}
