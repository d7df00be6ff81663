package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/novacorp/hr-assistant/internal/core/domain"
	"github.com/novacorp/hr-assistant/internal/core/ports"
	"github.com/novacorp/hr-assistant/internal/observability/metrics"
)

// node names one station of the answer workflow. The graph is cyclic:
// a failed document grade or answer-relevance check can loop back
// through query enhancement, and a suspected hallucination can loop
// back through generation. Both loops are bounded by counters.
type node string

const (
	nodeAuthorization   node = "authorization"
	nodeRetrieve        node = "document_retriever"
	nodeGrade           node = "grade_document"
	nodeEnhanceQuery    node = "query_enhancer"
	nodeGenerate        node = "generation"
	nodeHallucination   node = "hallucination_checker"
	nodeRelevance       node = "relevance_checker"
	nodeConfidence      node = "confidence_calculator"
	nodeEscalationCheck node = "escalation_check"
	nodeEscalate        node = "escalation"
	nodeIrrelevant      node = "irrelevant_query"
	nodeFinalAnswer     node = "final_answer"
	nodeTerminated      node = ""
)

const (
	// One query enhancement per run, shared by the document-relevance
	// and answer-relevance loops.
	enhanceRetryLimit = 1

	// Regenerations stop once the generation counter reaches this;
	// the answer is then accepted despite the suspected hallucination
	// rather than looping forever.
	generationRetryLimit = 2
)

// Workflow is the state machine that sequences authorization,
// retrieval, grading, generation, and validation into one terminal
// response per query. One run processes one query to completion;
// concurrent runs share only read-only collaborators.
type Workflow struct {
	policy     *domain.AccessPolicy
	retriever  *HybridRetriever
	oracle     ports.JudgmentOracle
	escalation *EscalationPolicy
	queue      ports.EscalationQueue
	logger     *slog.Logger
	metrics    *metrics.WorkflowMetrics

	now func() time.Time
}

type WorkflowOption func(*Workflow)

// WithWorkflowMetrics records per-run retrieval sizes on the shared
// workflow metrics.
func WithWorkflowMetrics(m *metrics.WorkflowMetrics) WorkflowOption {
	return func(w *Workflow) { w.metrics = m }
}

func NewWorkflow(
	policy *domain.AccessPolicy,
	retriever *HybridRetriever,
	oracle ports.JudgmentOracle,
	escalation *EscalationPolicy,
	queue ports.EscalationQueue,
	logger *slog.Logger,
	opts ...WorkflowOption,
) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Workflow{
		policy:     policy,
		retriever:  retriever,
		oracle:     oracle,
		escalation: escalation,
		queue:      queue,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run drives one query through the graph until a terminal node is
// reached. Negative judgments are ordinary control flow; an error
// return means an infrastructure fault, and the caller maps it to the
// boundary-level error shape.
func (w *Workflow) Run(ctx context.Context, query, userID string) (*domain.Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "workflow run", fmt.Errorf("query is required"))
	}

	state := &domain.WorkflowState{
		Query:     query,
		UserID:    userID,
		Timestamp: w.now().UTC(),
	}

	current := nodeAuthorization
	for current != nodeTerminated {
		next, err := w.step(ctx, current, state)
		if err != nil {
			return nil, err
		}
		w.logger.Debug("workflow_transition", "from", string(current), "to", string(next),
			"retry_count", state.RetryCount, "generation_retry_count", state.GenerationRetryCount)
		current = next
	}

	return buildResponse(state), nil
}

func (w *Workflow) step(ctx context.Context, current node, state *domain.WorkflowState) (node, error) {
	switch current {
	case nodeAuthorization:
		state.UserRole = domain.ParseRole(state.UserID)
		state.AuthorizedAccessLevels = w.policy.AuthorizedAccessLevels(state.UserRole)
		return nodeRetrieve, nil

	case nodeRetrieve:
		chunks, err := w.retriever.Retrieve(ctx, state.ActiveQuery(), state.UserRole)
		if err != nil {
			return nodeTerminated, err
		}
		state.RetrievedChunks = chunks
		w.metrics.ObserveRetrieval(len(chunks))
		return nodeGrade, nil

	case nodeGrade:
		raw, err := w.oracle.Grade(ctx, state.ActiveQuery(), contextFromChunks(state.RetrievedChunks))
		if err != nil {
			return nodeTerminated, fmt.Errorf("grade documents: %w", err)
		}
		state.DocumentGrade = w.verdictOrUnfavorable(raw, "grade", domain.VerdictNo)
		return routeAfterGrade(state), nil

	case nodeEnhanceQuery:
		enhanced, err := w.oracle.EnhanceQuery(ctx, state.Query)
		if err != nil {
			return nodeTerminated, fmt.Errorf("enhance query: %w", err)
		}
		state.EnhancedQuery = strings.TrimSpace(enhanced)
		state.RetryCount++
		return nodeRetrieve, nil

	case nodeGenerate:
		answer, err := w.oracle.Generate(ctx, state.UserRole, state.ActiveQuery(), contextFromChunks(state.RetrievedChunks))
		if err != nil {
			return nodeTerminated, fmt.Errorf("generate answer: %w", err)
		}
		state.GeneratedAnswer = strings.TrimSpace(answer)
		state.GenerationRetryCount++
		return nodeHallucination, nil

	case nodeHallucination:
		raw, err := w.oracle.CheckHallucination(ctx, state.GeneratedAnswer, contextFromChunks(state.RetrievedChunks))
		if err != nil {
			return nodeTerminated, fmt.Errorf("check hallucination: %w", err)
		}
		// "yes" means hallucination detected, so yes is the
		// unfavorable reading of a malformed response.
		state.HallucinationCheck = w.verdictOrUnfavorable(raw, "hallucination", domain.VerdictYes)
		return routeAfterHallucination(state), nil

	case nodeRelevance:
		raw, err := w.oracle.CheckRelevance(ctx, state.ActiveQuery(), state.GeneratedAnswer)
		if err != nil {
			return nodeTerminated, fmt.Errorf("check relevance: %w", err)
		}
		state.RelevanceCheck = w.verdictOrUnfavorable(raw, "relevance", domain.VerdictNo)
		return routeAfterRelevance(state), nil

	case nodeConfidence:
		state.ConfidenceScore, state.ConfidenceLevel, state.ConfidenceComponents = scoreConfidence(state)
		return nodeEscalationCheck, nil

	case nodeEscalationCheck:
		state.EscalationNeeded, state.EscalationInfo = w.escalation.Evaluate(
			state.UserRole, state.Query, state.GeneratedAnswer, state.ConfidenceScore)
		if state.EscalationNeeded {
			return nodeEscalate, nil
		}
		return nodeFinalAnswer, nil

	case nodeEscalate:
		state.Status = domain.StatusEscalated
		w.publishEscalation(ctx, state)
		return nodeTerminated, nil

	case nodeIrrelevant:
		state.Status = domain.StatusIrrelevantQuery
		return nodeTerminated, nil

	case nodeFinalAnswer:
		state.Status = domain.StatusSuccess
		return nodeTerminated, nil

	default:
		return nodeTerminated, fmt.Errorf("workflow reached unknown node %q", current)
	}
}

// routeAfterGrade: relevant documents move to generation; otherwise one
// query enhancement is permitted before the run terminates as
// irrelevant.
func routeAfterGrade(state *domain.WorkflowState) node {
	if state.DocumentGrade == domain.VerdictYes {
		return nodeGenerate
	}
	if state.RetryCount >= enhanceRetryLimit {
		return nodeIrrelevant
	}
	return nodeEnhanceQuery
}

// routeAfterHallucination: a clean answer moves to the relevance check.
// A suspected hallucination regenerates until the generation counter
// hits its limit, after which the answer is accepted anyway.
func routeAfterHallucination(state *domain.WorkflowState) node {
	if state.HallucinationCheck == domain.VerdictNo {
		return nodeRelevance
	}
	if state.GenerationRetryCount >= generationRetryLimit {
		return nodeRelevance
	}
	return nodeGenerate
}

// routeAfterRelevance: an irrelevant answer may consume the shared
// enhancement budget; once spent, the run proceeds to scoring and is
// accepted at whatever confidence it earns.
func routeAfterRelevance(state *domain.WorkflowState) node {
	if state.RelevanceCheck == domain.VerdictYes {
		return nodeConfidence
	}
	if state.RetryCount >= enhanceRetryLimit {
		return nodeConfidence
	}
	return nodeEnhanceQuery
}

// verdictOrUnfavorable validates a raw oracle response. A malformed
// response is never coerced silently: it is logged and read as the
// unfavorable branch for that check.
func (w *Workflow) verdictOrUnfavorable(raw, check string, unfavorable domain.Verdict) domain.Verdict {
	verdict, err := domain.ParseVerdict(raw)
	if err != nil {
		w.logger.Warn("oracle_contract_violation", "check", check, "error", err)
		return unfavorable
	}
	return verdict
}

func (w *Workflow) publishEscalation(ctx context.Context, state *domain.WorkflowState) {
	if w.queue == nil || state.EscalationInfo == nil {
		return
	}
	event := domain.EscalationEvent{
		ID:              state.EscalationInfo.ID,
		Reason:          state.EscalationInfo.Reason,
		Timestamp:       state.EscalationInfo.Timestamp,
		Query:           state.Query,
		UserRole:        state.UserRole,
		ConfidenceScore: state.ConfidenceScore,
	}
	// Delivery is best effort: the user still gets the escalated
	// response even if the reviewer queue is down.
	if err := w.queue.PublishEscalationRaised(ctx, event); err != nil {
		w.logger.Error("escalation_publish_failed", "escalation_id", event.ID, "error", err)
	}
}

// contextFromChunks renders retrieved chunks as the oracle's document
// context, each headed by its source and page.
func contextFromChunks(chunks []domain.ScoredChunk) string {
	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		parts = append(parts, fmt.Sprintf("[Source: %s, Page: %d]\n%s", chunk.Source, chunk.Page, chunk.Content))
	}
	return strings.Join(parts, "\n\n")
}
