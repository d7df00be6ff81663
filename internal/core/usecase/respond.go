package usecase

import "github.com/novacorp/hr-assistant/internal/core/domain"

const (
	escalatedMessage = "Your query has been escalated to HR Business Partners for review."
	irrelevantMessage = "I couldn't find relevant information in our HR documents to answer your query. " +
		"Please try rephrasing your question or contact HR directly."
	expectedResponseTime = "24-48 hours"

	// Below this confidence an escalated response carries no partial
	// answer at all.
	partialAnswerFloor = 0.4
)

// buildResponse maps a terminated workflow state to its single typed
// response shape.
func buildResponse(state *domain.WorkflowState) *domain.Response {
	response := &domain.Response{
		Status:    state.Status,
		Timestamp: state.Timestamp,
		UserRole:  state.UserRole,
	}

	switch state.Status {
	case domain.StatusSuccess:
		sources := make([]domain.SourceRef, 0, len(state.RetrievedChunks))
		for _, chunk := range state.RetrievedChunks {
			sources = append(sources, domain.SourceRef{
				Source:  chunk.Source,
				Page:    chunk.Page,
				Section: chunk.ID,
			})
		}
		response.Answer = state.GeneratedAnswer
		response.ConfidenceScore = state.ConfidenceScore
		response.ConfidenceLevel = state.ConfidenceLevel
		response.Components = state.ConfidenceComponents
		response.Sources = sources

	case domain.StatusEscalated:
		response.Message = escalatedMessage
		response.ExpectedResponseTime = expectedResponseTime
		if state.EscalationInfo != nil {
			response.EscalationID = state.EscalationInfo.ID
			response.EscalationReason = state.EscalationInfo.Reason
		}
		if state.ConfidenceScore > partialAnswerFloor {
			response.PartialAnswer = state.GeneratedAnswer
		}

	case domain.StatusIrrelevantQuery:
		response.Message = irrelevantMessage
	}

	return response
}
