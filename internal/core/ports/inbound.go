package ports

import (
	"context"

	"github.com/novacorp/hr-assistant/internal/core/domain"
)

// AnswerService is the inbound contract for one question-answering run.
// Run returns an error only for infrastructure faults; every workflow
// outcome, including degraded ones, is a typed Response.
type AnswerService interface {
	Run(ctx context.Context, query, userID string) (*domain.Response, error)
}
