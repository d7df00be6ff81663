package openai

import (
	"context"

	"github.com/novacorp/hr-assistant/internal/core/domain"
)

// Oracle adapts the chat completion API to the four judgment
// capabilities. Validation of the yes/no postcondition lives with the
// caller; the adapter only transports text.
type Oracle struct {
	client *Client
}

func NewOracle(client *Client) *Oracle {
	return &Oracle{client: client}
}

// Grade asks whether the documents hold information relevant to the
// question, biased toward permissive inclusion.
func (o *Oracle) Grade(ctx context.Context, question, documents string) (string, error) {
	return o.client.complete(ctx, "grade", o.client.judgeModel, buildGradePrompt(question, documents), 0)
}

// EnhanceQuery rewrites a query for better retrieval, preserving its
// intent. A little temperature helps the rewrite actually differ.
func (o *Oracle) EnhanceQuery(ctx context.Context, query string) (string, error) {
	return o.client.complete(ctx, "enhance_query", o.client.genModel, buildEnhancePrompt(query), 0.3)
}

// Generate produces an answer strictly grounded in the given context,
// citing sources when possible.
func (o *Oracle) Generate(ctx context.Context, role domain.Role, question, docContext string) (string, error) {
	return o.client.complete(ctx, "generate", o.client.genModel, buildGeneratePrompt(role, question, docContext), 0.7)
}

// CheckHallucination reports "yes" when the answer contains claims the
// documents do not support.
func (o *Oracle) CheckHallucination(ctx context.Context, answer, documents string) (string, error) {
	return o.client.complete(ctx, "check_hallucination", o.client.judgeModel, buildHallucinationPrompt(answer, documents), 0)
}

// CheckRelevance reports "yes" when the answer addresses the question.
func (o *Oracle) CheckRelevance(ctx context.Context, question, answer string) (string, error) {
	return o.client.complete(ctx, "check_relevance", o.client.judgeModel, buildRelevancePrompt(question, answer), 0)
}
