package openai

import (
	"fmt"

	"github.com/novacorp/hr-assistant/internal/core/domain"
)

func buildGradePrompt(question, documents string) string {
	return fmt.Sprintf(`You are a document relevance evaluator for a workplace information system.

Task: Determine if the provided documents contain relevant information to answer the user's question about workplace policies, procedures, or organizational matters.

Question: %s
Documents: %s

Instructions:
- Look for ANY information that could help answer the question, even if it is not a complete answer
- Consider content relevant to employees, managers, HR personnel, or general workplace topics
- Be generous in your evaluation: err on the side of including potentially useful content
- Accept documents that provide partial answers, related examples, or broader context
- Respond with only "yes" or "no", lowercase, with no extra words

Relevance: `, question, documents)
}

func buildEnhancePrompt(query string) string {
	return fmt.Sprintf(`You are a search query optimizer for workplace document retrieval.

Task: Rewrite the query to improve document retrieval while keeping it simple and focused.

Original Query: %s

Instructions:
- Keep the core intent of the original question
- Add relevant workplace terminology only when helpful
- Make the query clearer and more searchable
- Do NOT make the query overly complex or specific
- Use simple, direct language

Enhanced Query: `, query)
}

func buildGeneratePrompt(role domain.Role, question, context string) string {
	return fmt.Sprintf(`You are NovaCorp's HR assistant providing accurate information from company documents.

User Role: %s
Question: %s
Available Context: %s

Instructions:
- Answer using ONLY the provided context information
- Cite specific sources with page/section numbers when possible
- If context is insufficient, clearly state what information is missing
- Maintain a professional tone appropriate for the user's role
- Be clear, accurate, and helpful

Answer: `, role, question, context)
}

func buildHallucinationPrompt(answer, documents string) string {
	return fmt.Sprintf(`You are a fact-checking validator.

Task: Verify if the generated answer contains only information from the source documents.

Generated Answer: %s
Source Documents: %s

Instructions:
- Check if ALL information in the answer is explicitly stated or directly inferrable from the documents
- Look for any claims, facts, or details not supported by the sources
- Respond with only "yes" if hallucinated content is present, "no" if the answer is accurate; lowercase, no extra words

Contains hallucinated information: `, answer, documents)
}

func buildRelevancePrompt(question, answer string) string {
	return fmt.Sprintf(`You are evaluating answer quality and relevance.

Task: Determine if the generated answer properly addresses the user's question.

Original Question: %s
Generated Answer: %s

Instructions:
- Check if the answer directly responds to what was asked
- Consider if the answer is complete and helpful
- Respond with only "yes" if relevant, "no" if not; lowercase, no extra words

Addresses the question: `, question, answer)
}
