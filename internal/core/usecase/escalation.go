package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/novacorp/hr-assistant/internal/core/domain"
)

// Escalation decides when a run is handed off to a human reviewer.
// Confidence below the threshold always escalates. Sensitive content in
// the query or the answer escalates for employees and managers only;
// HR is presumed authorized to discuss any topic.
const escalationConfidenceFloor = 0.6

type EscalationPolicy struct {
	keywords []string

	now   func() time.Time
	newID func() string
}

func NewEscalationPolicy(sensitiveKeywords []string) *EscalationPolicy {
	keywords := make([]string, 0, len(sensitiveKeywords))
	for _, keyword := range sensitiveKeywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" {
			keywords = append(keywords, keyword)
		}
	}
	return &EscalationPolicy{
		keywords: keywords,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Evaluate returns whether the run escalates and, if so, the hand-off
// record with the comma-joined trigger names.
func (p *EscalationPolicy) Evaluate(
	role domain.Role,
	query, answer string,
	confidenceScore float64,
) (bool, *domain.EscalationInfo) {
	var reasons []string

	if confidenceScore < escalationConfidenceFloor {
		reasons = append(reasons, "Low confidence score")
	}

	if role == domain.RoleEmployee || role == domain.RoleManager {
		if p.containsSensitiveContent(query) || p.containsSensitiveContent(answer) {
			reasons = append(reasons, "Sensitive content detected")
		}
	}

	if len(reasons) == 0 {
		return false, nil
	}
	return true, &domain.EscalationInfo{
		ID:        p.newID(),
		Reason:    strings.Join(reasons, ", "),
		Timestamp: p.now().UTC(),
	}
}

func (p *EscalationPolicy) containsSensitiveContent(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, keyword := range p.keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
