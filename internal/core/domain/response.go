package domain

import "time"

// SourceRef points a delivered answer back at the corpus.
type SourceRef struct {
	Source  string `json:"source"`
	Page    int    `json:"page"`
	Section string `json:"section"`
}

// Response is the single typed terminal shape a workflow run produces.
// The populated fields depend on Status; a caller switches on Status and
// reads only the fields that shape defines.
type Response struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	UserRole  Role      `json:"user_role"`

	// success
	Answer          string               `json:"answer,omitempty"`
	ConfidenceScore float64              `json:"confidence_score,omitempty"`
	ConfidenceLevel string               `json:"confidence_level,omitempty"`
	Sources         []SourceRef          `json:"sources,omitempty"`
	Components      ConfidenceComponents `json:"confidence_components,omitzero"`

	// escalated / irrelevant_query / access_denied
	Message              string `json:"message,omitempty"`
	EscalationID         string `json:"escalation_id,omitempty"`
	EscalationReason     string `json:"escalation_reason,omitempty"`
	ExpectedResponseTime string `json:"expected_response_time,omitempty"`
	PartialAnswer        string `json:"partial_answer,omitempty"`

	// access_denied (reserved)
	AvailableAccessLevels []AccessLevel `json:"available_access_levels,omitempty"`
}
