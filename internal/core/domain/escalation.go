package domain

import "time"

// EscalationEvent is published when a run hands off to a human. It is
// the wire shape consumed by the escalation worker.
type EscalationEvent struct {
	ID              string    `json:"id"`
	Reason          string    `json:"reason"`
	Timestamp       time.Time `json:"timestamp"`
	Query           string    `json:"query"`
	UserRole        Role      `json:"user_role"`
	ConfidenceScore float64   `json:"confidence_score"`
}

// TicketStatus tracks the review lifecycle of an escalation ticket.
type TicketStatus string

const (
	TicketOpen     TicketStatus = "open"
	TicketResolved TicketStatus = "resolved"
)

// EscalationTicket is the persisted record a human reviewer works from.
type EscalationTicket struct {
	ID              string       `json:"id"`
	Query           string       `json:"query"`
	UserRole        Role         `json:"user_role"`
	Reason          string       `json:"reason"`
	ConfidenceScore float64      `json:"confidence_score"`
	Status          TicketStatus `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
}
