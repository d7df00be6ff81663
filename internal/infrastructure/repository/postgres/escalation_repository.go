package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/novacorp/hr-assistant/internal/core/domain"
)

// EscalationRepository persists escalation tickets for human review.
type EscalationRepository struct {
	db *sql.DB
}

func NewEscalationRepository(db *sql.DB) *EscalationRepository {
	return &EscalationRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *EscalationRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026030501)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS escalation_tickets (
	id TEXT PRIMARY KEY,
	query TEXT NOT NULL,
	user_role TEXT NOT NULL,
	reason TEXT NOT NULL,
	confidence_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_escalation_tickets_status ON escalation_tickets(status);
CREATE INDEX IF NOT EXISTS idx_escalation_tickets_created_at ON escalation_tickets(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *EscalationRepository) CreateTicket(ctx context.Context, ticket *domain.EscalationTicket) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO escalation_tickets (
	id, query, user_role, reason, confidence_score, status, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING`,
		ticket.ID,
		ticket.Query,
		string(ticket.UserRole),
		ticket.Reason,
		ticket.ConfidenceScore,
		string(ticket.Status),
		ticket.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert escalation ticket: %w", err)
	}
	return nil
}

func (r *EscalationRepository) GetTicketByID(ctx context.Context, id string) (*domain.EscalationTicket, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, query, user_role, reason, confidence_score, status, created_at
FROM escalation_tickets
WHERE id = $1`, id)

	var (
		ticket domain.EscalationTicket
		role   string
		status string
	)
	err := row.Scan(
		&ticket.ID,
		&ticket.Query,
		&role,
		&ticket.Reason,
		&ticket.ConfidenceScore,
		&status,
		&ticket.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.WrapError(domain.ErrInvalidInput, "get escalation ticket", fmt.Errorf("ticket %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("scan escalation ticket: %w", err)
	}
	ticket.UserRole = domain.Role(role)
	ticket.Status = domain.TicketStatus(status)
	return &ticket, nil
}
