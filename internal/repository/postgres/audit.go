package postgres

import (
	"context"

	"cookbook-service/internal/audit"
)

type AuditRepository struct {
	db *DB
}

func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) InsertAuditEvent(ctx context.Context, e audit.Event) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO audit_events (
			id, action, status, actor_id, email, ip_address, user_agent, client, request_id, reason, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, string(e.Action), string(e.Status), e.ActorID, e.Email,
		e.IPAddress, e.UserAgent, e.Client, e.RequestID, e.Reason, e.CreatedAt,
	)
	if err != nil {
		return errFailedInsertAuditEvent(err)
	}
	return nil
}

var _ audit.Sink = (*AuditRepository)(nil)
