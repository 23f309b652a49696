// Package audit persists connection-level metadata for printer sessions to
// Postgres. Grounded on internal/repository/device_repository.go's
// query/exec idiom. Per SPEC_FULL.md §10b it never sees receipt content —
// only session identity, byte/element counters, and open/close timestamps —
// so enabling it cannot reintroduce the cross-restart receipt-persistence
// Non-goal.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"escpos-printer-service/internal/database"
)

// Record is one session's audit trail.
type Record struct {
	SessionID      string
	RemoteAddr     string
	OpenedAt       time.Time
	ClosedAt       sql.NullTime
	BytesRead      int64
	BytesWritten   int64
	ElementCount   int64
	OperationCount int64
	ClosedReason   string
}

// Store records session open/close events.
type Store struct {
	db     *database.DB
	logger *zap.Logger
}

// NewStore creates an audit Store.
func NewStore(db *database.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger.With(zap.String("component", "audit-store"))}
}

// RecordOpen inserts a row for a newly opened session.
func (s *Store) RecordOpen(ctx context.Context, sessionID, remoteAddr string, openedAt time.Time) error {
	query := `
		INSERT INTO session_audit_log (session_id, remote_addr, opened_at)
		VALUES ($1, $2, $3)
	`
	_, err := s.db.ExecContext(ctx, query, sessionID, remoteAddr, openedAt)
	if err != nil {
		s.logger.Error("failed to record session open", zap.Error(err), zap.String("session_id", sessionID))
		return fmt.Errorf("record session open: %w", err)
	}
	return nil
}

// RecordClose updates a session's row with its final byte/element tally.
func (s *Store) RecordClose(ctx context.Context, sessionID string, bytesRead, bytesWritten, elementCount, operationCount int64, reason string) error {
	query := `
		UPDATE session_audit_log
		SET closed_at = now(), bytes_read = $2, bytes_written = $3,
		    element_count = $4, operation_count = $5, closed_reason = $6
		WHERE session_id = $1 AND closed_at IS NULL
	`
	_, err := s.db.ExecContext(ctx, query, sessionID, bytesRead, bytesWritten, elementCount, operationCount, reason)
	if err != nil {
		s.logger.Error("failed to record session close", zap.Error(err), zap.String("session_id", sessionID))
		return fmt.Errorf("record session close: %w", err)
	}
	return nil
}

// Recent returns the most recently opened sessions, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	query := `
		SELECT session_id, remote_addr, opened_at, closed_at,
		       bytes_read, bytes_written, element_count, operation_count,
		       COALESCE(closed_reason, '')
		FROM session_audit_log
		ORDER BY opened_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent sessions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.SessionID, &r.RemoteAddr, &r.OpenedAt, &r.ClosedAt,
			&r.BytesRead, &r.BytesWritten, &r.ElementCount, &r.OperationCount, &r.ClosedReason); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
