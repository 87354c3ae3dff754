// Package audit records attempt lifecycle events in an append-only log.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	TypeAttemptStarted    = "attempt_started"
	TypeAttemptSubmitted  = "attempt_submitted"
	TypeCertificateIssued = "certificate_issued"
)

type Event struct {
	Offset    int64
	Type      string
	Key       string // natural key: attempt id
	DataJSON  string
	CreatedAt int64
}

type Log struct{ db *sql.DB }

func NewLog(db *sql.DB) *Log { return &Log{db: db} }

// Append writes one event. A nil Log is a no-op so callers without a database
// (tests, in-memory runs) can skip wiring it.
func (l *Log) Append(ctx context.Context, typ, key string, data any) error {
	if l == nil || l.db == nil {
		return nil
	}
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		typ, key, string(buf), time.Now().Unix())
	return err
}
