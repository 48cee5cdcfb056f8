package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"leaseline/internal/app"
	"leaseline/internal/domain"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// Entry is one recorded task mutation.
type Entry struct {
	ID        string `json:"id"`
	TS        string `json:"ts"`
	PartyID   string `json:"partyId"`
	TaskName  string `json:"taskName"`
	Action    string `json:"action"`
	RequestID string `json:"requestId,omitempty"`
	TenantID  string `json:"tenantId,omitempty"`
	Payload   string `json:"payloadJson"`
}

// Log is the append-only record of every mutation the dispatcher issued.
// It exists for operators: expected task state implied by party data can be
// compared against what was actually emitted.
type Log struct {
	DB  *sql.DB
	Now func() time.Time
}

func (l Log) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

// Record appends one mutation. Implements dispatch.Recorder.
func (l Log) Record(ctx context.Context, partyID string, name domain.TaskName, action string, t domain.Task) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	r := app.FromContext(ctx)
	_, err = l.DB.ExecContext(ctx,
		`INSERT INTO decisions(id,ts,party_id,task_name,action,request_id,tenant_id,payload_json) VALUES (?,?,?,?,?,?,?,?)`,
		uuid.New().String(),
		l.now().UTC().Format(time.RFC3339),
		partyID,
		string(name),
		action,
		nullable(r.RequestID),
		nullable(r.TenantID),
		string(payload),
	)
	return err
}

// ListByParty returns the most recent entries for a party, newest first.
func (l Log) ListByParty(ctx context.Context, partyID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.DB.QueryContext(ctx,
		`SELECT id,ts,party_id,task_name,action,COALESCE(request_id,''),COALESCE(tenant_id,''),payload_json
		 FROM decisions WHERE party_id=? ORDER BY ts DESC, id DESC LIMIT ?`, partyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.TS, &e.PartyID, &e.TaskName, &e.Action, &e.RequestID, &e.TenantID, &e.Payload); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Tail returns the most recent entries across all parties, newest first.
func (l Log) Tail(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.DB.QueryContext(ctx,
		`SELECT id,ts,party_id,task_name,action,COALESCE(request_id,''),COALESCE(tenant_id,''),payload_json
		 FROM decisions ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.TS, &e.PartyID, &e.TaskName, &e.Action, &e.RequestID, &e.TenantID, &e.Payload); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get returns one entry by id.
func (l Log) Get(ctx context.Context, id string) (Entry, error) {
	var e Entry
	err := l.DB.QueryRowContext(ctx,
		`SELECT id,ts,party_id,task_name,action,COALESCE(request_id,''),COALESCE(tenant_id,''),payload_json
		 FROM decisions WHERE id=?`, id).
		Scan(&e.ID, &e.TS, &e.PartyID, &e.TaskName, &e.Action, &e.RequestID, &e.TenantID, &e.Payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
