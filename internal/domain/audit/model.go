// Package audit provides the append-only change log. Entries are written
// inside the same transaction as the change they describe, so a rejected
// operation never leaves a log entry behind. There are no update or delete
// operations on the log.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the log.
const (
	ActionCreate       = "create"
	ActionUpdate       = "update"
	ActionDelete       = "delete"
	ActionSubmit       = "submit"
	ActionApprove      = "approve"
	ActionCancel       = "cancel"
	ActionStatusChange = "status_change"
)

// Entry maps to the audit_log table.
type Entry struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	TableName string          `db:"table_name" json:"table_name"`
	RecordID  string          `db:"record_id" json:"record_id"`
	Action    string          `db:"action" json:"action"`
	OldValues json.RawMessage `db:"old_values" json:"old_values,omitempty"`
	NewValues json.RawMessage `db:"new_values" json:"new_values,omitempty"`
	ActorID   uuid.UUID       `db:"actor_id" json:"actor_id"`
	ActorName string          `db:"actor_name" json:"actor_name"`
	ActorRole string          `db:"actor_role" json:"actor_role"`
	IPAddress *string         `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent *string         `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Snapshot marshals v for storage in an entry's old or new values.
// Marshalling failures yield a nil snapshot rather than blocking the write.
func Snapshot(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
