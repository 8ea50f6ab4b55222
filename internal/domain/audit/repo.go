package audit

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows audit log listings.
type Filter struct {
	TableName string
	RecordID  string
	Action    string
	ActorID   *uuid.UUID
}

type Repository interface {
	Insert(ctx context.Context, e *Entry) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Entry, int, error)
}
