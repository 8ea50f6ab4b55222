package audit

import (
	"context"
	"fmt"
)

// Recorder is the write-side interface other services depend on.
type Recorder interface {
	Record(ctx context.Context, e *Entry) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record appends an entry to the log, stamping request metadata from the
// context when present.
func (s *Service) Record(ctx context.Context, e *Entry) error {
	if e.TableName == "" || e.Action == "" {
		return fmt.Errorf("audit entry requires table_name and action")
	}
	if meta, ok := MetaFromContext(ctx); ok {
		if e.IPAddress == nil && meta.IPAddress != "" {
			e.IPAddress = &meta.IPAddress
		}
		if e.UserAgent == nil && meta.UserAgent != "" {
			e.UserAgent = &meta.UserAgent
		}
	}
	return s.repo.Insert(ctx, e)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Entry, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}
