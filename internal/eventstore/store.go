package eventstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store persists and retrieves journal events.
type Store interface {
	// Append adds a new event to the store.
	Append(ctx context.Context, runID, eventType string, payload []byte, metadata map[string]string) error

	// GetByRunID retrieves all events of one run, oldest first.
	GetByRunID(ctx context.Context, runID string) ([]Event, error)

	// RecentRuns lists the ids of the most recent runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]string, error)

	// Close closes the store and releases resources.
	Close() error
}

// Journal records typed run events. Implementations must not fail the run:
// callers log returned errors and continue.
type Journal interface {
	Record(ctx context.Context, runID, eventType string, payload any) error
}

// NoopJournal discards every event (default when no database is configured).
type NoopJournal struct{}

func (NoopJournal) Record(context.Context, string, string, any) error { return nil }

// StoreJournal encodes payloads as JSON and appends them to a Store.
type StoreJournal struct {
	store Store
}

// NewJournal returns a Journal backed by store.
func NewJournal(store Store) *StoreJournal {
	return &StoreJournal{store: store}
}

// Record appends one event.
func (j *StoreJournal) Record(ctx context.Context, runID, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMarshalPayloadFailed, eventType, err)
	}
	return j.store.Append(ctx, runID, eventType, data, nil)
}
