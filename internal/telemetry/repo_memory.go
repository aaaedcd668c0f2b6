package telemetry

import (
	"encoding/json"
	"sync"
	"time"
)

// Repository stores telemetry events. Recording is best-effort: callers
// ignore the error on hot paths so telemetry can never block an evaluation.
type Repository interface {
	RecordEvent(eventType EventType, metadata EventMetadata) error
	GetEvents(since time.Time, eventTypes []EventType) ([]Event, error)
	Clear() error
}

// MemoryRepository stores events in memory (dev/test use).
type MemoryRepository struct {
	mu     sync.RWMutex
	events []Event
	nextID int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		events: make([]Event, 0),
		nextID: 1,
	}
}

func (r *MemoryRepository) RecordEvent(eventType EventType, metadata EventMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	event := Event{
		ID:        r.nextID,
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Metadata:  string(metadataJSON),
	}
	r.events = append(r.events, event)
	r.nextID++
	return nil
}

func (r *MemoryRepository) GetEvents(since time.Time, eventTypes []EventType) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := map[EventType]bool{}
	for _, t := range eventTypes {
		wanted[t] = true
	}

	out := make([]Event, 0)
	for _, e := range r.events {
		if e.Timestamp.Before(since) {
			continue
		}
		if len(wanted) > 0 && !wanted[e.Type] {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *MemoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = r.events[:0]
	r.nextID = 1
	return nil
}
