// internal/analytics/history.go

package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/archis1405/Lokal-Assessment/internal/domain"
)

const (
	// HistoryKey names the session blob holding recent events
	HistoryKey = "analytics_log"

	DefaultHistorySize = 50
)

type historyEntry struct {
	Event     string                 `json:"event"`
	Params    map[string]interface{} `json:"params"`
	Timestamp string                 `json:"timestamp"`
}

// HistorySink keeps the most recent events of a session in its medium.
// Storage errors are ignored.
type HistorySink struct {
	medium domain.Medium
	size   int
	logger logrus.FieldLogger
}

func NewHistorySink(medium domain.Medium, size int, logger logrus.FieldLogger) *HistorySink {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &HistorySink{medium: medium, size: size, logger: logger}
}

func (s *HistorySink) Emit(ctx context.Context, event domain.Event) {
	entries, err := readEntries(ctx, s.medium)
	if err != nil {
		s.logger.WithError(err).Debug("Resetting analytics history")
		entries = nil
	}

	entries = append(entries, historyEntry{
		Event:     event.Name,
		Params:    event.Params,
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339Nano),
	})
	if len(entries) > s.size {
		entries = entries[len(entries)-s.size:]
	}

	blob, err := json.Marshal(entries)
	if err != nil {
		s.logger.WithError(err).Debug("Failed to encode analytics history")
		return
	}
	if err := s.medium.Set(ctx, HistoryKey, blob); err != nil {
		s.logger.WithError(err).Debug("Failed to persist analytics history")
	}
}

// ReadHistory returns the persisted events of a session, oldest first
func ReadHistory(ctx context.Context, medium domain.Medium) ([]domain.Event, error) {
	entries, err := readEntries(ctx, medium)
	if err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(entries))
	for _, e := range entries {
		ts, _ := time.Parse(time.RFC3339Nano, e.Timestamp)
		events = append(events, domain.Event{Name: e.Event, Params: e.Params, Timestamp: ts})
	}
	return events, nil
}

func readEntries(ctx context.Context, medium domain.Medium) ([]historyEntry, error) {
	blob, err := medium.Get(ctx, HistoryKey)
	if err != nil {
		if errors.Is(err, domain.ErrBlobNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var entries []historyEntry
	if err := json.Unmarshal(blob, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
