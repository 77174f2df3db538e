// Package service persists audit records consumed from the banking-logs
// stream. The sink is strictly one-way: nothing here ever reaches back into
// a request path.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/farahsharshar/v-banking-system/shared/audit"
	"github.com/farahsharshar/v-banking-system/shared/errs"
	"github.com/farahsharshar/v-banking-system/logging-service/internal/repository"
)

// Store persists consumed audit records.
type Store interface {
	Create(ctx context.Context, entry *repository.LogEntry) error
	ListRecent(ctx context.Context, limit int) ([]repository.LogEntry, error)
}

type LoggingService struct {
	store Store
}

func NewLoggingService(store Store) *LoggingService {
	return &LoggingService{store: store}
}

// HandleMessage validates and stores one audit record. It is the audit
// subscriber's handler: a returned error leaves the record un-ACKed for
// redelivery.
func (s *LoggingService) HandleMessage(ctx context.Context, msg audit.LogMessage) error {
	if msg.MessageType != audit.TypeRequest && msg.MessageType != audit.TypeResponse {
		return fmt.Errorf("unknown message type %q: %w", msg.MessageType, errs.ErrInvalidArgument)
	}

	dateTime, err := time.Parse(time.RFC3339, msg.DateTime)
	if err != nil {
		return fmt.Errorf("invalid dateTime %q: %w", msg.DateTime, errs.ErrInvalidArgument)
	}

	return s.store.Create(ctx, &repository.LogEntry{
		Message:     msg.Message,
		MessageType: msg.MessageType,
		Endpoint:    msg.Endpoint,
		DateTime:    dateTime,
		ConsumedAt:  time.Now().UTC(),
	})
}

// RecentEntries serves the inspection endpoint.
func (s *LoggingService) RecentEntries(ctx context.Context, limit int) ([]repository.LogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.store.ListRecent(ctx, limit)
}
