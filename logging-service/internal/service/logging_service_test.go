package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/farahsharshar/v-banking-system/logging-service/internal/repository"
	"github.com/farahsharshar/v-banking-system/shared/audit"
	"github.com/farahsharshar/v-banking-system/shared/errs"
)

type memoryLogStore struct {
	entries []repository.LogEntry
}

func (s *memoryLogStore) Create(_ context.Context, entry *repository.LogEntry) error {
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *memoryLogStore) ListRecent(_ context.Context, limit int) ([]repository.LogEntry, error) {
	if limit > len(s.entries) {
		limit = len(s.entries)
	}
	return s.entries[:limit], nil
}

func TestHandleMessage(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339)

	t.Run("stores a valid record", func(t *testing.T) {
		store := &memoryLogStore{}
		svc := NewLoggingService(store)

		msg := audit.NewLogMessage("GET /bff/dashboard/abc", audit.TypeRequest, "/bff/dashboard/abc")
		if err := svc.HandleMessage(ctx, msg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(store.entries) != 1 {
			t.Fatalf("got %d entries, want 1", len(store.entries))
		}
		entry := store.entries[0]
		if entry.MessageType != audit.TypeRequest || entry.Endpoint != "/bff/dashboard/abc" {
			t.Errorf("unexpected entry: %+v", entry)
		}
		if entry.ConsumedAt.IsZero() {
			t.Error("ConsumedAt was not stamped")
		}
	})

	t.Run("rejects an unknown message type", func(t *testing.T) {
		svc := NewLoggingService(&memoryLogStore{})
		msg := audit.LogMessage{Message: "x", MessageType: "TRACE", Endpoint: "/x", DateTime: now}
		if err := svc.HandleMessage(ctx, msg); !errors.Is(err, errs.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("rejects a malformed dateTime", func(t *testing.T) {
		svc := NewLoggingService(&memoryLogStore{})
		msg := audit.LogMessage{Message: "x", MessageType: audit.TypeResponse, Endpoint: "/x", DateTime: "yesterday"}
		if err := svc.HandleMessage(ctx, msg); !errors.Is(err, errs.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestRecentEntries(t *testing.T) {
	ctx := context.Background()
	store := &memoryLogStore{}
	svc := NewLoggingService(store)

	for i := 0; i < 3; i++ {
		msg := audit.NewLogMessage("200 OK", audit.TypeResponse, "/accounts")
		if err := svc.HandleMessage(ctx, msg); err != nil {
			t.Fatalf("handle failed: %v", err)
		}
	}

	entries, err := svc.RecentEntries(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}

	// A nonsense limit falls back to the default instead of failing.
	entries, err = svc.RecentEntries(ctx, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries, want all 3", len(entries))
	}
}
