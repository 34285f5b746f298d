// Package attendance mirrors the server's view of who is present at an
// event. It is read-only: the snapshot only changes by refreshing from the
// backend, never by local mutation, so it cannot drift from server truth.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"eventsphere-scanner/internal/api"
)

var ErrNoSnapshot = errors.New("attendance: no snapshot loaded yet")

// EventAPI is the slice of the backend client the tracker needs.
type EventAPI interface {
	GetEvent(ctx context.Context, eventID int64) (*api.Event, error)
}

// Snapshot is one server-derived attendance state for an event.
type Snapshot struct {
	Event     api.Event
	FetchedAt time.Time
}

// PresentCount counts participants the server marked present.
func (s Snapshot) PresentCount() int {
	n := 0
	for _, p := range s.Event.Participants {
		if p.Status == api.StatusPresent {
			n++
		}
	}
	return n
}

func (s Snapshot) TotalCount() int {
	return len(s.Event.Participants)
}

// Present returns the participants with PRESENT status, in server order.
func (s Snapshot) Present() []api.Participant {
	var out []api.Participant
	for _, p := range s.Event.Participants {
		if p.Status == api.StatusPresent {
			out = append(out, p)
		}
	}
	return out
}

// Tracker holds the current snapshot. Refresh is the single writer; readers
// get copies and can run concurrently with the scan loop.
type Tracker struct {
	mu      sync.RWMutex
	client  EventAPI
	eventID int64
	snap    *Snapshot
	logger  *slog.Logger
}

func NewTracker(client EventAPI, eventID int64) *Tracker {
	return &Tracker{
		client:  client,
		eventID: eventID,
		logger:  slog.With("component", "attendance", "event_id", eventID),
	}
}

func (t *Tracker) EventID() int64 {
	return t.eventID
}

// Refresh pulls the event from the backend and replaces the snapshot.
// Called once when a session starts and again after every successful
// presence submission. On failure the previous snapshot stays in place.
func (t *Tracker) Refresh(ctx context.Context) (Snapshot, error) {
	event, err := t.client.GetEvent(ctx, t.eventID)
	if err != nil {
		t.logger.Warn("Attendance refresh failed", "error", err)
		return Snapshot{}, fmt.Errorf("attendance: refresh: %w", err)
	}

	snap := Snapshot{Event: *event, FetchedAt: time.Now()}

	t.mu.Lock()
	t.snap = &snap
	t.mu.Unlock()

	t.logger.Debug("Attendance refreshed",
		"present", snap.PresentCount(), "total", snap.TotalCount())
	return snap, nil
}

// Current returns the latest snapshot, or ErrNoSnapshot before the first
// successful Refresh.
func (t *Tracker) Current() (Snapshot, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.snap == nil {
		return Snapshot{}, ErrNoSnapshot
	}
	return *t.snap, nil
}
