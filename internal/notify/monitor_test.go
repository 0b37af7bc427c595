package notify

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"vcrts/internal/store"
	"vcrts/pkg/api"
)

// fakeLister is a mutable stand-in for the coordinator's client view.
type fakeLister struct {
	mu       sync.Mutex
	byClient map[int][]store.Request
}

func newFakeLister() *fakeLister {
	return &fakeLister{byClient: make(map[int][]store.Request)}
}

func (f *fakeLister) ClientRequests(ctx context.Context, clientID int) []store.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.Request(nil), f.byClient[clientID]...)
}

func (f *fakeLister) set(clientID int, reqs ...store.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byClient[clientID] = reqs
}

func request(id int, status store.RequestStatus) store.Request {
	return store.Request{
		ID:       id,
		ClientID: 7,
		Type:     store.RequestTypeRegisterVehicle,
		Status:   status,
	}
}

func testMonitor(lister RequestLister) *Monitor {
	// Hour-long tick keeps the background loop quiet; tests drive Scan.
	return NewMonitor(lister, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func drain(m *Monitor) []api.Notification {
	var out []api.Notification
	for {
		select {
		case n := <-m.Events():
			out = append(out, n)
		default:
			return out
		}
	}
}

func TestMonitor_ExactlyOneNotificationPerTransition(t *testing.T) {
	lister := newFakeLister()
	lister.set(7, request(1, store.RequestStatusPending))

	m := testMonitor(lister)
	m.Start(7)
	defer m.Stop()

	ctx := context.Background()

	// Still pending: nothing to report.
	m.Scan(ctx)
	if got := drain(m); len(got) != 0 {
		t.Fatalf("expected no events while pending, got %+v", got)
	}

	// Approved: exactly one event.
	approved := request(1, store.RequestStatusApproved)
	approved.ResponseMessage = "ok"
	lister.set(7, approved)

	m.Scan(ctx)
	got := drain(m)
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d: %+v", len(got), got)
	}
	n := got[0]
	if n.RequestID != 1 || n.Status != "APPROVED" || n.PreviousStatus != "PENDING" || n.ResponseMessage != "ok" {
		t.Errorf("unexpected notification: %+v", n)
	}

	// Unchanged on the next tick: no further event.
	m.Scan(ctx)
	if got := drain(m); len(got) != 0 {
		t.Errorf("expected no further events, got %+v", got)
	}
}

func TestMonitor_NoNotificationForPreDecidedRequests(t *testing.T) {
	lister := newFakeLister()
	lister.set(7, request(1, store.RequestStatusRejected))

	m := testMonitor(lister)
	m.Start(7)
	defer m.Stop()

	m.Scan(context.Background())
	if got := drain(m); len(got) != 0 {
		t.Errorf("requests decided before monitoring must not notify, got %+v", got)
	}
}

func TestMonitor_FirstSightViaScanRecordsWithoutNotifying(t *testing.T) {
	lister := newFakeLister()

	m := testMonitor(lister)
	m.Start(7)
	defer m.Stop()

	ctx := context.Background()

	// Request appears after monitoring began, already decided.
	lister.set(7, request(1, store.RequestStatusApproved))
	m.Scan(ctx)
	if got := drain(m); len(got) != 0 {
		t.Errorf("first sight must record silently, got %+v", got)
	}
}

func TestMonitor_StartIsIdempotent(t *testing.T) {
	lister := newFakeLister()
	lister.set(7, request(1, store.RequestStatusPending))

	m := testMonitor(lister)
	m.Start(7)
	defer m.Stop()

	ctx := context.Background()
	lister.set(7, request(1, store.RequestStatusApproved))
	m.Scan(ctx)
	if got := drain(m); len(got) != 1 {
		t.Fatalf("expected 1 event, got %+v", got)
	}

	// Re-arming must not reset notified state.
	m.Start(7)
	m.Scan(ctx)
	if got := drain(m); len(got) != 0 {
		t.Errorf("Start must not replay notifications, got %+v", got)
	}
}

func TestMonitor_TracksUsersIndependently(t *testing.T) {
	lister := newFakeLister()
	lister.set(7, request(1, store.RequestStatusPending))

	other := request(2, store.RequestStatusPending)
	other.ClientID = 8
	lister.set(8, other)

	m := testMonitor(lister)
	m.Start(7)
	m.Start(8)
	defer m.Stop()

	ctx := context.Background()

	decided := other
	decided.Status = store.RequestStatusRejected
	lister.set(8, decided)

	m.Scan(ctx)
	got := drain(m)
	if len(got) != 1 || got[0].ClientID != 8 {
		t.Errorf("expected one event for client 8, got %+v", got)
	}

	// Dropping a user stops its tracking; the other keeps going.
	m.StopUser(8)
	lister.set(7, request(1, store.RequestStatusApproved))
	m.Scan(ctx)
	got = drain(m)
	if len(got) != 1 || got[0].ClientID != 7 {
		t.Errorf("expected one event for client 7, got %+v", got)
	}
}

func TestMonitor_StopClosesEvents(t *testing.T) {
	m := testMonitor(newFakeLister())
	m.Start(7)
	m.Stop()

	if _, ok := <-m.Events(); ok {
		t.Error("events channel should be closed after Stop")
	}
}
