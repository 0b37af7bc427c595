// Package notify implements the per-user request status poller. It
// re-scans monitored users' requests on a fixed tick and emits exactly one
// event for each request's first observed transition out of PENDING.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"vcrts/internal/store"
	"vcrts/pkg/api"
)

// DefaultInterval is the poll cadence when callers pass none.
const DefaultInterval = 2 * time.Second

// RequestLister is the slice of the coordinator the monitor depends on.
type RequestLister interface {
	ClientRequests(ctx context.Context, clientID int) []store.Request
}

// Monitor polls request statuses for a set of users. All ticks run on one
// goroutine, so scans never overlap. Events are delivered on a buffered
// channel; a full channel drops the event rather than stalling the tick.
type Monitor struct {
	lister   RequestLister
	log      *slog.Logger
	interval time.Duration

	// mu guards users, lastStatus and the running flag.
	mu         sync.Mutex
	users      map[int]struct{}
	lastStatus map[int]map[int]store.RequestStatus // userID -> requestID -> status
	running    bool
	cancel     context.CancelFunc
	done       chan struct{}

	events chan api.Notification
}

// NewMonitor builds a stopped monitor. A non-positive interval falls back
// to DefaultInterval.
func NewMonitor(lister RequestLister, interval time.Duration, log *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		lister:     lister,
		log:        log,
		interval:   interval,
		users:      make(map[int]struct{}),
		lastStatus: make(map[int]map[int]store.RequestStatus),
		events:     make(chan api.Notification, 16),
	}
}

// Events is the notification stream. Closed by Stop.
func (m *Monitor) Events() <-chan api.Notification {
	return m.events
}

// Start begins monitoring a user. Idempotent: the first call arms the
// polling loop, later calls only add the user, and re-adding a tracked
// user never resets already-notified state. The user's current statuses
// are recorded immediately so decisions made before monitoring began do
// not fire notifications.
func (m *Monitor) Start(userID int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[userID]; !ok {
		m.users[userID] = struct{}{}
		m.primeLocked(userID)
	}

	if !m.running {
		ctx, cancel := context.WithCancel(context.Background())
		m.cancel = cancel
		m.done = make(chan struct{})
		m.running = true
		go m.run(ctx)
	}
}

// StopUser removes one user and its tracked state. The polling loop keeps
// running for the remaining users.
func (m *Monitor) StopUser(userID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, userID)
	delete(m.lastStatus, userID)
}

// Stop cancels the polling loop, waits for the in-flight tick and closes
// the event channel. Safe to call on a never-started monitor.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		close(m.events)
		return
	}
	m.running = false
	cancel, done := m.cancel, m.done
	m.mu.Unlock()

	cancel()
	<-done
	close(m.events)
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Scan(ctx)
		}
	}
}

// Scan performs one poll of every monitored user. Exposed so callers (and
// tests) can force a tick; the background loop calls it on the ticker.
func (m *Monitor) Scan(ctx context.Context) {
	m.mu.Lock()
	userIDs := make([]int, 0, len(m.users))
	for id := range m.users {
		userIDs = append(userIDs, id)
	}
	m.mu.Unlock()

	for _, userID := range userIDs {
		m.scanUser(ctx, userID)
	}
}

func (m *Monitor) scanUser(ctx context.Context, userID int) {
	requests := m.lister.ClientRequests(ctx, userID)

	m.mu.Lock()
	defer m.mu.Unlock()

	tracked, ok := m.lastStatus[userID]
	if !ok {
		// User was removed between the snapshot and now.
		return
	}

	for _, req := range requests {
		last, seen := tracked[req.ID]
		if !seen {
			// First sight: record without notifying, even if already decided.
			tracked[req.ID] = req.Status
			continue
		}
		if last != store.RequestStatusPending || req.Status == store.RequestStatusPending {
			continue
		}

		tracked[req.ID] = req.Status
		n := api.Notification{
			RequestID:       req.ID,
			ClientID:        req.ClientID,
			RequestType:     string(req.Type),
			PreviousStatus:  string(last),
			Status:          string(req.Status),
			ResponseMessage: req.ResponseMessage,
			Timestamp:       req.Timestamp,
		}
		select {
		case m.events <- n:
		default:
			m.log.Warn("dropping notification, consumer is slow",
				"request_id", req.ID, "user_id", userID)
		}
	}
}

// primeLocked records the user's current request statuses.
func (m *Monitor) primeLocked(userID int) {
	tracked := make(map[int]store.RequestStatus)
	m.lastStatus[userID] = tracked
	for _, req := range m.lister.ClientRequests(context.Background(), userID) {
		tracked[req.ID] = req.Status
	}
}
