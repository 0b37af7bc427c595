// Package coordinator implements the request lifecycle gate for vcrts: it
// owns the authoritative pending set, assigns request ids, applies
// controller decisions and dispatches the matching domain side effect.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"vcrts/internal/store"
)

// Failure modes surfaced to callers. Every public operation returns one of
// these (possibly wrapped) instead of letting storage or parsing errors
// escape the coordinator boundary.
var (
	ErrNotConnected     = errors.New("client is not connected")
	ErrAlreadyConnected = errors.New("user is already connected")
	ErrNotFound         = errors.New("request not found among pending")
	ErrInvalidPayload   = errors.New("invalid request payload")
)

// payloadFields is the field count both request payloads carry.
const payloadFields = 6

// Config tunes a Coordinator.
type Config struct {
	// HeartbeatInterval drives the background Run loop. Defaults to 30s.
	HeartbeatInterval time.Duration
}

// Coordinator is the single authoritative gate for request submission,
// decision and side-effect dispatch. Construct one per process and hand it
// to every collaborator; there is no hidden global instance.
type Coordinator struct {
	log      *slog.Logger
	requests store.RequestStore
	vehicles store.VehicleStore
	jobs     store.JobStore
	registry *Registry
	cfg      Config

	// mu guards pending and nextID.
	mu      sync.Mutex
	pending []store.Request
	nextID  int

	submitted metric.Int64Counter
	approved  metric.Int64Counter
	rejected  metric.Int64Counter
}

// New builds a coordinator over the given stores and registry. The id
// counter is seeded from the request store's max-id scan and the pending
// set from its surviving PENDING records, so a restart resumes where the
// data directory left off.
func New(log *slog.Logger, requests store.RequestStore, vehicles store.VehicleStore, jobs store.JobStore, registry *Registry, cfg Config) (*Coordinator, error) {
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = 30 * time.Second
	}

	ctx := context.Background()
	nextID, err := requests.NextRequestID(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed request id counter: %w", err)
	}
	pending, err := requests.PendingRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pending requests: %w", err)
	}

	c := &Coordinator{
		log:      log,
		requests: requests,
		vehicles: vehicles,
		jobs:     jobs,
		registry: registry,
		cfg:      cfg,
		pending:  pending,
		nextID:   nextID,
	}

	meter := otel.Meter("vcrts/coordinator")
	if c.submitted, err = meter.Int64Counter("vcrts.requests.submitted",
		metric.WithDescription("Requests accepted by the coordinator")); err != nil {
		return nil, fmt.Errorf("register submitted counter: %w", err)
	}
	if c.approved, err = meter.Int64Counter("vcrts.requests.approved",
		metric.WithDescription("Requests approved by the controller")); err != nil {
		return nil, fmt.Errorf("register approved counter: %w", err)
	}
	if c.rejected, err = meter.Int64Counter("vcrts.requests.rejected",
		metric.WithDescription("Requests rejected by the controller")); err != nil {
		return nil, fmt.Errorf("register rejected counter: %w", err)
	}

	return c, nil
}

// Registry exposes the connection registry the coordinator gates on.
func (c *Coordinator) Registry() *Registry { return c.registry }

// Submit accepts a request from a connected client, assigns the next id,
// stamps the timestamp, persists it and adds it to the pending set. The
// returned id is unique and strictly increasing in submission order.
func (c *Coordinator) Submit(ctx context.Context, req *store.Request) (int, error) {
	if !c.registry.IsConnected(req.ClientID) {
		return 0, fmt.Errorf("submit for client %d: %w", req.ClientID, ErrNotConnected)
	}
	if req.Type != store.RequestTypeRegisterVehicle && req.Type != store.RequestTypeAddJob {
		return 0, fmt.Errorf("unknown request type %q: %w", req.Type, ErrInvalidPayload)
	}
	if err := checkRecordSafe(req.ClientName); err != nil {
		return 0, fmt.Errorf("client name: %w", err)
	}
	if strings.ContainsAny(req.Data, "\r\n") {
		return 0, fmt.Errorf("payload contains line breaks: %w", ErrInvalidPayload)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	req.ID = c.nextID
	req.Status = store.RequestStatusPending
	req.Timestamp = time.Now().Format(store.TimestampLayout)
	req.ResponseMessage = ""

	if err := c.requests.AddRequest(ctx, req); err != nil {
		return 0, fmt.Errorf("persist request: %w", err)
	}
	c.nextID++
	c.pending = append(c.pending, *req)

	c.submitted.Add(ctx, 1)
	c.log.Info("request submitted",
		"request_id", req.ID, "client_id", req.ClientID, "type", req.Type)
	return req.ID, nil
}

// PendingRequests returns a snapshot of the pending set in encounter order.
func (c *Coordinator) PendingRequests(ctx context.Context) []store.Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]store.Request, len(c.pending))
	copy(out, c.pending)
	return out
}

// PendingDepth reports the current pending set size, for gauge callbacks.
func (c *Coordinator) PendingDepth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// ClientRequests returns the client's pending requests first, then its
// decided requests from the store. Other clients' requests never appear.
func (c *Coordinator) ClientRequests(ctx context.Context, clientID int) []store.Request {
	c.mu.Lock()
	var out []store.Request
	for _, req := range c.pending {
		if req.ClientID == clientID {
			out = append(out, req)
		}
	}
	c.mu.Unlock()

	stored, err := c.requests.RequestsByClient(ctx, clientID)
	if err != nil {
		c.log.Error("failed to read client requests", "client_id", clientID, "error", err)
		return out
	}
	for _, req := range stored {
		if req.Status != store.RequestStatusPending {
			out = append(out, req)
		}
	}
	return out
}

// Approve applies a controller approval: the request's domain side effect
// runs first (vehicle registration or job creation), and only on success
// does the request transition to APPROVED, get rewritten in the store and
// leave the pending set. A dispatch failure leaves everything untouched.
func (c *Coordinator) Approve(ctx context.Context, requestID int, responseMessage string) error {
	if err := checkRecordSafe(responseMessage); err != nil {
		return fmt.Errorf("response message: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.findPendingLocked(requestID)
	if idx < 0 {
		return fmt.Errorf("approve %d: %w", requestID, ErrNotFound)
	}
	req := c.pending[idx]

	if err := c.dispatch(ctx, &req); err != nil {
		c.log.Warn("approval dispatch failed",
			"request_id", requestID, "type", req.Type, "error", err)
		return err
	}

	if err := c.decideLocked(ctx, idx, eventApprove, responseMessage); err != nil {
		return err
	}
	c.approved.Add(ctx, 1)
	c.log.Info("request approved", "request_id", requestID, "type", req.Type)
	return nil
}

// Reject applies a controller rejection. No domain side effect runs.
func (c *Coordinator) Reject(ctx context.Context, requestID int, responseMessage string) error {
	if err := checkRecordSafe(responseMessage); err != nil {
		return fmt.Errorf("response message: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.findPendingLocked(requestID)
	if idx < 0 {
		return fmt.Errorf("reject %d: %w", requestID, ErrNotFound)
	}

	if err := c.decideLocked(ctx, idx, eventReject, responseMessage); err != nil {
		return err
	}
	c.rejected.Add(ctx, 1)
	c.log.Info("request rejected", "request_id", requestID)
	return nil
}

// Run is the coordinator's background heartbeat loop. It only reports
// pending depth; all real work happens on caller goroutines. Blocks until
// the context is cancelled.
func (c *Coordinator) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.log.Info("coordinator heartbeat", "pending", c.PendingDepth())
		}
	}
}

// findPendingLocked returns the index of the first pending request with
// the given id, or -1. Linear scan; ids are unique so first match is the
// only match.
func (c *Coordinator) findPendingLocked(requestID int) int {
	for i, req := range c.pending {
		if req.ID == requestID {
			return i
		}
	}
	return -1
}

// decideLocked fires the lifecycle event, rewrites the stored record and
// removes the request from the pending set.
func (c *Coordinator) decideLocked(ctx context.Context, idx int, event, responseMessage string) error {
	req := c.pending[idx]

	status, err := newLifecycle(req.Status).fire(ctx, event)
	if err != nil {
		return fmt.Errorf("decide request %d: %w", req.ID, ErrNotFound)
	}
	if err := c.requests.UpdateRequestStatus(ctx, req.ID, status, responseMessage); err != nil {
		return fmt.Errorf("persist decision for request %d: %w", req.ID, err)
	}
	c.pending = append(c.pending[:idx], c.pending[idx+1:]...)
	return nil
}

// dispatch runs the type-specific side effect of an approval.
func (c *Coordinator) dispatch(ctx context.Context, req *store.Request) error {
	switch req.Type {
	case store.RequestTypeRegisterVehicle:
		v, err := parseVehiclePayload(req.Data)
		if err != nil {
			return err
		}
		return c.vehicles.AddVehicle(ctx, v)
	case store.RequestTypeAddJob:
		j, err := parseJobPayload(req.Data)
		if err != nil {
			return err
		}
		return c.jobs.AddJob(ctx, j)
	default:
		return fmt.Errorf("unknown request type %q: %w", req.Type, ErrInvalidPayload)
	}
}

// parseVehiclePayload expects ownerId|model|make|year|vin|residencyTime.
func parseVehiclePayload(data string) (*store.Vehicle, error) {
	parts := strings.Split(data, store.FieldSeparator)
	if len(parts) < payloadFields {
		return nil, fmt.Errorf("vehicle payload has %d of %d fields: %w", len(parts), payloadFields, ErrInvalidPayload)
	}
	ownerID, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("vehicle owner id %q: %w", parts[0], ErrInvalidPayload)
	}
	return &store.Vehicle{
		OwnerID:       ownerID,
		Model:         parts[1],
		Make:          parts[2],
		Year:          parts[3],
		VIN:           parts[4],
		ResidencyTime: parts[5],
		RegisteredAt:  time.Now().Format(store.TimestampLayout),
	}, nil
}

// parseJobPayload expects jobId|jobName|jobOwnerId|duration|deadline|status.
func parseJobPayload(data string) (*store.Job, error) {
	parts := strings.Split(data, store.FieldSeparator)
	if len(parts) < payloadFields {
		return nil, fmt.Errorf("job payload has %d of %d fields: %w", len(parts), payloadFields, ErrInvalidPayload)
	}
	ownerID, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, fmt.Errorf("job owner id %q: %w", parts[2], ErrInvalidPayload)
	}
	return &store.Job{
		ID:       parts[0],
		Name:     parts[1],
		OwnerID:  ownerID,
		Duration: parts[3],
		Deadline: parts[4],
		Status:   parts[5],
	}, nil
}

// checkRecordSafe rejects values that would corrupt a stored record.
func checkRecordSafe(field string) error {
	if strings.Contains(field, store.FieldSeparator) {
		return fmt.Errorf("field %q contains the record delimiter: %w", field, ErrInvalidPayload)
	}
	if strings.ContainsAny(field, "\r\n") {
		return fmt.Errorf("field %q contains line breaks: %w", field, ErrInvalidPayload)
	}
	return nil
}
