package coordinator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"vcrts/internal/store"
	"vcrts/internal/store/filestore"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCoordinator(t *testing.T) (*Coordinator, *filestore.Store) {
	t.Helper()

	st, err := filestore.New(t.TempDir(), discardLogger())
	if err != nil {
		t.Fatalf("filestore.New() error: %v", err)
	}
	c, err := New(discardLogger(), st, st, st, NewRegistry(), Config{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c, st
}

func connectClient(t *testing.T, c *Coordinator, id int) {
	t.Helper()
	u := store.User{ID: id, FullName: "Ava Torres", Role: store.RoleVehicleOwner}
	if _, err := c.Registry().Connect(u); err != nil {
		t.Fatalf("Connect(%d) error: %v", id, err)
	}
}

func vehicleRequest(clientID int) *store.Request {
	return &store.Request{
		ClientID:   clientID,
		ClientName: "Ava Torres",
		Type:       store.RequestTypeRegisterVehicle,
		Data:       "7|Civic|Honda|2020|VIN123|01:00:00",
	}
}

func TestSubmit_RequiresConnection(t *testing.T) {
	c, _ := newTestCoordinator(t)

	_, err := c.Submit(context.Background(), vehicleRequest(7))
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("Submit() error = %v, want ErrNotConnected", err)
	}
	if depth := c.PendingDepth(); depth != 0 {
		t.Errorf("pending depth = %d after failed submit, want 0", depth)
	}
}

func TestSubmit_IDsAreUniqueAndIncreasing(t *testing.T) {
	c, _ := newTestCoordinator(t)
	connectClient(t, c, 7)
	ctx := context.Background()

	var last int
	for i := 0; i < 5; i++ {
		id, err := c.Submit(ctx, vehicleRequest(7))
		if err != nil {
			t.Fatalf("Submit() error: %v", err)
		}
		if id <= last {
			t.Errorf("id %d not strictly greater than previous %d", id, last)
		}
		last = id
	}
}

func TestApprove_VehicleEndToEnd(t *testing.T) {
	c, st := newTestCoordinator(t)
	connectClient(t, c, 7)
	ctx := context.Background()

	id, err := c.Submit(ctx, vehicleRequest(7))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if id != 1 {
		t.Fatalf("first request id = %d, want 1", id)
	}

	if err := c.Approve(ctx, id, "ok"); err != nil {
		t.Fatalf("Approve() error: %v", err)
	}

	vehicles, _ := st.AllVehicles(ctx)
	if len(vehicles) != 1 {
		t.Fatalf("expected 1 vehicle, got %d", len(vehicles))
	}
	v := vehicles[0]
	if v.OwnerID != 7 || v.Model != "Civic" || v.Make != "Honda" || v.Year != "2020" ||
		v.VIN != "VIN123" || v.ResidencyTime != "01:00:00" {
		t.Errorf("unexpected vehicle: %+v", v)
	}

	stored, _ := st.AllRequests(ctx)
	if stored[0].Status != store.RequestStatusApproved || stored[0].ResponseMessage != "ok" {
		t.Errorf("stored request not approved: %+v", stored[0])
	}
	if depth := c.PendingDepth(); depth != 0 {
		t.Errorf("pending depth = %d after approval, want 0", depth)
	}
}

func TestApprove_JobEndToEnd(t *testing.T) {
	c, st := newTestCoordinator(t)
	connectClient(t, c, 8)
	ctx := context.Background()

	id, err := c.Submit(ctx, &store.Request{
		ClientID:   8,
		ClientName: "Noah Reed",
		Type:       store.RequestTypeAddJob,
		Data:       "J-100|Render frames|8|02:30:00|2026-12-01|QUEUED",
	})
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	if err := c.Approve(ctx, id, "scheduled"); err != nil {
		t.Fatalf("Approve() error: %v", err)
	}

	jobs, _ := st.AllJobs(ctx)
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	j := jobs[0]
	if j.ID != "J-100" || j.Name != "Render frames" || j.OwnerID != 8 ||
		j.Duration != "02:30:00" || j.Deadline != "2026-12-01" || j.Status != store.JobStatusQueued {
		t.Errorf("unexpected job: %+v", j)
	}
}

func TestApprove_ShortPayloadStaysPending(t *testing.T) {
	c, st := newTestCoordinator(t)
	connectClient(t, c, 7)
	ctx := context.Background()

	req := vehicleRequest(7)
	req.Data = "7|Civic|Honda" // 3 of 6 fields
	id, _ := c.Submit(ctx, req)

	err := c.Approve(ctx, id, "ok")
	if !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("Approve() error = %v, want ErrInvalidPayload", err)
	}

	if depth := c.PendingDepth(); depth != 1 {
		t.Errorf("pending depth = %d, want 1 (request must stay pending)", depth)
	}
	vehicles, _ := st.AllVehicles(ctx)
	if len(vehicles) != 0 {
		t.Errorf("no vehicle must be created, got %d", len(vehicles))
	}
	stored, _ := st.AllRequests(ctx)
	if stored[0].Status != store.RequestStatusPending {
		t.Errorf("stored request must stay pending: %+v", stored[0])
	}
}

func TestApprove_NonNumericOwnerStaysPending(t *testing.T) {
	c, _ := newTestCoordinator(t)
	connectClient(t, c, 7)
	ctx := context.Background()

	req := vehicleRequest(7)
	req.Data = "seven|Civic|Honda|2020|VIN123|01:00:00"
	id, _ := c.Submit(ctx, req)

	if err := c.Approve(ctx, id, "ok"); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("Approve() error = %v, want ErrInvalidPayload", err)
	}
	if depth := c.PendingDepth(); depth != 1 {
		t.Errorf("pending depth = %d, want 1", depth)
	}
}

func TestApprove_UnknownIDFails(t *testing.T) {
	c, _ := newTestCoordinator(t)

	if err := c.Approve(context.Background(), 42, "ok"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Approve() error = %v, want ErrNotFound", err)
	}
}

func TestReject_ThenRejectAgainFails(t *testing.T) {
	c, st := newTestCoordinator(t)
	connectClient(t, c, 7)
	ctx := context.Background()

	id, _ := c.Submit(ctx, vehicleRequest(7))

	if err := c.Reject(ctx, id, "capacity reached"); err != nil {
		t.Fatalf("Reject() error: %v", err)
	}

	stored, _ := st.AllRequests(ctx)
	if stored[0].Status != store.RequestStatusRejected || stored[0].ResponseMessage != "capacity reached" {
		t.Errorf("stored request not rejected: %+v", stored[0])
	}
	if depth := c.PendingDepth(); depth != 0 {
		t.Errorf("pending depth = %d after rejection, want 0", depth)
	}

	if err := c.Reject(ctx, id, "again"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Reject() error = %v, want ErrNotFound", err)
	}
}

func TestClientRequests_FiltersByClient(t *testing.T) {
	c, _ := newTestCoordinator(t)
	connectClient(t, c, 7)
	connectClient(t, c, 8)
	ctx := context.Background()

	mineID, _ := c.Submit(ctx, vehicleRequest(7))
	decidedID, _ := c.Submit(ctx, vehicleRequest(7))
	c.Submit(ctx, vehicleRequest(8))

	if err := c.Reject(ctx, decidedID, "no"); err != nil {
		t.Fatalf("Reject() error: %v", err)
	}

	got := c.ClientRequests(ctx, 7)
	if len(got) != 2 {
		t.Fatalf("expected 2 requests for client 7, got %d: %+v", len(got), got)
	}
	// Pending first, then decided.
	if got[0].ID != mineID || got[0].Status != store.RequestStatusPending {
		t.Errorf("first entry should be the pending request: %+v", got[0])
	}
	if got[1].ID != decidedID || got[1].Status != store.RequestStatusRejected {
		t.Errorf("second entry should be the decided request: %+v", got[1])
	}
	for _, req := range got {
		if req.ClientID != 7 {
			t.Errorf("foreign request leaked: %+v", req)
		}
	}
}

func TestSubmit_RejectsDelimiterInClientName(t *testing.T) {
	c, _ := newTestCoordinator(t)
	connectClient(t, c, 7)

	req := vehicleRequest(7)
	req.ClientName = "Ava|Torres"
	if _, err := c.Submit(context.Background(), req); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("Submit() error = %v, want ErrInvalidPayload", err)
	}
}

func TestNew_ResumesFromDataDirectory(t *testing.T) {
	st, err := filestore.New(t.TempDir(), discardLogger())
	if err != nil {
		t.Fatalf("filestore.New() error: %v", err)
	}

	first, err := New(discardLogger(), st, st, st, NewRegistry(), Config{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	connectClient(t, first, 7)
	ctx := context.Background()
	first.Submit(ctx, vehicleRequest(7))
	lastID, _ := first.Submit(ctx, vehicleRequest(7))

	second, err := New(discardLogger(), st, st, st, NewRegistry(), Config{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if depth := second.PendingDepth(); depth != 2 {
		t.Errorf("restarted pending depth = %d, want 2", depth)
	}

	connectClient(t, second, 7)
	id, err := second.Submit(ctx, vehicleRequest(7))
	if err != nil {
		t.Fatalf("Submit() after restart error: %v", err)
	}
	if id <= lastID {
		t.Errorf("post-restart id %d must exceed persisted max %d", id, lastID)
	}
}
