package coordinator

import (
	"context"
	"testing"

	"vcrts/internal/store"
)

func TestLifecycle_PendingTransitions(t *testing.T) {
	ctx := context.Background()

	status, err := newLifecycle(store.RequestStatusPending).fire(ctx, eventApprove)
	if err != nil {
		t.Fatalf("approve from pending: %v", err)
	}
	if status != store.RequestStatusApproved {
		t.Errorf("status = %v, want APPROVED", status)
	}

	status, err = newLifecycle(store.RequestStatusPending).fire(ctx, eventReject)
	if err != nil {
		t.Fatalf("reject from pending: %v", err)
	}
	if status != store.RequestStatusRejected {
		t.Errorf("status = %v, want REJECTED", status)
	}
}

func TestLifecycle_DecidedIsTerminal(t *testing.T) {
	ctx := context.Background()

	for _, initial := range []store.RequestStatus{store.RequestStatusApproved, store.RequestStatusRejected} {
		for _, event := range []string{eventApprove, eventReject} {
			status, err := newLifecycle(initial).fire(ctx, event)
			if err == nil {
				t.Errorf("%s from %s should fail", event, initial)
			}
			if status != initial {
				t.Errorf("status changed from %s to %s on invalid event", initial, status)
			}
		}
	}
}
