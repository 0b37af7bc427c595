package coordinator

import (
	"context"

	"github.com/looplab/fsm"

	"vcrts/internal/store"
)

// Decision events for the request lifecycle.
const (
	eventApprove = "approve"
	eventReject  = "reject"
)

// lifecycle enforces the one-way request state machine:
// PENDING -> APPROVED or PENDING -> REJECTED, nothing else.
type lifecycle struct {
	*fsm.FSM
}

func newLifecycle(initial store.RequestStatus) *lifecycle {
	return &lifecycle{fsm.NewFSM(
		string(initial),
		fsm.Events{
			{Name: eventApprove, Src: []string{string(store.RequestStatusPending)}, Dst: string(store.RequestStatusApproved)},
			{Name: eventReject, Src: []string{string(store.RequestStatusPending)}, Dst: string(store.RequestStatusRejected)},
		},
		fsm.Callbacks{},
	)}
}

// fire runs a decision event and returns the resulting status.
func (l *lifecycle) fire(ctx context.Context, event string) (store.RequestStatus, error) {
	if err := l.Event(ctx, event); err != nil {
		return store.RequestStatus(l.Current()), err
	}
	return store.RequestStatus(l.Current()), nil
}
