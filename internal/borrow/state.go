package borrow

import (
	"context"
	"log/slog"

	"github.com/looplab/fsm"
)

type SessionState string

const (
	StateCreated             SessionState = "CREATED"
	StateInitialized         SessionState = "INITIALIZED"
	StateScanningBooks       SessionState = "SCANNING_BOOKS"
	StateConfirmingLoans     SessionState = "CONFIRMING_LOANS"
	StateBorrowingRestricted SessionState = "BORROWING_RESTRICTED"
	StateCompleted           SessionState = "COMPLETED"
	StateCancelled           SessionState = "CANCELLED"
)

func (s SessionState) String() string {
	return string(s)
}

const (
	eventInitialise     = "initialise"
	eventAdmit          = "admit"
	eventRestrict       = "restrict"
	eventFinishScanning = "finish_scanning"
	eventConfirm        = "confirm"
	eventReject         = "reject"
	eventCancel         = "cancel"
)

func states(s ...SessionState) []string {
	names := make([]string, len(s))
	for i, state := range s {
		names[i] = string(state)
	}
	return names
}

func newSessionMachine(log *slog.Logger) *fsm.FSM {
	return fsm.NewFSM(
		string(StateCreated),
		fsm.Events{
			{Name: eventInitialise, Src: states(StateCreated, StateInitialized, StateScanningBooks, StateConfirmingLoans, StateBorrowingRestricted, StateCompleted, StateCancelled), Dst: string(StateInitialized)},
			{Name: eventAdmit, Src: states(StateInitialized), Dst: string(StateScanningBooks)},
			{Name: eventRestrict, Src: states(StateInitialized, StateScanningBooks), Dst: string(StateBorrowingRestricted)},
			{Name: eventFinishScanning, Src: states(StateScanningBooks), Dst: string(StateConfirmingLoans)},
			{Name: eventConfirm, Src: states(StateConfirmingLoans), Dst: string(StateCompleted)},
			{Name: eventReject, Src: states(StateConfirmingLoans), Dst: string(StateScanningBooks)},
			{Name: eventCancel, Src: states(StateCreated, StateInitialized, StateScanningBooks, StateConfirmingLoans, StateBorrowingRestricted), Dst: string(StateCancelled)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.Debug("session state changed", "event", e.Event, "from", e.Src, "to", e.Dst)
			},
		},
	)
}
