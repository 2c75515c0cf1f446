// internal/workers/booking/booking-intent/states.go
package bookingintent

import (
	apperrors "gigdial/internal/common/errors"
	"gigdial/internal/common/metrics"
)

// State is a step of the contact-worker handshake.
type State string

const (
	StateAnonymousBrowsing State = "anonymous-browsing"
	StatePendingAuth       State = "redirected-pending-auth"
	StateResumed           State = "authenticated-resumed"
	StateMessageSent       State = "message-sent"
	StateDismissed         State = "dismissed"
)

var transitions = map[State][]State{
	StateAnonymousBrowsing: {StatePendingAuth},
	StatePendingAuth:       {StateResumed},
	StateResumed:           {StateMessageSent, StateDismissed},
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates from -> to and counts it.
func Transition(from, to State) (State, error) {
	if !CanTransition(from, to) {
		return from, apperrors.NewIntentTransitionError(string(from), string(to))
	}
	metrics.BookingIntentTransitions.WithLabelValues(string(from), string(to)).Inc()
	return to, nil
}
