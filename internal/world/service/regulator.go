package service

import "github.com/SoftbearStudios/kiomet/internal/world/domain"

// tense describes when an event happens relative to the tick boundary.
type tense uint8

const (
	// tensePast means it already happened.
	tensePast tense = iota
	// tensePresent means it happens at the next tick boundary.
	tensePresent
	// tenseFuture means it has not been requested yet.
	tenseFuture
)

type regulatorState struct {
	join  tense
	leave tense
}

// Regulator aligns player joins and leaves to tick boundaries. Connection
// churn between ticks collapses into at most one add and one remove, and
// a client that reconnects before its leave is processed keeps its slot.
type Regulator struct {
	states map[domain.PlayerId]regulatorState
}

func NewRegulator() *Regulator {
	return &Regulator{states: make(map[domain.PlayerId]regulatorState)}
}

// Join admits a player. Returns true on the fast path: the player was
// unknown and is active immediately, without waiting for a tick.
func (r *Regulator) Join(playerId domain.PlayerId) bool {
	state, ok := r.states[playerId]
	if !ok {
		r.states[playerId] = regulatorState{join: tensePast, leave: tenseFuture}
		return true
	}
	state.join = tensePresent
	r.states[playerId] = state
	return false
}

// Leave schedules the player's removal for the next tick.
func (r *Regulator) Leave(playerId domain.PlayerId) {
	state, ok := r.states[playerId]
	if !ok {
		return
	}
	state.join = tenseFuture
	if state.leave == tenseFuture {
		state.leave = tensePresent
	}
	r.states[playerId] = state
}

// Active reports whether the player is currently part of the simulation.
func (r *Regulator) Active(playerId domain.PlayerId) bool {
	state, ok := r.states[playerId]
	return ok && state.join == tensePast && state.leave == tenseFuture
}

// Len is the number of tracked players, including ones mid-transition.
func (r *Regulator) Len() int {
	return len(r.states)
}

// Tick advances every pending transition by one step. addRemove is
// called with true for each player that joined and false for each that
// left this boundary.
func (r *Regulator) Tick(addRemove func(playerId domain.PlayerId, add bool)) {
	for playerId, state := range r.states {
		switch state.leave {
		case tensePast:
			addRemove(playerId, false)
			if state.join == tensePast {
				state.join = tenseFuture
			}
			state.leave = tenseFuture
			r.states[playerId] = state
		case tensePresent:
			state.leave = tensePast
			r.states[playerId] = state
		case tenseFuture:
			switch state.join {
			case tensePast:
				// Steady state.
			case tensePresent:
				addRemove(playerId, true)
				state.join = tensePast
				state.leave = tenseFuture
				r.states[playerId] = state
			case tenseFuture:
				// Fully expired.
				delete(r.states, playerId)
			}
		}
	}
}
