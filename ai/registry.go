package ai

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrStateNotFound is returned when a state name was never registered for an
// owner. A transition target hitting this is a design-time wiring bug, not a
// runtime condition to absorb.
var ErrStateNotFound = errors.New("ai: state not found")

type stateKey struct {
	owner uuid.UUID
	name  string
}

// Registry maps (owner, state name) to a state instance. Each controller owns
// its entries and releases them on teardown; nothing here is a process-wide
// singleton, so tests construct a fresh registry per case.
//
// Access is single-threaded by the host's tick model: writes happen during
// entity registration, reads during ticks.
type Registry struct {
	states map[stateKey]State
}

func NewRegistry() *Registry {
	return &Registry{states: make(map[stateKey]State)}
}

// RegisterState creates and stores a state for later retrieval. Registering
// the same (owner, name) twice is a no-op; the first instance wins.
func (r *Registry) RegisterState(owner uuid.UUID, name string, factory func() State) {
	key := stateKey{owner: owner, name: name}
	if _, ok := r.states[key]; ok {
		return
	}
	r.states[key] = factory()
}

func (r *Registry) GetState(owner uuid.UUID, name string) (State, error) {
	st, ok := r.states[stateKey{owner: owner, name: name}]
	if !ok {
		return nil, fmt.Errorf("%w: %q (owner %s)", ErrStateNotFound, name, owner)
	}
	return st, nil
}

// Unregister removes every state registered for the owner. Called when the
// owning actor leaves the world so no entries outlive it.
func (r *Registry) Unregister(owner uuid.UUID) {
	for key := range r.states {
		if key.owner == owner {
			delete(r.states, key)
		}
	}
}

// Len reports the number of registered states across all owners.
func (r *Registry) Len() int {
	return len(r.states)
}
