package condition

import "fmt"

// Effect is a read-only view of one active status effect.
type Effect struct {
	ID string
	// RemainingTurns is -1 for permanent effects.
	RemainingTurns int
	LocksAction    bool
}

// activeEffect tracks one applied status on an actor.
type activeEffect struct {
	def       *StatusDef
	remaining int
}

// ActiveSet tracks the status effects on one actor in application order.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	effects []*activeEffect
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{}
}

// Apply adds def with duration turns remaining; use -1 for permanent.
// Re-applying an active status keeps its position and extends its duration
// to max(existing, duration).
//
// Precondition: def must not be nil.
// Postcondition: Has(def.ID) is true.
func (s *ActiveSet) Apply(def *StatusDef, duration int) error {
	if def == nil {
		return fmt.Errorf("Apply: def must not be nil")
	}
	if def.DurationType == DurationPermanent {
		duration = -1
	}
	for _, ae := range s.effects {
		if ae.def.ID != def.ID {
			continue
		}
		if ae.remaining >= 0 && (duration < 0 || duration > ae.remaining) {
			ae.remaining = duration
		}
		return nil
	}
	s.effects = append(s.effects, &activeEffect{def: def, remaining: duration})
	return nil
}

// Remove deletes the status with the given ID. Removing an absent status
// is a no-op.
//
// Postcondition: Has(id) is false.
func (s *ActiveSet) Remove(id string) {
	for i, ae := range s.effects {
		if ae.def.ID == id {
			s.effects = append(s.effects[:i], s.effects[i+1:]...)
			return
		}
	}
}

// Tick decrements every timed status by one turn and removes those that
// reach zero. Permanent statuses are unaffected.
//
// Postcondition: returns the expired definitions in application order;
// Has(def.ID) is false for each.
func (s *ActiveSet) Tick() []*StatusDef {
	var expired []*StatusDef
	kept := s.effects[:0]
	for _, ae := range s.effects {
		if ae.remaining < 0 {
			kept = append(kept, ae)
			continue
		}
		ae.remaining--
		if ae.remaining <= 0 {
			expired = append(expired, ae.def)
			continue
		}
		kept = append(kept, ae)
	}
	clear(s.effects[len(kept):])
	s.effects = kept
	return expired
}

// Has reports whether the status with id is currently active.
func (s *ActiveSet) Has(id string) bool {
	for _, ae := range s.effects {
		if ae.def.ID == id {
			return true
		}
	}
	return false
}

// Locked reports whether any active status prevents acting.
func (s *ActiveSet) Locked() bool {
	for _, ae := range s.effects {
		if ae.def.LocksAction {
			return true
		}
	}
	return false
}

// Effects returns a snapshot of the active statuses in application order.
func (s *ActiveSet) Effects() []Effect {
	out := make([]Effect, len(s.effects))
	for i, ae := range s.effects {
		out[i] = Effect{ID: ae.def.ID, RemainingTurns: ae.remaining, LocksAction: ae.def.LocksAction}
	}
	return out
}

// Len returns the number of active statuses.
func (s *ActiveSet) Len() int { return len(s.effects) }
