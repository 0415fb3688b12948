package replay

import (
	"errors"
	"fmt"
	"maps"
)

// ErrSealed is returned when a finished Builder is used again.
var ErrSealed = errors.New("replay: log already finished")

// Outcome is how a battle ended.
type Outcome uint8

const (
	OutcomeUnspecified Outcome = iota
	OutcomeVictory
	OutcomeDefeat
	OutcomeRetreat
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeRetreat:
		return "retreat"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// Valid reports whether o is one of victory, defeat or retreat.
func (o Outcome) Valid() bool {
	return o >= OutcomeVictory && o <= OutcomeRetreat
}

// Log is a sealed battle record. It is immutable and safe to share across
// goroutines; accessors return copies.
//
// Invariant: Turns() == max(a.Turn for a in Actions()), or 0 when empty.
type Log struct {
	initialHP map[ActorID]uint32
	actions   []ActionEntry
	outcome   Outcome
	turns     uint8
}

func newLog(initialHP map[ActorID]uint32, actions []ActionEntry, outcome Outcome) Log {
	l := Log{
		initialHP: make(map[ActorID]uint32, len(initialHP)),
		actions:   make([]ActionEntry, len(actions)),
		outcome:   outcome,
	}
	maps.Copy(l.initialHP, initialHP)
	for i, a := range actions {
		l.actions[i] = a.clone()
	}
	l.turns = maxTurn(l.actions)
	return l
}

func maxTurn(actions []ActionEntry) uint8 {
	var turns uint8
	for _, a := range actions {
		if a.Turn > turns {
			turns = a.Turn
		}
	}
	return turns
}

// InitialHP returns the HP of every actor before the first action.
func (l Log) InitialHP() map[ActorID]uint32 {
	return maps.Clone(l.initialHP)
}

// Actions returns the recorded entries in chronological order.
func (l Log) Actions() []ActionEntry {
	out := make([]ActionEntry, len(l.actions))
	for i, a := range l.actions {
		out[i] = a.clone()
	}
	return out
}

// Len returns the number of recorded entries.
func (l Log) Len() int { return len(l.actions) }

// Outcome returns how the battle ended.
func (l Log) Outcome() Outcome { return l.outcome }

// Turns returns the total turn count.
func (l Log) Turns() int { return int(l.turns) }

// Builder accumulates one battle's record. It is owned by a single battle
// context and is not safe for concurrent use.
type Builder struct {
	initialHP map[ActorID]uint32
	actions   []ActionEntry
	sealed    bool
}

// Begin starts a record with the HP snapshot taken before any action.
//
// Postcondition: later changes to initialHP do not affect the Builder.
func Begin(initialHP map[ActorID]uint32) *Builder {
	return &Builder{initialHP: maps.Clone(initialHP)}
}

// Record appends e. It does not validate e; turn order, id namespaces and
// magnitudes are the caller's responsibility and are checked on decode.
//
// Postcondition: returns ErrSealed after Finish.
func (b *Builder) Record(e ActionEntry) error {
	if b.sealed {
		return ErrSealed
	}
	b.actions = append(b.actions, e.clone())
	return nil
}

// Len returns the number of entries recorded so far.
func (b *Builder) Len() int { return len(b.actions) }

// Finish seals the record with outcome and computes the turn count.
//
// Precondition: outcome.Valid().
// Postcondition: the Builder rejects further Record and Finish calls.
func (b *Builder) Finish(outcome Outcome) (Log, error) {
	if b.sealed {
		return Log{}, ErrSealed
	}
	if !outcome.Valid() {
		return Log{}, fmt.Errorf("replay: finishing with invalid outcome %s", outcome)
	}
	b.sealed = true
	return newLog(b.initialHP, b.actions, outcome), nil
}
