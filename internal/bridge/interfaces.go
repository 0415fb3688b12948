// Package bridge turns battle engine signals into narration entries.
//
// The turn engine calls the emitters in chronological order. Emitters only
// append; they never read back, reorder or rewrite earlier entries, and
// they never fail outward.
package bridge

import (
	"github.com/cory-johannsen/battlelog/internal/game/condition"
	"github.com/cory-johannsen/battlelog/internal/narration"
	"github.com/cory-johannsen/battlelog/internal/replay"
)

// Actor is a battle participant as seen by the emitters.
type Actor interface {
	ID() string
	DisplayName() string
	CurrentHP() int
	MaxHP() int
	// StatusEffects returns the active effects in application order.
	StatusEffects() []condition.Effect
}

// Profiled is implemented by actors that carry optional display details.
// Each accessor reports whether the detail is present.
type Profiled interface {
	Level() (int, bool)
	JobName() (string, bool)
	PartyMemberID() (string, bool)
}

// Replayable is implemented by actors that have a replay log id.
type Replayable interface {
	ReplayID() replay.ActorID
}

// BattleContext is the battle state the emitters read and append to.
type BattleContext interface {
	// Turn returns the current turn; 0 before the first turn.
	Turn() int
	// Players returns the party in roster order.
	Players() []Actor
	// Enemies returns the enemies in encounter order.
	Enemies() []Actor
	AppendLog(narration.Entry)
	// AppendMessage appends an entry for the current turn built from its parts.
	AppendMessage(message string, typ narration.Type, actorID string, metadata map[string]string)
}

// ActionCategory describes what an actor chose to do this turn.
type ActionCategory interface {
	LogID() string
	// Message renders the category's announcement for actorName.
	Message(actorName string) string
	LogType() narration.Type
}

// StatusDefinitions resolves status display definitions. A miss is an
// expected result, not an error.
type StatusDefinitions interface {
	Lookup(id string) (*condition.StatusDef, bool)
}
