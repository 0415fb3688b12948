// Package combat implements the reference turn loop that drives both battle
// logs: it resolves actions with the chance formulas and reports every
// event through the narration bridge and the replay builder.
package combat

import (
	"strconv"

	"github.com/cory-johannsen/battlelog/internal/bridge"
	"github.com/cory-johannsen/battlelog/internal/game/condition"
	"github.com/cory-johannsen/battlelog/internal/replay"
)

// Kind distinguishes party members from enemies.
type Kind int

const (
	KindPlayer Kind = iota
	KindEnemy
)

// Combatant represents one participant in a battle.
type Combatant struct {
	// ID is the narration identifier, e.g. "p1".
	ID string
	// ReplayID is the replay log identifier; party 1..200, enemies 1000+.
	ReplayID replay.ActorID
	Kind     Kind
	Name     string
	// CharacterID links a party member to its persistent character; 0 for enemies.
	CharacterID int64
	Job         string
	Level       int
	MaxHP       int
	CurrentHP   int
	Luck        int
	// Accuracy is the percent chance a physical attack connects.
	Accuracy int
	// Evasion is the percent chance, scaled by luck, of dodging a physical attack.
	Evasion int
	// CritRate is the probability a connecting physical attack is critical.
	CritRate float64
	Attack   int
	Defense  int
	// Action is the category the combatant uses every turn.
	Action Category
	// Uses is the number of magic or breath uses left.
	Uses int
	// SpellID is reported with magic actions.
	SpellID string
	// Inflicts is the status a connecting attack may apply, with InflictChance percent.
	Inflicts      string
	InflictChance int
	Statuses      *condition.ActiveSet

	defending bool
}

// IsPlayer reports whether this combatant is a party member.
func (c *Combatant) IsPlayer() bool { return c.Kind == KindPlayer }

// IsDead reports whether CurrentHP has reached zero.
func (c *Combatant) IsDead() bool { return c.CurrentHP <= 0 }

// ApplyDamage reduces CurrentHP by amount, flooring at zero.
// Precondition: amount must be >= 0.
// Postcondition: CurrentHP >= 0; returns the HP actually removed.
func (c *Combatant) ApplyDamage(amount int) int {
	if amount > c.CurrentHP {
		amount = c.CurrentHP
	}
	c.CurrentHP -= amount
	return amount
}

// Heal raises CurrentHP by amount, capped at MaxHP.
// Postcondition: returns the HP actually restored.
func (c *Combatant) Heal(amount int) int {
	if c.CurrentHP+amount > c.MaxHP {
		amount = c.MaxHP - c.CurrentHP
	}
	c.CurrentHP += amount
	return amount
}

func (c *Combatant) statuses() *condition.ActiveSet {
	if c.Statuses == nil {
		c.Statuses = condition.NewActiveSet()
	}
	return c.Statuses
}

// actor exposes a Combatant to the bridge and roster packages.
type actor struct{ c *Combatant }

func (a actor) ID() string               { return a.c.ID }
func (a actor) DisplayName() string      { return a.c.Name }
func (a actor) CurrentHP() int           { return a.c.CurrentHP }
func (a actor) MaxHP() int               { return a.c.MaxHP }
func (a actor) ReplayID() replay.ActorID { return a.c.ReplayID }
func (a actor) CharacterID() int64       { return a.c.CharacterID }
func (a actor) Level() (int, bool)       { return a.c.Level, a.c.Level > 0 }
func (a actor) JobName() (string, bool)  { return a.c.Job, a.c.Job != "" }

func (a actor) StatusEffects() []condition.Effect {
	return a.c.statuses().Effects()
}

func (a actor) PartyMemberID() (string, bool) {
	if !a.c.IsPlayer() || a.c.CharacterID <= 0 {
		return "", false
	}
	return strconv.FormatInt(a.c.CharacterID, 10), true
}

func actors(cs []*Combatant) []bridge.Actor {
	out := make([]bridge.Actor, len(cs))
	for i, c := range cs {
		out[i] = actor{c}
	}
	return out
}
