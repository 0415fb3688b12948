// Package replay records the compact, storage-stable form of one battle:
// the initial HP snapshot, the ordered action stream, the outcome and the
// turn count.
//
// Encoded logs must decode under every later version of this package. See
// Kind for the numbering rules and Unmarshal for the decode contract.
package replay

// ActorID identifies a battle participant. Party members occupy 1..200 and
// enemies occupy 1000 and above.
type ActorID uint16

const (
	// PartyIDMin is the lowest party member id.
	PartyIDMin ActorID = 1
	// PartyIDMax is the highest party member id.
	PartyIDMax ActorID = 200
	// EnemyIDMin is the lowest enemy id.
	EnemyIDMin ActorID = 1000
)

// MaxTurn is the highest turn number a battle can reach.
const MaxTurn = 20

// IsParty reports whether id lies in the party namespace.
func (id ActorID) IsParty() bool { return id >= PartyIDMin && id <= PartyIDMax }

// IsEnemy reports whether id lies in the enemy namespace.
func (id ActorID) IsEnemy() bool { return id >= EnemyIDMin }

// Valid reports whether id lies in either namespace.
func (id ActorID) Valid() bool { return id.IsParty() || id.IsEnemy() }

// ActionEntry is one recorded event.
//
// Invariant: Value is an absolute magnitude. Whether it damages or heals is
// implied by Kind.
type ActionEntry struct {
	Turn  uint8
	Kind  Kind
	Actor ActorID
	// Target is nil for untargeted events.
	Target *ActorID
	// Value is the damage or heal amount, nil when the event has none.
	Value *uint32
	// SkillIndex references skill master data, nil for basic actions.
	SkillIndex *uint32
	// Extra is an auxiliary display number such as a multiplier x100.
	Extra *int32
}

// Action returns an entry with the mandatory fields set.
func Action(turn uint8, kind Kind, actor ActorID) ActionEntry {
	return ActionEntry{Turn: turn, Kind: kind, Actor: actor}
}

// WithTarget returns a copy of e targeting target.
func (e ActionEntry) WithTarget(target ActorID) ActionEntry {
	e.Target = &target
	return e
}

// WithValue returns a copy of e carrying magnitude v.
func (e ActionEntry) WithValue(v uint32) ActionEntry {
	e.Value = &v
	return e
}

// WithSkill returns a copy of e referencing skill index idx.
func (e ActionEntry) WithSkill(idx uint32) ActionEntry {
	e.SkillIndex = &idx
	return e
}

// WithExtra returns a copy of e carrying auxiliary number x.
func (e ActionEntry) WithExtra(x int32) ActionEntry {
	e.Extra = &x
	return e
}

// clone returns a copy of e that shares no pointers with it.
func (e ActionEntry) clone() ActionEntry {
	out := ActionEntry{Turn: e.Turn, Kind: e.Kind, Actor: e.Actor}
	if e.Target != nil {
		out = out.WithTarget(*e.Target)
	}
	if e.Value != nil {
		out = out.WithValue(*e.Value)
	}
	if e.SkillIndex != nil {
		out = out.WithSkill(*e.SkillIndex)
	}
	if e.Extra != nil {
		out = out.WithExtra(*e.Extra)
	}
	return out
}
