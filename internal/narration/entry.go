// Package narration holds the display-oriented battle log consumed live by
// the UI. Entries carry no format stability guarantee across versions.
package narration

import "maps"

// Type classifies an entry for display.
type Type string

const (
	TypeSystem  Type = "system"
	TypeAction  Type = "action"
	TypeDamage  Type = "damage"
	TypeHeal    Type = "heal"
	TypeGuard   Type = "guard"
	TypeDefeat  Type = "defeat"
	TypeVictory Type = "victory"
	TypeMiss    Type = "miss"
	TypeStatus  Type = "status"
	TypeRetreat Type = "retreat"
)

// Valid reports whether t is one of the defined types.
func (t Type) Valid() bool {
	switch t {
	case TypeSystem, TypeAction, TypeDamage, TypeHeal, TypeGuard,
		TypeDefeat, TypeVictory, TypeMiss, TypeStatus, TypeRetreat:
		return true
	}
	return false
}

// Metadata keys.
const (
	MetaRole           = "role"
	MetaOrder          = "order"
	MetaHP             = "hp"
	MetaMaxHP          = "maxHp"
	MetaName           = "name"
	MetaLevel          = "level"
	MetaJobName        = "jobName"
	MetaPartyMemberID  = "partyMemberId"
	MetaCategory       = "category"
	MetaRemainingUses  = "remainingUses"
	MetaSpellID        = "spellId"
	MetaStatusID       = "statusId"
	MetaRemainingTurns = "remainingTurns"
	MetaOutcome        = "outcome"
	MetaTargetHP       = "targetHp"
	MetaAmount         = "amount"
)

// Role values for MetaRole.
const (
	RolePlayer = "player"
	RoleEnemy  = "enemy"
)

// Entry is one narrated event.
type Entry struct {
	// Turn is 0 for the pre-battle snapshot.
	Turn int `json:"turn"`
	// Message may be empty when the consumer renders from Metadata.
	Message  string            `json:"message,omitempty"`
	Type     Type              `json:"type"`
	ActorID  string            `json:"actorId,omitempty"`
	TargetID string            `json:"targetId,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Equal reports full structural equality. A nil and an empty Metadata are
// equal.
func (e Entry) Equal(o Entry) bool {
	return e.Turn == o.Turn &&
		e.Message == o.Message &&
		e.Type == o.Type &&
		e.ActorID == o.ActorID &&
		e.TargetID == o.TargetID &&
		maps.Equal(e.Metadata, o.Metadata)
}

func (e Entry) clone() Entry {
	e.Metadata = maps.Clone(e.Metadata)
	return e
}
