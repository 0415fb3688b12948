package replay

import "fmt"

// Kind is the stable numeric code of a battle event.
//
// Invariant: codes are never renumbered or reused. New kinds are appended
// to a band or placed in an unused slot between existing values.
type Kind uint16

// Action selection (1-9).
const (
	KindDefend         Kind = 1
	KindPhysicalAttack Kind = 2
	KindPriestMagic    Kind = 3
	KindMageMagic      Kind = 4
	KindBreath         Kind = 5
)

// Battle lifecycle (10-14).
const (
	KindBattleStart Kind = 10
	KindTurnStart   Kind = 11
	KindVictory     Kind = 12
	KindDefeat      Kind = 13
	KindRetreat     Kind = 14
)

// Physical outcomes (20-25).
const (
	KindPhysicalHit      Kind = 20
	KindPhysicalCritical Kind = 21
	KindPhysicalMiss     Kind = 22
	KindPhysicalGuarded  Kind = 23
	KindPhysicalDodged   Kind = 24
	KindPhysicalKill     Kind = 25
)

// Magic outcomes (30-32).
const (
	KindMagicDamage   Kind = 30
	KindMagicResisted Kind = 31
	KindMagicFizzled  Kind = 32
)

// Breath outcome (40).
const (
	KindBreathDamage Kind = 40
)

// Status effects (50-55).
const (
	KindStatusInflicted Kind = 50
	KindStatusResisted  Kind = 51
	KindStatusTick      Kind = 52
	KindStatusExpired   Kind = 53
	KindStatusCured     Kind = 54
	KindStatusImmune    Kind = 55
)

// Reactions (60-61).
const (
	KindCounterattack Kind = 60
	KindCover         Kind = 61
)

// Heal and self-damage (70-74).
const (
	KindHeal         Kind = 70
	KindRegenerate   Kind = 71
	KindSelfDamage   Kind = 72
	KindDrainHeal    Kind = 73
	KindRecoilDamage Kind = 74
)

// Buffs (80-81).
const (
	KindBuffApplied Kind = 80
	KindBuffExpired Kind = 81
)

// Revive and rescue (90-92).
const (
	KindRevive       Kind = 90
	KindReviveFailed Kind = 91
	KindRescue       Kind = 92
)

// Action lock and special (100-104).
const (
	KindActionLocked Kind = 100
	KindConfused     Kind = 101
	KindCharging     Kind = 102
	KindWaiting      Kind = 103
	KindNoEffect     Kind = 104
)

// Enemy appearance (110).
const (
	KindEnemyAppear Kind = 110
)

// Enemy special skills (120-123).
const (
	KindEnemySkill        Kind = 120
	KindEnemySummon       Kind = 121
	KindEnemyDrain        Kind = 122
	KindEnemySelfDestruct Kind = 123
)

var kindNames = map[Kind]string{
	KindDefend:         "defend",
	KindPhysicalAttack: "physical_attack",
	KindPriestMagic:    "priest_magic",
	KindMageMagic:      "mage_magic",
	KindBreath:         "breath",

	KindBattleStart: "battle_start",
	KindTurnStart:   "turn_start",
	KindVictory:     "victory",
	KindDefeat:      "defeat",
	KindRetreat:     "retreat",

	KindPhysicalHit:      "physical_hit",
	KindPhysicalCritical: "physical_critical",
	KindPhysicalMiss:     "physical_miss",
	KindPhysicalGuarded:  "physical_guarded",
	KindPhysicalDodged:   "physical_dodged",
	KindPhysicalKill:     "physical_kill",

	KindMagicDamage:   "magic_damage",
	KindMagicResisted: "magic_resisted",
	KindMagicFizzled:  "magic_fizzled",

	KindBreathDamage: "breath_damage",

	KindStatusInflicted: "status_inflicted",
	KindStatusResisted:  "status_resisted",
	KindStatusTick:      "status_tick",
	KindStatusExpired:   "status_expired",
	KindStatusCured:     "status_cured",
	KindStatusImmune:    "status_immune",

	KindCounterattack: "counterattack",
	KindCover:         "cover",

	KindHeal:         "heal",
	KindRegenerate:   "regenerate",
	KindSelfDamage:   "self_damage",
	KindDrainHeal:    "drain_heal",
	KindRecoilDamage: "recoil_damage",

	KindBuffApplied: "buff_applied",
	KindBuffExpired: "buff_expired",

	KindRevive:       "revive",
	KindReviveFailed: "revive_failed",
	KindRescue:       "rescue",

	KindActionLocked: "action_locked",
	KindConfused:     "confused",
	KindCharging:     "charging",
	KindWaiting:      "waiting",
	KindNoEffect:     "no_effect",

	KindEnemyAppear: "enemy_appear",

	KindEnemySkill:        "enemy_skill",
	KindEnemySummon:       "enemy_summon",
	KindEnemyDrain:        "enemy_drain",
	KindEnemySelfDestruct: "enemy_self_destruct",
}

// Known reports whether k is a code defined by this build. Decoders keep
// unknown codes as-is; they come from newer writers.
func (k Kind) Known() bool {
	_, ok := kindNames[k]
	return ok
}

// String returns the stable name of k, or "unknown(<code>)".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint16(k))
}

// Band returns the name of the numeric band k falls in, or "" when k lies
// outside every band.
func (k Kind) Band() string {
	switch {
	case k >= 1 && k <= 9:
		return "selection"
	case k >= 10 && k <= 14:
		return "lifecycle"
	case k >= 20 && k <= 25:
		return "physical"
	case k >= 30 && k <= 32:
		return "magic"
	case k == 40:
		return "breath"
	case k >= 50 && k <= 55:
		return "status"
	case k >= 60 && k <= 61:
		return "reaction"
	case k >= 70 && k <= 74:
		return "heal"
	case k >= 80 && k <= 81:
		return "buff"
	case k >= 90 && k <= 92:
		return "revive"
	case k >= 100 && k <= 104:
		return "special"
	case k == 110:
		return "appear"
	case k >= 120 && k <= 123:
		return "enemy_skill"
	default:
		return ""
	}
}

// Kinds returns every known code in ascending order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames))
	for k := Kind(0); k < 128; k++ {
		if k.Known() {
			out = append(out, k)
		}
	}
	return out
}
