package replay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/battlelog/internal/replay"
)

// TestKind_CodesAreStable pins persisted codes. Changing any value here
// breaks every stored replay.
func TestKind_CodesAreStable(t *testing.T) {
	pinned := map[replay.Kind]uint16{
		replay.KindDefend:            1,
		replay.KindBreath:            5,
		replay.KindBattleStart:       10,
		replay.KindRetreat:           14,
		replay.KindPhysicalHit:       20,
		replay.KindPhysicalKill:      25,
		replay.KindMagicDamage:       30,
		replay.KindMagicFizzled:      32,
		replay.KindBreathDamage:      40,
		replay.KindStatusInflicted:   50,
		replay.KindStatusExpired:     53,
		replay.KindStatusImmune:      55,
		replay.KindCounterattack:     60,
		replay.KindCover:             61,
		replay.KindHeal:              70,
		replay.KindRecoilDamage:      74,
		replay.KindBuffApplied:       80,
		replay.KindBuffExpired:       81,
		replay.KindRevive:            90,
		replay.KindRescue:            92,
		replay.KindActionLocked:      100,
		replay.KindNoEffect:          104,
		replay.KindEnemyAppear:       110,
		replay.KindEnemySkill:        120,
		replay.KindEnemySelfDestruct: 123,
	}
	for k, code := range pinned {
		assert.Equal(t, code, uint16(k), "code for %s", k)
	}
}

func TestKinds_AllKnownAndBanded(t *testing.T) {
	kinds := replay.Kinds()
	assert.Len(t, kinds, 48)
	seen := map[string]bool{}
	for _, k := range kinds {
		assert.True(t, k.Known())
		assert.NotEmpty(t, k.Band(), "%s must fall in a band", k)
		assert.NotContains(t, k.String(), "unknown")
		assert.False(t, seen[k.String()], "duplicate name %s", k)
		seen[k.String()] = true
	}
}

func TestKind_UnknownFallback(t *testing.T) {
	k := replay.Kind(137)
	assert.False(t, k.Known())
	assert.Equal(t, "unknown(137)", k.String())
	assert.Empty(t, k.Band())
}

func TestKind_BandNames(t *testing.T) {
	require.Equal(t, "selection", replay.KindMageMagic.Band())
	assert.Equal(t, "lifecycle", replay.KindVictory.Band())
	assert.Equal(t, "status", replay.KindStatusTick.Band())
	assert.Equal(t, "special", replay.KindActionLocked.Band())
	assert.Equal(t, "enemy_skill", replay.KindEnemyDrain.Band())
	assert.Equal(t, "physical", replay.Kind(24).Band())
}

func TestOutcome_Valid(t *testing.T) {
	assert.True(t, replay.OutcomeRetreat.Valid())
	assert.False(t, replay.OutcomeUnspecified.Valid())
	assert.Equal(t, "victory", replay.OutcomeVictory.String())
}

func TestActorID_Namespaces(t *testing.T) {
	assert.True(t, replay.ActorID(1).IsParty())
	assert.True(t, replay.ActorID(200).IsParty())
	assert.False(t, replay.ActorID(201).Valid())
	assert.False(t, replay.ActorID(999).Valid())
	assert.True(t, replay.ActorID(1000).IsEnemy())
	assert.False(t, replay.ActorID(0).Valid())
}
