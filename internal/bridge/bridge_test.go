package bridge_test

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/battlelog/internal/bridge"
	"github.com/cory-johannsen/battlelog/internal/game/condition"
	"github.com/cory-johannsen/battlelog/internal/narration"
	"github.com/cory-johannsen/battlelog/internal/replay"
)

type fakeActor struct {
	id      string
	name    string
	hp, max int
	effects []condition.Effect
}

func (a *fakeActor) ID() string                        { return a.id }
func (a *fakeActor) DisplayName() string               { return a.name }
func (a *fakeActor) CurrentHP() int                    { return a.hp }
func (a *fakeActor) MaxHP() int                        { return a.max }
func (a *fakeActor) StatusEffects() []condition.Effect { return a.effects }

// profiledActor adds optional details and a replay id.
type profiledActor struct {
	fakeActor
	level    int
	job      string
	memberID string
	replayID replay.ActorID
}

func (a *profiledActor) Level() (int, bool)            { return a.level, a.level > 0 }
func (a *profiledActor) JobName() (string, bool)       { return a.job, a.job != "" }
func (a *profiledActor) PartyMemberID() (string, bool) { return a.memberID, a.memberID != "" }
func (a *profiledActor) ReplayID() replay.ActorID      { return a.replayID }

type fakeBattle struct {
	turn    int
	players []bridge.Actor
	enemies []bridge.Actor
	log     *narration.Log
}

func newBattle(players, enemies []bridge.Actor) *fakeBattle {
	return &fakeBattle{players: players, enemies: enemies, log: narration.NewLog()}
}

func (b *fakeBattle) Turn() int                   { return b.turn }
func (b *fakeBattle) Players() []bridge.Actor     { return b.players }
func (b *fakeBattle) Enemies() []bridge.Actor     { return b.enemies }
func (b *fakeBattle) AppendLog(e narration.Entry) { b.log.Append(e) }

func (b *fakeBattle) AppendMessage(message string, typ narration.Type, actorID string, metadata map[string]string) {
	b.log.Add(b.turn, message, typ, actorID, metadata)
}

type category struct{}

func (category) LogID() string                   { return "mage_magic" }
func (category) Message(actorName string) string { return actorName + " casts a spell." }
func (category) LogType() narration.Type         { return narration.TypeAction }

func statuses() *condition.Registry {
	reg := condition.NewRegistry()
	reg.Register(&condition.StatusDef{ID: "sleep", Name: "Sleep", LocksAction: true, DurationType: condition.DurationTurns, DefaultDuration: 2})
	reg.Register(&condition.StatusDef{ID: "poison", Name: "Poison", DurationType: condition.DurationTurns, DefaultDuration: 3})
	return reg
}

func actors(prefix string, n int) []bridge.Actor {
	out := make([]bridge.Actor, n)
	for i := range out {
		out[i] = &fakeActor{id: fmt.Sprintf("%s%d", prefix, i), name: fmt.Sprintf("%s-%d", prefix, i), hp: 10 + i, max: 20}
	}
	return out
}

func TestEmitInitialState_FourPlayersThreeEnemies(t *testing.T) {
	battle := newBattle(actors("p", 4), actors("e", 3))
	bridge.New(statuses()).EmitInitialState(battle)

	entries := battle.log.Entries()
	require.Len(t, entries, 7)
	for i, e := range entries {
		role, order := narration.RolePlayer, i
		if i >= 4 {
			role, order = narration.RoleEnemy, i-4
		}
		assert.Equal(t, 0, e.Turn)
		assert.Equal(t, narration.TypeSystem, e.Type)
		assert.Empty(t, e.Message)
		assert.Equal(t, role, e.Metadata[narration.MetaRole])
		assert.Equal(t, strconv.Itoa(order), e.Metadata[narration.MetaOrder])
	}
	assert.Equal(t, "p2", entries[2].ActorID)
	assert.Equal(t, "12", entries[2].Metadata[narration.MetaHP])
	assert.Equal(t, "20", entries[2].Metadata[narration.MetaMaxHP])
	assert.Equal(t, "e-1", entries[5].Metadata[narration.MetaName])
}

func TestEmitInitialState_CountProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		np := rapid.IntRange(0, 6).Draw(rt, "players")
		ne := rapid.IntRange(0, 6).Draw(rt, "enemies")
		battle := newBattle(actors("p", np), actors("e", ne))
		bridge.New(statuses()).EmitInitialState(battle)
		assert.Equal(rt, np+ne, battle.log.Len())
	})
}

func TestEmitInitialState_OptionalDetails(t *testing.T) {
	hero := &profiledActor{fakeActor: fakeActor{id: "p0", name: "Aya", hp: 30, max: 30}, level: 5, job: "Fighter", memberID: "m-11"}
	plain := &profiledActor{fakeActor: fakeActor{id: "p1", name: "Ben", hp: 9, max: 12}}
	battle := newBattle([]bridge.Actor{hero, plain}, nil)
	bridge.New(statuses()).EmitInitialState(battle)

	entries := battle.log.Entries()
	assert.Equal(t, "5", entries[0].Metadata[narration.MetaLevel])
	assert.Equal(t, "Fighter", entries[0].Metadata[narration.MetaJobName])
	assert.Equal(t, "m-11", entries[0].Metadata[narration.MetaPartyMemberID])
	for _, key := range []string{narration.MetaLevel, narration.MetaJobName, narration.MetaPartyMemberID} {
		assert.NotContains(t, entries[1].Metadata, key)
	}
}

func TestEmitAction_Metadata(t *testing.T) {
	actor := &fakeActor{id: "p0", name: "Mira"}
	battle := newBattle([]bridge.Actor{actor}, nil)
	battle.turn = 3
	b := bridge.New(statuses())

	b.EmitAction(battle, actor, category{}, 2, "fire_1")
	b.EmitAction(battle, actor, category{}, -1, "")

	entries := battle.log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, narration.Entry{
		Turn:    3,
		Message: "Mira casts a spell.",
		Type:    narration.TypeAction,
		ActorID: "p0",
		Metadata: map[string]string{
			narration.MetaCategory:      "mage_magic",
			narration.MetaRemainingUses: "2",
			narration.MetaSpellID:       "fire_1",
		},
	}, entries[0])
	assert.Equal(t, map[string]string{narration.MetaCategory: "mage_magic"}, entries[1].Metadata)
}

func TestEmitDefeat(t *testing.T) {
	target := &fakeActor{id: "e0", name: "Slime"}
	battle := newBattle(nil, []bridge.Actor{target})
	battle.turn = 2
	bridge.New(statuses()).EmitDefeat(battle, target)
	assert.Equal(t, []narration.Entry{{Turn: 2, Message: "Slime is defeated.", Type: narration.TypeDefeat, ActorID: "e0"}}, battle.log.Entries())
}

func TestEmitStatusLock_SingleLockingEffect(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		remaining := rapid.IntRange(-1, 5).Draw(rt, "remaining")
		actor := &fakeActor{id: "p0", name: "Aya", effects: []condition.Effect{
			{ID: "poison", RemainingTurns: 2},
			{ID: "sleep", RemainingTurns: remaining, LocksAction: true},
		}}
		battle := newBattle([]bridge.Actor{actor}, nil)
		bridge.New(statuses()).EmitStatusLock(battle, actor)

		entries := battle.log.Entries()
		require.Len(rt, entries, 1)
		assert.Equal(rt, narration.TypeStatus, entries[0].Type)
		assert.Equal(rt, "sleep", entries[0].Metadata[narration.MetaStatusID])
		assert.Equal(rt, "Aya cannot act due to Sleep.", entries[0].Message)
		turns, ok := entries[0].Metadata[narration.MetaRemainingTurns]
		assert.Equal(rt, remaining > 0, ok)
		if ok {
			assert.Equal(rt, strconv.Itoa(remaining), turns)
		}
	})
}

func TestEmitStatusLock_FirstLockingEffectWins(t *testing.T) {
	actor := &fakeActor{id: "p0", name: "Aya", effects: []condition.Effect{
		{ID: "sleep", RemainingTurns: 1, LocksAction: true},
		{ID: "stone", RemainingTurns: -1, LocksAction: true},
	}}
	battle := newBattle([]bridge.Actor{actor}, nil)
	bridge.New(statuses()).EmitStatusLock(battle, actor)
	assert.Equal(t, "sleep", battle.log.Entries()[0].Metadata[narration.MetaStatusID])
}

func TestEmitStatusLock_MissingDefinitionFallsBack(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	actor := &fakeActor{id: "p0", name: "Aya", effects: []condition.Effect{
		{ID: "doom", RemainingTurns: 3, LocksAction: true},
	}}
	battle := newBattle([]bridge.Actor{actor}, nil)
	bridge.New(statuses(), bridge.WithLogger(zap.New(core))).EmitStatusLock(battle, actor)

	entries := battle.log.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Aya cannot act.", entries[0].Message)
	assert.Equal(t, map[string]string{narration.MetaStatusID: "doom", narration.MetaRemainingTurns: "3"}, entries[0].Metadata)
	assert.Equal(t, 1, logs.FilterMessage("status definition missing").Len())
}

func TestEmitStatusLock_NoLockingEffect(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	actor := &fakeActor{id: "p0", name: "Aya", effects: []condition.Effect{{ID: "poison", RemainingTurns: 2}}}
	battle := newBattle([]bridge.Actor{actor}, nil)
	bridge.New(statuses(), bridge.WithLogger(zap.New(core))).EmitStatusLock(battle, actor)

	entries := battle.log.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Aya cannot act.", entries[0].Message)
	assert.Empty(t, entries[0].Metadata)
	assert.Equal(t, 1, logs.FilterMessage("locked actor has no locking effect").Len())
}

func TestEmitStatusLock_StrictPanics(t *testing.T) {
	actor := &fakeActor{id: "p0", name: "Aya"}
	battle := newBattle([]bridge.Actor{actor}, nil)
	b := bridge.New(statuses(), bridge.WithStrictInvariants())

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, bridge.ErrNoLockingEffect))
		assert.Zero(t, battle.log.Len())
	}()
	b.EmitStatusLock(battle, actor)
}

func TestEmitStatusExpire(t *testing.T) {
	actor := &fakeActor{id: "p0", name: "Aya"}
	battle := newBattle([]bridge.Actor{actor}, nil)
	battle.turn = 4
	b := bridge.New(statuses())

	b.EmitStatusExpire(battle, actor, &condition.StatusDef{ID: "sleep", Name: "Sleep", ExpireMessage: "{actor} wakes up."})
	b.EmitStatusExpire(battle, actor, &condition.StatusDef{ID: "poison", Name: "Poison"})

	entries := battle.log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Aya wakes up.", entries[0].Message)
	assert.Equal(t, "Poison effect ended", entries[1].Message)
	assert.Equal(t, map[string]string{narration.MetaStatusID: "poison"}, entries[1].Metadata)
	assert.Equal(t, 4, entries[1].Turn)
}

func TestEmitOutcome(t *testing.T) {
	battle := newBattle(nil, nil)
	battle.turn = 6
	b := bridge.New(statuses())
	b.EmitOutcome(battle, replay.OutcomeVictory)
	b.EmitOutcome(battle, replay.OutcomeDefeat)
	b.EmitOutcome(battle, replay.OutcomeRetreat)

	entries := battle.log.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, narration.TypeVictory, entries[0].Type)
	assert.Equal(t, narration.TypeDefeat, entries[1].Type)
	assert.Equal(t, narration.TypeRetreat, entries[2].Type)
	assert.Equal(t, "retreat", entries[2].Metadata[narration.MetaOutcome])
}

func TestWithReplay_MirrorsLockAndExpire(t *testing.T) {
	actor := &profiledActor{fakeActor: fakeActor{id: "p0", name: "Aya", hp: 18, max: 20, effects: []condition.Effect{
		{ID: "sleep", RemainingTurns: 1, LocksAction: true},
	}}, replayID: 1}
	enemy := &profiledActor{fakeActor: fakeActor{id: "e0", name: "Imp", hp: 7, max: 7}, replayID: 1000}
	plain := &fakeActor{id: "e1", name: "Ghost", hp: 3, max: 3}
	battle := newBattle([]bridge.Actor{actor}, []bridge.Actor{enemy, plain})
	battle.turn = 2

	rb := replay.Begin(bridge.InitialHP(battle))
	b := bridge.New(statuses(), bridge.WithReplay(rb))
	b.EmitStatusLock(battle, actor)
	b.EmitStatusExpire(battle, actor, &condition.StatusDef{ID: "sleep", Name: "Sleep"})
	b.EmitStatusExpire(battle, plain, &condition.StatusDef{ID: "sleep", Name: "Sleep"})

	log, err := rb.Finish(replay.OutcomeVictory)
	require.NoError(t, err)
	assert.Equal(t, map[replay.ActorID]uint32{1: 18, 1000: 7}, log.InitialHP())
	assert.Equal(t, []replay.ActionEntry{
		replay.Action(2, replay.KindActionLocked, 1),
		replay.Action(2, replay.KindStatusExpired, 1),
	}, log.Actions())
	assert.Equal(t, 2, log.Turns())
}

func TestWithReplay_SealedBuilderDoesNotPanic(t *testing.T) {
	actor := &profiledActor{fakeActor: fakeActor{id: "p0", name: "Aya"}, replayID: 1}
	battle := newBattle([]bridge.Actor{actor}, nil)
	rb := replay.Begin(nil)
	_, err := rb.Finish(replay.OutcomeRetreat)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.WarnLevel)
	b := bridge.New(statuses(), bridge.WithReplay(rb), bridge.WithLogger(zap.New(core)))
	assert.NotPanics(t, func() {
		b.EmitStatusExpire(battle, actor, &condition.StatusDef{ID: "sleep", Name: "Sleep"})
	})
	assert.Equal(t, 1, logs.FilterMessage("replay mirror dropped").Len())
	assert.Equal(t, 1, battle.log.Len())
}
