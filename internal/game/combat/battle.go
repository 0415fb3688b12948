package combat

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battlelog/internal/bridge"
	"github.com/cory-johannsen/battlelog/internal/game/dice"
	"github.com/cory-johannsen/battlelog/internal/narration"
	"github.com/cory-johannsen/battlelog/internal/observability"
	"github.com/cory-johannsen/battlelog/internal/replay"
	"github.com/cory-johannsen/battlelog/internal/roster"
)

// ErrInvalidBattle is returned by New when the participants cannot form a battle.
var ErrInvalidBattle = errors.New("combat: invalid battle")

// Result is the record of one finished battle.
type Result struct {
	ID        uuid.UUID
	Outcome   replay.Outcome
	Replay    replay.Log
	Narration []narration.Entry
	Roster    []roster.Snapshot
}

// Battle runs one encounter between a party and a group of enemies.
// It implements bridge.BattleContext. A Battle is not safe for concurrent use.
type Battle struct {
	id       uuid.UUID
	party    []*Combatant
	foes     []*Combatant
	defs     bridge.StatusDefinitions
	rng      dice.RandomSource
	logger   *zap.Logger
	strict   bool
	maxTurns int

	turn      int
	narration *narration.Log
	replay    *replay.Builder
	bridge    *bridge.Bridge
	roster    []roster.Snapshot
}

// Option configures a Battle.
type Option func(*Battle)

// WithLogger sets the logger for the battle and its bridge.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Battle) { b.logger = logger }
}

// WithMaxTurns bounds the battle; the party retreats once it is reached.
// Values outside 1..replay.MaxTurn are clamped.
func WithMaxTurns(n int) Option {
	return func(b *Battle) { b.maxTurns = min(max(n, 1), replay.MaxTurn) }
}

// WithStrictInvariants panics on inconsistent status bookkeeping.
func WithStrictInvariants(strict bool) Option {
	return func(b *Battle) { b.strict = strict }
}

// WithID sets the battle id; a random id is used otherwise.
func WithID(id uuid.UUID) Option {
	return func(b *Battle) { b.id = id }
}

// New validates the participants and returns a Battle ready to Run.
//
// Precondition: defs and rng must be non-nil.
func New(party, foes []*Combatant, defs bridge.StatusDefinitions, rng dice.RandomSource, opts ...Option) (*Battle, error) {
	if err := validate(party, foes); err != nil {
		return nil, err
	}
	b := &Battle{
		id:        uuid.New(),
		party:     party,
		foes:      foes,
		defs:      defs,
		rng:       rng,
		logger:    zap.NewNop(),
		maxTurns:  replay.MaxTurn,
		narration: narration.NewLog(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = observability.WithBattle(b.logger, b.id)
	return b, nil
}

func validate(party, foes []*Combatant) error {
	if len(party) == 0 || len(foes) == 0 {
		return fmt.Errorf("%w: both sides need at least one combatant", ErrInvalidBattle)
	}
	ids := make(map[string]bool)
	replayIDs := make(map[replay.ActorID]bool)
	characters := make(map[int64]bool)
	for _, side := range []struct {
		kind Kind
		cs   []*Combatant
	}{{KindPlayer, party}, {KindEnemy, foes}} {
		for _, c := range side.cs {
			switch {
			case c == nil:
				return fmt.Errorf("%w: nil combatant", ErrInvalidBattle)
			case c.Kind != side.kind:
				return fmt.Errorf("%w: %s is on the wrong side", ErrInvalidBattle, c.ID)
			case c.ID == "" || ids[c.ID]:
				return fmt.Errorf("%w: missing or duplicate id %q", ErrInvalidBattle, c.ID)
			case replayIDs[c.ReplayID]:
				return fmt.Errorf("%w: duplicate replay id %d", ErrInvalidBattle, c.ReplayID)
			case c.IsPlayer() && !c.ReplayID.IsParty(), !c.IsPlayer() && !c.ReplayID.IsEnemy():
				return fmt.Errorf("%w: replay id %d out of range for %s", ErrInvalidBattle, c.ReplayID, c.ID)
			case c.MaxHP <= 0 || c.CurrentHP < 0 || c.CurrentHP > c.MaxHP:
				return fmt.Errorf("%w: %s has invalid hp %d/%d", ErrInvalidBattle, c.ID, c.CurrentHP, c.MaxHP)
			case c.IsPlayer() && (c.CharacterID <= 0 || characters[c.CharacterID]):
				return fmt.Errorf("%w: %s has missing or duplicate character id %d", ErrInvalidBattle, c.ID, c.CharacterID)
			case c.IsPlayer() && c.Name == "":
				return fmt.Errorf("%w: %s has no name", ErrInvalidBattle, c.ID)
			}
			ids[c.ID] = true
			replayIDs[c.ReplayID] = true
			if c.IsPlayer() {
				characters[c.CharacterID] = true
			}
		}
	}
	return nil
}

// ID returns the battle id.
func (b *Battle) ID() uuid.UUID { return b.id }

// Turn implements bridge.BattleContext.
func (b *Battle) Turn() int { return b.turn }

// Players implements bridge.BattleContext.
func (b *Battle) Players() []bridge.Actor { return actors(b.party) }

// Enemies implements bridge.BattleContext.
func (b *Battle) Enemies() []bridge.Actor { return actors(b.foes) }

// Narration returns the live narration log.
func (b *Battle) Narration() *narration.Log { return b.narration }

// AppendLog implements bridge.BattleContext.
func (b *Battle) AppendLog(e narration.Entry) { b.narration.Append(e) }

// AppendMessage implements bridge.BattleContext.
func (b *Battle) AppendMessage(message string, typ narration.Type, actorID string, metadata map[string]string) {
	b.narration.Add(b.turn, message, typ, actorID, metadata)
}

// Run plays turns until one side is wiped out or the turn limit is reached.
// It returns ctx.Err() if ctx is cancelled between turns.
//
// Postcondition: on success the replay log is sealed with the outcome and
// the narration ends with the outcome entry.
func (b *Battle) Run(ctx context.Context) (Result, error) {
	b.start()

	outcome := replay.OutcomeRetreat
	for b.turn = 1; b.turn <= b.maxTurns; b.turn++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if o, over := b.playTurn(); over {
			outcome = o
			break
		}
	}
	b.turn = min(b.turn, b.maxTurns)

	b.bridge.EmitOutcome(b, outcome)
	log, err := b.replay.Finish(outcome)
	if err != nil {
		return Result{}, fmt.Errorf("finishing replay: %w", err)
	}
	b.logger.Info("battle finished",
		zap.Stringer("outcome", outcome),
		zap.Int("turns", log.Turns()),
		zap.Int("actions", log.Len()),
		zap.Int("narration", b.narration.Len()),
	)
	return Result{
		ID:        b.id,
		Outcome:   outcome,
		Replay:    log,
		Narration: b.narration.Entries(),
		Roster:    b.roster,
	}, nil
}

func (b *Battle) start() {
	members := make([]actor, len(b.party))
	for i, c := range b.party {
		members[i] = actor{c}
	}
	b.roster = roster.Capture(members)
	b.replay = replay.Begin(bridge.InitialHP(b))

	opts := []bridge.Option{bridge.WithLogger(b.logger), bridge.WithReplay(b.replay)}
	if b.strict {
		opts = append(opts, bridge.WithStrictInvariants())
	}
	b.bridge = bridge.New(b.defs, opts...)
	b.bridge.EmitInitialState(b)
	b.logger.Info("battle started",
		zap.Int("party", len(b.party)),
		zap.Int("enemies", len(b.foes)),
		zap.Int("max_turns", b.maxTurns),
	)
}

// playTurn resolves every living combatant in order, players first, and
// then advances status durations. It reports whether the battle ended.
func (b *Battle) playTurn() (replay.Outcome, bool) {
	for _, c := range append(append([]*Combatant{}, b.party...), b.foes...) {
		if c.IsDead() {
			continue
		}
		b.act(c)
		if o, over := b.outcome(); over {
			return o, true
		}
	}
	for _, c := range append(append([]*Combatant{}, b.party...), b.foes...) {
		if c.IsDead() {
			continue
		}
		for _, def := range c.statuses().Tick() {
			b.bridge.EmitStatusExpire(b, actor{c}, def)
		}
	}
	return replay.OutcomeUnspecified, false
}

func (b *Battle) outcome() (replay.Outcome, bool) {
	switch {
	case allDead(b.foes):
		return replay.OutcomeVictory, true
	case allDead(b.party):
		return replay.OutcomeDefeat, true
	}
	return replay.OutcomeUnspecified, false
}

func allDead(cs []*Combatant) bool {
	for _, c := range cs {
		if !c.IsDead() {
			return false
		}
	}
	return true
}

func (b *Battle) opponents(c *Combatant) []*Combatant {
	if c.IsPlayer() {
		return b.foes
	}
	return b.party
}

func (b *Battle) allies(c *Combatant) []*Combatant {
	if c.IsPlayer() {
		return b.party
	}
	return b.foes
}

func (b *Battle) record(e replay.ActionEntry) {
	if err := b.replay.Record(e); err != nil {
		b.logger.Warn("replay entry dropped", zap.Stringer("kind", e.Kind), zap.Error(err))
	}
}
