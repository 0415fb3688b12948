package bridge

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/battlelog/internal/game/condition"
	"github.com/cory-johannsen/battlelog/internal/narration"
	"github.com/cory-johannsen/battlelog/internal/replay"
)

// ErrNoLockingEffect is the panic value, wrapped, raised under strict
// invariants when a locked actor carries no action-locking effect.
var ErrNoLockingEffect = errors.New("bridge: locked actor has no locking effect")

// Bridge emits narration entries for one battle.
type Bridge struct {
	defs   StatusDefinitions
	logger *zap.Logger
	strict bool
	replay *replay.Builder
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger used for fallback warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Bridge) { b.logger = logger }
}

// WithStrictInvariants makes an inconsistent status-lock state panic
// instead of falling back to a generic message.
func WithStrictInvariants() Option {
	return func(b *Bridge) { b.strict = true }
}

// WithReplay mirrors status locks and expiries of Replayable actors into rb.
func WithReplay(rb *replay.Builder) Option {
	return func(b *Bridge) { b.replay = rb }
}

// New returns a Bridge resolving status definitions through defs.
//
// Precondition: defs must be non-nil.
func New(defs StatusDefinitions, opts ...Option) *Bridge {
	b := &Bridge{defs: defs, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	return b
}

// InitialHP collects the current HP of every Replayable actor, for
// replay.Begin.
func InitialHP(ctx BattleContext) map[replay.ActorID]uint32 {
	hp := make(map[replay.ActorID]uint32)
	for _, side := range [][]Actor{ctx.Players(), ctx.Enemies()} {
		for _, a := range side {
			r, ok := a.(Replayable)
			if !ok {
				continue
			}
			hp[r.ReplayID()] = uint32(max(a.CurrentHP(), 0))
		}
	}
	return hp
}

// EmitInitialState appends one turn-0 system entry per actor, players
// first, each side in its original order. Entries carry no message; the
// consumer renders them from metadata.
func (b *Bridge) EmitInitialState(ctx BattleContext) {
	for _, side := range []struct {
		role   string
		actors []Actor
	}{
		{narration.RolePlayer, ctx.Players()},
		{narration.RoleEnemy, ctx.Enemies()},
	} {
		for i, a := range side.actors {
			ctx.AppendLog(narration.Entry{
				Turn:     0,
				Type:     narration.TypeSystem,
				ActorID:  a.ID(),
				Metadata: snapshotMetadata(a, side.role, i),
			})
		}
	}
}

func snapshotMetadata(a Actor, role string, order int) map[string]string {
	meta := map[string]string{
		narration.MetaRole:  role,
		narration.MetaOrder: strconv.Itoa(order),
		narration.MetaHP:    strconv.Itoa(a.CurrentHP()),
		narration.MetaMaxHP: strconv.Itoa(a.MaxHP()),
		narration.MetaName:  a.DisplayName(),
	}
	p, ok := a.(Profiled)
	if !ok {
		return meta
	}
	if level, ok := p.Level(); ok {
		meta[narration.MetaLevel] = strconv.Itoa(level)
	}
	if job, ok := p.JobName(); ok {
		meta[narration.MetaJobName] = job
	}
	if id, ok := p.PartyMemberID(); ok {
		meta[narration.MetaPartyMemberID] = id
	}
	return meta
}

// EmitAction appends the announcement of actor's chosen category.
// remainingUses < 0 means the category has no use limit; an empty spellID
// means no spell is involved.
func (b *Bridge) EmitAction(ctx BattleContext, actor Actor, category ActionCategory, remainingUses int, spellID string) {
	meta := map[string]string{narration.MetaCategory: category.LogID()}
	if remainingUses >= 0 {
		meta[narration.MetaRemainingUses] = strconv.Itoa(remainingUses)
	}
	if spellID != "" {
		meta[narration.MetaSpellID] = spellID
	}
	ctx.AppendMessage(category.Message(actor.DisplayName()), category.LogType(), actor.ID(), meta)
}

// EmitDefeat appends the defeat of target.
func (b *Bridge) EmitDefeat(ctx BattleContext, target Actor) {
	ctx.AppendMessage(fmt.Sprintf("%s is defeated.", target.DisplayName()), narration.TypeDefeat, target.ID(), nil)
}

// EmitStatusLock appends why actor cannot act this turn. The first
// action-locking effect, in application order, is reported.
//
// An effect whose definition does not resolve is reported with the generic
// message and keeps its status metadata. A locked actor with no locking
// effect at all indicates broken status bookkeeping: it panics under
// WithStrictInvariants and otherwise gets the generic message without
// status metadata.
func (b *Bridge) EmitStatusLock(ctx BattleContext, actor Actor) {
	for _, eff := range actor.StatusEffects() {
		if !eff.LocksAction {
			continue
		}
		meta := map[string]string{narration.MetaStatusID: eff.ID}
		if eff.RemainingTurns > 0 {
			meta[narration.MetaRemainingTurns] = strconv.Itoa(eff.RemainingTurns)
		}
		msg := cannotAct(actor)
		if def, found := b.defs.Lookup(eff.ID); found {
			msg = fmt.Sprintf("%s cannot act due to %s.", actor.DisplayName(), def.Name)
		} else {
			b.logger.Warn("status definition missing",
				zap.String("actor", actor.ID()),
				zap.String("status", eff.ID),
			)
		}
		ctx.AppendMessage(msg, narration.TypeStatus, actor.ID(), meta)
		b.mirror(ctx, actor, replay.KindActionLocked)
		return
	}

	if b.strict {
		panic(fmt.Errorf("%w: actor %s", ErrNoLockingEffect, actor.ID()))
	}
	b.logger.Warn("locked actor has no locking effect", zap.String("actor", actor.ID()))
	ctx.AppendMessage(cannotAct(actor), narration.TypeStatus, actor.ID(), nil)
	b.mirror(ctx, actor, replay.KindActionLocked)
}

func cannotAct(actor Actor) string {
	return fmt.Sprintf("%s cannot act.", actor.DisplayName())
}

// EmitStatusExpire appends the end of def on actor, using the
// definition's expiry message when it has one.
//
// Precondition: def must be non-nil.
func (b *Bridge) EmitStatusExpire(ctx BattleContext, actor Actor, def *condition.StatusDef) {
	msg := fmt.Sprintf("%s effect ended", def.Name)
	if def.ExpireMessage != "" {
		msg = strings.ReplaceAll(def.ExpireMessage, "{actor}", actor.DisplayName())
	}
	ctx.AppendMessage(msg, narration.TypeStatus, actor.ID(), map[string]string{narration.MetaStatusID: def.ID})
	b.mirror(ctx, actor, replay.KindStatusExpired)
}

// EmitOutcome appends the closing entry of the battle.
func (b *Bridge) EmitOutcome(ctx BattleContext, outcome replay.Outcome) {
	var (
		msg string
		typ narration.Type
	)
	switch outcome {
	case replay.OutcomeVictory:
		msg, typ = "Victory!", narration.TypeVictory
	case replay.OutcomeDefeat:
		msg, typ = "The party has been defeated.", narration.TypeDefeat
	default:
		msg, typ = "The party retreated.", narration.TypeRetreat
	}
	ctx.AppendLog(narration.Entry{
		Turn:     ctx.Turn(),
		Message:  msg,
		Type:     typ,
		Metadata: map[string]string{narration.MetaOutcome: outcome.String()},
	})
}

func (b *Bridge) mirror(ctx BattleContext, actor Actor, kind replay.Kind) {
	if b.replay == nil {
		return
	}
	r, ok := actor.(Replayable)
	if !ok {
		return
	}
	if err := b.replay.Record(replay.Action(uint8(ctx.Turn()), kind, r.ReplayID())); err != nil {
		b.logger.Warn("replay mirror dropped",
			zap.String("actor", actor.ID()),
			zap.Stringer("kind", kind),
			zap.Error(err),
		)
	}
}
