package combat

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/cory-johannsen/battlelog/internal/game/chance"
	"github.com/cory-johannsen/battlelog/internal/narration"
	"github.com/cory-johannsen/battlelog/internal/replay"
)

// critMultiplier scales raw attack damage on a critical hit, which also
// ignores defense.
const critMultiplier = 1.5

// act resolves c's turn: a status lock, or the announcement and effect of
// its action.
func (b *Battle) act(c *Combatant) {
	c.defending = false
	if c.statuses().Locked() {
		b.bridge.EmitStatusLock(b, actor{c})
		return
	}

	cat := c.Action
	if cat.usesCharges() && c.Uses <= 0 {
		cat = CategoryAttack
	}
	remaining, spell := -1, ""
	if cat.usesCharges() {
		c.Uses--
		remaining = c.Uses
	}
	if cat == CategoryPriestMagic || cat == CategoryMageMagic {
		spell = c.SpellID
	}
	b.bridge.EmitAction(b, actor{c}, cat, remaining, spell)
	b.record(replay.Action(b.replayTurn(), cat.Kind(), c.ReplayID))

	switch cat {
	case CategoryDefend:
		c.defending = true
	case CategoryPriestMagic:
		b.heal(c)
	case CategoryMageMagic:
		if t := firstLiving(b.opponents(c)); t != nil {
			b.spell(c, t)
		}
	case CategoryBreath:
		b.breath(c)
	default:
		if t := firstLiving(b.opponents(c)); t != nil {
			b.attack(c, t)
		}
	}
}

func (b *Battle) replayTurn() uint8 { return uint8(b.turn) }

func firstLiving(cs []*Combatant) *Combatant {
	for _, c := range cs {
		if !c.IsDead() {
			return c
		}
	}
	return nil
}

// weakest returns the living combatant with the lowest HP ratio, the
// earliest on ties.
func weakest(cs []*Combatant) *Combatant {
	var best *Combatant
	for _, c := range cs {
		if c.IsDead() {
			continue
		}
		if best == nil || c.CurrentHP*best.MaxHP < best.CurrentHP*c.MaxHP {
			best = c
		}
	}
	return best
}

// attack resolves a physical attack: hit, dodge, critical and damage, in
// that draw order.
func (b *Battle) attack(c, t *Combatant) {
	turn := b.replayTurn()
	if !chance.PercentChance(c.Accuracy, b.rng) {
		b.record(replay.Action(turn, replay.KindPhysicalMiss, c.ReplayID).WithTarget(t.ReplayID))
		b.AppendMessage(fmt.Sprintf("%s misses %s.", c.Name, t.Name), narration.TypeMiss, c.ID, nil)
		return
	}
	evade := int(float64(t.Evasion) * chance.SpeedMultiplier(t.Luck, b.rng))
	if chance.PercentChance(evade, b.rng) {
		b.record(replay.Action(turn, replay.KindPhysicalDodged, c.ReplayID).WithTarget(t.ReplayID))
		b.AppendMessage(fmt.Sprintf("%s dodges the attack.", t.Name), narration.TypeMiss, t.ID, nil)
		return
	}

	crit := chance.Probability(c.CritRate, b.rng)
	raw := float64(c.Attack) * chance.StatMultiplier(c.Luck, b.rng)
	kind := replay.KindPhysicalHit
	dmg := int(raw) - t.Defense
	if crit {
		kind = replay.KindPhysicalCritical
		dmg = int(raw * critMultiplier)
	}
	dmg = max(dmg, 1)
	if t.defending {
		kind = replay.KindPhysicalGuarded
		dmg = max(dmg/2, 1)
	}

	dealt := t.ApplyDamage(dmg)
	b.record(replay.Action(turn, kind, c.ReplayID).WithTarget(t.ReplayID).WithValue(uint32(dealt)))
	msg := fmt.Sprintf("%s takes %d damage.", t.Name, dealt)
	if crit {
		msg = fmt.Sprintf("Critical hit! %s", msg)
	}
	b.damage(c, t, dealt, msg)

	if t.IsDead() {
		b.record(replay.Action(turn, replay.KindPhysicalKill, c.ReplayID).WithTarget(t.ReplayID))
		b.bridge.EmitDefeat(b, actor{t})
		return
	}
	b.inflict(c, t)
}

// inflict rolls c's status rider against t after a connecting attack.
func (b *Battle) inflict(c, t *Combatant) {
	if c.Inflicts == "" || c.InflictChance <= 0 {
		return
	}
	def, ok := b.defs.Lookup(c.Inflicts)
	if !ok {
		b.logger.Warn("inflicted status not defined", zap.String("actor", c.ID), zap.String("status", c.Inflicts))
		return
	}
	turn := b.replayTurn()
	meta := map[string]string{narration.MetaStatusID: def.ID}
	if !chance.PercentChance(c.InflictChance, b.rng) {
		b.record(replay.Action(turn, replay.KindStatusResisted, c.ReplayID).WithTarget(t.ReplayID))
		b.AppendMessage(fmt.Sprintf("%s resists %s.", t.Name, def.Name), narration.TypeStatus, t.ID, meta)
		return
	}
	if err := t.statuses().Apply(def, def.DefaultDuration); err != nil {
		b.logger.Warn("applying status", zap.String("target", t.ID), zap.Error(err))
		return
	}
	b.record(replay.Action(turn, replay.KindStatusInflicted, c.ReplayID).
		WithTarget(t.ReplayID).
		WithExtra(int32(def.DefaultDuration)))
	b.AppendMessage(fmt.Sprintf("%s is afflicted by %s.", t.Name, def.Name), narration.TypeStatus, t.ID, meta)
}

func (b *Battle) spell(c, t *Combatant) {
	dmg := max(int(float64(c.Attack)*chance.StatMultiplier(c.Luck, b.rng)), 1)
	dealt := t.ApplyDamage(dmg)
	b.record(replay.Action(b.replayTurn(), replay.KindMagicDamage, c.ReplayID).
		WithTarget(t.ReplayID).
		WithValue(uint32(dealt)))
	b.damage(c, t, dealt, fmt.Sprintf("%s takes %d magic damage.", t.Name, dealt))
	if t.IsDead() {
		b.bridge.EmitDefeat(b, actor{t})
	}
}

// breath hits every living opponent; defense counts for half.
func (b *Battle) breath(c *Combatant) {
	for _, t := range b.opponents(c) {
		if t.IsDead() {
			continue
		}
		raw := float64(c.Attack) * chance.StatMultiplier(c.Luck, b.rng)
		dealt := t.ApplyDamage(max(int(raw)-t.Defense/2, 1))
		b.record(replay.Action(b.replayTurn(), replay.KindBreathDamage, c.ReplayID).
			WithTarget(t.ReplayID).
			WithValue(uint32(dealt)))
		b.damage(c, t, dealt, fmt.Sprintf("%s is engulfed for %d damage.", t.Name, dealt))
		if t.IsDead() {
			b.bridge.EmitDefeat(b, actor{t})
		}
	}
}

func (b *Battle) heal(c *Combatant) {
	t := weakest(b.allies(c))
	amount := max(int(float64(c.Attack)*chance.StatMultiplier(c.Luck, b.rng)), 1)
	healed := t.Heal(amount)
	b.record(replay.Action(b.replayTurn(), replay.KindHeal, c.ReplayID).
		WithTarget(t.ReplayID).
		WithValue(uint32(healed)))
	b.AppendLog(narration.Entry{
		Turn:     b.turn,
		Message:  fmt.Sprintf("%s recovers %d HP.", t.Name, healed),
		Type:     narration.TypeHeal,
		ActorID:  c.ID,
		TargetID: t.ID,
		Metadata: map[string]string{
			narration.MetaAmount:   strconv.Itoa(healed),
			narration.MetaTargetHP: strconv.Itoa(t.CurrentHP),
		},
	})
}

func (b *Battle) damage(c, t *Combatant, dealt int, msg string) {
	b.AppendLog(narration.Entry{
		Turn:     b.turn,
		Message:  msg,
		Type:     narration.TypeDamage,
		ActorID:  c.ID,
		TargetID: t.ID,
		Metadata: map[string]string{
			narration.MetaAmount:   strconv.Itoa(dealt),
			narration.MetaTargetHP: strconv.Itoa(t.CurrentHP),
		},
	})
}
