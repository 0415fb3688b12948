package replay

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"google.golang.org/protobuf/encoding/protowire"
)

// FormatVersion is written into every encoded Log. Decoders accept any
// version; the field exists for diagnostics.
const FormatVersion = 1

var (
	// ErrMalformed means the bytes are not a well-formed encoded Log.
	ErrMalformed = errors.New("replay: malformed encoding")
	// ErrIntegrity means the bytes decode but describe an impossible Log.
	ErrIntegrity = errors.New("replay: integrity violation")
)

// DecodeError describes why Unmarshal rejected its input.
type DecodeError struct {
	// Field names the offending field, e.g. "actions[3].actor".
	Field  string
	Reason string
	// Err is ErrMalformed or ErrIntegrity.
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("replay: decoding %s: %s", e.Field, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func malformed(field, format string, args ...any) error {
	return &DecodeError{Field: field, Reason: fmt.Sprintf(format, args...), Err: ErrMalformed}
}

func integrity(field, format string, args ...any) error {
	return &DecodeError{Field: field, Reason: fmt.Sprintf(format, args...), Err: ErrIntegrity}
}

// Field numbers. They are part of the persisted format and never change.
const (
	logInitialHP protowire.Number = 1
	logAction    protowire.Number = 2
	logOutcome   protowire.Number = 3
	logTurns     protowire.Number = 4
	logVersion   protowire.Number = 15

	hpActor protowire.Number = 1
	hpValue protowire.Number = 2

	entryTurn   protowire.Number = 1
	entryKind   protowire.Number = 2
	entryActor  protowire.Number = 3
	entryTarget protowire.Number = 4
	entryValue  protowire.Number = 5
	entrySkill  protowire.Number = 6
	entryExtra  protowire.Number = 7
)

// Marshal encodes l. Equal logs encode to equal bytes.
func Marshal(l Log) []byte {
	var b []byte
	b = appendVarint(b, logVersion, FormatVersion)

	ids := make([]ActorID, 0, len(l.initialHP))
	for id := range l.initialHP {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		var hp []byte
		hp = appendVarint(hp, hpActor, uint64(id))
		hp = appendVarint(hp, hpValue, uint64(l.initialHP[id]))
		b = protowire.AppendTag(b, logInitialHP, protowire.BytesType)
		b = protowire.AppendBytes(b, hp)
	}

	for _, a := range l.actions {
		b = protowire.AppendTag(b, logAction, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalEntry(a))
	}

	b = appendVarint(b, logOutcome, uint64(l.outcome))
	b = appendVarint(b, logTurns, uint64(l.turns))
	return b
}

func marshalEntry(e ActionEntry) []byte {
	var b []byte
	b = appendVarint(b, entryTurn, uint64(e.Turn))
	b = appendVarint(b, entryKind, uint64(e.Kind))
	b = appendVarint(b, entryActor, uint64(e.Actor))
	if e.Target != nil {
		b = appendVarint(b, entryTarget, uint64(*e.Target))
	}
	if e.Value != nil {
		b = appendVarint(b, entryValue, uint64(*e.Value))
	}
	if e.SkillIndex != nil {
		b = appendVarint(b, entrySkill, uint64(*e.SkillIndex))
	}
	if e.Extra != nil {
		b = appendVarint(b, entryExtra, protowire.EncodeZigZag(int64(*e.Extra)))
	}
	return b
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// Unmarshal decodes and validates an encoded Log.
//
// Kinds unknown to this build decode as the raw code (Kind.Known() reports
// false) and never fail the decode. Unknown fields are skipped. A log whose
// turn count disagrees with its actions, whose ids fall outside the party
// and enemy namespaces, or whose turns lie outside 1..MaxTurn is rejected
// with an ErrIntegrity DecodeError; it is never repaired.
func Unmarshal(b []byte) (Log, error) {
	initialHP := make(map[ActorID]uint32)
	var (
		actions []ActionEntry
		outcome uint64
		turns   uint64
	)
	err := walk(b, "log", func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case logInitialHP:
			raw, n, err := consumeBytes(v, typ, "initial_hp")
			if err != nil {
				return 0, err
			}
			id, hp, err := unmarshalHP(raw)
			if err != nil {
				return 0, err
			}
			if _, dup := initialHP[id]; dup {
				return 0, integrity("initial_hp", "duplicate actor %d", id)
			}
			initialHP[id] = hp
			return n, nil
		case logAction:
			field := fmt.Sprintf("actions[%d]", len(actions))
			raw, n, err := consumeBytes(v, typ, field)
			if err != nil {
				return 0, err
			}
			e, err := unmarshalEntry(raw, field)
			if err != nil {
				return 0, err
			}
			actions = append(actions, e)
			return n, nil
		case logOutcome:
			return consumeUint(v, typ, "outcome", math.MaxUint8, &outcome)
		case logTurns:
			return consumeUint(v, typ, "turns", math.MaxUint8, &turns)
		}
		return skip(num, typ, v, "log")
	})
	if err != nil {
		return Log{}, err
	}

	l := newLog(initialHP, actions, Outcome(outcome))
	if err := validate(l, uint8(turns)); err != nil {
		return Log{}, err
	}
	return l, nil
}

func unmarshalHP(b []byte) (ActorID, uint32, error) {
	var id, hp uint64
	err := walk(b, "initial_hp", func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case hpActor:
			return consumeUint(v, typ, "initial_hp.actor", math.MaxUint16, &id)
		case hpValue:
			return consumeUint(v, typ, "initial_hp.hp", math.MaxUint32, &hp)
		}
		return skip(num, typ, v, "initial_hp")
	})
	return ActorID(id), uint32(hp), err
}

func unmarshalEntry(b []byte, field string) (ActionEntry, error) {
	var e ActionEntry
	var turn, kind, actor, target, value, skill, extra uint64
	err := walk(b, field, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case entryTurn:
			return consumeUint(v, typ, field+".turn", math.MaxUint8, &turn)
		case entryKind:
			return consumeUint(v, typ, field+".kind", math.MaxUint16, &kind)
		case entryActor:
			return consumeUint(v, typ, field+".actor", math.MaxUint16, &actor)
		case entryTarget:
			n, err := consumeUint(v, typ, field+".target", math.MaxUint16, &target)
			if err == nil {
				e = e.WithTarget(ActorID(target))
			}
			return n, err
		case entryValue:
			n, err := consumeUint(v, typ, field+".value", math.MaxUint32, &value)
			if err == nil {
				e = e.WithValue(uint32(value))
			}
			return n, err
		case entrySkill:
			n, err := consumeUint(v, typ, field+".skill_index", math.MaxUint32, &skill)
			if err == nil {
				e = e.WithSkill(uint32(skill))
			}
			return n, err
		case entryExtra:
			n, err := consumeUint(v, typ, field+".extra", math.MaxUint64, &extra)
			if err != nil {
				return 0, err
			}
			x := protowire.DecodeZigZag(extra)
			if x < math.MinInt32 || x > math.MaxInt32 {
				return 0, malformed(field+".extra", "value %d overflows int32", x)
			}
			e = e.WithExtra(int32(x))
			return n, nil
		}
		return skip(num, typ, v, field)
	})
	if err != nil {
		return ActionEntry{}, err
	}
	e.Turn = uint8(turn)
	e.Kind = Kind(kind)
	e.Actor = ActorID(actor)
	return e, nil
}

// walk calls fn for every field in b. fn receives the bytes following the
// tag and returns how many of them it consumed.
func walk(b []byte, field string, fn func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return malformed(field, "bad tag: %v", protowire.ParseError(n))
		}
		b = b[n:]
		m, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		b = b[m:]
	}
	return nil
}

func skip(num protowire.Number, typ protowire.Type, b []byte, field string) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, malformed(field, "bad field %d: %v", num, protowire.ParseError(n))
	}
	return n, nil
}

func consumeUint(b []byte, typ protowire.Type, field string, limit uint64, out *uint64) (int, error) {
	if typ != protowire.VarintType {
		return 0, malformed(field, "wire type %d, want varint", typ)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, malformed(field, "%v", protowire.ParseError(n))
	}
	if v > limit {
		return 0, malformed(field, "value %d exceeds %d", v, limit)
	}
	*out = v
	return n, nil
}

func consumeBytes(b []byte, typ protowire.Type, field string) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, malformed(field, "wire type %d, want bytes", typ)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, malformed(field, "%v", protowire.ParseError(n))
	}
	return v, n, nil
}

func validate(l Log, turns uint8) error {
	if !l.outcome.Valid() {
		return integrity("outcome", "unknown outcome %d", uint8(l.outcome))
	}
	for id := range l.initialHP {
		if !id.Valid() {
			return integrity("initial_hp", "actor %d outside party and enemy ranges", id)
		}
	}
	for i, a := range l.actions {
		field := fmt.Sprintf("actions[%d]", i)
		if a.Turn < 1 || a.Turn > MaxTurn {
			return integrity(field+".turn", "turn %d outside 1..%d", a.Turn, MaxTurn)
		}
		if !a.Actor.Valid() {
			return integrity(field+".actor", "actor %d outside party and enemy ranges", a.Actor)
		}
		if a.Target != nil && !a.Target.Valid() {
			return integrity(field+".target", "target %d outside party and enemy ranges", *a.Target)
		}
	}
	if turns != l.turns {
		return integrity("turns", "recorded %d, actions reach turn %d", turns, l.turns)
	}
	return nil
}
