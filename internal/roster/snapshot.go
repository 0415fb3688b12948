// Package roster captures party members as they were when a battle began,
// so a stored battle can be displayed after the roster changes.
package roster

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Snapshot is an immutable capture of one party member.
type Snapshot struct {
	characterID int64
	maxHP       int
	name        string
	jobName     string
}

// New returns a Snapshot. An empty jobName means the member had no job.
//
// Precondition: characterID > 0; maxHP >= 0; name is non-empty.
func New(characterID int64, maxHP int, name, jobName string) Snapshot {
	return Snapshot{characterID: characterID, maxHP: maxHP, name: name, jobName: jobName}
}

// CharacterID returns the character's persistent id.
func (s Snapshot) CharacterID() int64 { return s.characterID }

// MaxHP returns the character's max HP at battle start.
func (s Snapshot) MaxHP() int { return s.maxHP }

// Name returns the display name at battle start.
func (s Snapshot) Name() string { return s.name }

// JobName returns the job name and whether the member had one.
func (s Snapshot) JobName() (string, bool) { return s.jobName, s.jobName != "" }

// Member is the subset of a live party member a Snapshot is taken from.
type Member interface {
	CharacterID() int64
	MaxHP() int
	DisplayName() string
	JobName() (string, bool)
}

// Capture snapshots members in roster order.
func Capture[M Member](members []M) []Snapshot {
	out := make([]Snapshot, len(members))
	for i, m := range members {
		job, _ := m.JobName()
		out[i] = New(m.CharacterID(), m.MaxHP(), m.DisplayName(), job)
	}
	return out
}

// Find returns the snapshot for characterID, or (Snapshot{}, false).
func Find(snaps []Snapshot, characterID int64) (Snapshot, bool) {
	for _, s := range snaps {
		if s.characterID == characterID {
			return s, true
		}
	}
	return Snapshot{}, false
}

// ErrMalformed is wrapped by every decode failure.
var ErrMalformed = errors.New("roster: malformed encoding")

// Field numbers are part of the persisted format and never change.
const (
	fieldMember protowire.Number = 1

	fieldCharacterID protowire.Number = 1
	fieldMaxHP       protowire.Number = 2
	fieldName        protowire.Number = 3
	fieldJobName     protowire.Number = 4
)

// Marshal encodes snaps in order.
func Marshal(snaps []Snapshot) []byte {
	var b []byte
	for _, s := range snaps {
		b = protowire.AppendTag(b, fieldMember, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalOne(s))
	}
	return b
}

func marshalOne(s Snapshot) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldCharacterID, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(s.characterID))
	b = protowire.AppendTag(b, fieldMaxHP, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(s.maxHP))
	b = protowire.AppendTag(b, fieldName, protowire.BytesType)
	b = protowire.AppendString(b, s.name)
	if s.jobName != "" {
		b = protowire.AppendTag(b, fieldJobName, protowire.BytesType)
		b = protowire.AppendString(b, s.jobName)
	}
	return b
}

// Unmarshal decodes snapshots written by Marshal. Unknown fields are
// skipped. A member without an id or name is rejected.
func Unmarshal(b []byte) ([]Snapshot, error) {
	out := make([]Snapshot, 0)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]
		if num != fieldMember || typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}
		raw, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: member %d: %v", ErrMalformed, len(out), protowire.ParseError(n))
		}
		b = b[n:]
		s, err := unmarshalOne(raw)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", len(out), err)
		}
		out = append(out, s)
	}
	return out, nil
}

func unmarshalOne(b []byte) (Snapshot, error) {
	var s Snapshot
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == fieldCharacterID && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 || v > math.MaxInt64 {
				return Snapshot{}, fmt.Errorf("%w: character id", ErrMalformed)
			}
			s.characterID, n = int64(v), m
		case num == fieldMaxHP && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 || v > math.MaxInt32 {
				return Snapshot{}, fmt.Errorf("%w: max hp", ErrMalformed)
			}
			s.maxHP, n = int(v), m
		case num == fieldName && typ == protowire.BytesType:
			s.name, n = protowire.ConsumeString(b)
		case num == fieldJobName && typ == protowire.BytesType:
			s.jobName, n = protowire.ConsumeString(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]
	}
	if s.characterID <= 0 {
		return Snapshot{}, fmt.Errorf("%w: missing character id", ErrMalformed)
	}
	if s.name == "" {
		return Snapshot{}, fmt.Errorf("%w: missing name", ErrMalformed)
	}
	return s, nil
}
