// Package encounter loads battle setups from YAML and builds their combatants.
package encounter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/battlelog/internal/game/combat"
	"github.com/cory-johannsen/battlelog/internal/replay"
)

// Template defines one participant of an encounter.
type Template struct {
	Name        string `yaml:"name"`
	CharacterID int64  `yaml:"character_id"`
	Job         string `yaml:"job"`
	Level       int    `yaml:"level"`
	MaxHP       int    `yaml:"max_hp"`
	// HP is the starting HP; 0 starts at MaxHP.
	HP       int     `yaml:"hp"`
	Luck     int     `yaml:"luck"`
	Accuracy int     `yaml:"accuracy"`
	Evasion  int     `yaml:"evasion"`
	CritRate float64 `yaml:"crit_rate"`
	Attack   int     `yaml:"attack"`
	Defense  int     `yaml:"defense"`
	// Action is a category id such as "physical_attack" or "breath"; empty means attack.
	Action        string `yaml:"action"`
	Uses          int    `yaml:"uses"`
	SpellID       string `yaml:"spell_id"`
	Inflicts      string `yaml:"inflicts"`
	InflictChance int    `yaml:"inflict_chance"`
}

// Encounter is a party facing a group of enemies.
type Encounter struct {
	ID      string     `yaml:"id"`
	Name    string     `yaml:"name"`
	Party   []Template `yaml:"party"`
	Enemies []Template `yaml:"enemies"`
}

// maxParty is the size of the replay party id range.
const maxParty = int(replay.PartyIDMax - replay.PartyIDMin + 1)

// Validate checks that the encounter can be built.
//
// Postcondition: Returns nil iff ID is non-empty, both sides are non-empty,
// the party fits the replay id range, every template is valid and every
// party member has a distinct positive character_id.
func (e *Encounter) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("encounter: id must not be empty")
	}
	if len(e.Party) == 0 || len(e.Enemies) == 0 {
		return fmt.Errorf("encounter %q: party and enemies must not be empty", e.ID)
	}
	if len(e.Party) > maxParty {
		return fmt.Errorf("encounter %q: party of %d exceeds %d", e.ID, len(e.Party), maxParty)
	}
	for side, ts := range map[string][]Template{"party": e.Party, "enemies": e.Enemies} {
		for i, t := range ts {
			if err := t.validate(); err != nil {
				return fmt.Errorf("encounter %q: %s[%d]: %w", e.ID, side, i, err)
			}
		}
	}
	characters := make(map[int64]bool, len(e.Party))
	for i, t := range e.Party {
		if t.CharacterID <= 0 {
			return fmt.Errorf("encounter %q: party[%d]: %s: character_id must be >= 1", e.ID, i, t.Name)
		}
		if characters[t.CharacterID] {
			return fmt.Errorf("encounter %q: party[%d]: duplicate character_id %d", e.ID, i, t.CharacterID)
		}
		characters[t.CharacterID] = true
	}
	return nil
}

func (t Template) validate() error {
	switch {
	case t.Name == "":
		return fmt.Errorf("name must not be empty")
	case t.MaxHP < 1:
		return fmt.Errorf("%s: max_hp must be >= 1", t.Name)
	case t.HP < 0 || t.HP > t.MaxHP:
		return fmt.Errorf("%s: hp must be 0-%d", t.Name, t.MaxHP)
	case t.CritRate < 0 || t.CritRate > 1:
		return fmt.Errorf("%s: crit_rate must be 0-1", t.Name)
	}
	if t.Action != "" {
		if _, err := combat.ParseCategory(t.Action); err != nil {
			return fmt.Errorf("%s: %w", t.Name, err)
		}
	}
	return nil
}

// Combatants builds fresh combatants for one run of the encounter. Party
// members get ids p1.. and replay ids from replay.PartyIDMin; enemies get
// e1.. and replay ids from replay.EnemyIDMin.
//
// Precondition: e.Validate() returned nil.
func (e *Encounter) Combatants() (party, enemies []*combat.Combatant, err error) {
	party, err = build(e.Party, combat.KindPlayer, "p", replay.PartyIDMin)
	if err != nil {
		return nil, nil, err
	}
	enemies, err = build(e.Enemies, combat.KindEnemy, "e", replay.EnemyIDMin)
	if err != nil {
		return nil, nil, err
	}
	return party, enemies, nil
}

func build(ts []Template, kind combat.Kind, prefix string, base replay.ActorID) ([]*combat.Combatant, error) {
	out := make([]*combat.Combatant, len(ts))
	for i, t := range ts {
		action := combat.CategoryAttack
		if t.Action != "" {
			var err error
			if action, err = combat.ParseCategory(t.Action); err != nil {
				return nil, err
			}
		}
		hp := t.HP
		if hp == 0 {
			hp = t.MaxHP
		}
		out[i] = &combat.Combatant{
			ID:            fmt.Sprintf("%s%d", prefix, i+1),
			ReplayID:      base + replay.ActorID(i),
			Kind:          kind,
			Name:          t.Name,
			CharacterID:   t.CharacterID,
			Job:           t.Job,
			Level:         t.Level,
			MaxHP:         t.MaxHP,
			CurrentHP:     hp,
			Luck:          t.Luck,
			Accuracy:      t.Accuracy,
			Evasion:       t.Evasion,
			CritRate:      t.CritRate,
			Attack:        t.Attack,
			Defense:       t.Defense,
			Action:        action,
			Uses:          t.Uses,
			SpellID:       t.SpellID,
			Inflicts:      t.Inflicts,
			InflictChance: t.InflictChance,
		}
	}
	return out, nil
}

// LoadFromBytes parses and validates a single encounter. Unknown fields are rejected.
func LoadFromBytes(data []byte) (*Encounter, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var e Encounter
	if err := dec.Decode(&e); err != nil {
		return nil, fmt.Errorf("parsing encounter YAML: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// LoadFile reads one encounter file.
func LoadFile(path string) (*Encounter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	e, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return e, nil
}

// LoadDirectory reads all *.yaml files in dir and returns the encounters keyed by ID.
//
// Postcondition: Returns all encounters or an error on the first parse,
// validate or duplicate-id failure.
func LoadDirectory(dir string) (map[string]*Encounter, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading encounter dir %q: %w", dir, err)
	}
	out := make(map[string]*Encounter)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		e, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if _, dup := out[e.ID]; dup {
			return nil, fmt.Errorf("duplicate encounter id %q in %q", e.ID, entry.Name())
		}
		out[e.ID] = e
	}
	return out, nil
}
