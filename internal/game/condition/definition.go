// Package condition defines status effects and tracks the effects active on
// one battle actor.
package condition

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Duration types.
const (
	DurationTurns     = "turns"
	DurationPermanent = "permanent"
)

// StatusDef is the static definition of a status effect, loaded from YAML.
type StatusDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// ExpireMessage replaces the generic expiry text when set. "{actor}" is
	// replaced with the affected actor's name.
	ExpireMessage   string `yaml:"expire_message"`
	LocksAction     bool   `yaml:"locks_action"`
	DurationType    string `yaml:"duration_type"` // "turns" | "permanent"
	DefaultDuration int    `yaml:"default_duration"`
}

func (d *StatusDef) validate() error {
	if d.ID == "" {
		return fmt.Errorf("status id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("status %q: name must not be empty", d.ID)
	}
	switch d.DurationType {
	case DurationTurns:
		if d.DefaultDuration < 1 {
			return fmt.Errorf("status %q: default_duration must be >= 1 for turns, got %d", d.ID, d.DefaultDuration)
		}
	case DurationPermanent:
	default:
		return fmt.Errorf("status %q: duration_type must be one of [turns, permanent], got %q", d.ID, d.DurationType)
	}
	return nil
}

// Registry holds all known StatusDefs keyed by ID.
type Registry struct {
	defs map[string]*StatusDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*StatusDef)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *StatusDef) {
	r.defs[def.ID] = def
}

// Lookup returns the StatusDef for id, or (nil, false) if not found.
// A miss is an ordinary result: saved battles may reference statuses that
// were later removed from content.
func (r *Registry) Lookup(id string) (*StatusDef, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns every registered StatusDef ordered by ID.
func (r *Registry) All() []*StatusDef {
	out := make([]*StatusDef, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a StatusDef,
// and returns a populated Registry.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading status dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def StatusDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
