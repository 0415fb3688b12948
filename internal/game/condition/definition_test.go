package condition_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/battlelog/internal/game/condition"
)

func TestRegistry_Lookup_Found(t *testing.T) {
	reg := condition.NewRegistry()
	def := sleep()
	reg.Register(def)
	got, ok := reg.Lookup("sleep")
	require.True(t, ok)
	assert.Equal(t, def, got)
}

func TestRegistry_Lookup_NotFound(t *testing.T) {
	reg := condition.NewRegistry()
	_, ok := reg.Lookup("nonexistent")
	assert.False(t, ok)
}

func TestRegistry_All_SortedCopy(t *testing.T) {
	reg := condition.NewRegistry()
	reg.Register(sleep())
	reg.Register(poison())
	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, "poison", all[0].ID)
	all[0] = nil
	assert.NotNil(t, reg.All()[0], "registry must not be corrupted by mutating the returned slice")
}

func TestLoadDirectory_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	yaml := `
id: paralysis
name: Paralysis
description: "Cannot move a muscle."
expire_message: "{actor} can move again."
locks_action: true
duration_type: turns
default_duration: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "paralysis.yaml"), []byte(yaml), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0644))

	reg, err := condition.LoadDirectory(dir)
	require.NoError(t, err)
	got, ok := reg.Lookup("paralysis")
	require.True(t, ok)
	assert.Equal(t, "Paralysis", got.Name)
	assert.True(t, got.LocksAction)
	assert.Equal(t, "{actor} can move again.", got.ExpireMessage)
	assert.Equal(t, 2, got.DefaultDuration)
	assert.Len(t, reg.All(), 1)
}

func TestLoadDirectory_UnknownField_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	yaml := "id: x\nname: X\nduration_type: permanent\nmax_stacks: 2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.yaml"), []byte(yaml), 0644))
	_, err := condition.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLoadDirectory_InvalidDefinitions(t *testing.T) {
	for name, body := range map[string]string{
		"missing id":       "name: X\nduration_type: permanent\n",
		"missing name":     "id: x\nduration_type: permanent\n",
		"bad duration":     "id: x\nname: X\nduration_type: rounds\n",
		"zero turns":       "id: x\nname: X\nduration_type: turns\ndefault_duration: 0\n",
		"invalid document": ":::bad:::",
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "x.yaml"), []byte(body), 0644))
			_, err := condition.LoadDirectory(dir)
			assert.Error(t, err)
		})
	}
}

func TestLoadDirectory_NonexistentDir_ReturnsError(t *testing.T) {
	_, err := condition.LoadDirectory("/nonexistent/path/that/does/not/exist")
	assert.Error(t, err)
}

func TestLoadDirectory_RealStatuses(t *testing.T) {
	reg, err := condition.LoadDirectory("../../../content/statuses")
	require.NoError(t, err)
	for _, id := range []string{"sleep", "paralysis", "stone", "poison", "silence"} {
		_, ok := reg.Lookup(id)
		assert.True(t, ok, "status %q must be present", id)
	}
	stoneDef, _ := reg.Lookup("stone")
	assert.True(t, stoneDef.LocksAction)
	poisonDef, _ := reg.Lookup("poison")
	assert.False(t, poisonDef.LocksAction)
}

func TestPropertyRegistry_RegisterThenLookup(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.StringMatching(`[a-z_]{3,12}`).Draw(t, "id")
		reg := condition.NewRegistry()
		def := &condition.StatusDef{ID: id, Name: id, DurationType: condition.DurationPermanent}
		reg.Register(def)
		got, ok := reg.Lookup(id)
		assert.True(t, ok)
		assert.Equal(t, def, got)
	})
}
