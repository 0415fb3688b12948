package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/battlelog/internal/replay"
	"github.com/cory-johannsen/battlelog/internal/roster"
)

func TestDetail(t *testing.T) {
	e := replay.Action(1, replay.KindPhysicalHit, 1).WithTarget(1000).WithValue(12)
	assert.Equal(t, " target=1000 value=12", detail(e.Target, e.Value))
	assert.Equal(t, "", detail(nil, nil))
}

func TestMemberLine(t *testing.T) {
	snaps := []roster.Snapshot{roster.New(101, 34, "Aya", "Fighter"), roster.New(102, 26, "Lia", "")}
	s, ok := roster.Find(snaps, 102)
	assert.True(t, ok)
	assert.Equal(t, "member #102 Lia (-) max_hp=26", memberLine(s))
	assert.Equal(t, "member #101 Aya (Fighter) max_hp=34", memberLine(snaps[0]))
}

func TestPrintKinds(t *testing.T) {
	var buf bytes.Buffer
	printKinds(&buf)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, len(replay.Kinds()))
	assert.Contains(t, buf.String(), "physical_hit")
	assert.Contains(t, buf.String(), "lifecycle")
}
