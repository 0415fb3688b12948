package main

import (
	"fmt"
	"io"

	"github.com/cory-johannsen/battlelog/internal/replay"
	"github.com/cory-johannsen/battlelog/internal/roster"
)

// detail renders the optional target and value of a replay entry.
func detail(target *replay.ActorID, value *uint32) string {
	var s string
	if target != nil {
		s += fmt.Sprintf(" target=%d", *target)
	}
	if value != nil {
		s += fmt.Sprintf(" value=%d", *value)
	}
	return s
}

func memberLine(s roster.Snapshot) string {
	job, ok := s.JobName()
	if !ok {
		job = "-"
	}
	return fmt.Sprintf("member #%d %s (%s) max_hp=%d", s.CharacterID(), s.Name(), job, s.MaxHP())
}

// printKinds writes one "code name band" line per known action code.
func printKinds(w io.Writer) {
	for _, k := range replay.Kinds() {
		fmt.Fprintf(w, "%4d  %-20s %s\n", uint16(k), k, k.Band())
	}
}
