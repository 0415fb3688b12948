package main

import (
	"fmt"
	"io"

	"github.com/cory-johannsen/battlelog/internal/narration"
)

// render writes one line per entry. Turn-0 entries carry no message and are
// rendered from their metadata.
func render(w io.Writer, entries []narration.Entry) {
	turn := -1
	for _, e := range entries {
		if e.Turn != turn && e.Turn > 0 {
			turn = e.Turn
			fmt.Fprintf(w, "-- turn %d --\n", turn)
		}
		if e.Turn == 0 && e.Message == "" {
			fmt.Fprintf(w, "%-6s %s HP %s/%s\n",
				e.Metadata[narration.MetaRole], e.Metadata[narration.MetaName],
				e.Metadata[narration.MetaHP], e.Metadata[narration.MetaMaxHP])
			continue
		}
		fmt.Fprintln(w, e.Message)
	}
}
