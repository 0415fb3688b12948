// Package main provides a CLI tool for inspecting stored battles.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/battlelog/internal/config"
	"github.com/cory-johannsen/battlelog/internal/roster"
	"github.com/cory-johannsen/battlelog/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	id := flag.String("id", "", "battle id to show; empty lists recent battles")
	limit := flag.Int("limit", 10, "number of recent battles to list")
	member := flag.Int64("member", 0, "with -id, show only this party member's character id")
	kinds := flag.Bool("kinds", false, "print the replay action codes and exit")
	flag.Parse()

	if *kinds {
		printKinds(os.Stdout)
		return
	}
	if *limit < 1 || (*member != 0 && *id == "") {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer pool.Close()

	repo := pool.Battles()

	if *id == "" {
		battles, err := repo.ListRecent(ctx, *limit)
		if err != nil {
			log.Fatalf("listing battles: %v", err)
		}
		for _, b := range battles {
			fmt.Fprintf(os.Stdout, "%s  %-8s turns=%-2d %s\n",
				b.ID, b.Outcome, b.Turns, b.CreatedAt.Format(time.RFC3339))
		}
		fmt.Fprintf(os.Stdout, "%d battles [%s]\n", len(battles), time.Since(start))
		return
	}

	battleID, err := uuid.Parse(*id)
	if err != nil {
		log.Fatalf("parsing battle id %q: %v", *id, err)
	}
	b, err := repo.Load(ctx, battleID)
	if err != nil {
		log.Fatalf("loading battle %s: %v", battleID, err)
	}

	if *member != 0 {
		s, ok := roster.Find(b.Roster, *member)
		if !ok {
			log.Fatalf("character %d did not take part in battle %s", *member, battleID)
		}
		fmt.Fprintln(os.Stdout, memberLine(s))
		return
	}

	fmt.Fprintf(os.Stdout, "battle %s seed=%d outcome=%s turns=%d\n",
		b.ID, b.Seed, b.Replay.Outcome(), b.Replay.Turns())
	for _, s := range b.Roster {
		fmt.Fprintf(os.Stdout, "  %s\n", memberLine(s))
	}
	for _, a := range b.Replay.Actions() {
		fmt.Fprintf(os.Stdout, "  t%-2d %-18s actor=%d%s\n", a.Turn, a.Kind, a.Actor, detail(a.Target, a.Value))
	}
	fmt.Fprintf(os.Stdout, "%d actions, %d narration entries [%s]\n",
		len(b.Replay.Actions()), len(b.Narration), time.Since(start))
}
