// Package main provides the battle simulator: it runs one encounter, prints
// the narration and optionally stores both battle logs.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/battlelog/internal/config"
	"github.com/cory-johannsen/battlelog/internal/game/combat"
	"github.com/cory-johannsen/battlelog/internal/game/condition"
	"github.com/cory-johannsen/battlelog/internal/game/dice"
	"github.com/cory-johannsen/battlelog/internal/game/encounter"
	"github.com/cory-johannsen/battlelog/internal/observability"
	"github.com/cory-johannsen/battlelog/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty uses defaults and BATTLELOG_ env")
	encounterPath := flag.String("encounter", "content/encounters/slime_cave.yaml", "path to encounter YAML file")
	seed := flag.Uint64("seed", 0, "random seed; 0 keeps battle.seed from config")
	asJSON := flag.Bool("json", false, "print narration as JSON")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *seed != 0 {
		cfg.Battle.Seed = *seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	statuses, err := condition.LoadDirectory(cfg.Battle.StatusDir)
	if err != nil {
		logger.Fatal("loading status definitions", zap.Error(err))
	}
	logger.Info("loaded status definitions",
		zap.String("dir", cfg.Battle.StatusDir),
		zap.Int("count", len(statuses.All())),
	)
	enc, err := encounter.LoadFile(*encounterPath)
	if err != nil {
		logger.Fatal("loading encounter", zap.Error(err))
	}
	party, enemies, err := enc.Combatants()
	if err != nil {
		logger.Fatal("building combatants", zap.Error(err))
	}

	battle, err := combat.New(party, enemies, statuses, randomSource(cfg.Battle, logger),
		combat.WithLogger(logger),
		combat.WithMaxTurns(cfg.Battle.MaxTurns),
		combat.WithStrictInvariants(cfg.Battle.StrictInvariants),
	)
	if err != nil {
		logger.Fatal("creating battle", zap.Error(err))
	}
	blog := observability.WithBattle(logger, battle.ID())
	blog.Info("running encounter",
		zap.String("encounter", enc.ID),
		zap.Uint64("seed", cfg.Battle.Seed),
	)

	res, err := battle.Run(ctx)
	if err != nil {
		blog.Fatal("running battle", zap.Error(err))
	}

	if *asJSON {
		out, err := json.MarshalIndent(battle.Narration(), "", "  ")
		if err != nil {
			blog.Fatal("encoding narration", zap.Error(err))
		}
		fmt.Fprintln(os.Stdout, string(out))
	} else {
		render(os.Stdout, res.Narration)
	}

	if cfg.Battle.Persist {
		if err := persist(ctx, cfg, res, cfg.Battle.Seed); err != nil {
			blog.Fatal("storing battle", zap.Error(err))
		}
		blog.Info("battle stored")
	}

	blog.Info("simulation complete",
		zap.Stringer("outcome", res.Outcome),
		zap.Int("turns", res.Replay.Turns()),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.LoadDefaults()
	}
	return config.Load(path)
}

// randomSource builds the battle's random stream: seeded when a seed is
// configured, crypto-backed otherwise, and audited when requested.
func randomSource(cfg config.BattleConfig, logger *zap.Logger) dice.RandomSource {
	src := dice.NewCryptoSource()
	if cfg.Seed != 0 {
		src = dice.NewSeededSource(cfg.Seed)
	}
	var rng dice.RandomSource = dice.NewStream(src)
	if cfg.AuditRolls {
		rng = dice.NewLoggedSource(rng, logger)
	}
	return rng
}

func persist(ctx context.Context, cfg config.Config, res combat.Result, seed uint64) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	_, err = pool.Battles().Save(ctx, postgres.Battle{
		ID:        res.ID,
		Seed:      seed,
		Replay:    res.Replay,
		Roster:    res.Roster,
		Narration: res.Narration,
	})
	return err
}
