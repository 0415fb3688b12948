package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/battlelog/internal/narration"
	"github.com/cory-johannsen/battlelog/internal/replay"
	"github.com/cory-johannsen/battlelog/internal/roster"
)

// ErrBattleNotFound is returned when a battle lookup yields no results.
var ErrBattleNotFound = errors.New("battle not found")

// ErrBattleExists is returned when saving a battle id that is already stored.
var ErrBattleExists = errors.New("battle already exists")

// Battle is one stored battle: both logs and the roster captured at its start.
type Battle struct {
	ID        uuid.UUID
	Seed      uint64
	Replay    replay.Log
	Roster    []roster.Snapshot
	Narration []narration.Entry
	CreatedAt time.Time
}

// BattleSummary is the listing view of a stored battle.
type BattleSummary struct {
	ID        uuid.UUID
	Outcome   replay.Outcome
	Turns     int
	CreatedAt time.Time
}

// BattleRepository persists finished battles.
type BattleRepository struct {
	db *pgxpool.Pool
}

// NewBattleRepository creates a BattleRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewBattleRepository(db *pgxpool.Pool) *BattleRepository {
	return &BattleRepository{db: db}
}

// Save stores b with the replay log and roster in their binary encodings.
//
// Precondition: b.ID must not be uuid.Nil.
// Postcondition: Returns b with CreatedAt set, or ErrBattleExists if the id is taken.
func (r *BattleRepository) Save(ctx context.Context, b Battle) (Battle, error) {
	if b.ID == uuid.Nil {
		return Battle{}, fmt.Errorf("saving battle: id must not be nil")
	}
	entries := b.Narration
	if entries == nil {
		entries = []narration.Entry{}
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO battles (id, seed, outcome, turns, replay, roster, narration)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		b.ID, int64(b.Seed), int16(b.Replay.Outcome()), int16(b.Replay.Turns()),
		replay.Marshal(b.Replay), roster.Marshal(b.Roster), entries,
	).Scan(&b.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return Battle{}, ErrBattleExists
		}
		return Battle{}, fmt.Errorf("inserting battle: %w", err)
	}
	return b, nil
}

// Load retrieves and decodes the battle with id.
//
// Postcondition: Returns ErrBattleNotFound if no such battle is stored; a
// stored log that fails decoding is reported wrapping replay.ErrIntegrity
// or replay.ErrMalformed.
func (r *BattleRepository) Load(ctx context.Context, id uuid.UUID) (Battle, error) {
	var (
		b          Battle
		seed       int64
		replayBlob []byte
		rosterBlob []byte
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, seed, replay, roster, narration, created_at
		 FROM battles WHERE id = $1`,
		id,
	).Scan(&b.ID, &seed, &replayBlob, &rosterBlob, &b.Narration, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Battle{}, ErrBattleNotFound
		}
		return Battle{}, fmt.Errorf("querying battle: %w", err)
	}
	b.Seed = uint64(seed)

	if b.Replay, err = replay.Unmarshal(replayBlob); err != nil {
		return Battle{}, fmt.Errorf("decoding replay of battle %s: %w", id, err)
	}
	if b.Roster, err = roster.Unmarshal(rosterBlob); err != nil {
		return Battle{}, fmt.Errorf("decoding roster of battle %s: %w", id, err)
	}
	return b, nil
}

// ListRecent returns up to limit battles, newest first.
//
// Precondition: limit must be > 0.
func (r *BattleRepository) ListRecent(ctx context.Context, limit int) ([]BattleSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, outcome, turns, created_at
		 FROM battles ORDER BY created_at DESC, id LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing battles: %w", err)
	}
	defer rows.Close()

	var out []BattleSummary
	for rows.Next() {
		var (
			s       BattleSummary
			outcome int16
			turns   int16
		)
		if err := rows.Scan(&s.ID, &outcome, &turns, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning battle: %w", err)
		}
		s.Outcome, s.Turns = replay.Outcome(outcome), int(turns)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating battles: %w", err)
	}
	return out, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
