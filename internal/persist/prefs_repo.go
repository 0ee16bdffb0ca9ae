package persist

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
)

// HighScoreKey is the only preference the game writes.
const HighScoreKey = "high_score"

// PrefsRepo stores preferences in the preferences table. A save replaces the
// whole table.
type PrefsRepo struct {
	db *DB
}

func NewPrefsRepo(db *DB) *PrefsRepo {
	return &PrefsRepo{db: db}
}

// LoadHighScore returns 0 when no score has been saved.
func (r *PrefsRepo) LoadHighScore(ctx context.Context) (int, error) {
	var value string
	err := r.db.Pool.QueryRow(ctx,
		`SELECT value FROM preferences WHERE key = $1`, HighScoreKey,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load high score: %w", err)
	}
	score, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("high score %q: %w", value, err)
	}
	return score, nil
}

// SaveHighScore clears every preference and writes the high score in one
// transaction.
func (r *PrefsRepo) SaveHighScore(ctx context.Context, score int) error {
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM preferences`); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO preferences (key, value) VALUES ($1, $2)`,
			HighScoreKey, strconv.Itoa(score),
		); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save high score: %w", err)
	}
	return nil
}
