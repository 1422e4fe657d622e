package storage

import (
	"context"
	"time"
)

// Owner identifies who played a game: a user, or an anonymous cookie.
type Owner struct {
	UserID      string
	AnonymousID string
}

// ID returns the user id, or the anonymous id for guests.
func (o Owner) ID() string {
	if o.UserID != "" {
		return o.UserID
	}
	return o.AnonymousID
}

// clause returns the WHERE fragment and argument selecting o's rows.
func (o Owner) clause() (string, any) {
	if o.UserID != "" {
		return `user_id=?`, o.UserID
	}
	return `anonymous_id=?`, o.AnonymousID
}

// GameRecord is one row of the games table.
type GameRecord struct {
	ID         string `json:"id"`
	PuzzleID   string `json:"puzzleId"`
	Mode       string `json:"mode"`
	Status     string `json:"status"`
	Mistakes   int    `json:"mistakes"`
	Solved     int    `json:"solved"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// InsertGame records a new game for owner.
func (d *DB) InsertGame(ctx context.Context, o Owner, id, puzzleID, mode string, startedAt time.Time) error {
	_, err := d.SQL.ExecContext(ctx, `
        INSERT INTO games (id, user_id, anonymous_id, puzzle_id, mode, status, started_at)
        VALUES (?,?,?,?,?,'playing',?)`,
		id, nullable(o.UserID), nullable(o.AnonymousID), puzzleID, mode, startedAt.UTC().Format(time.RFC3339))
	return err
}

// Progress is the state written after each submission.
type Progress struct {
	Status   string
	Mistakes int
	Solved   int
}

// UpdateGame writes progress for a game owned by o. When the status is
// final it stamps finished_at and, for signed-in owners, bumps the user's
// stats in the same transaction. Finishing twice is a no-op.
func (d *DB) UpdateGame(ctx context.Context, o Owner, id string, p Progress) error {
	tx, err := d.SQL.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	where, arg := o.clause()
	final := p.Status == "won" || p.Status == "lost"

	if !final {
		if _, err := tx.ExecContext(ctx, `UPDATE games SET mistakes=?, solved=? WHERE id=? AND `+where,
			p.Mistakes, p.Solved, id, arg); err != nil {
			return err
		}
		return tx.Commit()
	}

	res, err := tx.ExecContext(ctx, `
        UPDATE games SET status=?, mistakes=?, solved=?, finished_at=?
        WHERE id=? AND status='playing' AND `+where,
		p.Status, p.Mistakes, p.Solved, time.Now().UTC().Format(time.RFC3339), id, arg)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 1 && o.UserID != "" {
		if err := bumpStats(ctx, tx, o.UserID, p.Status == "won"); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ClaimAnonGames transfers anonymous games to a user account after auth.
func (d *DB) ClaimAnonGames(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := d.SQL.ExecContext(ctx, `UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	return err
}

// GamesByUser returns the user's most recent games, newest first.
func (d *DB) GamesByUser(ctx context.Context, userID string, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.SQL.QueryContext(ctx, `
        SELECT id, puzzle_id, mode, status, mistakes, solved, started_at, COALESCE(finished_at,'')
        FROM games WHERE user_id=? ORDER BY started_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameRecord{}
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(&g.ID, &g.PuzzleID, &g.Mode, &g.Status, &g.Mistakes, &g.Solved, &g.StartedAt, &g.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
