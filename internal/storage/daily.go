package storage

import "context"

// DailyResult is one player's finished daily puzzle.
// Stored in daily_results with UNIQUE(user_id, date).
type DailyResult struct {
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	PuzzleID  string `json:"puzzleId"`
	Mistakes  int    `json:"mistakes"`
	ElapsedMs int    `json:"elapsedMs"`
}

// LBRow is a leaderboard entry.
type LBRow struct {
	UserID    string `json:"userId"`
	Username  string `json:"username,omitempty"`
	Mistakes  int    `json:"mistakes"`
	ElapsedMs int    `json:"elapsedMs"`
}

// DailyAlreadyPlayed reports whether userID finished the daily for date.
func (d *DB) DailyAlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := d.SQL.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?`,
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertDailyResult stores a result; a second result for the same
// player and date is ignored.
func (d *DB) InsertDailyResult(ctx context.Context, r DailyResult) error {
	_, err := d.SQL.ExecContext(ctx, `
        INSERT OR IGNORE INTO daily_results (user_id, date, puzzle_id, mistakes, elapsed_ms)
        VALUES (?, ?, ?, ?, ?)`,
		r.UserID, r.Date, r.PuzzleID, r.Mistakes, r.ElapsedMs,
	)
	return err
}

// DailyLeaderboard returns the top results for date: fewest mistakes,
// then fastest, then earliest. Default limit is 20.
func (d *DB) DailyLeaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.SQL.QueryContext(ctx, `
        SELECT r.user_id, COALESCE(u.username, ''), r.mistakes, r.elapsed_ms
        FROM daily_results r LEFT JOIN users u ON u.id = r.user_id
        WHERE r.date=?
        ORDER BY r.mistakes ASC, r.elapsed_ms ASC, r.created_at ASC
        LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Username, &r.Mistakes, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
