package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pantheon-trivia/pantheon-hub/internal/domain/result"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESULT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ResultRepository implements result.Repository for PostgreSQL.
type ResultRepository struct {
	conn *Connection
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(conn *Connection) *ResultRepository {
	return &ResultRepository{conn: conn}
}

// Insert persists a new result.
func (r *ResultRepository) Insert(ctx context.Context, res *result.Result) error {
	query := `
		INSERT INTO results (id, player_id, quiz_date, score, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.conn.Exec(ctx, query,
		res.ID,
		res.PlayerID,
		res.QuizDate.Time(),
		int(res.Score),
		res.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrPlayerNotFound
		}
		return fmt.Errorf("failed to insert result: %w", err)
	}

	return nil
}

// DeleteByID removes a result.
func (r *ResultRepository) DeleteByID(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, "DELETE FROM results WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shared.ErrResultNotFound
	}

	return nil
}

// ListAllWithPlayers returns every result joined with the owning player's name.
func (r *ResultRepository) ListAllWithPlayers(ctx context.Context) ([]result.WithPlayer, error) {
	query := `
		SELECT r.id, r.player_id, r.quiz_date, r.score, r.created_at, p.name
		FROM results r
		JOIN players p ON p.id = r.player_id
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	return r.scanJoined(rows)
}

// ListByDate returns the results for one quiz date, newest entry first.
func (r *ResultRepository) ListByDate(ctx context.Context, date result.QuizDate) ([]result.WithPlayer, error) {
	query := `
		SELECT r.id, r.player_id, r.quiz_date, r.score, r.created_at, p.name
		FROM results r
		JOIN players p ON p.id = r.player_id
		WHERE r.quiz_date = $1
		ORDER BY r.created_at DESC
	`

	rows, err := r.conn.Query(ctx, query, date.Time())
	if err != nil {
		return nil, fmt.Errorf("failed to list results by date: %w", err)
	}
	defer rows.Close()

	return r.scanJoined(rows)
}

// ListByPlayer returns one player's results ordered by quiz date ascending.
func (r *ResultRepository) ListByPlayer(ctx context.Context, playerID string) ([]*result.Result, error) {
	query := `
		SELECT id, player_id, quiz_date, score, created_at
		FROM results
		WHERE player_id = $1
		ORDER BY quiz_date ASC, created_at ASC
	`

	rows, err := r.conn.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results by player: %w", err)
	}
	defer rows.Close()

	var results []*result.Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	return results, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// scanJoined scans result rows that carry the player name as the last column.
func (r *ResultRepository) scanJoined(rows pgx.Rows) ([]result.WithPlayer, error) {
	var joined []result.WithPlayer

	for rows.Next() {
		var wp result.WithPlayer
		var quizDate time.Time
		var score int

		err := rows.Scan(&wp.ID, &wp.PlayerID, &quizDate, &score, &wp.CreatedAt, &wp.PlayerName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan joined result: %w", err)
		}

		wp.QuizDate = result.QuizDateOf(quizDate)
		wp.Score = result.Score(score)
		joined = append(joined, wp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return joined, nil
}

// scanResult scans a bare result row.
func scanResult(rows pgx.Rows) (*result.Result, error) {
	var res result.Result
	var quizDate time.Time
	var score int

	err := rows.Scan(&res.ID, &res.PlayerID, &quizDate, &score, &res.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan result: %w", err)
	}

	res.QuizDate = result.QuizDateOf(quizDate)
	res.Score = result.Score(score)

	return &res, nil
}
