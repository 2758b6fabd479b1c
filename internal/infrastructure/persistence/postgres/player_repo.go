package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pantheon-trivia/pantheon-hub/internal/domain/player"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PLAYER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// PlayerRepository implements player.Repository for PostgreSQL.
type PlayerRepository struct {
	conn *Connection
}

// NewPlayerRepository creates a new PlayerRepository.
func NewPlayerRepository(conn *Connection) *PlayerRepository {
	return &PlayerRepository{conn: conn}
}

// FindByName returns the player whose name matches case-insensitively.
// The comparison mirrors the idx_players_name_lower unique index so a name
// that would collide on insert is always found here first.
func (r *PlayerRepository) FindByName(ctx context.Context, name string) (*player.Player, error) {
	query := `
		SELECT id, name, created_at
		FROM players
		WHERE LOWER(name) = LOWER($1)
	`

	row := r.conn.QueryRow(ctx, query, name)
	return r.scanPlayer(row)
}

// GetByID returns a player by ID.
func (r *PlayerRepository) GetByID(ctx context.Context, id string) (*player.Player, error) {
	query := `
		SELECT id, name, created_at
		FROM players
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanPlayer(row)
}

// Create persists a new player. A unique violation on the lowercased name
// index maps to shared.ErrPlayerAlreadyExists so the directory can re-read
// the winner of a concurrent create.
func (r *PlayerRepository) Create(ctx context.Context, p *player.Player) error {
	query := `
		INSERT INTO players (id, name, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.conn.Exec(ctx, query, p.ID, p.Name, p.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrPlayerAlreadyExists
		}
		return fmt.Errorf("failed to create player: %w", err)
	}

	return nil
}

// ListNames returns all player names in insertion order.
func (r *PlayerRepository) ListNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM players
		ORDER BY created_at ASC, name ASC
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list player names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan player name: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// scanPlayer scans a single player from a row.
func (r *PlayerRepository) scanPlayer(row pgx.Row) (*player.Player, error) {
	var p player.Player

	err := row.Scan(&p.ID, &p.Name, &p.CreatedAt)
	if IsNoRows(err) {
		return nil, shared.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}

	return &p, nil
}
