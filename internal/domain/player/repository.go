package player

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// PLAYER REPOSITORY INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines the persistence contract for players.
// The implementation lives in the infrastructure layer (PostgreSQL).
//
// The store must enforce case-insensitive uniqueness on the name column;
// the Directory relies on that constraint to settle concurrent creates.
type Repository interface {
	// FindByName returns the player whose name matches case-insensitively.
	// Returns shared.ErrPlayerNotFound if no such player exists.
	FindByName(ctx context.Context, name string) (*Player, error)

	// GetByID returns the player with the given identity.
	// Returns shared.ErrPlayerNotFound if no such player exists.
	GetByID(ctx context.Context, id string) (*Player, error)

	// Create persists a new player.
	// Returns shared.ErrPlayerAlreadyExists when another player already
	// holds the name under case-insensitive comparison.
	Create(ctx context.Context, p *Player) error

	// ListNames returns all known player names in insertion order.
	ListNames(ctx context.Context) ([]string, error)
}
