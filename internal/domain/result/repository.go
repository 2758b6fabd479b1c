package result

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESULT REPOSITORY INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines the persistence contract for results.
// The implementation lives in the infrastructure layer (PostgreSQL).
// These are the only query shapes the engine needs; anything fancier
// (running aggregates, windowing) happens in memory on the read side.
type Repository interface {
	// Insert persists a new result. Duplicate (player, date) pairs are
	// allowed; only the id is unique.
	Insert(ctx context.Context, r *Result) error

	// DeleteByID removes a result.
	// Returns shared.ErrResultNotFound if the id no longer exists.
	DeleteByID(ctx context.Context, id string) error

	// ListAllWithPlayers returns every result joined with the owning
	// player's name, the raw input for a full aggregation pass.
	// Order is unspecified; the aggregator is order-insensitive.
	ListAllWithPlayers(ctx context.Context) ([]WithPlayer, error)

	// ListByDate returns the results for one quiz date joined with player
	// names, newest entry first. Feeds the admin "recent entries" panel.
	ListByDate(ctx context.Context, date QuizDate) ([]WithPlayer, error)

	// ListByPlayer returns one player's results ordered by quiz date
	// ascending. Feeds the progress graph.
	ListByPlayer(ctx context.Context, playerID string) ([]*Result, error)
}
