package query

import (
	"context"

	"github.com/pantheon-trivia/pantheon-hub/internal/domain/player"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/result"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PLAYER HISTORY QUERY
// One player's scores over time, oldest first. Feeds the progress graph
// shown when a leaderboard row is expanded.
// ══════════════════════════════════════════════════════════════════════════════

// GetPlayerHistoryQuery identifies the player.
type GetPlayerHistoryQuery struct {
	// PlayerID is the player's identity.
	PlayerID string
}

// Validate checks the query.
func (q GetPlayerHistoryQuery) Validate() error {
	if q.PlayerID == "" {
		return shared.NewDomainError("query", "GetPlayerHistory", shared.ErrEmptyValue, "player id is required")
	}
	return nil
}

// HistoryPoint is one quiz night on the graph.
type HistoryPoint struct {
	// QuizDate is the calendar date, formatted YYYY-MM-DD.
	QuizDate string `json:"quiz_date"`

	// Score is the score on that night.
	Score int `json:"score"`
}

// GetPlayerHistoryResult contains the player's score timeline.
type GetPlayerHistoryResult struct {
	// PlayerID is the player's identity.
	PlayerID string `json:"player_id"`

	// Name is the player's display name.
	Name string `json:"name"`

	// Points are the scores ordered by quiz date ascending.
	Points []HistoryPoint `json:"points"`
}

// GetPlayerHistoryHandler handles player history reads.
type GetPlayerHistoryHandler struct {
	playerRepo player.Repository
	resultRepo result.Repository
}

// NewGetPlayerHistoryHandler creates a new GetPlayerHistoryHandler.
func NewGetPlayerHistoryHandler(playerRepo player.Repository, resultRepo result.Repository) *GetPlayerHistoryHandler {
	return &GetPlayerHistoryHandler{
		playerRepo: playerRepo,
		resultRepo: resultRepo,
	}
}

// Handle returns the player's score timeline. An unknown player id yields
// shared.ErrPlayerNotFound; a known player with no results yields an empty
// timeline, not an error.
func (h *GetPlayerHistoryHandler) Handle(ctx context.Context, q GetPlayerHistoryQuery) (*GetPlayerHistoryResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	p, err := h.playerRepo.GetByID(ctx, q.PlayerID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, err
		}
		return nil, shared.WrapError("query", "GetPlayerHistory", shared.ErrStorage, "player lookup failed", err)
	}

	results, err := h.resultRepo.ListByPlayer(ctx, q.PlayerID)
	if err != nil {
		return nil, shared.WrapError("query", "GetPlayerHistory", shared.ErrStorage, "failed to load results", err)
	}

	points := make([]HistoryPoint, 0, len(results))
	for _, r := range results {
		points = append(points, HistoryPoint{
			QuizDate: r.QuizDate.String(),
			Score:    int(r.Score),
		})
	}

	return &GetPlayerHistoryResult{
		PlayerID: p.ID,
		Name:     p.Name,
		Points:   points,
	}, nil
}
