package query

import (
	"context"

	"github.com/pantheon-trivia/pantheon-hub/internal/domain/result"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET RECENT RESULTS QUERY
// The entries already saved for one quiz date, newest first. Shown next to
// the entry form so the operator can spot and delete mistakes immediately.
// ══════════════════════════════════════════════════════════════════════════════

// GetRecentResultsQuery identifies the quiz date.
type GetRecentResultsQuery struct {
	// QuizDate is the calendar date to list.
	QuizDate result.QuizDate
}

// Validate checks the query.
func (q GetRecentResultsQuery) Validate() error {
	if q.QuizDate.IsZero() {
		return shared.NewDomainError("query", "GetRecentResults", shared.ErrEmptyValue, "quiz date is required")
	}
	return nil
}

// RecentResult is one saved entry for the date.
type RecentResult struct {
	// ResultID is the result's identity, used for deletion.
	ResultID string `json:"result_id"`

	// PlayerName is the owning player's display name.
	PlayerName string `json:"player_name"`

	// Score is the recorded score.
	Score int `json:"score"`
}

// GetRecentResultsResult contains the entries for the date, newest first.
type GetRecentResultsResult struct {
	// QuizDate is the requested date, formatted YYYY-MM-DD.
	QuizDate string `json:"quiz_date"`

	// Results are the saved entries in reverse entry order.
	Results []RecentResult `json:"results"`
}

// GetRecentResultsHandler handles recent-entry reads.
type GetRecentResultsHandler struct {
	resultRepo result.Repository
}

// NewGetRecentResultsHandler creates a new GetRecentResultsHandler.
func NewGetRecentResultsHandler(resultRepo result.Repository) *GetRecentResultsHandler {
	return &GetRecentResultsHandler{resultRepo: resultRepo}
}

// Handle lists the saved entries for the date. A date with no entries
// yields an empty list.
func (h *GetRecentResultsHandler) Handle(ctx context.Context, q GetRecentResultsQuery) (*GetRecentResultsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.resultRepo.ListByDate(ctx, q.QuizDate)
	if err != nil {
		return nil, shared.WrapError("query", "GetRecentResults", shared.ErrStorage, "failed to load results", err)
	}

	results := make([]RecentResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, RecentResult{
			ResultID:   row.ID,
			PlayerName: row.PlayerName,
			Score:      int(row.Score),
		})
	}

	return &GetRecentResultsResult{
		QuizDate: q.QuizDate.String(),
		Results:  results,
	}, nil
}
