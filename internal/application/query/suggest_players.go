package query

import (
	"context"

	"github.com/pantheon-trivia/pantheon-hub/internal/domain/player"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUGGEST PLAYERS QUERY
// Prefix autocomplete for the entry form's name field.
// ══════════════════════════════════════════════════════════════════════════════

// SuggestPlayersQuery contains the autocomplete parameters.
type SuggestPlayersQuery struct {
	// Prefix is what the operator has typed so far.
	Prefix string

	// Limit caps the suggestions; 0 means the directory default of 5.
	Limit int
}

// SuggestPlayersResult contains the matching names.
type SuggestPlayersResult struct {
	// Names are the matches, case-preserving, in the store's natural order.
	Names []string `json:"names"`
}

// SuggestPlayersHandler handles autocomplete reads.
type SuggestPlayersHandler struct {
	directory *player.Directory
}

// NewSuggestPlayersHandler creates a new SuggestPlayersHandler.
func NewSuggestPlayersHandler(directory *player.Directory) *SuggestPlayersHandler {
	return &SuggestPlayersHandler{directory: directory}
}

// Handle returns the names starting with the prefix.
func (h *SuggestPlayersHandler) Handle(ctx context.Context, q SuggestPlayersQuery) (*SuggestPlayersResult, error) {
	names, err := h.directory.Suggest(ctx, q.Prefix, q.Limit)
	if err != nil {
		return nil, err
	}
	return &SuggestPlayersResult{Names: names}, nil
}
