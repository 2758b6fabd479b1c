// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pantheon-trivia/pantheon-hub/internal/domain/player"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/result"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/shared"
	"github.com/pantheon-trivia/pantheon-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT RESULTS COMMAND
// The operator's entry workflow: a quiz date plus a sheet of (name, score)
// rows. Each row is validated, its player resolved through the directory,
// and a result persisted. Processing stops at the first bad row; rows saved
// before it stay saved, and the result reports both sides.
// ══════════════════════════════════════════════════════════════════════════════

// Entry is one row of the operator's score sheet, still raw.
type Entry struct {
	// Name is the player name exactly as typed.
	Name string

	// RawScore is the score field before parsing.
	RawScore string
}

// isBlank reports whether the row is entirely empty. The entry form keeps a
// trailing empty row for convenience; those rows are skipped, not rejected.
func (e Entry) isBlank() bool {
	return strings.TrimSpace(e.Name) == "" && strings.TrimSpace(e.RawScore) == ""
}

// SubmitResultsCommand contains the data for one save action.
type SubmitResultsCommand struct {
	// QuizDate is the calendar date the scores belong to.
	QuizDate result.QuizDate

	// Entries are the score sheet rows, in entry order.
	Entries []Entry
}

// Validate checks the command shape. Per-entry validation happens during
// processing so that a failure can name the offending player.
func (c SubmitResultsCommand) Validate() error {
	if c.QuizDate.IsZero() {
		return shared.NewDomainError("ingest", "Submit", shared.ErrEmptyValue, "quiz date is required")
	}
	return nil
}

// SavedEntry identifies one persisted result.
type SavedEntry struct {
	// ResultID is the new result's identity.
	ResultID string

	// PlayerID is the resolved player's identity.
	PlayerID string

	// Name is the player name as submitted.
	Name string

	// Score is the validated score.
	Score result.Score
}

// EntryFailure describes the entry that stopped the batch.
type EntryFailure struct {
	// Index is the position of the failing entry in the command.
	Index int

	// Name is the player name on the failing entry.
	Name string

	// Err is the validation or storage error.
	Err error
}

// SubmitResultsResult reports the outcome of a save action. When Failed is
// set, Saved still lists everything persisted before the failure: batches
// are deliberately not atomic, and the caller needs both sides.
type SubmitResultsResult struct {
	// Saved lists the persisted entries in processing order.
	Saved []SavedEntry

	// Skipped counts blank rows that were ignored.
	Skipped int

	// Failed is the entry that aborted the batch, nil on full success.
	Failed *EntryFailure
}

// SavedCount returns how many entries were persisted.
func (r *SubmitResultsResult) SavedCount() int {
	return len(r.Saved)
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// CacheInvalidator drops derived read-side state after a write. The redis
// leaderboard cache implements it; a nil invalidator is a no-op.
type CacheInvalidator interface {
	InvalidateLeaderboard(ctx context.Context) error
}

// SubmitResultsHandler handles the SubmitResultsCommand.
type SubmitResultsHandler struct {
	directory  *player.Directory
	resultRepo result.Repository
	cache      CacheInvalidator
	log        *logger.Logger
}

// NewSubmitResultsHandler creates a new SubmitResultsHandler.
// cache may be nil when the read-side cache is disabled.
func NewSubmitResultsHandler(
	directory *player.Directory,
	resultRepo result.Repository,
	cache CacheInvalidator,
	log *logger.Logger,
) *SubmitResultsHandler {
	if log == nil {
		log = logger.Default()
	}
	return &SubmitResultsHandler{
		directory:  directory,
		resultRepo: resultRepo,
		cache:      cache,
		log:        log.With(logger.Component("submit_results")),
	}
}

// Handle processes the score sheet. Entries are handled independently and in
// order; the first validation or storage failure aborts the rest of the
// batch. The returned SubmitResultsResult is always non-nil and accounts for
// every entry, including on error.
func (h *SubmitResultsHandler) Handle(ctx context.Context, cmd SubmitResultsCommand) (*SubmitResultsResult, error) {
	out := &SubmitResultsResult{}

	if err := cmd.Validate(); err != nil {
		out.Failed = &EntryFailure{Index: -1, Err: err}
		return out, err
	}

	for i, entry := range cmd.Entries {
		if entry.isBlank() {
			out.Skipped++
			continue
		}

		saved, err := h.submitOne(ctx, cmd.QuizDate, entry)
		if err != nil {
			out.Failed = &EntryFailure{Index: i, Name: entry.Name, Err: err}
			h.log.Warn("batch aborted",
				logger.Int("entry_index", i),
				logger.PlayerName(entry.Name),
				logger.Int("saved_before_failure", out.SavedCount()),
				logger.Err(err),
			)
			// Entries saved before the failure are committed; the cached
			// view must not keep serving the pre-batch state.
			h.invalidate(ctx, out.SavedCount())
			return out, err
		}
		out.Saved = append(out.Saved, *saved)
	}

	h.invalidate(ctx, out.SavedCount())

	h.log.Info("results saved",
		logger.QuizDate(cmd.QuizDate.String()),
		logger.ResultCount(out.SavedCount()),
		logger.Int("skipped", out.Skipped),
	)
	return out, nil
}

// submitOne runs the full ingestion pipeline for a single entry:
// validate name, parse score, resolve player, persist result.
func (h *SubmitResultsHandler) submitOne(ctx context.Context, date result.QuizDate, entry Entry) (*SavedEntry, error) {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return nil, shared.NewDomainError("ingest", "Submit", shared.ErrEmptyValue, "player name is required")
	}

	score, err := result.ParseScore(entry.RawScore)
	if err != nil {
		// The message must name the player so the operator can find the row.
		return nil, shared.WrapError("ingest", "Submit", errKind(err),
			fmt.Sprintf("invalid score %q for %s: must be an integer between %d and %d",
				entry.RawScore, name, result.MinScore, result.MaxScore),
			err)
	}

	playerID, err := h.directory.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}

	r := result.New(playerID, date, score)
	if err := h.resultRepo.Insert(ctx, r); err != nil {
		return nil, shared.WrapError("ingest", "Submit", shared.ErrStorage,
			fmt.Sprintf("failed to save result for %s", name), err)
	}

	return &SavedEntry{
		ResultID: r.ID,
		PlayerID: playerID,
		Name:     name,
		Score:    score,
	}, nil
}

// invalidate drops the cached leaderboard after writes. Best effort: a cache
// that cannot be reached only costs the next reader a recompute.
func (h *SubmitResultsHandler) invalidate(ctx context.Context, saved int) {
	if h.cache == nil || saved == 0 {
		return
	}
	if err := h.cache.InvalidateLeaderboard(ctx); err != nil {
		h.log.Warn("leaderboard cache invalidation failed", logger.Err(err))
	}
}

// errKind maps a parse error to its validation kind for wrapping.
func errKind(err error) error {
	switch {
	case errors.Is(err, shared.ErrValueOutOfRange):
		return shared.ErrValueOutOfRange
	case errors.Is(err, shared.ErrInvalidFormat):
		return shared.ErrInvalidFormat
	default:
		return shared.ErrValidation
	}
}
