package command

import (
	"context"

	"github.com/pantheon-trivia/pantheon-hub/internal/domain/result"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/shared"
	"github.com/pantheon-trivia/pantheon-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DELETE RESULT COMMAND
// Removes a mistakenly entered result. Deleting an id that no longer exists
// is a reported no-op, not a fatal condition; the operator may have clicked
// twice or another operator got there first.
// ══════════════════════════════════════════════════════════════════════════════

// DeleteResultCommand identifies the result to remove.
type DeleteResultCommand struct {
	// ResultID is the id of the result to delete.
	ResultID string
}

// Validate checks the command.
func (c DeleteResultCommand) Validate() error {
	if c.ResultID == "" {
		return shared.NewDomainError("result", "Delete", shared.ErrEmptyValue, "result id is required")
	}
	return nil
}

// DeleteResultHandler handles the DeleteResultCommand.
type DeleteResultHandler struct {
	resultRepo result.Repository
	cache      CacheInvalidator
	log        *logger.Logger
}

// NewDeleteResultHandler creates a new DeleteResultHandler.
// cache may be nil when the read-side cache is disabled.
func NewDeleteResultHandler(resultRepo result.Repository, cache CacheInvalidator, log *logger.Logger) *DeleteResultHandler {
	if log == nil {
		log = logger.Default()
	}
	return &DeleteResultHandler{
		resultRepo: resultRepo,
		cache:      cache,
		log:        log.With(logger.Component("delete_result")),
	}
}

// Handle deletes the result. Returns shared.ErrResultNotFound (wrapped) when
// the id does not exist; callers report it and move on.
func (h *DeleteResultHandler) Handle(ctx context.Context, cmd DeleteResultCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.resultRepo.DeleteByID(ctx, cmd.ResultID); err != nil {
		if shared.IsNotFound(err) {
			return err
		}
		return shared.WrapError("result", "Delete", shared.ErrStorage, "delete failed", err)
	}

	if h.cache != nil {
		if err := h.cache.InvalidateLeaderboard(ctx); err != nil {
			h.log.Warn("leaderboard cache invalidation failed", logger.Err(err))
		}
	}

	h.log.Info("result deleted", logger.ResultID(cmd.ResultID))
	return nil
}
