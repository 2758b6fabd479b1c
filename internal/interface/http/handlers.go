package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pantheon-trivia/pantheon-hub/internal/application/command"
	"github.com/pantheon-trivia/pantheon-hub/internal/application/query"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/result"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/shared"
	"github.com/pantheon-trivia/pantheon-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleHealth returns basic service health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": s.Uptime().String(),
	})
}

// handleLive is the liveness probe: the process is up.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// handleReady is the readiness probe: the database must answer.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Database != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.deps.Database.Ping(ctx); err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "not_ready", "database unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// ══════════════════════════════════════════════════════════════════════════════
// PUBLIC HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetLeaderboard serves the ranked leaderboard page.
//
// Query parameters: name (substring filter), min_games, sort (average|total),
// page, page_size.
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := query.GetLeaderboardQuery{
		NameFilter: getQueryParam(r, "name", ""),
		MinGames:   getQueryParamInt(r, "min_games", 0),
		SortBy:     getQueryParam(r, "sort", ""),
		Page:       getQueryParamInt(r, "page", 1),
		PageSize:   getQueryParamInt(r, "page_size", 0),
	}

	res, err := s.deps.GetLeaderboardHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// handleSuggestPlayers serves name autocomplete for the entry form.
func (s *Server) handleSuggestPlayers(w http.ResponseWriter, r *http.Request) {
	q := query.SuggestPlayersQuery{
		Prefix: getQueryParam(r, "prefix", ""),
		Limit:  getQueryParamInt(r, "limit", 0),
	}

	res, err := s.deps.SuggestPlayersHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// handleGetPlayerHistory serves one player's score timeline.
func (s *Server) handleGetPlayerHistory(w http.ResponseWriter, r *http.Request) {
	q := query.GetPlayerHistoryQuery{PlayerID: r.PathValue("id")}

	res, err := s.deps.GetPlayerHistoryHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// ══════════════════════════════════════════════════════════════════════════════
// OPERATOR HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetRecentResults lists saved entries for one date, newest first.
// The date parameter defaults to today in Málaga.
func (s *Server) handleGetRecentResults(w http.ResponseWriter, r *http.Request) {
	raw := getQueryParam(r, "date", timeutil.TodayString())

	date, err := result.ParseQuizDate(raw)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	res, err := s.deps.GetRecentResultsHandler.Handle(r.Context(), query.GetRecentResultsQuery{QuizDate: date})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// submitResultsRequest is the wire shape of a score sheet submission.
type submitResultsRequest struct {
	// QuizDate is the calendar date, formatted YYYY-MM-DD.
	QuizDate string `json:"quiz_date"`

	// Entries are the score sheet rows.
	Entries []struct {
		Name  string `json:"name"`
		Score string `json:"score"`
	} `json:"entries"`
}

// submitResultsResponse reports what was persisted. Present on failure too:
// batches are not atomic and the operator needs to know what landed.
type submitResultsResponse struct {
	QuizDate string               `json:"quiz_date"`
	Saved    []command.SavedEntry `json:"saved"`
	Skipped  int                  `json:"skipped"`
	Failed   *submitEntryFailure  `json:"failed,omitempty"`
}

// submitEntryFailure is the wire shape of the entry that stopped the batch.
type submitEntryFailure struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// handleSubmitResults saves a score sheet.
func (s *Server) handleSubmitResults(w http.ResponseWriter, r *http.Request) {
	var req submitResultsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	date, err := result.ParseQuizDate(req.QuizDate)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	entries := make([]command.Entry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, command.Entry{Name: e.Name, RawScore: e.Score})
	}

	out, err := s.deps.SubmitResultsHandler.Handle(r.Context(), command.SubmitResultsCommand{
		QuizDate: date,
		Entries:  entries,
	})

	resp := submitResultsResponse{
		QuizDate: date.String(),
		Saved:    out.Saved,
		Skipped:  out.Skipped,
	}
	if out.Failed != nil {
		resp.Failed = &submitEntryFailure{
			Index:   out.Failed.Index,
			Name:    out.Failed.Name,
			Message: out.Failed.Err.Error(),
		}
	}

	if err != nil {
		writeJSON(w, statusForError(err), resp)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// handleDeleteResult removes a single result by id.
func (s *Server) handleDeleteResult(w http.ResponseWriter, r *http.Request) {
	cmd := command.DeleteResultCommand{ResultID: r.PathValue("id")}

	if err := s.deps.DeleteResultHandler.Handle(r.Context(), cmd); err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"deleted": cmd.ResultID})
}

// ══════════════════════════════════════════════════════════════════════════════
// OPERATOR AUTHENTICATION
// ══════════════════════════════════════════════════════════════════════════════

// requireAdmin guards an operator endpoint with the configured key.
// The key travels in a header and is compared against its bcrypt hash,
// so the configuration never holds the key itself.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.config.AdminKeyHash == "" {
			next(w, r)
			return
		}

		key := r.Header.Get(s.config.AdminKeyHeader)
		if key == "" {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "operator key required")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(s.config.AdminKeyHash), []byte(key)); err != nil {
			writeJSONError(w, http.StatusForbidden, "forbidden", "invalid operator key")
			return
		}

		next(w, r)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError maps a domain error to an HTTP status and JSON body.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	code := "internal_error"

	switch {
	case shared.IsNotFound(err):
		code = "not_found"
	case shared.IsValidation(err):
		code = "validation_error"
	case shared.IsAlreadyExists(err):
		code = "conflict"
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		// Storage details stay in the logs.
		message = "An unexpected error occurred"
	}

	writeJSONError(w, status, code, message)
}

// statusForError maps a domain error to an HTTP status code.
func statusForError(err error) int {
	switch {
	case shared.IsNotFound(err):
		return http.StatusNotFound
	case shared.IsValidation(err):
		return http.StatusBadRequest
	case shared.IsAlreadyExists(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
