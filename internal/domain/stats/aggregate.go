// Package stats contains the pure computation core of Pantheon Trivia Hub:
// the fold that turns raw results into per-player aggregates, and the
// ranking view that shapes those aggregates for display. Nothing in this
// package touches storage or holds state between calls; every read request
// recomputes from the full raw result set.
package stats

import (
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/result"
)

// ══════════════════════════════════════════════════════════════════════════════
// PLAYER STATS
// ══════════════════════════════════════════════════════════════════════════════

// PlayerStats is the derived per-player aggregate. It is owned by the
// aggregation pass that produced it and is never persisted.
type PlayerStats struct {
	// PlayerID is the owning player's identity.
	PlayerID string `json:"player_id"`

	// Name is the player's display name.
	Name string `json:"name"`

	// TotalScore is the sum of the player's scores.
	TotalScore int `json:"total_score"`

	// GamesPlayed is the number of results the player owns.
	GamesPlayed int `json:"games_played"`

	// AverageScore is TotalScore / GamesPlayed using real division.
	// Display rounding is the caller's concern, not the aggregator's.
	AverageScore float64 `json:"average_score"`
}

// ══════════════════════════════════════════════════════════════════════════════
// AGGREGATOR
// ══════════════════════════════════════════════════════════════════════════════

// Aggregate folds raw results into one PlayerStats per distinct player.
//
// The names mapping supplies display names; results whose player is absent
// from the mapping are skipped, mirroring the store's join semantics where
// an orphaned row simply drops out. Players with zero results never appear
// in the output, so GamesPlayed is always positive and the average is
// always defined.
//
// The fold is order-insensitive: any permutation of the same input multiset
// produces the same output set. Output order is unspecified; callers sort.
func Aggregate(results []*result.Result, names map[string]string) []PlayerStats {
	byPlayer := make(map[string]*PlayerStats, len(names))
	order := make([]string, 0, len(names))

	for _, r := range results {
		name, ok := names[r.PlayerID]
		if !ok {
			continue
		}

		ps, seen := byPlayer[r.PlayerID]
		if !seen {
			ps = &PlayerStats{PlayerID: r.PlayerID, Name: name}
			byPlayer[r.PlayerID] = ps
			order = append(order, r.PlayerID)
		}

		ps.TotalScore += int(r.Score)
		ps.GamesPlayed++
	}

	out := make([]PlayerStats, 0, len(order))
	for _, id := range order {
		ps := byPlayer[id]
		ps.AverageScore = float64(ps.TotalScore) / float64(ps.GamesPlayed)
		out = append(out, *ps)
	}

	return out
}

// AggregateJoined folds store rows that already carry the player name,
// the shape Repository.ListAllWithPlayers returns.
func AggregateJoined(rows []result.WithPlayer) []PlayerStats {
	results := make([]*result.Result, 0, len(rows))
	names := make(map[string]string, len(rows))
	for i := range rows {
		results = append(results, &rows[i].Result)
		names[rows[i].PlayerID] = rows[i].PlayerName
	}
	return Aggregate(results, names)
}

// ══════════════════════════════════════════════════════════════════════════════
// OVERVIEW
// ══════════════════════════════════════════════════════════════════════════════

// Overview is the headline numbers for the landing page stat cards.
type Overview struct {
	// TopTotalScore is the highest total score across all players.
	TopTotalScore int `json:"top_total_score"`

	// PlayerCount is the number of players with at least one result.
	PlayerCount int `json:"player_count"`

	// GamesPlayed is the total number of results recorded.
	GamesPlayed int `json:"games_played"`
}

// Summarize computes the overview from an aggregation pass.
func Summarize(stats []PlayerStats) Overview {
	var ov Overview
	ov.PlayerCount = len(stats)
	for _, ps := range stats {
		if ps.TotalScore > ov.TopTotalScore {
			ov.TopTotalScore = ps.TotalScore
		}
		ov.GamesPlayed += ps.GamesPlayed
	}
	return ov
}
