package stats

import (
	"sort"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// RANKING VIEW
// Filter, sort, and paginate aggregated stats for display. Pure function of
// its inputs; rank is derived from position in the globally filtered and
// sorted sequence, never from the page-local index.
// ══════════════════════════════════════════════════════════════════════════════

// SortKey selects the descending sort column for the leaderboard.
type SortKey string

const (
	// SortByAverage orders by average score, the default view.
	SortByAverage SortKey = "average"

	// SortByTotal orders by total points.
	SortByTotal SortKey = "total"
)

// IsValid reports whether the sort key is one of the known values.
func (k SortKey) IsValid() bool {
	return k == SortByAverage || k == SortByTotal
}

// DefaultPageSize is how many rows the leaderboard table shows per page.
const DefaultPageSize = 25

// Badge is the display treatment for a rank position.
type Badge string

const (
	// BadgeCrown marks rank 1.
	BadgeCrown Badge = "crown"

	// BadgeMedal marks ranks 2 and 3.
	BadgeMedal Badge = "medal"

	// BadgeNumeric marks every further rank; the numeric position is shown.
	BadgeNumeric Badge = "numeric"
)

// BadgeFor returns the display badge for a 1-indexed rank.
func BadgeFor(rank int) Badge {
	switch rank {
	case 1:
		return BadgeCrown
	case 2, 3:
		return BadgeMedal
	default:
		return BadgeNumeric
	}
}

// Query holds the leaderboard display parameters.
type Query struct {
	// NameFilter is a case-insensitive substring match against names.
	// Empty matches all.
	NameFilter string

	// MinGames is the inclusive lower bound on games played. Default 0.
	MinGames int

	// SortBy selects the descending sort column. Defaults to SortByAverage.
	SortBy SortKey

	// Page is the 1-indexed page number. Values below 1 are treated as 1.
	Page int

	// PageSize is rows per page. Non-positive falls back to DefaultPageSize.
	PageSize int
}

// normalized returns a copy with defaults applied.
func (q Query) normalized() Query {
	if !q.SortBy.IsValid() {
		q.SortBy = SortByAverage
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.MinGames < 0 {
		q.MinGames = 0
	}
	return q
}

// RankedEntry is one display row: a player's stats plus global rank.
type RankedEntry struct {
	// Rank is the 1-indexed position in the filtered, sorted sequence.
	Rank int `json:"rank"`

	// Badge is the display treatment (crown, medal, numeric).
	Badge Badge `json:"badge"`

	PlayerStats
}

// Page is one display-ready slice of the leaderboard.
type Page struct {
	// Entries are the rows for this page, in rank order.
	Entries []RankedEntry `json:"entries"`

	// TotalMatches is the size of the whole filtered set, across all pages.
	TotalMatches int `json:"total_matches"`

	// Page is the 1-indexed page that was requested (after normalization).
	Page int `json:"page"`

	// PageSize is the page size that was applied.
	PageSize int `json:"page_size"`

	// TotalPages is the number of pages in the filtered set.
	TotalPages int `json:"total_pages"`
}

// View filters, sorts, ranks, and paginates aggregated stats.
// A page beyond the available range yields an empty page, never an error.
func View(stats []PlayerStats, q Query) Page {
	q = q.normalized()

	filtered := filter(stats, q.NameFilter, q.MinGames)
	sortStats(filtered, q.SortBy)

	totalPages := (len(filtered) + q.PageSize - 1) / q.PageSize

	start := (q.Page - 1) * q.PageSize
	end := start + q.PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	entries := make([]RankedEntry, 0, end-start)
	for i := start; i < end; i++ {
		rank := i + 1
		entries = append(entries, RankedEntry{
			Rank:        rank,
			Badge:       BadgeFor(rank),
			PlayerStats: filtered[i],
		})
	}

	return Page{
		Entries:      entries,
		TotalMatches: len(filtered),
		Page:         q.Page,
		PageSize:     q.PageSize,
		TotalPages:   totalPages,
	}
}

// filter applies the name substring and minimum-games filters.
func filter(stats []PlayerStats, nameFilter string, minGames int) []PlayerStats {
	needle := strings.ToLower(nameFilter)
	out := make([]PlayerStats, 0, len(stats))
	for _, ps := range stats {
		if minGames > 0 && ps.GamesPlayed < minGames {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(ps.Name), needle) {
			continue
		}
		out = append(out, ps)
	}
	return out
}

// sortStats sorts descending by the chosen key. Ties break by name
// ascending (case-insensitive), then by player ID, so the ordering is
// fully deterministic for equal scores.
func sortStats(stats []PlayerStats, key SortKey) {
	sort.SliceStable(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]

		switch key {
		case SortByTotal:
			if a.TotalScore != b.TotalScore {
				return a.TotalScore > b.TotalScore
			}
		default:
			if a.AverageScore != b.AverageScore {
				return a.AverageScore > b.AverageScore
			}
		}

		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		return a.PlayerID < b.PlayerID
	})
}
