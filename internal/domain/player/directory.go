package player

import (
	"context"

	"github.com/pantheon-trivia/pantheon-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PLAYER DIRECTORY
// Resolves display names to stable identities, creating players on first use,
// and serves the prefix suggestions shown during score entry.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultSuggestionLimit is how many name suggestions the entry form shows.
const DefaultSuggestionLimit = 5

// Directory is the name-to-identity resolution service.
type Directory struct {
	repo Repository
}

// NewDirectory creates a Directory backed by the given repository.
func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo}
}

// Resolve returns the identity of the player with the given name,
// creating the player if none exists yet.
//
// Two concurrent Resolve calls for a new name may both see "not found" and
// both attempt the insert. The store's unique constraint lets exactly one
// win; the loser re-reads the winning row and returns its identity. That
// reconciliation is part of the contract, not optional hardening.
//
// Resolve performs no validation of the name content; rejecting blank
// names is the ingestor's job.
func (d *Directory) Resolve(ctx context.Context, name string) (string, error) {
	existing, err := d.repo.FindByName(ctx, name)
	if err == nil {
		return existing.ID, nil
	}
	if !shared.IsNotFound(err) {
		return "", shared.WrapError("player", "Resolve", shared.ErrStorage, "lookup failed", err)
	}

	p := New(name)
	err = d.repo.Create(ctx, p)
	if err == nil {
		return p.ID, nil
	}

	// Lost the create race: someone else inserted the name between our
	// read and write. The winner's row is authoritative.
	if shared.IsAlreadyExists(err) {
		winner, rerr := d.repo.FindByName(ctx, name)
		if rerr != nil {
			return "", shared.WrapError("player", "Resolve", shared.ErrStorage, "re-read after lost create race failed", rerr)
		}
		return winner.ID, nil
	}

	return "", shared.WrapError("player", "Resolve", shared.ErrStorage, "create failed", err)
}

// ListNames returns all known player names. No ordering guarantee beyond
// what the repository provides (insertion order for the Postgres repo).
func (d *Directory) ListNames(ctx context.Context) ([]string, error) {
	names, err := d.repo.ListNames(ctx)
	if err != nil {
		return nil, shared.WrapError("player", "ListNames", shared.ErrStorage, "list failed", err)
	}
	return names, nil
}

// Suggest returns up to limit player names starting with the given prefix,
// compared case-insensitively and returned case-preserving in the store's
// natural order. A non-positive limit falls back to DefaultSuggestionLimit.
// An empty prefix matches every name, mirroring the entry form behavior.
func (d *Directory) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	names, err := d.ListNames(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]string, 0, limit)
	for _, name := range names {
		if !HasNamePrefix(name, prefix) {
			continue
		}
		matches = append(matches, name)
		if len(matches) == limit {
			break
		}
	}

	return matches, nil
}
