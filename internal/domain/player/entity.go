// Package player contains the player identity domain of Pantheon Trivia Hub.
// A player is a uniquely named participant with a stable identity. Names are
// stored exactly as the operator typed them but matched case-insensitively,
// so "hercules" on the score sheet always lands on the same Hercules.
package player

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// PLAYER ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Player represents a uniquely named trivia participant.
type Player struct {
	// ID is the stable opaque identifier (UUID string).
	ID string

	// Name is the display name, stored case-sensitively.
	// Unique across all players under case-insensitive comparison.
	Name string

	// CreatedAt is when the player was first seen on a score sheet.
	CreatedAt time.Time
}

// New creates a new Player with a fresh identity.
// The name is kept exactly as given; only surrounding whitespace is trimmed.
func New(name string) *Player {
	return &Player{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}
}

// NameKey returns the canonical lookup key for a name.
// Two names collide exactly when their keys are equal.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NameMatches reports whether the player's name equals the given name
// under the directory's case-insensitive matching rule.
func (p *Player) NameMatches(name string) bool {
	return NameKey(p.Name) == NameKey(name)
}

// HasNamePrefix reports whether a name starts with the given prefix,
// compared case-insensitively.
func HasNamePrefix(name, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix))
}
