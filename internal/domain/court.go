package domain

import (
	"strings"
	"time"
)

// TeamNames holds the display names for both sides of a court.
type TeamNames struct {
	A string `json:"a"`
	B string `json:"b"`
}

// DefaultTeamNames returns the placeholder names used before anyone
// renames a side.
func DefaultTeamNames() TeamNames {
	return TeamNames{A: "Team A", B: "Team B"}
}

// Name returns the display name for the given side.
func (tn TeamNames) Name(s Side) string {
	if s == SideA {
		return tn.A
	}
	return tn.B
}

// SetName updates the display name for the given side. Empty names fall
// back to the default.
func (tn *TeamNames) SetName(s Side, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultTeamNames().Name(s)
	}
	if s == SideA {
		tn.A = name
	} else {
		tn.B = name
	}
}

// CourtRecord is the shared, remotely stored representation of one
// court's full match state. All connected clients treat it as the
// single source of truth; local state is a cache overwritten on every
// remote change.
type CourtRecord struct {
	Name      string    `json:"name"`
	Password  string    `json:"password"`
	Score     Score     `json:"score"`
	History   []Score   `json:"history"`
	TeamNames TeamNames `json:"team_names"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCourtRecord creates a fresh record for a newly registered court.
func NewCourtRecord(name, password string) CourtRecord {
	return CourtRecord{
		Name:      strings.TrimSpace(name),
		Password:  password,
		Score:     DefaultScore(),
		TeamNames: DefaultTeamNames(),
		CreatedAt: time.Now().UTC(),
	}
}

// NormalizeCourtName canonicalizes a court name for storage keys and
// lookups. Court names are unique case-insensitively.
func NormalizeCourtName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
