package app

import "punto/internal/domain"

// EventKind identifies emitted scoring events for dispatch to clients.
type EventKind string

const (
	EventPointScored     EventKind = "point_scored"
	EventGameWon         EventKind = "game_won"
	EventSetWon          EventKind = "set_won"
	EventUndoFlash       EventKind = "undo_flash"
	EventUndoApplied     EventKind = "undo_applied"
	EventScoreReset      EventKind = "score_reset"
	EventTeamRenamed     EventKind = "team_renamed"
	EventCooldownStarted EventKind = "cooldown_started"
	EventResetPrompted   EventKind = "reset_prompted"
	EventMuteToggled     EventKind = "mute_toggled"
	EventBackConfirmed   EventKind = "back_confirmed"
	EventSpectatorMode   EventKind = "spectator_mode"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PointScoredPayload struct {
	Side    domain.Side `json:"side"`
	GameWon bool        `json:"game_won"`
	SetWon  bool        `json:"set_won"`
}

type GameWonPayload struct {
	Side  domain.Side `json:"side"`
	Games int         `json:"games"`
}

type SetWonPayload struct {
	Side domain.Side `json:"side"`
	Sets int         `json:"sets"`
}

// UndoFlashPayload carries the side whose points display should flash.
// It is emitted on every undo request with a last-point marker, even
// when the history is empty and no state changes.
type UndoFlashPayload struct {
	Side domain.Side `json:"side"`
}

type UndoAppliedPayload struct {
	Depth int `json:"depth"` // snapshots remaining after the undo
}

type ScoreResetPayload struct {
	Full bool `json:"full"`
}

type TeamRenamedPayload struct {
	Side domain.Side `json:"side"`
	Name string      `json:"name"`
}

type CooldownStartedPayload struct {
	RemainingMS int64 `json:"remaining_ms"`
}

type ResetPromptedPayload struct{}

type MuteToggledPayload struct{}

type BackConfirmedPayload struct{}

// SpectatorModePayload notifies a client it has been demoted to
// read-only capability.
type SpectatorModePayload struct {
	Reason string `json:"reason"`
}
