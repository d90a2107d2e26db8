package app

import (
	"math/rand"
	"time"

	"punto/internal/domain"
)

// Service contains scoreboard use-cases operating on a match session.
// Every scoring operation is total: there are no rejection conditions
// and no error returns.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// AddPoint scores one point for side: a snapshot is pushed first so the
// point can be undone, then the tennis rules run to completion.
func (s *Service) AddPoint(sess *domain.MatchSession, side domain.Side) []Event {
	sess.Snapshot()
	out := sess.Score.AddPoint(side)

	events := []Event{
		{
			Kind:    EventPointScored,
			Payload: PointScoredPayload{Side: side, GameWon: out.GameWon, SetWon: out.SetWon},
		},
	}
	if out.GameWon {
		events = append(events, Event{
			Kind:    EventGameWon,
			Payload: GameWonPayload{Side: side, Games: sess.Score.SideScore(side).Games},
		})
	}
	if out.SetWon {
		events = append(events, Event{
			Kind:    EventSetWon,
			Payload: SetWonPayload{Side: side, Sets: sess.Score.SideScore(side).Sets},
		})
	}
	return events
}

// UndoLastPoint reverts the most recent snapshot. The undo-flash event
// fires before the history-depth guard, so a flash is emitted even when
// nothing can be restored; mutated reports whether state changed and
// therefore whether the caller should persist.
func (s *Service) UndoLastPoint(sess *domain.MatchSession) (events []Event, mutated bool) {
	if sess.Score.LastPointSide != domain.SideNone {
		events = append(events, Event{
			Kind:    EventUndoFlash,
			Payload: UndoFlashPayload{Side: sess.Score.LastPointSide},
		})
	}

	if !sess.PopSnapshot() {
		return events, false
	}

	events = append(events, Event{
		Kind:    EventUndoApplied,
		Payload: UndoAppliedPayload{Depth: len(sess.History)},
	})
	return events, true
}

// ResetScore zeroes the score and history and restores default team
// names. A full reset additionally rotates the court password, forcing
// every scorer to re-validate; newPassword is empty for shallow resets.
func (s *Service) ResetScore(sess *domain.MatchSession, names *domain.TeamNames, full bool) (events []Event, newPassword string) {
	sess.Reset()
	*names = domain.DefaultTeamNames()

	if full {
		newPassword = s.generateCourtPassword()
	}

	return []Event{
		{
			Kind:    EventScoreReset,
			Payload: ScoreResetPayload{Full: full},
		},
	}, newPassword
}

// RenameTeam updates a side's display name.
func (s *Service) RenameTeam(names *domain.TeamNames, side domain.Side, name string) []Event {
	names.SetName(side, name)
	return []Event{
		{
			Kind:    EventTeamRenamed,
			Payload: TeamRenamedPayload{Side: side, Name: names.Name(side)},
		},
	}
}

const courtPasswordAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"

// generateCourtPassword produces a fresh shared secret for a court.
func (s *Service) generateCourtPassword() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = courtPasswordAlphabet[s.rng.Intn(len(courtPasswordAlphabet))]
	}
	return string(b)
}
