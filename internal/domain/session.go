package domain

// DefaultHistoryLimit caps the undo history of a session. The original
// scoreboard kept an unbounded history; a drop-oldest cap keeps long
// matches from growing the shared record forever while preserving more
// undo depth than any realistic match needs.
const DefaultHistoryLimit = 500

// MatchSession owns the live score and its undo history for one match.
// It is the single owner of both: nothing else mutates them directly.
type MatchSession struct {
	Score   Score
	History []Score

	limit int
}

// NewMatchSession creates a session with a fresh zero score. A
// historyLimit <= 0 selects DefaultHistoryLimit.
func NewMatchSession(historyLimit int) *MatchSession {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &MatchSession{
		Score: DefaultScore(),
		limit: historyLimit,
	}
}

// Snapshot pushes a copy of the current score onto the history stack,
// dropping the oldest snapshot once the cap is reached.
func (ms *MatchSession) Snapshot() {
	if len(ms.History) >= ms.limit {
		ms.History = append(ms.History[:0], ms.History[1:]...)
	}
	ms.History = append(ms.History, ms.Score.Clone())
}

// PopSnapshot restores the most recent snapshot and reports whether the
// score changed. With an empty history the score is left untouched.
func (ms *MatchSession) PopSnapshot() bool {
	if len(ms.History) == 0 {
		return false
	}
	ms.Score = ms.History[len(ms.History)-1]
	ms.History = ms.History[:len(ms.History)-1]
	return true
}

// Reset replaces the score with the zero state and clears the history.
func (ms *MatchSession) Reset() {
	ms.Score = DefaultScore()
	ms.History = ms.History[:0]
}

// Adopt replaces the session wholesale with a remote snapshot. The
// shared record is the source of truth; local state is only a cache.
func (ms *MatchSession) Adopt(score Score, history []Score) {
	ms.Score = score
	ms.History = append(ms.History[:0], history...)
}
