package domain

// PointOutcome describes what a single point changed beyond the points
// tier itself.
type PointOutcome struct {
	GameWon bool
	SetWon  bool
}

// Minimum games and margin required to win a set. No tie-break is
// modeled; a set is only ever won on a two-game margin.
const (
	gamesToWinSet = 6
	setWinMargin  = 2
)

// AddPoint applies one point for the given side and returns what it
// resolved to. The operation is total: it is valid in every reachable
// state and never fails.
func (sc *Score) AddPoint(side Side) PointOutcome {
	opp := side.Opponent()
	sc.LastPointSide = side

	acting := sc.SideScore(side)
	opposing := sc.SideScore(opp)

	// Deuce/advantage zone: both sides at 40 or better.
	if sc.A.Points >= 3 && sc.B.Points >= 3 {
		if opposing.Points == AdvantagePoints {
			opposing.Points = 3 // back to deuce
			return PointOutcome{}
		}
		if acting.Points == AdvantagePoints {
			return sc.winGame(side)
		}
		acting.Points = AdvantagePoints
		return PointOutcome{}
	}

	acting.Points++
	if acting.Points >= 4 {
		return sc.winGame(side)
	}
	return PointOutcome{}
}

// winGame awards a game to side, resets both point tallies, and checks
// the set-win condition.
func (sc *Score) winGame(side Side) PointOutcome {
	opp := side.Opponent()

	sc.SideScore(side).Games++
	sc.LastGameSide = side

	sc.A.Points = 0
	sc.B.Points = 0

	out := PointOutcome{GameWon: true}
	if sc.SideScore(side).Games >= gamesToWinSet &&
		sc.SideScore(side).Games-sc.SideScore(opp).Games >= setWinMargin {
		sc.winSet(side)
		out.SetWon = true
	}
	return out
}

// winSet awards a set to side and resets both game tallies.
func (sc *Score) winSet(side Side) {
	sc.SideScore(side).Sets++
	sc.LastSetSide = side

	sc.A.Games = 0
	sc.B.Games = 0
}
