package domain

// Side identifies one of the two competing parties in a match.
type Side string

const (
	// SideA is the first side ("Team A" by default).
	SideA Side = "A"
	// SideB is the second side ("Team B" by default).
	SideB Side = "B"
)

// SideNone marks the absence of a side in the last-change markers.
const SideNone Side = ""

// Valid reports whether the side is one of the two playable sides.
func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

// Opponent returns the opposing side.
func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// AdvantagePoints is the points value representing advantage in deuce.
const AdvantagePoints = 4

// pointLabels maps a points value 0..3 to its tennis display label.
var pointLabels = [4]string{"0", "15", "30", "40"}

// PointLabel returns the display label for a points value ("Ad" for advantage).
func PointLabel(points int) string {
	if points >= AdvantagePoints {
		return "Ad"
	}
	if points < 0 {
		return pointLabels[0]
	}
	return pointLabels[points]
}

// SideScore holds the three scoring tiers for one side.
type SideScore struct {
	Points int `json:"points"`
	Games  int `json:"games"`
	Sets   int `json:"sets"`
}

// Score captures the full scoring state of one match.
//
// The Last*Side markers record the most recent event of each kind. They
// exist for presentation (highlight/animation) and are never consulted
// by the scoring rules.
type Score struct {
	A SideScore `json:"a"`
	B SideScore `json:"b"`

	LastPointSide Side `json:"last_point_side"`
	LastGameSide  Side `json:"last_game_side"`
	LastSetSide   Side `json:"last_set_side"`
}

// DefaultScore returns the zero state of a fresh match.
func DefaultScore() Score {
	return Score{}
}

// Clone returns an independent copy of the score. Score is a pure value
// type, so a plain copy is a deep copy.
func (sc Score) Clone() Score {
	return sc
}

// SideScore returns a pointer to the scoring tiers of the given side.
func (sc *Score) SideScore(s Side) *SideScore {
	if s == SideA {
		return &sc.A
	}
	return &sc.B
}
