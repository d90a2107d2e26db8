package app

import "punto/internal/domain"

// ActionKind enumerates the operations external stimuli can trigger.
type ActionKind string

const (
	ActionPoint ActionKind = "point"
	ActionUndo  ActionKind = "undo"
	ActionReset ActionKind = "reset"
	ActionBack  ActionKind = "back"
	ActionMute  ActionKind = "mute"
)

// Action is a tagged variant resolved through explicit switches. Side is
// only meaningful for ActionPoint; Full only for ActionReset (full reset
// rotates the court password, shallow leaves it alone).
type Action struct {
	Kind ActionKind
	Side domain.Side
	Full bool
}

// Scan token values carried by tags. Configuration detail, not a
// protocol requirement.
const (
	scanCodeSideA = "A"
	scanCodeSideB = "B"
	scanCodeUndo  = "UNDO"
	scanCodeReset = "RESET"
)

// ParseScanCode maps an opaque scanned code to an action. Unknown codes
// return ok=false and are ignored by callers.
func ParseScanCode(code string) (Action, bool) {
	switch code {
	case scanCodeSideA:
		return Action{Kind: ActionPoint, Side: domain.SideA}, true
	case scanCodeSideB:
		return Action{Kind: ActionPoint, Side: domain.SideB}, true
	case scanCodeUndo:
		return Action{Kind: ActionUndo}, true
	case scanCodeReset:
		return Action{Kind: ActionReset}, true
	default:
		return Action{}, false
	}
}

// CooldownMS is the fixed dead-time window for scan-based input. Manual
// tap input is never gated by it.
const CooldownMS = 3000

// TicksFor converts a millisecond duration to match-loop ticks, rounding
// up so a timer never fires early.
func TicksFor(ms int64, tickRate int) int64 {
	if ms <= 0 {
		return 0
	}
	return (ms*int64(tickRate) + 999) / 1000
}

// ScanGate is the per-channel cooldown state machine: Idle -> Locked on
// trigger -> Idle once the cooldown elapses. While locked, stimuli are
// silently dropped.
type ScanGate struct {
	lockedUntil int64 // tick at which the gate reopens; 0 when idle
}

// TryAcquire locks the gate for cooldownTicks and reports whether the
// caller may proceed. A locked gate refuses.
func (g *ScanGate) TryAcquire(tick, cooldownTicks int64) bool {
	if g.Locked(tick) {
		return false
	}
	g.lockedUntil = tick + cooldownTicks
	return true
}

// Locked reports whether the gate is inside its cooldown window.
func (g *ScanGate) Locked(tick int64) bool {
	return g.lockedUntil > tick
}

// RemainingTicks returns how long the gate stays locked from tick.
func (g *ScanGate) RemainingTicks(tick int64) int64 {
	if !g.Locked(tick) {
		return 0
	}
	return g.lockedUntil - tick
}

type holdKey struct {
	userID string
	kind   ActionKind
}

// PendingHold is a hold-to-confirm press that reached its deadline.
type PendingHold struct {
	UserID string
	Action Action
}

type armedHold struct {
	action   Action
	deadline int64
}

// HoldGate tracks hold-to-confirm presses for destructive actions. A
// press arms a deadline; releasing before the deadline cancels with no
// effect, and the action fires once the deadline elapses while still
// held.
type HoldGate struct {
	pending map[holdKey]armedHold
}

// NewHoldGate creates an empty hold gate.
func NewHoldGate() *HoldGate {
	return &HoldGate{pending: make(map[holdKey]armedHold)}
}

// Press arms action for userID with a deadline holdTicks from tick. A
// repeated press re-arms the deadline.
func (g *HoldGate) Press(userID string, action Action, tick, holdTicks int64) {
	g.pending[holdKey{userID: userID, kind: action.Kind}] = armedHold{
		action:   action,
		deadline: tick + holdTicks,
	}
}

// Release cancels a pending press, if any.
func (g *HoldGate) Release(userID string, kind ActionKind) {
	delete(g.pending, holdKey{userID: userID, kind: kind})
}

// Due removes and returns every press whose deadline has elapsed at
// tick.
func (g *HoldGate) Due(tick int64) []PendingHold {
	var fired []PendingHold
	for key, hold := range g.pending {
		if tick >= hold.deadline {
			fired = append(fired, PendingHold{UserID: key.userID, Action: hold.action})
			delete(g.pending, key)
		}
	}
	return fired
}
