package app

import (
	"testing"

	"punto/internal/domain"
)

func TestParseScanCode(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		want   Action
		wantOK bool
	}{
		{name: "SideA", code: "A", want: Action{Kind: ActionPoint, Side: domain.SideA}, wantOK: true},
		{name: "SideB", code: "B", want: Action{Kind: ActionPoint, Side: domain.SideB}, wantOK: true},
		{name: "Undo", code: "UNDO", want: Action{Kind: ActionUndo}, wantOK: true},
		{name: "Reset", code: "RESET", want: Action{Kind: ActionReset}, wantOK: true},
		{name: "UnknownCode", code: "X", wantOK: false},
		{name: "Empty", code: "", wantOK: false},
		{name: "CaseSensitive", code: "undo", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseScanCode(tt.code)
			if ok != tt.wantOK {
				t.Fatalf("ok = %t, want %t", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("action = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScanGateCooldown(t *testing.T) {
	gate := &ScanGate{}
	cooldown := TicksFor(CooldownMS, 10) // 30 ticks

	if !gate.TryAcquire(100, cooldown) {
		t.Fatalf("idle gate refused first stimulus")
	}
	// Second stimulus inside the window is dropped.
	if gate.TryAcquire(101, cooldown) {
		t.Fatalf("locked gate accepted a stimulus inside the cooldown")
	}
	if gate.TryAcquire(129, cooldown) {
		t.Fatalf("gate reopened one tick early")
	}
	if !gate.TryAcquire(130, cooldown) {
		t.Fatalf("gate still locked after the cooldown elapsed")
	}
}

func TestScanGateRemaining(t *testing.T) {
	gate := &ScanGate{}
	gate.TryAcquire(10, 30)

	if got := gate.RemainingTicks(10); got != 30 {
		t.Fatalf("remaining = %d, want 30", got)
	}
	if got := gate.RemainingTicks(25); got != 15 {
		t.Fatalf("remaining = %d, want 15", got)
	}
	if got := gate.RemainingTicks(40); got != 0 {
		t.Fatalf("remaining = %d, want 0", got)
	}
}

func TestTicksFor(t *testing.T) {
	tests := []struct {
		ms       int64
		tickRate int
		want     int64
	}{
		{3000, 10, 30},
		{550, 10, 6},  // rounds up, never fires early
		{1050, 10, 11},
		{550, 1, 1},
		{0, 10, 0},
	}

	for _, tt := range tests {
		if got := TicksFor(tt.ms, tt.tickRate); got != tt.want {
			t.Fatalf("TicksFor(%d, %d) = %d, want %d", tt.ms, tt.tickRate, got, tt.want)
		}
	}
}

func TestHoldGateFiresAfterDeadline(t *testing.T) {
	gate := NewHoldGate()
	gate.Press("u1", Action{Kind: ActionUndo}, 10, 6)

	if fired := gate.Due(15); len(fired) != 0 {
		t.Fatalf("hold fired before deadline: %+v", fired)
	}

	fired := gate.Due(16)
	if len(fired) != 1 {
		t.Fatalf("fired = %d, want 1", len(fired))
	}
	if fired[0].UserID != "u1" || fired[0].Action.Kind != ActionUndo {
		t.Fatalf("fired = %+v", fired[0])
	}

	// Fired holds are consumed.
	if again := gate.Due(20); len(again) != 0 {
		t.Fatalf("hold fired twice: %+v", again)
	}
}

func TestHoldGateReleaseCancels(t *testing.T) {
	gate := NewHoldGate()
	gate.Press("u1", Action{Kind: ActionReset}, 10, 11)
	gate.Release("u1", ActionReset)

	if fired := gate.Due(30); len(fired) != 0 {
		t.Fatalf("released hold still fired: %+v", fired)
	}
}

func TestHoldGateIndependentUsersAndActions(t *testing.T) {
	gate := NewHoldGate()
	gate.Press("u1", Action{Kind: ActionUndo}, 0, 6)
	gate.Press("u2", Action{Kind: ActionUndo}, 0, 6)
	gate.Press("u1", Action{Kind: ActionMute}, 0, 6)

	gate.Release("u1", ActionUndo)

	fired := gate.Due(6)
	if len(fired) != 2 {
		t.Fatalf("fired = %d, want 2", len(fired))
	}
	for _, f := range fired {
		if f.UserID == "u1" && f.Action.Kind == ActionUndo {
			t.Fatalf("released hold fired: %+v", f)
		}
	}
}

func TestHoldGateRepressReArms(t *testing.T) {
	gate := NewHoldGate()
	gate.Press("u1", Action{Kind: ActionReset}, 0, 11)
	gate.Press("u1", Action{Kind: ActionReset}, 10, 11)

	if fired := gate.Due(11); len(fired) != 0 {
		t.Fatalf("re-armed hold fired on original deadline")
	}
	if fired := gate.Due(21); len(fired) != 1 {
		t.Fatalf("re-armed hold did not fire on new deadline")
	}
}
