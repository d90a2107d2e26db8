package domain

import (
	"reflect"
	"testing"
)

func TestSnapshotUndoRoundTrip(t *testing.T) {
	starts := []Score{
		DefaultScore(),
		scoreAt(2, 1, 3, 2),
		scoreAt(3, 3, 5, 5),
		{A: SideScore{Points: 4, Games: 5, Sets: 1}, B: SideScore{Points: 3, Games: 5, Sets: 1}, LastPointSide: SideA},
	}

	for i, start := range starts {
		sess := NewMatchSession(0)
		sess.Score = start

		sess.Snapshot()
		sess.Score.AddPoint(SideA)

		if !sess.PopSnapshot() {
			t.Fatalf("case %d: PopSnapshot reported no change", i)
		}
		if !reflect.DeepEqual(sess.Score, start) {
			t.Fatalf("case %d: restored score = %+v, want %+v", i, sess.Score, start)
		}
	}
}

func TestPopSnapshotEmptyHistoryIsNoOp(t *testing.T) {
	sess := NewMatchSession(0)
	sess.Score = scoreAt(2, 2, 1, 0)
	before := sess.Score

	if sess.PopSnapshot() {
		t.Fatalf("PopSnapshot on empty history reported a change")
	}
	if !reflect.DeepEqual(sess.Score, before) {
		t.Fatalf("score mutated by empty pop: %+v", sess.Score)
	}
}

func TestSnapshotCapDropsOldest(t *testing.T) {
	sess := NewMatchSession(3)

	for i := 0; i < 5; i++ {
		sess.Score.A.Points = i
		sess.Snapshot()
	}

	if len(sess.History) != 3 {
		t.Fatalf("history length = %d, want 3", len(sess.History))
	}
	// Oldest retained snapshot should be the third push (points=2).
	if sess.History[0].A.Points != 2 {
		t.Fatalf("oldest snapshot points = %d, want 2", sess.History[0].A.Points)
	}
	if sess.History[2].A.Points != 4 {
		t.Fatalf("newest snapshot points = %d, want 4", sess.History[2].A.Points)
	}
}

func TestSessionReset(t *testing.T) {
	sess := NewMatchSession(0)
	sess.Score = scoreAt(3, 2, 4, 1)
	sess.Snapshot()
	sess.Snapshot()

	sess.Reset()

	if !reflect.DeepEqual(sess.Score, DefaultScore()) {
		t.Fatalf("score after reset = %+v, want zero state", sess.Score)
	}
	if len(sess.History) != 0 {
		t.Fatalf("history length after reset = %d, want 0", len(sess.History))
	}
}

func TestAdoptReplacesWholesale(t *testing.T) {
	sess := NewMatchSession(0)
	sess.Score = scoreAt(1, 1, 0, 0)
	sess.Snapshot()

	remote := scoreAt(0, 3, 2, 5)
	remoteHistory := []Score{scoreAt(0, 2, 2, 5), scoreAt(0, 3, 2, 4)}

	sess.Adopt(remote, remoteHistory)

	if !reflect.DeepEqual(sess.Score, remote) {
		t.Fatalf("adopted score = %+v, want %+v", sess.Score, remote)
	}
	if !reflect.DeepEqual(sess.History, remoteHistory) {
		t.Fatalf("adopted history = %+v, want %+v", sess.History, remoteHistory)
	}
}
