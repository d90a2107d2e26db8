package domain

import (
	"reflect"
	"testing"
)

func TestOpponent(t *testing.T) {
	if SideA.Opponent() != SideB {
		t.Fatalf("Opponent(A) = %q, want B", SideA.Opponent())
	}
	if SideB.Opponent() != SideA {
		t.Fatalf("Opponent(B) = %q, want A", SideB.Opponent())
	}
}

func TestSideValid(t *testing.T) {
	tests := []struct {
		side Side
		want bool
	}{
		{SideA, true},
		{SideB, true},
		{SideNone, false},
		{Side("C"), false},
	}

	for _, tt := range tests {
		if got := tt.side.Valid(); got != tt.want {
			t.Fatalf("Valid(%q) = %t, want %t", tt.side, got, tt.want)
		}
	}
}

func TestPointLabel(t *testing.T) {
	tests := []struct {
		points int
		want   string
	}{
		{0, "0"},
		{1, "15"},
		{2, "30"},
		{3, "40"},
		{4, "Ad"},
	}

	for _, tt := range tests {
		if got := PointLabel(tt.points); got != tt.want {
			t.Fatalf("PointLabel(%d) = %q, want %q", tt.points, got, tt.want)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	original := scoreAt(3, 3, 4, 2)
	original.LastPointSide = SideB

	clone := original.Clone()
	clone.AddPoint(SideA)

	if reflect.DeepEqual(original, clone) {
		t.Fatalf("mutating the clone affected the original")
	}
	if original.A.Points != 3 || original.LastPointSide != SideB {
		t.Fatalf("original mutated: %+v", original)
	}
}
