package domain

import (
	"testing"
	"time"
)

func TestNormalizeCourtName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "Lowercases", in: "Center Court", want: "center court"},
		{name: "TrimsWhitespace", in: "  court 1  ", want: "court 1"},
		{name: "AlreadyCanonical", in: "court 1", want: "court 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeCourtName(tt.in); got != tt.want {
				t.Fatalf("NormalizeCourtName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewCourtRecord(t *testing.T) {
	rec := NewCourtRecord("  Center Court ", "s3cret")

	if rec.Name != "Center Court" {
		t.Fatalf("name = %q, want trimmed original casing", rec.Name)
	}
	if rec.Password != "s3cret" {
		t.Fatalf("password = %q", rec.Password)
	}
	if rec.Score != DefaultScore() {
		t.Fatalf("score = %+v, want zero state", rec.Score)
	}
	if rec.TeamNames != DefaultTeamNames() {
		t.Fatalf("team names = %+v, want defaults", rec.TeamNames)
	}
	if rec.CreatedAt.IsZero() || time.Since(rec.CreatedAt) > time.Minute {
		t.Fatalf("created at = %v, want recent timestamp", rec.CreatedAt)
	}
}

func TestSetNameFallsBackToDefault(t *testing.T) {
	names := DefaultTeamNames()

	names.SetName(SideA, "  Rafa  ")
	if names.A != "Rafa" {
		t.Fatalf("A = %q, want trimmed name", names.A)
	}

	names.SetName(SideA, "   ")
	if names.A != "Team A" {
		t.Fatalf("A = %q, want default restored", names.A)
	}
}
