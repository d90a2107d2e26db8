package ports

import (
	"context"
	"errors"

	"punto/internal/domain"
)

// ErrCourtExists is returned by Create when the court name is taken.
var ErrCourtExists = errors.New("court already exists")

// ErrCourtNotFound is returned by Load for unknown court names.
var ErrCourtNotFound = errors.New("court not found")

// CourtStore is the shared-document contract for court records. The
// store is the single source of truth for a court; every client's local
// state is a cache overwritten by what the store delivers.
type CourtStore interface {
	// Create writes the record only if no record exists for its name,
	// returning the stored version, or ErrCourtExists on conflict.
	Create(ctx context.Context, rec domain.CourtRecord) (version string, err error)

	// Save unconditionally overwrites the record (last-write-wins) and
	// returns the new stored version. Callers treat failures as
	// fire-and-forget: log and continue.
	Save(ctx context.Context, rec domain.CourtRecord) (version string, err error)

	// Load fetches the record and its current version by court name, or
	// ErrCourtNotFound.
	Load(ctx context.Context, name string) (domain.CourtRecord, string, error)
}
