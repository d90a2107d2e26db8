package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"punto/internal/domain"
	"punto/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

const courtCollection = "courts"

// storageReadWriter is the slice of NakamaModule the store needs.
type storageReadWriter interface {
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
}

// NakamaCourtStore implements ports.CourtStore on Nakama's storage
// engine. One system-owned object per court, keyed by the normalized
// court name; conditional writes use storage versions ("*" means
// create-if-absent, "" means last-write-wins overwrite).
type NakamaCourtStore struct {
	nk storageReadWriter
}

// NewNakamaCourtStore creates a court store backed by Nakama storage.
func NewNakamaCourtStore(nk storageReadWriter) *NakamaCourtStore {
	return &NakamaCourtStore{nk: nk}
}

// Create writes the record only if the court name is free.
func (s *NakamaCourtStore) Create(ctx context.Context, rec domain.CourtRecord) (string, error) {
	acks, err := s.write(ctx, rec, "*")
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return "", ports.ErrCourtExists
		}
		return "", fmt.Errorf("failed to create court record: %w", err)
	}
	return acks, nil
}

// Save unconditionally overwrites the stored record. The last writer
// wins; concurrent score deltas are not merged.
func (s *NakamaCourtStore) Save(ctx context.Context, rec domain.CourtRecord) (string, error) {
	version, err := s.write(ctx, rec, "")
	if err != nil {
		return "", fmt.Errorf("failed to save court record: %w", err)
	}
	return version, nil
}

// Load fetches the record and its storage version by court name.
func (s *NakamaCourtStore) Load(ctx context.Context, name string) (domain.CourtRecord, string, error) {
	objects, err := s.nk.StorageRead(ctx, []*runtime.StorageRead{
		{
			Collection: courtCollection,
			Key:        domain.NormalizeCourtName(name),
		},
	})
	if err != nil {
		return domain.CourtRecord{}, "", fmt.Errorf("failed to read court record: %w", err)
	}
	if len(objects) == 0 {
		return domain.CourtRecord{}, "", ports.ErrCourtNotFound
	}

	var rec domain.CourtRecord
	if err := json.Unmarshal([]byte(objects[0].Value), &rec); err != nil {
		return domain.CourtRecord{}, "", fmt.Errorf("failed to unmarshal court record: %w", err)
	}
	return rec, objects[0].Version, nil
}

func (s *NakamaCourtStore) write(ctx context.Context, rec domain.CourtRecord, version string) (string, error) {
	value, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal court record: %w", err)
	}

	acks, err := s.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      courtCollection,
			Key:             domain.NormalizeCourtName(rec.Name),
			Value:           string(value),
			Version:         version,
			PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		return "", err
	}
	if len(acks) == 0 {
		return "", fmt.Errorf("storage write returned no ack")
	}
	return acks[0].Version, nil
}

var _ ports.CourtStore = (*NakamaCourtStore)(nil)
