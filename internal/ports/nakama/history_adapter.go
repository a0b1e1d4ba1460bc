package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"dominoscore/internal/config"
	"dominoscore/internal/domain"
	"dominoscore/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// archiveValue is the stored shape of an owner's archive.
type archiveValue struct {
	Records []domain.MatchRecord `json:"records"`
}

// NakamaHistoryAdapter keeps score archives in Nakama storage, one object per owner.
type NakamaHistoryAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaHistoryAdapter creates a new history adapter.
func NewNakamaHistoryAdapter(nk runtime.NakamaModule) *NakamaHistoryAdapter {
	return &NakamaHistoryAdapter{nk: nk}
}

func (a *NakamaHistoryAdapter) Load(ctx context.Context, ownerID string) ([]domain.MatchRecord, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is required")
	}
	collection, key := config.HistoryLocation()
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: collection, Key: key, UserID: ownerID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	if len(objects) == 0 {
		return []domain.MatchRecord{}, nil
	}

	var value archiveValue
	if err := json.Unmarshal([]byte(objects[0].GetValue()), &value); err != nil {
		return nil, fmt.Errorf("failed to unmarshal archive: %w", err)
	}
	if value.Records == nil {
		value.Records = []domain.MatchRecord{}
	}
	return value.Records, nil
}

func (a *NakamaHistoryAdapter) Save(ctx context.Context, ownerID string, records []domain.MatchRecord) error {
	write, err := archiveWrite(ownerID, records, "")
	if err != nil {
		return err
	}
	if _, err := a.nk.StorageWrite(ctx, []*runtime.StorageWrite{write}); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	return nil
}

func (a *NakamaHistoryAdapter) Clear(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is required")
	}
	collection, key := config.HistoryLocation()
	return a.nk.StorageDelete(ctx, []*runtime.StorageDelete{
		{Collection: collection, Key: key, UserID: ownerID},
	})
}

// SeedArchiveOnce writes an empty archive only if none exists yet.
func (a *NakamaHistoryAdapter) SeedArchiveOnce(ctx context.Context, userID string) (bool, error) {
	write, err := archiveWrite(userID, nil, "*")
	if err != nil {
		return false, err
	}
	_, _, err = a.nk.MultiUpdate(ctx, nil, []*runtime.StorageWrite{write}, nil, nil, false)
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return false, nil
		}
		return false, fmt.Errorf("failed to seed archive: %w", err)
	}
	return true, nil
}

func archiveWrite(ownerID string, records []domain.MatchRecord, version string) (*runtime.StorageWrite, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is required")
	}
	if records == nil {
		records = []domain.MatchRecord{}
	}
	value, err := json.Marshal(archiveValue{Records: records})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal archive: %w", err)
	}
	collection, key := config.HistoryLocation()
	return &runtime.StorageWrite{
		Collection:      collection,
		Key:             key,
		UserID:          ownerID,
		Value:           string(value),
		Version:         version,
		PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}, nil
}

var (
	_ ports.HistoryStore    = (*NakamaHistoryAdapter)(nil)
	_ ports.ArchiveSeedPort = (*NakamaHistoryAdapter)(nil)
)
