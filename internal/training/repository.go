package training

import (
	"context"
	"errors"
	"fmt"

	"github.com/faizmokh/angkat/internal/files"
)

// LogsSlot is the storage slot holding the encoded Store.
const LogsSlot = "logs"

// Repository loads and saves the training log through the shared files.Manager.
type Repository struct {
	manager *files.Manager
}

// NewRepository wires a repository to the data directory managed by manager.
func NewRepository(manager *files.Manager) *Repository {
	return &Repository{manager: manager}
}

// Load reads the logs slot. A missing slot is an empty store; unreadable
// content wraps ErrStorageCorrupt. Load, Save and Quarantine fail with
// ctx.Err() without touching the disk once ctx is done.
func (r *Repository) Load(ctx context.Context) (Store, error) {
	if r == nil || r.manager == nil {
		return Store{}, errors.New("repository not initialized with file manager")
	}
	if err := ctx.Err(); err != nil {
		return Store{}, err
	}

	data, err := r.manager.ReadSlot(LogsSlot)
	if err != nil {
		if errors.Is(err, files.ErrSlotNotFound) {
			return Store{}, nil
		}
		return Store{}, err
	}
	return Decode(data)
}

// Save replaces the logs slot with store. The write is atomic: readers see
// either the previous or the new log, never a partial file.
func (r *Repository) Save(ctx context.Context, store Store) error {
	if r == nil || r.manager == nil {
		return errors.New("repository not initialized with file manager")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(store)
	if err != nil {
		return fmt.Errorf("encode log: %w", err)
	}
	return r.manager.WriteSlot(LogsSlot, data)
}

// Quarantine moves an unreadable logs slot aside and returns its new path.
func (r *Repository) Quarantine(ctx context.Context) (string, error) {
	if r == nil || r.manager == nil {
		return "", errors.New("repository not initialized with file manager")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return r.manager.QuarantineSlot(LogsSlot)
}
