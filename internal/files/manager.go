package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644

	slotExt    = ".json"
	configFile = "config.toml"
)

// ErrSlotNotFound is returned when a slot has never been written.
var ErrSlotNotFound = errors.New("slot not found")

// Manager centralizes where angkat keeps its data on disk. Every persisted
// value lives in a named slot backed by one file under the base directory.
type Manager struct {
	basePath string
	now      func() time.Time
}

// NewManager constructs a Manager rooted at the provided directory. If basePath
// is empty, it falls back to ~/.angkat (or another location determined by
// ResolveBasePath).
func NewManager(basePath string) (*Manager, error) {
	var err error
	if basePath == "" {
		basePath, err = ResolveBasePath()
		if err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	return &Manager{basePath: abs, now: time.Now}, nil
}

// BasePath returns the root directory storing all slots.
func (m *Manager) BasePath() string {
	return m.basePath
}

// SlotPath resolves the file backing the named slot. The file may not exist yet.
func (m *Manager) SlotPath(name string) string {
	return filepath.Join(m.basePath, name+slotExt)
}

// ConfigPath is where the optional TOML configuration is read from.
func (m *Manager) ConfigPath() string {
	return filepath.Join(m.basePath, configFile)
}

// Path joins name onto the base directory unless it is already absolute.
func (m *Manager) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.basePath, name)
}

// EnsureBase creates the base directory if it is missing.
func (m *Manager) EnsureBase() error {
	if m == nil {
		return errors.New("files.Manager is nil")
	}
	if err := os.MkdirAll(m.basePath, dirPermissions); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	return nil
}

// ReadSlot returns the full contents of a slot, or ErrSlotNotFound.
func (m *Manager) ReadSlot(name string) ([]byte, error) {
	if m == nil {
		return nil, errors.New("files.Manager is nil")
	}

	data, err := os.ReadFile(m.SlotPath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrSlotNotFound)
		}
		return nil, fmt.Errorf("read slot %s: %w", name, err)
	}
	return data, nil
}

// WriteSlot replaces a slot's contents atomically: the data is written to a
// temporary file in the same directory, synced, and renamed over the slot.
func (m *Manager) WriteSlot(name string, data []byte) error {
	if err := m.EnsureBase(); err != nil {
		return err
	}
	if err := writeAtomic(m.SlotPath(name), data); err != nil {
		return fmt.Errorf("write slot %s: %w", name, err)
	}
	return nil
}

// QuarantineSlot renames a slot to <slot>.corrupt-<UTC timestamp> and returns
// the new path, so that a reset never discards what was on disk.
func (m *Manager) QuarantineSlot(name string) (string, error) {
	if m == nil {
		return "", errors.New("files.Manager is nil")
	}

	path := m.SlotPath(name)
	target := fmt.Sprintf("%s.corrupt-%s", path, m.now().UTC().Format("20060102T150405"))
	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("quarantine slot %s: %w", name, err)
	}
	return target, nil
}

// WriteFile atomically replaces the file at path, creating missing directories.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) (err error) {
	temp, err := os.CreateTemp(filepath.Dir(path), "angkat-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, ignoreNotExist(os.Remove(temp.Name())))
		}
	}()

	if _, err = temp.Write(data); err != nil {
		return multierr.Append(err, temp.Close())
	}
	if err = temp.Sync(); err != nil {
		return multierr.Append(err, temp.Close())
	}
	if err = temp.Close(); err != nil {
		return err
	}

	mode := os.FileMode(filePermissions)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode()
	}
	if err = os.Chmod(temp.Name(), mode); err != nil {
		return err
	}

	return os.Rename(temp.Name(), path)
}

func ignoreNotExist(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
