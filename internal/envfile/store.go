package envfile

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
)

const (
	envFileMode = 0600

	backupTimeFormat = "20060102-150405"
)

// Store persists credential values to an env file
type Store struct {
	fs  afero.Fs
	now func() time.Time
}

// NewStore creates a new env file store
func NewStore(fs afero.Fs) Store {
	return Store{fs, time.Now}
}

// NewStoreWithClock creates a new env file store with the provided
// clock, used to stamp backup file names
func NewStoreWithClock(fs afero.Fs, now func() time.Time) Store {
	return Store{fs, now}
}

// Save merges the provided values into the env file at path and
// writes it back with owner-only permissions, returning the path of
// the backup taken beforehand ("" when no file existed)
//
// A value is adopted only for keys the existing file does not already
// hold a non-empty value for; this keeps keychain command references
// already on disk from being replaced by freshly resolved plaintext
func (s Store) Save(path string, newValues map[string]string) (string, error) {
	baseline, loadErr := Load(s.fs, path)
	if loadErr != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, loadErr)
	}

	for key, value := range newValues {
		if baseline[key] != "" {
			continue
		}
		baseline[key] = value
	}

	exists, existsErr := afero.Exists(s.fs, path)
	if existsErr != nil {
		return "", existsErr
	}

	var backupPath string
	if exists {
		backupPath = fmt.Sprintf("%s.backup.%s", path, s.now().Format(backupTimeFormat))
		raw, readErr := afero.ReadFile(s.fs, path)
		if readErr != nil {
			return "", fmt.Errorf("failed to back up %s: %w", path, readErr)
		}
		if err := afero.WriteFile(s.fs, backupPath, raw, envFileMode); err != nil {
			return "", fmt.Errorf("failed to back up %s: %w", path, err)
		}
	}

	if err := afero.WriteFile(s.fs, path, Format(baseline), envFileMode); err != nil {
		return backupPath, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := s.fs.Chmod(path, envFileMode); err != nil {
		return backupPath, fmt.Errorf("failed to restrict permissions on %s: %w", path, err)
	}
	return backupPath, nil
}
