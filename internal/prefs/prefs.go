// Package prefs persists the app's two user settings in the shared blob
// store, with documented defaults for keys that were never written.
package prefs

import (
	"encoding/json"
	"fmt"

	"github.com/sandeepkv93/dayplan/internal/kvstore"
	"github.com/sandeepkv93/dayplan/internal/model"
	"github.com/sandeepkv93/dayplan/internal/storage"
)

const (
	keyRemindersEnabled = "remindersEnabled"
	keyStorageMethod    = "storageMethod"
)

const defaultRemindersEnabled = true

// Store reads and writes preference keys. storageMethod has no fixed
// default: it falls back to the name of whichever task backend the
// platform bound, resolved lazily through defaultMethod.
type Store struct {
	blob          *kvstore.File
	defaultMethod func() (string, error)
}

func New(blob *kvstore.File, defaultMethod func() (string, error)) *Store {
	return &Store{blob: blob, defaultMethod: defaultMethod}
}

// RemindersEnabled returns the stored flag, defaulting to true.
func (s *Store) RemindersEnabled() (bool, error) {
	raw, ok, err := s.blob.Get(keyRemindersEnabled)
	if err != nil {
		return false, fmt.Errorf("%w: %v", storage.ErrStorageUnavailable, err)
	}
	if !ok {
		return defaultRemindersEnabled, nil
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, fmt.Errorf("%w: decode %s: %v", storage.ErrStorageUnavailable, keyRemindersEnabled, err)
	}
	return v, nil
}

func (s *Store) SetRemindersEnabled(v bool) error {
	return s.set(keyRemindersEnabled, v)
}

// StorageMethod returns the stored label, defaulting to the active task
// backend's name.
func (s *Store) StorageMethod() (string, error) {
	raw, ok, err := s.blob.Get(keyStorageMethod)
	if err != nil {
		return "", fmt.Errorf("%w: %v", storage.ErrStorageUnavailable, err)
	}
	if !ok {
		return s.defaultMethod()
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("%w: decode %s: %v", storage.ErrStorageUnavailable, keyStorageMethod, err)
	}
	return v, nil
}

func (s *Store) SetStorageMethod(v string) error {
	return s.set(keyStorageMethod, v)
}

// ResetToDefaults rewrites every recognized key back to its default in
// one write of the blob file.
func (s *Store) ResetToDefaults() error {
	method, err := s.defaultMethod()
	if err != nil {
		return err
	}
	enabledRaw, err := json.Marshal(defaultRemindersEnabled)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", storage.ErrWriteFailed, keyRemindersEnabled, err)
	}
	methodRaw, err := json.Marshal(method)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", storage.ErrWriteFailed, keyStorageMethod, err)
	}
	err = s.blob.SetMany(map[string]json.RawMessage{
		keyRemindersEnabled: enabledRaw,
		keyStorageMethod:    methodRaw,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrWriteFailed, err)
	}
	return nil
}

// All is the aggregate read of both settings.
func (s *Store) All() (model.Preferences, error) {
	enabled, err := s.RemindersEnabled()
	if err != nil {
		return model.Preferences{}, err
	}
	method, err := s.StorageMethod()
	if err != nil {
		return model.Preferences{}, err
	}
	return model.Preferences{RemindersEnabled: enabled, StorageMethod: method}, nil
}

func (s *Store) set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", storage.ErrWriteFailed, key, err)
	}
	if err := s.blob.Set(key, raw); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrWriteFailed, err)
	}
	return nil
}
