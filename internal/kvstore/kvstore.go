// Package kvstore is a single-file JSON key-value blob store. It is the
// flat persistence medium shared by the file-backed task repository and
// the preferences store.
package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File maps string keys to raw JSON values inside one JSON object on
// disk. Every read loads the whole file; every write rewrites it through
// a temp-file rename, which is the only atomicity the medium offers.
// Concurrent writers are not coordinated.
type File struct {
	path string
}

func Open(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string {
	return f.path
}

// Get returns the raw value stored under key. ok is false when the key,
// or the whole file, does not exist yet.
func (f *File) Get(key string) (json.RawMessage, bool, error) {
	entries, err := f.load()
	if err != nil {
		return nil, false, err
	}
	raw, ok := entries[key]
	return raw, ok, nil
}

// Set overwrites the value under key, preserving every other entry.
func (f *File) Set(key string, value json.RawMessage) error {
	entries, err := f.load()
	if err != nil {
		return err
	}
	entries[key] = value
	return f.save(entries)
}

// SetMany overwrites several keys in a single rewrite of the file.
func (f *File) SetMany(values map[string]json.RawMessage) error {
	entries, err := f.load()
	if err != nil {
		return err
	}
	for key, value := range values {
		entries[key] = value
	}
	return f.save(entries)
}

// Delete removes a key. Deleting an absent key is a no-op.
func (f *File) Delete(key string) error {
	entries, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return f.save(entries)
}

func (f *File) load() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read blob store: %w", err)
	}
	entries := make(map[string]json.RawMessage)
	if len(raw) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode blob store: %w", err)
	}
	return entries, nil
}

func (f *File) save(entries map[string]json.RawMessage) error {
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode blob store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create blob store dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write blob store: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace blob store: %w", err)
	}
	return nil
}
