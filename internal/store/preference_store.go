package store

import (
	"context"
	"errors"
	"os"
	"sync"

	"watchlater/internal/types"
)

type FilePreferenceStore struct {
	path string
	mu   sync.Mutex
}

func NewFilePreferenceStore(path string) *FilePreferenceStore {
	return &FilePreferenceStore{path: path}
}

func (s *FilePreferenceStore) Load(ctx context.Context) (*types.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := &types.Preferences{}
	err := readJSON(s.path, prefs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return nil, err
	}
	return prefs, nil
}

func (s *FilePreferenceStore) Save(ctx context.Context, prefs *types.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prefs == nil {
		return errors.New("preferences are required")
	}
	return writeJSONAtomic(s.path, prefs)
}
