package store

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"

	"watchlater/internal/types"
)

type accountsFile struct {
	Accounts []*types.StoredAccount `json:"accounts"`
}

type FileAccountStore struct {
	path string
	mu   sync.Mutex
}

func NewFileAccountStore(path string) *FileAccountStore {
	return &FileAccountStore{path: path}
}

func (s *FileAccountStore) List(ctx context.Context) ([]*types.StoredAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := s.load()
	if err != nil {
		return nil, err
	}
	return file.Accounts, nil
}

func (s *FileAccountStore) Get(ctx context.Context, name string) (*types.StoredAccount, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := s.load()
	if err != nil {
		return nil, false, err
	}
	name = strings.TrimSpace(name)
	for _, account := range file.Accounts {
		if account.Name == name {
			return account, true, nil
		}
	}
	return nil, false, nil
}

func (s *FileAccountStore) Upsert(ctx context.Context, account *types.StoredAccount) (*types.StoredAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	normalized, err := normalizeAccount(account)
	if err != nil {
		return nil, err
	}
	file, err := s.load()
	if err != nil {
		return nil, err
	}
	replaced := false
	for i, existing := range file.Accounts {
		if existing.Name == normalized.Name {
			file.Accounts[i] = normalized
			replaced = true
			break
		}
	}
	if !replaced {
		file.Accounts = append(file.Accounts, normalized)
	}
	sortAccounts(file.Accounts)
	if err := writeJSONAtomic(s.path, file); err != nil {
		return nil, err
	}
	out := *normalized
	return &out, nil
}

func (s *FileAccountStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := s.load()
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	kept := file.Accounts[:0]
	found := false
	for _, account := range file.Accounts {
		if account.Name == name {
			found = true
			continue
		}
		kept = append(kept, account)
	}
	if !found {
		return ErrNotFound
	}
	file.Accounts = kept
	return writeJSONAtomic(s.path, file)
}

func (s *FileAccountStore) load() (*accountsFile, error) {
	file := &accountsFile{}
	if err := readJSON(s.path, file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &accountsFile{}, nil
		}
		return nil, err
	}
	out := file.Accounts[:0]
	for _, account := range file.Accounts {
		if account != nil && account.Name != "" {
			out = append(out, account)
		}
	}
	file.Accounts = out
	return file, nil
}

func sortAccounts(accounts []*types.StoredAccount) {
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Name < accounts[j].Name
	})
}
