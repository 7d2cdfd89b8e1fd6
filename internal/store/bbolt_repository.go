package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"watchlater/internal/types"
)

var (
	bucketAccounts    = []byte("accounts")
	bucketPreferences = []byte("preferences")
	keyPreferences    = []byte("prefs")
)

type bboltRepository struct {
	db          *bolt.DB
	accounts    AccountStore
	preferences PreferenceStore
}

func NewBboltRepository(path string) (Repository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("repository db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := initBboltSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &bboltRepository{
		db:          db,
		accounts:    &bboltAccountStore{db: db},
		preferences: &bboltPreferenceStore{db: db},
	}, nil
}

func (r *bboltRepository) Accounts() AccountStore {
	return r.accounts
}

func (r *bboltRepository) Preferences() PreferenceStore {
	return r.preferences
}

func (r *bboltRepository) Backend() string {
	return RepositoryBackendBbolt
}

func (r *bboltRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func initBboltSchema(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketAccounts); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketPreferences); err != nil {
			return err
		}
		return nil
	})
}

type bboltAccountStore struct {
	db *bolt.DB
	mu sync.Mutex
}

func (s *bboltAccountStore) List(ctx context.Context) ([]*types.StoredAccount, error) {
	out := make([]*types.StoredAccount, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAccounts)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var account types.StoredAccount
			if err := json.Unmarshal(v, &account); err != nil {
				return err
			}
			out = append(out, &account)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortAccounts(out)
	return out, nil
}

func (s *bboltAccountStore) Get(ctx context.Context, name string) (*types.StoredAccount, bool, error) {
	var (
		out *types.StoredAccount
		ok  bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAccounts)
		if b == nil {
			return nil
		}
		raw := b.Get([]byte(strings.TrimSpace(name)))
		if len(raw) == 0 {
			return nil
		}
		var account types.StoredAccount
		if err := json.Unmarshal(raw, &account); err != nil {
			return err
		}
		out = &account
		ok = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, ok, nil
}

func (s *bboltAccountStore) Upsert(ctx context.Context, account *types.StoredAccount) (*types.StoredAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized, err := normalizeAccount(account)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(normalized)
	if err != nil {
		return nil, err
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAccounts)
		if b == nil {
			return errors.New("accounts bucket missing")
		}
		return b.Put([]byte(normalized.Name), raw)
	}); err != nil {
		return nil, err
	}
	out := *normalized
	return &out, nil
}

func (s *bboltAccountStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := []byte(strings.TrimSpace(name))
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAccounts)
		if b == nil {
			return errors.New("accounts bucket missing")
		}
		if b.Get(key) == nil {
			return ErrNotFound
		}
		return b.Delete(key)
	})
}

type bboltPreferenceStore struct {
	db *bolt.DB
}

func (s *bboltPreferenceStore) Load(ctx context.Context) (*types.Preferences, error) {
	prefs := &types.Preferences{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPreferences)
		if b == nil {
			return nil
		}
		raw := b.Get(keyPreferences)
		if len(raw) == 0 {
			return nil
		}
		return json.Unmarshal(raw, prefs)
	})
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *bboltPreferenceStore) Save(ctx context.Context, prefs *types.Preferences) error {
	if prefs == nil {
		return errors.New("preferences are required")
	}
	raw, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPreferences)
		if b == nil {
			return errors.New("preferences bucket missing")
		}
		return b.Put(keyPreferences, raw)
	})
}
