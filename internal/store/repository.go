package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"watchlater/internal/types"
)

const (
	RepositoryBackendFile  = "json"
	RepositoryBackendBbolt = "bbolt"
)

var ErrNotFound = errors.New("store: not found")

type AccountStore interface {
	List(ctx context.Context) ([]*types.StoredAccount, error)
	Get(ctx context.Context, name string) (*types.StoredAccount, bool, error)
	Upsert(ctx context.Context, account *types.StoredAccount) (*types.StoredAccount, error)
	Delete(ctx context.Context, name string) error
}

type PreferenceStore interface {
	Load(ctx context.Context) (*types.Preferences, error)
	Save(ctx context.Context, prefs *types.Preferences) error
}

type Repository interface {
	Accounts() AccountStore
	Preferences() PreferenceStore
	Backend() string
	Close() error
}

type RepositoryPaths struct {
	AccountsPath    string
	PreferencesPath string
	DBPath          string
}

type fileRepository struct {
	accounts    AccountStore
	preferences PreferenceStore
}

func NewFileRepository(paths RepositoryPaths) Repository {
	return &fileRepository{
		accounts:    NewFileAccountStore(paths.AccountsPath),
		preferences: NewFilePreferenceStore(paths.PreferencesPath),
	}
}

func (r *fileRepository) Accounts() AccountStore {
	return r.accounts
}

func (r *fileRepository) Preferences() PreferenceStore {
	return r.preferences
}

func (r *fileRepository) Backend() string {
	return RepositoryBackendFile
}

func (r *fileRepository) Close() error {
	return nil
}

func OpenRepository(paths RepositoryPaths, backend string) (Repository, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", RepositoryBackendBbolt:
		if strings.TrimSpace(paths.DBPath) == "" {
			return nil, errors.New("db path is required for bbolt repository")
		}
		return NewBboltRepository(paths.DBPath)
	case RepositoryBackendFile, "file":
		return NewFileRepository(paths), nil
	default:
		return nil, fmt.Errorf("unsupported repository backend: %s", backend)
	}
}

// SeedRepositoryFromFiles copies JSON-backed accounts and preferences into
// dst when dst is still empty, so switching backends keeps signed-in accounts.
func SeedRepositoryFromFiles(ctx context.Context, dst Repository, paths RepositoryPaths) error {
	if dst == nil || dst.Backend() == RepositoryBackendFile {
		return nil
	}
	src := NewFileRepository(paths)
	defer src.Close()

	if err := seedAccounts(ctx, dst.Accounts(), src.Accounts()); err != nil {
		return fmt.Errorf("seed accounts: %w", err)
	}
	if err := seedPreferences(ctx, dst.Preferences(), src.Preferences()); err != nil {
		return fmt.Errorf("seed preferences: %w", err)
	}
	return nil
}

func seedAccounts(ctx context.Context, dst, src AccountStore) error {
	current, err := dst.List(ctx)
	if err != nil {
		return err
	}
	if len(current) > 0 {
		return nil
	}
	legacy, err := src.List(ctx)
	if err != nil {
		return err
	}
	for _, account := range legacy {
		if _, err := dst.Upsert(ctx, account); err != nil {
			return err
		}
	}
	return nil
}

func seedPreferences(ctx context.Context, dst, src PreferenceStore) error {
	current, err := dst.Load(ctx)
	if err != nil {
		return err
	}
	if !isZeroPreferences(current) {
		return nil
	}
	legacy, err := src.Load(ctx)
	if err != nil {
		return err
	}
	if isZeroPreferences(legacy) {
		return nil
	}
	return dst.Save(ctx, legacy)
}

func isZeroPreferences(prefs *types.Preferences) bool {
	return prefs == nil || (prefs.Account == "" && prefs.Playlist == nil)
}

func normalizeAccount(account *types.StoredAccount) (*types.StoredAccount, error) {
	if account == nil {
		return nil, errors.New("account is required")
	}
	name := strings.TrimSpace(account.Name)
	if name == "" {
		return nil, errors.New("account requires name")
	}
	out := *account
	out.Name = name
	if account.Token != nil {
		token := *account.Token
		out.Token = &token
	}
	return &out, nil
}
