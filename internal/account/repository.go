// Package account keeps the signed-in Google accounts and hands out access
// tokens for them.
package account

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"watchlater/internal/livedata"
	"watchlater/internal/logging"
	"watchlater/internal/store"
	"watchlater/internal/types"
)

const (
	ScopeYouTube   = "https://www.googleapis.com/auth/youtube"
	ScopeUserEmail = "https://www.googleapis.com/auth/userinfo.email"

	defaultUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// OAuthConfig is the installed-app client configuration for Google.
func OAuthConfig(clientID, clientSecret string, redirectPort int) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  fmt.Sprintf("http://127.0.0.1:%d/callback", redirectPort),
		Scopes:       []string{ScopeYouTube, ScopeUserEmail},
	}
}

type Repository struct {
	store       store.Repository
	oauth       *oauth2.Config
	httpClient  *http.Client
	userInfoURL string
	logger      logging.Logger
	now         func() time.Time

	account *livedata.Value[*types.Account]

	mu      sync.Mutex
	pending map[string]string
}

type Option func(*Repository)

// WithHTTPClient sets the client used for token endpoints and userinfo.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Repository) {
		if client != nil {
			r.httpClient = client
		}
	}
}

func WithUserInfoURL(url string) Option {
	return func(r *Repository) {
		if strings.TrimSpace(url) != "" {
			r.userInfoURL = strings.TrimSpace(url)
		}
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewRepository(repo store.Repository, cfg *oauth2.Config, opts ...Option) *Repository {
	r := &Repository{
		store:       repo,
		oauth:       cfg,
		httpClient:  http.DefaultClient,
		userInfoURL: defaultUserInfoURL,
		logger:      logging.Nop(),
		now:         time.Now,
		account:     livedata.New[*types.Account](nil),
		pending:     map[string]string{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	r.logger = r.logger.With(logging.F("component", "account"))
	return r
}

// Load publishes the persisted account selection.
func (r *Repository) Load(ctx context.Context) error {
	prefs, err := r.store.Preferences().Load(ctx)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	if prefs.Account == "" {
		r.account.Set(nil)
		return nil
	}
	r.account.Set(&types.Account{Name: prefs.Account})
	return nil
}

// Account is the currently selected account, nil when none.
func (r *Repository) Account() *livedata.Value[*types.Account] {
	return r.account
}

func (r *Repository) ObserveAccount(fn func(*types.Account)) (cancel func()) {
	return r.account.Observe(fn)
}

func (r *Repository) Accounts(ctx context.Context) ([]types.Account, error) {
	stored, err := r.store.Accounts().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.Account, 0, len(stored))
	for _, account := range stored {
		out = append(out, account.Account())
	}
	return out, nil
}

// Put selects account, adding it without credentials when unknown.
func (r *Repository) Put(ctx context.Context, account types.Account) error {
	name := strings.TrimSpace(account.Name)
	if name == "" {
		return errors.New("account name is required")
	}
	if _, ok, err := r.store.Accounts().Get(ctx, name); err != nil {
		return err
	} else if !ok {
		if _, err := r.store.Accounts().Upsert(ctx, &types.StoredAccount{Name: name}); err != nil {
			return err
		}
	}
	if err := r.saveSelection(ctx, name); err != nil {
		return err
	}
	r.account.Set(&types.Account{Name: name})
	return nil
}

// Clear drops the selection. Stored credentials stay.
func (r *Repository) Clear(ctx context.Context) error {
	if err := r.saveSelection(ctx, ""); err != nil {
		return err
	}
	r.account.Set(nil)
	return nil
}

// Remove deletes the account and its credentials, clearing the selection
// when it pointed at the account.
func (r *Repository) Remove(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if err := r.store.Accounts().Delete(ctx, name); err != nil {
		return err
	}
	if current := r.account.Get(); current != nil && current.Name == name {
		return r.Clear(ctx)
	}
	return nil
}

func (r *Repository) saveSelection(ctx context.Context, name string) error {
	prefs, err := r.store.Preferences().Load(ctx)
	if err != nil {
		return err
	}
	prefs.Account = name
	return r.store.Preferences().Save(ctx, prefs)
}

// GetAuthToken returns a valid access token for the selected account,
// refreshing it when expired. It never returns a Go error: failures are
// reported as typed results.
func (r *Repository) GetAuthToken(ctx context.Context) types.AuthTokenResult {
	selected := r.account.Get()
	if selected == nil {
		return types.AuthError{Type: types.AuthErrorAccountRemoved, Message: "no account selected"}
	}
	stored, ok, err := r.store.Accounts().Get(ctx, selected.Name)
	if err != nil {
		return types.AuthError{Type: types.AuthErrorOther, Message: err.Error()}
	}
	if !ok {
		r.logger.Warn("selected_account_missing", logging.F("account", selected.Name))
		if err := r.Clear(ctx); err != nil {
			r.logger.Error("clear_selection_failed", logging.Err(err))
		}
		return types.AuthError{Type: types.AuthErrorAccountRemoved, Message: "account " + selected.Name + " was removed"}
	}
	if r.oauth == nil || r.oauth.ClientID == "" {
		return types.AuthError{Type: types.AuthErrorOther, Message: "oauth client is not configured"}
	}
	if stored.Token == nil || (stored.Token.RefreshToken == "" && !stored.Token.Valid()) {
		return types.AuthHasIntent{Intent: r.NewIntent(stored.Name)}
	}

	recorder := &failureRecorder{base: r.httpClient.Transport}
	client := *r.httpClient
	client.Transport = recorder
	tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, &client)
	token, err := r.oauth.TokenSource(tokenCtx, stored.Token).Token()
	if err != nil {
		return r.classifyTokenError(stored.Name, err, recorder.Failed())
	}
	if token.AccessToken != stored.Token.AccessToken {
		if _, err := r.store.Accounts().Upsert(ctx, &types.StoredAccount{Name: stored.Name, Token: token}); err != nil {
			r.logger.Error("persist_token_failed", logging.F("account", stored.Name), logging.Err(err))
		}
	}
	return types.AuthToken{Token: token.AccessToken}
}

func (r *Repository) classifyTokenError(name string, err error, transportFailed bool) types.AuthTokenResult {
	var retrieve *oauth2.RetrieveError
	switch {
	case errors.As(err, &retrieve) && retrieve.ErrorCode == "invalid_grant":
		r.logger.Info("refresh_token_rejected", logging.F("account", name))
		return types.AuthHasIntent{Intent: r.NewIntent(name)}
	case transportFailed:
		return types.AuthError{Type: types.AuthErrorNetwork, Message: err.Error()}
	default:
		return types.AuthError{Type: types.AuthErrorOther, Message: err.Error()}
	}
}

// InvalidateToken expires the stored access token when it matches token,
// so the next GetAuthToken refreshes it.
func (r *Repository) InvalidateToken(ctx context.Context, token string) {
	if token == "" {
		return
	}
	accounts, err := r.store.Accounts().List(ctx)
	if err != nil {
		r.logger.Error("invalidate_token_failed", logging.Err(err))
		return
	}
	for _, account := range accounts {
		if account.Token == nil || account.Token.AccessToken != token {
			continue
		}
		account.Token.Expiry = r.now().Add(-time.Minute)
		if _, err := r.store.Accounts().Upsert(ctx, account); err != nil {
			r.logger.Error("invalidate_token_failed", logging.F("account", account.Name), logging.Err(err))
		}
		return
	}
}

// NewIntent prepares a consent request for account. An empty account lets
// the user pick one on the consent page.
func (r *Repository) NewIntent(account string) types.Intent {
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	r.mu.Lock()
	r.pending[state] = verifier
	r.mu.Unlock()

	opts := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.S256ChallengeOption(verifier),
	}
	if account != "" {
		opts = append(opts, oauth2.SetAuthURLParam("login_hint", account))
	}
	return types.Intent{
		Action:  types.IntentActionAuthorize,
		URL:     r.oauth.AuthCodeURL(state, opts...),
		Account: account,
		State:   state,
	}
}

func (r *Repository) takeVerifier(state string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	verifier, ok := r.pending[state]
	delete(r.pending, state)
	return verifier, ok
}

// failureRecorder notes whether any round trip failed below HTTP.
type failureRecorder struct {
	base http.RoundTripper

	mu     sync.Mutex
	failed bool
}

func (f *failureRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	base := f.base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil {
		f.mu.Lock()
		f.failed = true
		f.mu.Unlock()
	}
	return resp, err
}

func (f *failureRecorder) Failed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failed
}
