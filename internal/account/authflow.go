package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"

	"watchlater/internal/logging"
	"watchlater/internal/types"
)

var ErrUnknownIntent = errors.New("account: intent was not issued by this repository")

type callbackResult struct {
	code string
	err  error
}

// Authorize completes intent: it serves the redirect URL on loopback, calls
// open with the consent URL and waits for Google to redirect back. The
// resulting account is stored with its token and selected.
func (r *Repository) Authorize(ctx context.Context, intent types.Intent, open func(url string) error) (types.Account, error) {
	verifier, ok := r.takeVerifier(intent.State)
	if !ok {
		return types.Account{}, ErrUnknownIntent
	}
	redirect, err := url.Parse(r.oauth.RedirectURL)
	if err != nil {
		return types.Account{}, fmt.Errorf("parse redirect url: %w", err)
	}
	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return types.Account{}, fmt.Errorf("listen for oauth callback: %w", err)
	}

	results := make(chan callbackResult, 1)
	server := &http.Server{
		Handler:           callbackRouter(redirect.Path, intent.State, results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Error("oauth_callback_server_failed", logging.Err(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if open != nil {
		if err := open(intent.URL); err != nil {
			r.logger.Warn("open_browser_failed", logging.Err(err))
		}
	}

	var code string
	select {
	case <-ctx.Done():
		return types.Account{}, ctx.Err()
	case result := <-results:
		if result.err != nil {
			return types.Account{}, result.err
		}
		code = result.code
	}

	tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	token, err := r.oauth.Exchange(tokenCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return types.Account{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	name := intent.Account
	if name == "" {
		name, err = r.fetchEmail(tokenCtx, token)
		if err != nil {
			return types.Account{}, err
		}
	}
	if _, err := r.store.Accounts().Upsert(ctx, &types.StoredAccount{Name: name, Token: token}); err != nil {
		return types.Account{}, fmt.Errorf("store account: %w", err)
	}
	if err := r.Put(ctx, types.Account{Name: name}); err != nil {
		return types.Account{}, err
	}
	r.logger.Info("account_authorized", logging.F("account", name))
	return types.Account{Name: name}, nil
}

func callbackRouter(path, state string, results chan<- callbackResult) http.Handler {
	if path == "" {
		path = "/"
	}
	deliver := func(result callbackResult) {
		select {
		case results <- result:
		default:
		}
	}
	router := chi.NewRouter()
	router.Get(path, func(w http.ResponseWriter, req *http.Request) {
		query := req.URL.Query()
		if query.Get("state") != state {
			http.Error(w, "unexpected state", http.StatusBadRequest)
			return
		}
		if reason := query.Get("error"); reason != "" {
			deliver(callbackResult{err: fmt.Errorf("authorization denied: %s", reason)})
			http.Error(w, "Authorization was denied. You can close this window.", http.StatusForbidden)
			return
		}
		code := strings.TrimSpace(query.Get("code"))
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		deliver(callbackResult{code: code})
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Watch Later is authorized. You can close this window."))
	})
	return router
}

func (r *Repository) fetchEmail(ctx context.Context, token *oauth2.Token) (string, error) {
	client := r.oauth.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.userInfoURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch userinfo: unexpected status %s", resp.Status)
	}
	var info struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("decode userinfo: %w", err)
	}
	if strings.TrimSpace(info.Email) == "" {
		return "", errors.New("userinfo has no email")
	}
	return strings.TrimSpace(info.Email), nil
}
