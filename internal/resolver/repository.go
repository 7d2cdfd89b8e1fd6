// Package resolver inspects how the desktop routes YouTube links, which is
// what the launcher screen helps the user fix.
package resolver

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"watchlater/internal/livedata"
	"watchlater/internal/logging"
	"watchlater/internal/types"
)

// HandledSchemes are the MIME types the desktop entry must declare.
var HandledSchemes = []string{
	"x-scheme-handler/vnd.youtube",
	"x-scheme-handler/youtube",
}

// DefaultHandlerFunc reports the desktop id registered as default handler
// for mimeType.
type DefaultHandlerFunc func(ctx context.Context, mimeType string) (string, error)

type Repository struct {
	desktopID      string
	dataDirs       []string
	defaultHandler DefaultHandlerFunc
	logger         logging.Logger

	problems *livedata.Value[*types.ResolverProblems]
}

type Option func(*Repository)

func WithDataDirs(dirs ...string) Option {
	return func(r *Repository) {
		r.dataDirs = append([]string(nil), dirs...)
	}
}

func WithDefaultHandler(fn DefaultHandlerFunc) Option {
	return func(r *Repository) {
		if fn != nil {
			r.defaultHandler = fn
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

func NewRepository(desktopID string, opts ...Option) *Repository {
	r := &Repository{
		desktopID:      strings.TrimSpace(desktopID),
		dataDirs:       xdgDataDirs(),
		defaultHandler: xdgMimeDefault,
		logger:         logging.Nop(),
		problems:       livedata.New[*types.ResolverProblems](nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	r.logger = r.logger.With(logging.F("component", "resolver"))
	return r
}

// Problems is nil until the first Update.
func (r *Repository) Problems() *livedata.Value[*types.ResolverProblems] {
	return r.problems
}

func (r *Repository) ObserveProblems(fn func(*types.ResolverProblems)) (cancel func()) {
	return r.problems.Observe(fn)
}

// Update recomputes the handler problems and publishes them.
func (r *Repository) Update(ctx context.Context) {
	problems := types.ResolverProblems{}

	handler, err := r.defaultHandler(ctx, HandledSchemes[0])
	if err != nil {
		r.logger.Warn("default_handler_query_failed", logging.Err(err))
	}
	problems.WatchLaterIsDefault = err == nil && strings.TrimSpace(handler) == r.desktopID

	declared := r.declaredMimeTypes()
	for _, scheme := range HandledSchemes {
		if _, ok := declared[scheme]; !ok {
			problems.VerifiedDomainsMissing++
		}
	}
	r.logger.Debug("resolver_updated",
		logging.F("default", problems.WatchLaterIsDefault),
		logging.F("missing", problems.VerifiedDomainsMissing))
	r.problems.Set(&problems)
}

// declaredMimeTypes reads the MimeType key of the first desktop entry named
// desktopID found in the application dirs.
func (r *Repository) declaredMimeTypes() map[string]struct{} {
	out := map[string]struct{}{}
	for _, dir := range r.dataDirs {
		path := filepath.Join(dir, "applications", r.desktopID)
		values, err := readDesktopKey(path, "MimeType")
		if err != nil {
			continue
		}
		for _, value := range values {
			out[value] = struct{}{}
		}
		return out
	}
	return out
}

func readDesktopKey(path, key string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	inEntry := false
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inEntry = line == "[Desktop Entry]"
			continue
		}
		if !inEntry {
			continue
		}
		name, value, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(name) != key {
			continue
		}
		var values []string
		for _, part := range strings.Split(value, ";") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
		return values, nil
	}
	return nil, scanner.Err()
}

func xdgDataDirs() []string {
	var dirs []string
	if home := os.Getenv("XDG_DATA_HOME"); home != "" {
		dirs = append(dirs, home)
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "share"))
	}
	system := os.Getenv("XDG_DATA_DIRS")
	if system == "" {
		system = "/usr/local/share:/usr/share"
	}
	for _, dir := range filepath.SplitList(system) {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func xdgMimeDefault(ctx context.Context, mimeType string) (string, error) {
	out, err := exec.CommandContext(ctx, "xdg-mime", "query", "default", mimeType).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
