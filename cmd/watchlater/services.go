package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"watchlater/internal/account"
	"watchlater/internal/app"
	"watchlater/internal/config"
	"watchlater/internal/livedata"
	"watchlater/internal/logging"
	"watchlater/internal/resolver"
	"watchlater/internal/store"
	"watchlater/internal/types"
	"watchlater/internal/videoid"
	"watchlater/internal/viewmodel"
	"watchlater/internal/youtube"
)

// accountService is what the commands need from the account repository.
type accountService interface {
	app.AccountService
	Account() *livedata.Value[*types.Account]
	NewIntent(account string) types.Intent
	Remove(ctx context.Context, name string) error
}

type services struct {
	cfg        config.Config
	configPath string
	logger     logging.Logger
	accounts   accountService
	youtube    app.YouTubeService
	resolver   viewmodel.Resolver
	closers    []io.Closer
}

type servicesFactory func(ctx context.Context) (*services, error)

func (s *services) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

func (s *services) addConfig() app.AddConfig {
	return app.AddConfig{
		Accounts:         s.accounts,
		YouTube:          s.youtube,
		Parser:           videoid.Parser{},
		PermissionNeeded: !s.cfg.OAuthConfigured(),
		Workers:          s.cfg.EngineWorkers(),
		Logger:           s.logger,
	}
}

func (s *services) launcherConfig() app.LauncherConfig {
	return app.LauncherConfig{
		Resolver:   s.resolver,
		DesktopID:  s.cfg.DesktopID(),
		ExampleURI: s.cfg.ExampleURI(),
		ConfigPath: s.configPath,
		Workers:    s.cfg.EngineWorkers(),
		Logger:     s.logger,
	}
}

// openServices loads config.toml, opens the log file and the store, and
// publishes the persisted account and playlist selections.
func openServices(ctx context.Context) (*services, error) {
	configPath, err := config.ConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadFromPath(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	svc := &services{cfg: cfg, configPath: configPath}

	logPath, err := config.LogPath()
	if err != nil {
		return nil, err
	}
	logger, logFile, err := logging.OpenFile(logPath, logging.ParseLevel(cfg.LogLevel()))
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	svc.logger = logger
	svc.closers = append(svc.closers, logFile)

	repo, err := openStore(ctx, cfg, logger)
	if err != nil {
		_ = svc.Close()
		return nil, err
	}
	svc.closers = append(svc.closers, repo)

	accounts := account.NewRepository(repo,
		account.OAuthConfig(cfg.OAuthClientID(), cfg.OAuthClientSecret(), cfg.RedirectPort()),
		account.WithLogger(logger),
	)
	if err := accounts.Load(ctx); err != nil {
		_ = svc.Close()
		return nil, err
	}
	playlists := youtube.NewRepository(repo.Preferences(), youtube.Options{
		Endpoint:          cfg.YouTubeEndpoint(),
		RequestsPerSecond: cfg.RequestsPerSecond(),
		Burst:             cfg.Burst(),
		Timeout:           cfg.RequestTimeout(),
		Logger:            logger,
	})
	if err := playlists.Load(ctx); err != nil {
		_ = svc.Close()
		return nil, err
	}

	svc.accounts = accounts
	svc.youtube = playlists
	svc.resolver = resolver.NewRepository(cfg.DesktopID(), resolver.WithLogger(logger))
	logger.Debug("services_opened", logging.F("backend", repo.Backend()))
	return svc, nil
}

func openStore(ctx context.Context, cfg config.Config, logger logging.Logger) (store.Repository, error) {
	accountsPath, err := config.AccountsPath()
	if err != nil {
		return nil, err
	}
	prefsPath, err := config.PreferencesPath()
	if err != nil {
		return nil, err
	}
	dbPath, err := config.DBPath()
	if err != nil {
		return nil, err
	}
	paths := store.RepositoryPaths{
		AccountsPath:    accountsPath,
		PreferencesPath: prefsPath,
		DBPath:          dbPath,
	}
	repo, err := store.OpenRepository(paths, cfg.StorageBackend())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := store.SeedRepositoryFromFiles(ctx, repo, paths); err != nil {
		logger.Warn("store_seed_failed", logging.Err(err))
	}
	return repo, nil
}
