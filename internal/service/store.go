package service

import (
	"fmt"
	"sync"

	"github.com/asteroid-belt/solvesync/internal/config"
	"github.com/asteroid-belt/solvesync/internal/models"
	"github.com/asteroid-belt/solvesync/internal/remote"
	"github.com/asteroid-belt/solvesync/internal/syncer"
)

// NewStoreFactory returns a factory for the configured backend. The last
// store is reused while repository and token stay the same, so the GitHub
// rate limiter spans passes.
func NewStoreFactory(cfg config.RemoteConfig) syncer.StoreFactory {
	var (
		mu        sync.Mutex
		cachedKey string
		cached    remote.Store
	)

	return func(settings models.Settings, token string) (remote.Store, error) {
		key := cfg.Backend + "\x00" + settings.Repository + "\x00" + token

		mu.Lock()
		defer mu.Unlock()
		if cached != nil && key == cachedKey {
			return cached, nil
		}

		store, err := openStore(cfg, settings, token)
		if err != nil {
			return nil, err
		}
		cached, cachedKey = store, key
		return store, nil
	}
}

func openStore(cfg config.RemoteConfig, settings models.Settings, token string) (remote.Store, error) {
	switch cfg.Backend {
	case config.BackendGit:
		store, err := remote.OpenGitStore(settings.Repository, remote.GitOptions{
			Push:        cfg.Git.Push,
			RemoteName:  cfg.Git.RemoteName,
			Token:       token,
			AuthorName:  cfg.Git.AuthorName,
			AuthorEmail: cfg.Git.AuthorEmail,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", syncer.ErrNotConfigured, err)
		}
		return store, nil
	default:
		if token == "" {
			return nil, fmt.Errorf("%w: no credential saved", syncer.ErrNotConfigured)
		}
		owner, repo, err := settings.SplitRepository()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", syncer.ErrNotConfigured, err)
		}
		store, err := remote.NewGitHubStore(token, owner, repo, remote.GitHubOptions{
			RateLimit: cfg.RateLimit,
			BaseURL:   cfg.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", syncer.ErrNotConfigured, err)
		}
		return store, nil
	}
}
