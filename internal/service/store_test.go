package service

import (
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/solvesync/internal/config"
	"github.com/asteroid-belt/solvesync/internal/models"
	"github.com/asteroid-belt/solvesync/internal/remote"
	"github.com/asteroid-belt/solvesync/internal/syncer"
)

func TestStoreFactory_GitHub(t *testing.T) {
	factory := NewStoreFactory(config.DefaultConfig().Remote)

	settings := models.DefaultSettings()
	settings.Repository = "octo/solutions"

	_, err := factory(settings, "")
	assert.ErrorIs(t, err, syncer.ErrNotConfigured)

	store, err := factory(settings, "ghp_x")
	require.NoError(t, err)
	assert.IsType(t, &remote.GitHubStore{}, store)

	again, err := factory(settings, "ghp_x")
	require.NoError(t, err)
	assert.Same(t, store, again)

	settings.Repository = "no-slash"
	_, err = factory(settings, "ghp_x")
	assert.ErrorIs(t, err, syncer.ErrNotConfigured)
}

func TestStoreFactory_Git(t *testing.T) {
	cfg := config.DefaultConfig().Remote
	cfg.Backend = config.BackendGit
	factory := NewStoreFactory(cfg)

	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	settings := models.DefaultSettings()
	settings.Repository = dir

	store, err := factory(settings, "")
	require.NoError(t, err)
	assert.IsType(t, &remote.GitStore{}, store)

	settings.Repository = t.TempDir()
	_, err = factory(settings, "")
	assert.ErrorIs(t, err, syncer.ErrNotConfigured)
}
