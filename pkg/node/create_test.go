package node

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uncaged-coder/echogit/pkg/command"
	"github.com/uncaged-coder/echogit/pkg/config"
	"github.com/uncaged-coder/echogit/pkg/errors"
	"github.com/uncaged-coder/echogit/pkg/peer"
)

func TestCreateProject(t *testing.T) {
	dir, err := ioutil.TempDir("", "echogit-create-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	fs := afero.NewOsFs()
	env := newTestEnv(fs, &command.Fake{}, &peer.FakeRemote{}, true)
	env.Config.ProjectsPath = filepath.Join(dir, "data")
	env.Config.GitPath = filepath.Join(dir, "git")

	path, err := CreateProject(env, "foo", config.SyncGit)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "foo"), path)
	assert.Equal(t, GitProject, Classify(fs, path))
	assert.Equal(t, BareGitRepo, Classify(fs, filepath.Join(dir, "git", "foo.git")))

	cfg, err := config.ParseNode(fs, path)
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultBranch}, cfg.SyncBranches)
	assert.Equal(t, []string{"alice", "bob"}, cfg.SyncRemotes)
	assert.False(t, cfg.AutoCommit)

	_, err = CreateProject(env, "foo", config.SyncGit)
	assert.IsType(t, errors.FriendlyError{}, err)

	_, err = CreateProject(env, "foo/inner", config.SyncRsync)
	assert.IsType(t, errors.FriendlyError{}, err)

	path, err = CreateProject(env, "archive/pics", config.SyncRsync)
	require.NoError(t, err)
	assert.Equal(t, RsyncProject, Classify(fs, path))
	assert.Equal(t, BareRsyncRepo, Classify(fs, filepath.Join(dir, "git", "archive", "pics.rsync")))

	_, err = CreateProject(env, "../outside", config.SyncRsync)
	assert.IsType(t, errors.ConfigError{}, err)
}

func TestCreateProjectWithoutGitPath(t *testing.T) {
	env := newTestEnv(afero.NewMemMapFs(), &command.Fake{}, &peer.FakeRemote{}, true)
	env.Config.GitPath = ""

	_, err := CreateProject(env, "foo", config.SyncRsync)
	assert.IsType(t, errors.ConfigError{}, err)
}
