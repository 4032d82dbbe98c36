package git

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gogit "gopkg.in/src-d/go-git.v4"

	"github.com/uncaged-coder/echogit/pkg/command"
)

func TestEnsureRemote(t *testing.T) {
	tests := []struct {
		name     string
		existing *command.Result
		expCmds  []string
	}{
		{
			name:    "Missing",
			expCmds: []string{"git remote get-url alice", "git remote add alice orion:/srv/git/foo.git"},
		},
		{
			name:     "Stale",
			existing: &command.Result{Stdout: "orion:/old/foo.git"},
			expCmds:  []string{"git remote get-url alice", "git remote set-url alice orion:/srv/git/foo.git"},
		},
		{
			name:     "UpToDate",
			existing: &command.Result{Stdout: "orion:/srv/git/foo.git"},
			expCmds:  []string{"git remote get-url alice"},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			getURL := command.Result{ExitCode: 2, Stderr: "error: No such remote 'alice'"}
			if test.existing != nil {
				getURL = *test.existing
			}
			runner := &command.Fake{Responses: map[string]command.Result{
				"git remote get-url alice": getURL,
			}}

			res := New(runner).EnsureRemote("/data/foo", "alice", "orion:/srv/git/foo.git")
			assert.True(t, res.Ok())
			assert.Equal(t, test.expCmds, runner.CommandLines())
			for _, call := range runner.Calls {
				assert.Equal(t, "/data/foo", call.Dir)
			}
		})
	}
}

func TestCurrentBranch(t *testing.T) {
	runner := &command.Fake{Responses: map[string]command.Result{
		"git rev-parse --abbrev-ref HEAD": {Stdout: "dev"},
	}}
	branch, err := New(runner).CurrentBranch("/data/foo")
	assert.NoError(t, err)
	assert.Equal(t, "dev", branch)

	runner.Responses["git rev-parse --abbrev-ref HEAD"] = command.Result{
		ExitCode: 128, Stderr: "fatal: not a git repository"}
	_, err = New(runner).CurrentBranch("/data/foo")
	assert.EqualError(t, err, "get current branch: fatal: not a git repository")
}

func TestCommitAll(t *testing.T) {
	runner := &command.Fake{}
	assert.True(t, New(runner).CommitAll("/data/foo").Ok())
	assert.Equal(t, []string{
		"git add -A .",
		"git commit -m echogit auto commit",
	}, runner.CommandLines())

	runner = &command.Fake{Responses: map[string]command.Result{
		"git add -A .": {ExitCode: 1},
	}}
	assert.False(t, New(runner).CommitAll("/data/foo").Ok())
	assert.Len(t, runner.Calls, 1)
}

func TestIsDirty(t *testing.T) {
	assert.False(t, IsDirty(command.Result{}))
	assert.True(t, IsDirty(command.Result{Stdout: " M README.md"}))
	assert.False(t, IsDirty(command.Result{ExitCode: 128, Stdout: "garbage"}))
}

func TestInitRepositories(t *testing.T) {
	dir, err := ioutil.TempDir("", "echogit-git-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	bare := filepath.Join(dir, "foo.git")
	work := filepath.Join(dir, "foo")
	require.NoError(t, InitBare(bare))
	require.NoError(t, InitWorkingCopy(work, bare))

	_, err = os.Stat(filepath.Join(bare, "HEAD"))
	assert.NoError(t, err)

	repo, err := gogit.PlainOpen(work)
	require.NoError(t, err)
	origin, err := repo.Remote("origin")
	require.NoError(t, err)
	assert.Equal(t, []string{bare}, origin.Config().URLs)

	assert.Error(t, InitBare(bare))
}
