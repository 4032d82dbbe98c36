package status

import (
	"bytes"
	"testing"

	"github.com/buger/goterm"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uncaged-coder/echogit/pkg/command"
	"github.com/uncaged-coder/echogit/pkg/config"
	"github.com/uncaged-coder/echogit/pkg/node"
	"github.com/uncaged-coder/echogit/pkg/peer"
	"github.com/uncaged-coder/echogit/pkg/statuscache"
)

func newEnv(t *testing.T, runner *command.Fake) *node.Env {
	fs := afero.NewMemMapFs()
	for _, project := range []string{"/data/foo", "/data/archive/old"} {
		require.NoError(t, fs.MkdirAll(project+"/.git", 0755))
		require.NoError(t, config.WriteNode(fs, project, config.Node{
			SyncType:     config.SyncGit,
			SyncBranches: []string{"master"},
			SyncRemotes:  []string{"alice"},
		}))
	}

	results := statuscache.NewResults()
	results[statuscache.Push] = statuscache.StepResult{ExitCode: 1, Stderr: "rejected"}
	_, err := statuscache.New(fs, clockwork.NewFakeClock(), "/data/foo", "alice", "master").
		Save(results, false)
	require.NoError(t, err)

	cfg := &config.Local{
		ProjectsPath:    "/data",
		CollapseFolders: []string{"archive"},
		Peers:           []config.PeerSpec{{Name: "alice", Host: "alice.lan"}},
	}
	return node.NewEnv(fs, cfg, runner, &peer.FakeRemote{})
}

func TestStatus(t *testing.T) {
	runner := &command.Fake{}
	env := newEnv(t, runner)
	isTerminal = func() bool { return false }

	var out bytes.Buffer
	stdout = &out
	require.NoError(t, run(env, nil, false))
	assert.Equal(t, "data/\n"+
		"  archive/ [OK]\n"+
		"  foo [P]\n"+
		"    alice [P]\n"+
		"      master [P]\n", out.String())
	assert.Empty(t, runner.Calls)
}

func TestStatusLogs(t *testing.T) {
	isTerminal = func() bool { return false }

	var out bytes.Buffer
	stdout = &out
	require.NoError(t, run(newEnv(t, &command.Fake{}), []string{"/data/foo"}, true))
	assert.Contains(t, out.String(), "foo [P]\n  | foo\n  | alice\n  | branch=master\n")
	assert.Contains(t, out.String(), "  | -----push exit=1-----\n  | stdout=\n  | stderr=rejected\n")
}

func TestStatusColors(t *testing.T) {
	isTerminal = func() bool { return true }

	var out bytes.Buffer
	stdout = &out
	require.NoError(t, run(newEnv(t, &command.Fake{}), nil, false))
	assert.Contains(t, out.String(), "archive/ ["+goterm.Color("OK", goterm.GREEN)+"]")
	assert.Contains(t, out.String(), "foo ["+goterm.Color("P", goterm.RED)+"]")
}

func TestStatusPeerDown(t *testing.T) {
	env := newEnv(t, &command.Fake{})
	_, err := statuscache.New(env.Fs, clockwork.NewFakeClock(), "/data/archive/old", "alice", "master").
		Save(statuscache.NewResults(), true)
	require.NoError(t, err)

	isTerminal = func() bool { return false }
	var out bytes.Buffer
	stdout = &out
	require.NoError(t, run(env, []string{"/data/archive/old"}, false))
	assert.Equal(t, "old [DOWN]\n"+
		"  alice [DOWN]\n"+
		"    master [DOWN]\n", out.String())

	isTerminal = func() bool { return true }
	out.Reset()
	require.NoError(t, run(env, []string{"/data/archive/old"}, false))
	assert.Contains(t, out.String(), "old ["+goterm.Color("DOWN", goterm.YELLOW)+"]")
}
