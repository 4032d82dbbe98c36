package peers

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/uncaged-coder/echogit/pkg/command"
	"github.com/uncaged-coder/echogit/pkg/config"
	"github.com/uncaged-coder/echogit/pkg/errors"
	"github.com/uncaged-coder/echogit/pkg/node"
	"github.com/uncaged-coder/echogit/pkg/peer"
)

const (
	catConfig = "cat ~/.config/echogit/config.ini"
	listCmd   = "echogit list"
)

func newEnv(remote peer.RemoteExecutor) *node.Env {
	return newEnvWithFs(afero.NewMemMapFs(), remote)
}

func newEnvWithFs(fs afero.Fs, remote peer.RemoteExecutor) *node.Env {
	cfg := &config.Local{
		ProjectsPath: "/data",
		ToolBin:      config.DefaultToolBin,
		Peers: []config.PeerSpec{
			{Name: "alice", Host: "alice.lan", Priority: 1},
			{Name: "bob", Host: "bob.lan", Priority: 2},
		},
	}
	return node.NewEnv(fs, cfg, &command.Fake{}, remote,
		peer.WithCacheDir("/cache"),
		peer.WithLocalhostCheck(func(string) bool { return false }))
}

func TestListPeers(t *testing.T) {
	var out bytes.Buffer
	stdout = &out

	listPeers(newEnv(&peer.FakeRemote{}))
	assert.Equal(t, "NAME   HOST       PRIORITY\n"+
		"alice  alice.lan  1\n"+
		"bob    bob.lan    2\n", out.String())
}

func TestListProjects(t *testing.T) {
	reachable := &peer.FakeRemote{Outputs: map[string]string{
		catConfig:         "[DEFAULT]\nprojects_path = ~/data\ngit_path = ~/git\n",
		"echogit version": "version=0.1.3\n",
		listCmd:           "photos.rsync/: photos\nwork/foo.git/: foo\n",
	}}
	unreachable := &peer.FakeRemote{Errors: map[string]error{
		catConfig: peer.UnreachableError{Host: "alice.lan"},
	}}

	tests := []struct {
		name   string
		remote *peer.FakeRemote
		peer   string
		expOut string
		expErr bool
	}{
		{
			name:   "Reachable",
			remote: reachable,
			peer:   "alice",
			expOut: "photos.rsync/: photos\nwork/foo.git/: foo\n",
		},
		{
			name:   "Down",
			remote: unreachable,
			peer:   "alice",
			expErr: true,
		},
		{
			name:   "UnknownPeer",
			remote: reachable,
			peer:   "carol",
			expErr: true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			var out bytes.Buffer
			stdout = &out

			err := listProjects(newEnv(test.remote), test.peer, false)
			if test.expErr {
				assert.IsType(t, errors.FriendlyError{}, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.expOut, out.String())
		})
	}
}

func TestListProjectsCached(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.NoError(t, afero.WriteFile(fs, "/cache/alice_projects.yaml",
		[]byte("foo.git/: foo\n"), 0644))
	offline := &peer.FakeRemote{Errors: map[string]error{
		catConfig: peer.UnreachableError{Host: "alice.lan"},
	}}

	var out bytes.Buffer
	stdout = &out

	assert.NoError(t, listProjects(newEnvWithFs(fs, offline), "alice", true))
	assert.Equal(t, "foo.git/: foo\n", out.String())
	assert.Empty(t, offline.Calls)
}
