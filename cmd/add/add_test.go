package add

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uncaged-coder/echogit/pkg/command"
	"github.com/uncaged-coder/echogit/pkg/config"
	"github.com/uncaged-coder/echogit/pkg/errors"
	"github.com/uncaged-coder/echogit/pkg/node"
	"github.com/uncaged-coder/echogit/pkg/peer"
)

func TestAddRsync(t *testing.T) {
	cfg := &config.Local{
		ProjectsPath: "/data",
		GitPath:      "/srv/git",
		Peers:        []config.PeerSpec{{Name: "alice", Host: "alice.lan"}},
	}
	env := node.NewEnv(afero.NewMemMapFs(), cfg, &command.Fake{}, &peer.FakeRemote{})

	var out bytes.Buffer
	stdout = &out

	require.NoError(t, run(env, "archive/pics", true))
	assert.Equal(t, "Created rsync project archive/pics at /data/archive/pics\n", out.String())
	assert.Equal(t, node.RsyncProject, node.Classify(env.Fs, "/data/archive/pics"))
	assert.Equal(t, node.BareRsyncRepo, node.Classify(env.Fs, "/srv/git/archive/pics.rsync"))

	nodeCfg, err := config.ParseNode(env.Fs, "/data/archive/pics")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, nodeCfg.SyncRemotes)

	err = run(env, "archive/pics", true)
	assert.IsType(t, errors.FriendlyError{}, err)
}
