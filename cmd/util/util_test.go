package util

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/uncaged-coder/echogit/pkg/config"
	"github.com/uncaged-coder/echogit/pkg/errors"
)

func TestHandleFatalError(t *testing.T) {
	var out bytes.Buffer
	var code int
	stderr = &out
	exit = func(c int) { code = c }

	HandleFatalError(errors.WithContext(
		errors.NewFriendlyError("Peer %s is unreachable.", "alice"), "sync"))
	assert.Equal(t, "Peer alice is unreachable.\n", out.String())
	assert.Equal(t, 1, code)
}

func TestResolveRoot(t *testing.T) {
	getWorkingDirectory = func() (string, error) { return "/home/user/data/work", nil }

	tests := []struct {
		name string
		args []string
		exp  string
	}{
		{"Default", nil, "/home/user/data"},
		{"Absolute", []string{"/srv/git/"}, "/srv/git"},
		{"Relative", []string{"../photos"}, "/home/user/data/photos"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			path, err := ResolveRoot(test.args, "/home/user/data")
			assert.NoError(t, err)
			assert.Equal(t, test.exp, path)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	parseLocalConfig = func(afero.Fs) (*config.Local, error) {
		return &config.Local{
			ProjectsPath: "/data",
			Peers:        []config.PeerSpec{{Name: "alice", Host: "alice.lan"}},
		}, nil
	}

	env, err := LoadEnv(afero.NewMemMapFs())
	assert.NoError(t, err)
	assert.Equal(t, []string{"alice"}, env.Peers.Names())

	parseLocalConfig = func(afero.Fs) (*config.Local, error) {
		return nil, errors.FileNotFound{Path: "/x"}
	}
	_, err = LoadEnv(afero.NewMemMapFs())
	assert.Error(t, err)
}

func TestScanTree(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.NoError(t, fs.MkdirAll("/data/foreign/.git", 0755))
	parseLocalConfig = func(afero.Fs) (*config.Local, error) {
		return &config.Local{ProjectsPath: "/data"}, nil
	}
	env, err := LoadEnv(fs)
	assert.NoError(t, err)

	root, err := ScanTree(env, "/data")
	assert.NoError(t, err)
	assert.Empty(t, root.Children())

	_, err = ScanTree(env, "/data/foreign")
	assert.Error(t, err)
}
