package config

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/uncaged-coder/echogit/pkg/config"
	"github.com/uncaged-coder/echogit/pkg/errors"
)

func TestPrintConfig(t *testing.T) {
	getUserConfigPath = func() (string, error) {
		return "/home/user/.config/echogit/config.ini", nil
	}

	tests := []struct {
		name   string
		cfg    *config.Local
		err    error
		expOut string
		expErr bool
	}{
		{
			name: "Full",
			cfg: &config.Local{
				ProjectsPath:    "/home/user/data",
				GitPath:         "/home/user/git",
				ToolBin:         "echogit",
				IgnorePeersDown: true,
				CollapseFolders: []string{"archive"},
				Peers: []config.PeerSpec{
					{Name: "alice", Host: "alice.lan", Priority: 1},
				},
			},
			expOut: "collapse_folders:\n" +
				"- archive\n" +
				"echogit_bin: echogit\n" +
				"git_path: /home/user/git\n" +
				"ignore_peers_down: true\n" +
				"path: /home/user/.config/echogit/config.ini\n" +
				"peers:\n" +
				"- host: alice.lan\n" +
				"  name: alice\n" +
				"  priority: 1\n" +
				"projects_path: /home/user/data\n",
		},
		{
			name: "Minimal",
			cfg: &config.Local{
				ProjectsPath: "/home/user/data",
				ToolBin:      "echogit",
			},
			expOut: "echogit_bin: echogit\n" +
				"ignore_peers_down: false\n" +
				"path: /home/user/.config/echogit/config.ini\n" +
				"projects_path: /home/user/data\n",
		},
		{
			name:   "MissingConfig",
			err:    errors.FileNotFound{Path: "/home/user/.config/echogit/config.ini"},
			expErr: true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			parseLocalConfig = func(afero.Fs) (*config.Local, error) {
				return test.cfg, test.err
			}

			var out bytes.Buffer
			stdout = &out

			err := printConfig()
			if test.expErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.expOut, out.String())
		})
	}
}
