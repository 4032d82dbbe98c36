package node

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uncaged-coder/echogit/pkg/config"
)

func TestClassify(t *testing.T) {
	fs := afero.NewMemMapFs()
	mkdirs(t, fs,
		"/data/proj/.echogit",
		"/data/foo.git/.echogit",
		"/data/foo.git/.git",
		"/data/photos.rsync",
		"/data/foreign/.git",
		"/data/folder",
	)
	writeNodeConfig(t, fs, "/data/gitproj", config.SyncGit)
	mkdirs(t, fs, "/data/gitproj/.git")
	writeNodeConfig(t, fs, "/data/pics", config.SyncRsync)
	writeNodeConfig(t, fs, "/data/halfgit", config.SyncGit)
	require.NoError(t, afero.WriteFile(fs, "/data/file.txt", []byte("hello"), 0644))

	tests := []struct {
		name    string
		path    string
		expType Type
	}{
		{"File", "/data/file.txt", Unknown},
		{"Missing", "/data/missing", Unknown},
		{"ConfigDir", "/data/proj/.echogit", Unknown},
		{"BareGitWinsOverContents", "/data/foo.git", BareGitRepo},
		{"BareRsync", "/data/photos.rsync", BareRsyncRepo},
		{"GitProject", "/data/gitproj", GitProject},
		{"RsyncProject", "/data/pics", RsyncProject},
		{"ForeignRepo", "/data/foreign", Unknown},
		{"GitConfigWithoutRepo", "/data/halfgit", SyncFolder},
		{"Folder", "/data/folder", SyncFolder},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expType, Classify(fs, test.path))
		})
	}
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "GitProject", GitProject.String())
	assert.Equal(t, "SyncBranch", SyncBranch.String())
	assert.Equal(t, "Unknown", Type(42).String())
}

func mkdirs(t *testing.T, fs afero.Fs, paths ...string) {
	for _, path := range paths {
		require.NoError(t, fs.MkdirAll(path, 0755))
	}
}

func writeNodeConfig(t *testing.T, fs afero.Fs, path string, syncType config.SyncType) {
	require.NoError(t, config.WriteNode(fs, path, config.Node{SyncType: syncType}))
}

func writeGitProject(t *testing.T, fs afero.Fs, path string, cfg config.Node) {
	mkdirs(t, fs, filepath.Join(path, ".git"))
	cfg.SyncType = config.SyncGit
	require.NoError(t, config.WriteNode(fs, path, cfg))
}
