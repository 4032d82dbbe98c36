package node

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/uncaged-coder/echogit/pkg/config"
	"github.com/uncaged-coder/echogit/pkg/peer"
)

// Type identifies the kind of a node.
type Type int

const (
	Unknown Type = iota
	SyncFolder
	GitProject
	RsyncProject
	BareGitRepo
	BareRsyncRepo
	RepositoryPeer
	SyncBranch
)

func (t Type) String() string {
	switch t {
	case SyncFolder:
		return "SyncFolder"
	case GitProject:
		return "GitProject"
	case RsyncProject:
		return "RsyncProject"
	case BareGitRepo:
		return "BareGitRepo"
	case BareRsyncRepo:
		return "BareRsyncRepo"
	case RepositoryPeer:
		return "RepositoryPeer"
	case SyncBranch:
		return "SyncBranch"
	}
	return "Unknown"
}

// gitDirName is the version control directory of a working copy.
const gitDirName = ".git"

// Classify returns the type of the node at `path`, judging only by the shape
// of the filesystem. The checks are made in order, so that e.g. a directory
// named `foo.git` is a bare repository whatever it contains.
//
// Directories that are version controlled but have no echogit config are
// Unknown, so that foreign repositories are never adopted.
func Classify(fs afero.Fs, path string) Type {
	if isDir, _ := afero.IsDir(fs, path); !isDir {
		return Unknown
	}

	name := filepath.Base(path)
	switch {
	case name == config.DirName:
		return Unknown
	case strings.HasSuffix(name, peer.BareGitSuffix):
		return BareGitRepo
	case strings.HasSuffix(name, peer.BareRsyncSuffix):
		return BareRsyncRepo
	}

	hasConfig := hasSubdir(fs, path, config.DirName)
	hasGit := hasSubdir(fs, path, gitDirName)
	switch {
	case hasConfig && hasGit:
		return GitProject
	case hasConfig && isRsyncConfig(fs, path):
		return RsyncProject
	case hasGit:
		return Unknown
	}
	return SyncFolder
}

func hasSubdir(fs afero.Fs, path, name string) bool {
	isDir, _ := afero.IsDir(fs, filepath.Join(path, name))
	return isDir
}

func isRsyncConfig(fs afero.Fs, path string) bool {
	syncType, err := config.ReadSyncType(fs, path)
	return err == nil && syncType == config.SyncRsync
}
