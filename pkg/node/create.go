package node

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/uncaged-coder/echogit/pkg/config"
	"github.com/uncaged-coder/echogit/pkg/errors"
	"github.com/uncaged-coder/echogit/pkg/git"
	"github.com/uncaged-coder/echogit/pkg/peer"
)

// DefaultBranch is the branch synced by newly created git projects.
const DefaultBranch = "master"

// CreateProject creates the project `name`: its store under git_path, its
// working copy under projects_path, and a config that syncs it with every
// configured peer. It returns the path of the working copy.
//
// Git repositories are created on the OS filesystem, so Env.Fs must be backed
// by it for git projects.
func CreateProject(env *Env, name string, syncType config.SyncType) (string, error) {
	cfg := env.Config
	if cfg.GitPath == "" {
		return "", errors.ConfigError{Reason: "git_path must be set to create projects"}
	}

	workPath := filepath.Join(cfg.ProjectsPath, name)
	if _, err := cfg.RelativeProjectPath(workPath); err != nil {
		return "", err
	}

	if exists, err := afero.Exists(env.Fs, workPath); err != nil {
		return "", errors.WithContext(err, "check working copy")
	} else if exists {
		return "", errors.NewFriendlyError("Project %s already exists at %s.", name, workPath)
	}

	if enclosing, ok := enclosingProject(env.Fs, cfg.ProjectsPath, workPath); ok {
		return "", errors.NewFriendlyError("Can't create %s inside project %s.", workPath, enclosing)
	}

	storeBase := filepath.Join(cfg.GitPath, name)
	nodeCfg := config.Node{
		SyncType:    syncType,
		SyncRemotes: cfg.PeerNames(),
		Upstream:    config.DefaultUpstream,
	}

	switch syncType {
	case config.SyncGit:
		store := storeBase + peer.BareGitSuffix
		if err := ensureBareGit(env.Fs, store); err != nil {
			return "", errors.WithContext(err, "create bare repository")
		}
		if err := git.InitWorkingCopy(workPath, store); err != nil {
			return "", errors.WithContext(err, "create working copy")
		}
		nodeCfg.SyncBranches = []string{DefaultBranch}
	case config.SyncRsync:
		if err := env.Fs.MkdirAll(storeBase+peer.BareRsyncSuffix, 0755); err != nil {
			return "", errors.WithContext(err, "create rsync store")
		}
		if err := env.Fs.MkdirAll(workPath, 0755); err != nil {
			return "", errors.WithContext(err, "create working copy")
		}
	default:
		return "", errors.ConfigError{Reason: "unsupported sync_type " + string(syncType)}
	}

	if err := config.WriteNode(env.Fs, workPath, nodeCfg); err != nil {
		return "", errors.WithContext(err, "write project config")
	}
	return workPath, nil
}

// ensureBareGit creates the bare repository at `path` unless it already
// exists, in which case the new project is attached to it.
func ensureBareGit(fs afero.Fs, path string) error {
	if exists, err := afero.DirExists(fs, path); err != nil || exists {
		return err
	}
	return git.InitBare(path)
}

// enclosingProject returns the project that contains `path`, if any, looking
// no higher than `root`.
func enclosingProject(fs afero.Fs, root, path string) (string, bool) {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		switch Classify(fs, dir) {
		case GitProject, RsyncProject:
			return dir, true
		}
		if dir == root || dir == filepath.Dir(dir) {
			return "", false
		}
	}
}
