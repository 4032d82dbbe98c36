package config

import (
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
	"github.com/spf13/afero"

	"github.com/uncaged-coder/echogit/pkg/errors"
)

// SyncType is the transport used to synchronize a project.
type SyncType string

const (
	// SyncGit synchronizes branches with git push and pull.
	SyncGit SyncType = "git"

	// SyncRsync mirrors the working copy with rsync.
	SyncRsync SyncType = "rsync"
)

const (
	nodeSection     = "ECHOGIT"
	branchesSection = "BRANCHES"

	// DefaultUpstream is the upstream branch used when none is configured.
	DefaultUpstream = "upstream"
)

// Node is the configuration of a project or folder, stored in
// `.echogit/config.ini`. Nodes without their own file share their parent's
// Node.
type Node struct {
	SyncType     SyncType
	AutoCommit   bool
	SyncBranches []string
	SyncRemotes  []string

	// Upstream is informational only.
	Upstream string

	// Only populated by ParseNode.
	path string
}

// GetPath returns the file the config was parsed from.
func (c Node) GetPath() string {
	return c.path
}

// NodePath returns the path of the config file for the node at `dir`.
func NodePath(dir string) string {
	return filepath.Join(dir, DirName, FileName)
}

// ParseNode parses the config file of the node at `dir`. It returns
// errors.FileNotFound if the node has no config file.
func ParseNode(fs afero.Fs, dir string) (*Node, error) {
	path := NodePath(dir)
	f, err := loadINI(fs, path)
	if err != nil {
		return nil, err
	}

	cfg, err := nodeFromINI(f)
	if err != nil {
		return nil, errors.ConfigError{Path: path, Reason: err.Error()}
	}
	cfg.path = path
	return cfg, nil
}

// ReadSyncType returns the transport declared by the config file of the node
// at `dir`.
func ReadSyncType(fs afero.Fs, dir string) (SyncType, error) {
	cfg, err := ParseNode(fs, dir)
	if err != nil {
		return "", err
	}
	return cfg.SyncType, nil
}

func nodeFromINI(f *ini.File) (*Node, error) {
	echogit := f.Section(nodeSection)
	branches := f.Section(branchesSection)

	syncType := SyncType(strings.TrimSpace(echogit.Key("sync_type").MustString(string(SyncGit))))
	if syncType != SyncGit && syncType != SyncRsync {
		return nil, errors.New("unsupported sync_type " + string(syncType))
	}

	autoCommit := false
	if echogit.HasKey("auto_commit") {
		var err error
		autoCommit, err = echogit.Key("auto_commit").Bool()
		if err != nil {
			return nil, errors.WithContext(err, "auto_commit")
		}
	}

	return &Node{
		SyncType:     syncType,
		AutoCommit:   autoCommit,
		SyncBranches: getList(branches, "sync_branches"),
		SyncRemotes:  getList(branches, "sync_remotes"),
		Upstream:     branches.Key("upstream").MustString(DefaultUpstream),
	}, nil
}

// WriteNode writes `cfg` as the config file of the node at `dir`.
func WriteNode(fs afero.Fs, dir string, cfg Node) error {
	f := ini.Empty()

	echogit, err := f.NewSection(nodeSection)
	if err != nil {
		return errors.WithContext(err, "create section")
	}
	echogit.Key("sync_type").SetValue(string(cfg.SyncType))
	echogit.Key("auto_commit").SetValue(boolString(cfg.AutoCommit))

	branches, err := f.NewSection(branchesSection)
	if err != nil {
		return errors.WithContext(err, "create section")
	}
	branches.Key("sync_branches").SetValue(strings.Join(cfg.SyncBranches, ", "))
	branches.Key("sync_remotes").SetValue(strings.Join(cfg.SyncRemotes, ", "))
	if cfg.Upstream != "" {
		branches.Key("upstream").SetValue(cfg.Upstream)
	}

	return writeINI(fs, NodePath(dir), f)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
