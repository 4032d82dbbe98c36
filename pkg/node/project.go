package node

import (
	"fmt"

	"github.com/uncaged-coder/echogit/pkg/config"
	"github.com/uncaged-coder/echogit/pkg/errors"
)

// Project is a working copy synced against the peers named by its
// sync_remotes. Its type decides whether the peers sync it with git or
// rsync.
type Project struct {
	baseNode
	typ Type
}

func newProject(env *Env, typ Type, path string, parent Node) (*Project, error) {
	b, ownConfig, err := newFilesystemNode(env, folderName(path), path, parent)
	if err != nil {
		return nil, err
	}

	expType := config.SyncGit
	if typ == RsyncProject {
		expType = config.SyncRsync
	}
	switch {
	case !ownConfig:
		return nil, errors.ConfigError{Path: config.NodePath(path), Reason: "missing project config"}
	case b.nodeConfig.SyncType != expType:
		return nil, errors.ConfigError{
			Path:   b.nodeConfig.GetPath(),
			Reason: fmt.Sprintf("%s project must have sync_type %s", typ, expType),
		}
	}
	return &Project{baseNode: b, typ: typ}, nil
}

// Type implements Node.
func (p *Project) Type() Type {
	return p.typ
}

// Scan creates a child for every configured peer. Unknown peer names are
// skipped.
func (p *Project) Scan() error {
	p.children = nil
	for _, name := range p.nodeConfig.SyncRemotes {
		remote, ok := p.env.Peers.Get(name)
		if !ok {
			p.logger().WithField("peer", name).Warn("Skipping unknown peer")
			continue
		}

		var child Node
		if p.typ == RsyncProject {
			child = newMirrorPeer(p.env, remote, p)
		} else {
			child = newRepositoryPeer(p.env, remote, p)
		}
		if err := child.Scan(); err != nil {
			p.logger().WithError(err).WithField("peer", name).Warn("Skipping peer")
			continue
		}
		p.children = append(p.children, child)
	}
	return nil
}

// Sync syncs every peer. The project counts as a single unit, which
// succeeded only if every peer did.
func (p *Project) Sync(opts SyncOptions) Result {
	children := p.syncChildren(opts)
	res := collapse(children)

	p.logger().WithField("synced", fmt.Sprintf("%d/%d", children.Success, children.Total)).
		Infof("Synced %s", p.name)
	return res
}
