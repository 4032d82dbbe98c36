package node

import (
	"strings"

	"github.com/uncaged-coder/echogit/pkg/peer"
)

// BareRepo is the store of a project that peers sync against. It's found
// when scanning a git_path, and is never synced itself.
type BareRepo struct {
	baseNode
	typ Type
}

func newBareRepo(env *Env, typ Type, path string, parent Node) *BareRepo {
	name := folderName(path)
	name = strings.TrimSuffix(name, peer.BareGitSuffix)
	name = strings.TrimSuffix(name, peer.BareRsyncSuffix)
	return &BareRepo{
		baseNode: inheritNode(env, name, path, parent),
		typ:      typ,
	}
}

// Type implements Node.
func (r *BareRepo) Type() Type {
	return r.typ
}

// Sync does nothing.
func (r *BareRepo) Sync(SyncOptions) Result {
	return Result{}
}
