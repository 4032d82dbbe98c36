package node

import (
	"github.com/uncaged-coder/echogit/pkg/peer"
)

// RepositoryPeerNode binds a git project to a peer. Its children are the
// project's synced branches.
type RepositoryPeerNode struct {
	baseNode
	peer *peer.Peer
}

func newRepositoryPeer(env *Env, remote *peer.Peer, project Node) *RepositoryPeerNode {
	return &RepositoryPeerNode{
		baseNode: inheritNode(env, remote.Name(), project.Path(), project),
		peer:     remote,
	}
}

// Type implements Node.
func (r *RepositoryPeerNode) Type() Type {
	return RepositoryPeer
}

// Peer returns the peer the project is synced against.
func (r *RepositoryPeerNode) Peer() *peer.Peer {
	return r.peer
}

// Scan creates a child for every configured branch. Nothing is created if
// the peer is already known to be down.
func (r *RepositoryPeerNode) Scan() error {
	r.children = nil
	if r.peer.IsDown() {
		return nil
	}

	for _, name := range r.nodeConfig.SyncBranches {
		branch := newBranch(r.env, name, r.peer, r)
		if err := branch.Scan(); err != nil {
			return err
		}
		r.children = append(r.children, branch)
	}
	return nil
}

// Sync syncs every branch. It's a single unit, which succeeds only if every
// branch did.
func (r *RepositoryPeerNode) Sync(opts SyncOptions) Result {
	if res, down := checkPeerDown(&r.baseNode, r.peer, opts); down {
		r.recordPeerDown()
		return res
	}

	if len(r.children) == 0 {
		return Result{Success: 0, Total: 1}
	}

	success := 1
	for _, child := range r.children {
		if !child.Sync(opts).Succeeded() {
			success = 0
		}
	}
	return Result{Success: success, Total: 1}
}

// PeerDown implements Node.
func (r *RepositoryPeerNode) PeerDown() bool {
	return r.peer.IsDown() || r.baseNode.PeerDown()
}

// StateString implements Node.
func (r *RepositoryPeerNode) StateString() string {
	return stateString(r.Errors(), r.PeerDown())
}

// recordPeerDown saves in the status cache of every configured branch that
// the peer was down. Branches aren't scanned when the peer was already down,
// so they're created here.
func (r *RepositoryPeerNode) recordPeerDown() {
	branches := r.children
	if len(branches) == 0 {
		for _, name := range r.nodeConfig.SyncBranches {
			branches = append(branches, newBranch(r.env, name, r.peer, r))
		}
	}

	for _, child := range branches {
		if branch, ok := child.(*Branch); ok {
			branch.recordPeerDown()
		}
	}
}

// checkPeerDown fetches the peer's config if it hasn't been yet, and returns
// the result of a peer binding when the peer is down. Down peers count as
// successes when they're ignored, so that being offline isn't an error.
func checkPeerDown(b *baseNode, remote *peer.Peer, opts SyncOptions) (Result, bool) {
	if !remote.HasConfig() && !remote.IsDown() {
		// Failures mark the peer down, which is handled below.
		_ = remote.FetchConfig()
	}

	if !remote.IsDown() {
		return Result{}, false
	}

	logger := b.logger().WithField("peer", remote.Name())
	if opts.IgnorePeersDown {
		logger.Info("Ignoring down peer")
		return Result{Success: 1, Total: 1}, true
	}
	logger.Warn("Peer is down")
	return Result{Success: 0, Total: 1}, true
}
