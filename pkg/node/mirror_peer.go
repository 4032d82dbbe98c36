package node

import (
	"time"

	"github.com/uncaged-coder/echogit/pkg/command"
	"github.com/uncaged-coder/echogit/pkg/config"
	"github.com/uncaged-coder/echogit/pkg/errors"
	"github.com/uncaged-coder/echogit/pkg/peer"
	"github.com/uncaged-coder/echogit/pkg/statuscache"
)

// mirrorCacheName names the status cache of rsync projects, which have no
// branches.
const mirrorCacheName = "mirror"

// MirrorPeer binds an rsync project to a peer. It mirrors the working copy
// to the peer's store, then the store back to the working copy, so that the
// newest version of every file ends up on both sides.
type MirrorPeer struct {
	baseNode
	peer  *peer.Peer
	cache *statuscache.Cache

	results  statuscache.Results
	peerDown bool
	date     time.Time
}

func newMirrorPeer(env *Env, remote *peer.Peer, project Node) *MirrorPeer {
	m := &MirrorPeer{
		baseNode: inheritNode(env, remote.Name(), project.Path(), project),
		peer:     remote,
		cache:    statuscache.New(env.Fs, env.Clock, project.Path(), remote.Name(), mirrorCacheName),
		results:  statuscache.NewResults(),
	}

	st, ok := m.cache.Load()
	if ok {
		m.results = st.Results
	}
	m.peerDown = st.PeerDown
	m.date = st.Date
	return m
}

// Type implements Node.
func (m *MirrorPeer) Type() Type {
	return RepositoryPeer
}

// Peer returns the peer the project is mirrored to.
func (m *MirrorPeer) Peer() *peer.Peer {
	return m.peer
}

// Sync mirrors the project in both directions.
func (m *MirrorPeer) Sync(opts SyncOptions) Result {
	if res, down := checkPeerDown(&m.baseNode, m.peer, opts); down {
		m.save(statuscache.NewResults())
		return res
	}

	logger := m.logger().WithField("peer", m.peer.Name())
	results := statuscache.NewResults()

	loc, err := m.peer.RemoteProjectURL(m.path)
	if err == nil && loc.SyncType != config.SyncRsync {
		err = errors.New("peer " + m.peer.Name() + " stores the project for " + string(loc.SyncType))
	}

	if err != nil {
		logger.WithError(err).Warn("Failed to resolve remote")
		results[statuscache.RemoteAdd] = statuscache.StepResult{
			ExitCode: command.NotStarted,
			Stderr:   err.Error(),
		}
		results[statuscache.Push] = skippedStep
		results[statuscache.Pull] = skippedStep
	} else {
		results[statuscache.Push] = stepResult(m.env.Rsync.Mirror(m.path, loc.URL))
		results[statuscache.Pull] = stepResult(m.env.Rsync.Mirror(loc.URL, m.path))
	}
	m.save(results)

	if m.peerDown || m.HasError() {
		logger.WithField("state", m.StateString()).Warn("Mirror failed")
		return Result{Success: 0, Total: 1}
	}
	return Result{Success: 1, Total: 1}
}

// save records `results` along with the peer liveness.
func (m *MirrorPeer) save(results statuscache.Results) {
	m.results = results
	m.peerDown = m.peer.IsDown()

	st, err := m.cache.Save(results, m.peerDown)
	if err != nil {
		m.logger().WithError(err).WithField("peer", m.peer.Name()).
			Warn("Failed to save sync status")
	}
	m.date = st.Date
}

// Results returns the outcome of every step of the last sync.
func (m *MirrorPeer) Results() statuscache.Results {
	return m.results
}

// LastSync returns when the project was last mirrored.
func (m *MirrorPeer) LastSync() time.Time {
	return m.date
}

// Errors implements Node.
func (m *MirrorPeer) Errors() statuscache.Results {
	return m.results.Failures()
}

// HasError implements Node.
func (m *MirrorPeer) HasError() bool {
	return len(m.Errors()) != 0
}

// PeerDown implements Node.
func (m *MirrorPeer) PeerDown() bool {
	return m.peerDown
}

// StateString implements Node.
func (m *MirrorPeer) StateString() string {
	return stateString(m.Errors(), m.peerDown)
}

// Logs implements Node.
func (m *MirrorPeer) Logs() string {
	return "mirror=" + m.name + "\n" + stepLogs(m.results)
}
