package node

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/uncaged-coder/echogit/pkg/command"
	"github.com/uncaged-coder/echogit/pkg/config"
	"github.com/uncaged-coder/echogit/pkg/errors"
	"github.com/uncaged-coder/echogit/pkg/git"
	"github.com/uncaged-coder/echogit/pkg/peer"
	"github.com/uncaged-coder/echogit/pkg/statuscache"
)

// skippedStep is recorded for the steps that couldn't run because the peer's
// location of the project is unknown.
var skippedStep = statuscache.StepResult{ExitCode: command.NotStarted, Stderr: "skipped: no remote location"}

// Branch syncs one branch of a git project with one peer.
type Branch struct {
	baseNode
	peer  *peer.Peer
	cache *statuscache.Cache

	results  statuscache.Results
	peerDown bool
	date     time.Time
}

// newBranch creates the node and loads the outcome of the previous sync, so
// that past failures show before syncing again.
func newBranch(env *Env, name string, remote *peer.Peer, parent Node) *Branch {
	b := &Branch{
		baseNode: inheritNode(env, name, parent.Path(), parent),
		peer:     remote,
		cache:    statuscache.New(env.Fs, env.Clock, parent.Path(), remote.Name(), name),
		results:  statuscache.NewResults(),
	}

	st, ok := b.cache.Load()
	if ok {
		b.results = st.Results
	}
	b.peerDown = st.PeerDown
	b.date = st.Date
	return b
}

// Type implements Node.
func (b *Branch) Type() Type {
	return SyncBranch
}

// Results returns the outcome of every step of the last sync.
func (b *Branch) Results() statuscache.Results {
	return b.results
}

// LastSync returns when the branch was last synced. It's zero if the
// outcome isn't known.
func (b *Branch) LastSync() time.Time {
	return b.date
}

// Sync checks out the branch, pushes it to the peer and pulls it back, then
// restores the branch that was checked out. The outcome of each step is
// saved to the status cache. Steps aren't retried.
func (b *Branch) Sync(SyncOptions) Result {
	logger := b.logger().WithFields(log.Fields{
		"peer":   b.peer.Name(),
		"branch": b.name,
	})

	current, err := b.env.Git.CurrentBranch(b.path)
	if err != nil {
		logger.WithError(err).Warn("Failed to sync branch")
		return Result{Success: 0, Total: 1}
	}

	if current != b.name {
		if err := b.env.Git.Checkout(b.path, b.name); err != nil {
			logger.WithError(err).Warn("Failed to sync branch")
			return Result{Success: 0, Total: 1}
		}

		defer func() {
			if err := b.env.Git.Checkout(b.path, current); err != nil {
				logger.WithError(err).WithField("original", current).
					Error("Failed to restore original branch")
			}
		}()
	}

	b.results = b.runSteps(logger)
	b.peerDown = b.peer.IsDown()

	st, err := b.cache.Save(b.results, b.peerDown)
	if err != nil {
		logger.WithError(err).Warn("Failed to save sync status")
	}
	b.date = st.Date

	if b.peerDown || b.HasError() {
		logger.WithField("state", b.StateString()).Warn("Branch sync failed")
		return Result{Success: 0, Total: 1}
	}
	logger.Debug("Branch synced")
	return Result{Success: 1, Total: 1}
}

func (b *Branch) runSteps(logger *log.Entry) statuscache.Results {
	g := b.env.Git
	remote := b.peer.Name()
	results := statuscache.NewResults()

	loc, err := b.peer.RemoteProjectURL(b.path)
	if err == nil && loc.SyncType != config.SyncGit {
		err = errors.New(fmt.Sprintf("peer %s stores the project for %s", remote, loc.SyncType))
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
		results[statuscache.RemoteAdd] = stepResult(g.EnsureRemote(b.path, remote, loc.URL))

		if res := g.Fetch(b.path, remote); !res.Ok() {
			logger.WithField("stderr", res.Stderr).Debug("Fetch failed")
		}

		if b.nodeConfig.AutoCommit && git.IsDirty(g.Status(b.path)) {
			if res := g.CommitAll(b.path); !res.Ok() {
				logger.WithField("stderr", res.Stderr).Warn("Auto commit failed")
			}
		}

		results[statuscache.Push] = stepResult(g.Push(b.path, remote, b.name))
		results[statuscache.Pull] = stepResult(g.Pull(b.path, remote, b.name))
	}

	status := g.Status(b.path)
	statusResult := stepResult(status)
	statusResult.Dirty = git.IsDirty(status)
	results[statuscache.Status] = statusResult
	return results
}

// Errors implements Node.
func (b *Branch) Errors() statuscache.Results {
	return b.results.Failures()
}

// HasError implements Node.
func (b *Branch) HasError() bool {
	return len(b.Errors()) != 0
}

// PeerDown implements Node.
func (b *Branch) PeerDown() bool {
	return b.peerDown
}

// StateString implements Node.
func (b *Branch) StateString() string {
	return stateString(b.Errors(), b.peerDown)
}

// recordPeerDown forgets the outcome of the previous sync and saves that the
// peer was down.
func (b *Branch) recordPeerDown() {
	b.results = statuscache.NewResults()
	b.peerDown = true

	st, err := b.cache.Save(b.results, true)
	if err != nil {
		b.logger().WithError(err).WithField("peer", b.peer.Name()).
			Warn("Failed to save sync status")
	}
	b.date = st.Date
}

// Logs implements Node.
func (b *Branch) Logs() string {
	return "branch=" + b.name + "\n" + stepLogs(b.results)
}

func stepResult(res command.Result) statuscache.StepResult {
	return statuscache.StepResult{
		ExitCode: res.ExitCode,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
	}
}

func stepLogs(results statuscache.Results) string {
	var sb strings.Builder
	for _, step := range statuscache.Steps {
		res := results[step]
		fmt.Fprintf(&sb, "-----%s exit=%d", step, res.ExitCode)
		if res.Dirty {
			sb.WriteString(" dirty")
		}
		sb.WriteString("-----\n")
		fmt.Fprintf(&sb, "stdout=%s\nstderr=%s\n", res.Stdout, res.Stderr)
	}
	return sb.String()
}
