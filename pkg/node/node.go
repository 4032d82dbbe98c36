// Package node builds the synchronization tree of the projects directory and
// syncs it.
//
// The tree mirrors the filesystem down to projects: folders contain projects
// and other folders, or bare repositories when the tree is rooted at a
// git_path. Below a project, there's one node per configured peer, and below
// each git peer, one node per synced branch. Branches are where the actual
// work happens. Everything above them only aggregates results.
//
// Failures of the git and rsync commands are recorded on the nodes and in
// their status caches rather than returned, so that one failing branch
// doesn't prevent its siblings from syncing.
package node

import (
	"path/filepath"
	"strings"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/uncaged-coder/echogit/pkg/command"
	"github.com/uncaged-coder/echogit/pkg/config"
	"github.com/uncaged-coder/echogit/pkg/errors"
	"github.com/uncaged-coder/echogit/pkg/git"
	"github.com/uncaged-coder/echogit/pkg/peer"
	"github.com/uncaged-coder/echogit/pkg/rsync"
	"github.com/uncaged-coder/echogit/pkg/statuscache"
)

// Env holds the collaborators shared by every node of a tree.
type Env struct {
	Fs     afero.Fs
	Config *config.Local
	Peers  *peer.Registry
	Git    *git.Client
	Rsync  *rsync.Client
	Clock  clockwork.Clock
}

// NewEnv returns an Env that runs commands with `runner` and reaches remote
// peers with `remote`.
func NewEnv(fs afero.Fs, cfg *config.Local, runner command.Runner, remote peer.RemoteExecutor,
	peerOpts ...peer.Option) *Env {
	peerOpts = append([]peer.Option{peer.WithFs(fs)}, peerOpts...)
	return &Env{
		Fs:     fs,
		Config: cfg,
		Peers:  peer.NewRegistry(cfg, remote, peerOpts...),
		Git:    git.New(runner),
		Rsync:  rsync.New(runner),
		Clock:  clockwork.NewRealClock(),
	}
}

// SyncOptions control a synchronization pass.
type SyncOptions struct {
	// IgnorePeersDown counts peers that can't be reached as successfully
	// synced.
	IgnorePeersDown bool
}

// Result counts the successfully synced units of a subtree.
type Result struct {
	Success int
	Total   int
}

// Add returns the sum of two results.
func (r Result) Add(other Result) Result {
	return Result{Success: r.Success + other.Success, Total: r.Total + other.Total}
}

// Succeeded returns whether every unit succeeded, and there was at least one.
func (r Result) Succeeded() bool {
	return r.Total > 0 && r.Success == r.Total
}

// collapse reduces the result of a node's children to a single unit.
func collapse(r Result) Result {
	if r.Succeeded() {
		return Result{Success: 1, Total: 1}
	}
	return Result{Success: 0, Total: 1}
}

// Node is an element of the synchronization tree.
type Node interface {
	Name() string
	Path() string
	Type() Type

	// Parent returns nil for the root of the tree.
	Parent() Node
	Children() []Node

	// NodeConfig returns the node's config, or the config of its nearest
	// ancestor that has one.
	NodeConfig() *config.Node

	IsFolder() bool

	// Scan (re)builds the node's children.
	Scan() error

	// Sync synchronizes the subtree.
	Sync(opts SyncOptions) Result

	// Errors returns the failed steps of the last sync of the subtree.
	Errors() statuscache.Results
	HasError() bool

	// PeerDown returns whether a peer of the subtree was down at its last
	// sync.
	PeerDown() bool

	// StateString is "OK", or the comma separated flags of the failed
	// steps, e.g. "P,L", followed by "DOWN" if a peer was down.
	StateString() string

	// Logs describes the outputs of the last sync of the subtree.
	Logs() string

	sealed()
}

// New returns the node for the directory at `path`.
func New(env *Env, path string, parent Node) (Node, error) {
	return build(env, Classify(env.Fs, path), path, parent)
}

func build(env *Env, typ Type, path string, parent Node) (Node, error) {
	switch typ {
	case SyncFolder:
		folder, err := newFolder(env, path, parent)
		if err != nil {
			return nil, err
		}
		return folder, nil
	case GitProject, RsyncProject:
		project, err := newProject(env, typ, path, parent)
		if err != nil {
			return nil, err
		}
		return project, nil
	case BareGitRepo, BareRsyncRepo:
		return newBareRepo(env, typ, path, parent), nil
	}
	return nil, errors.ClassificationError{Path: path}
}

type baseNode struct {
	env        *Env
	name       string
	path       string
	parent     Node
	children   []Node
	nodeConfig *config.Node
}

// newFilesystemNode creates the base of a node backed by a directory. Its
// config is read from the directory if it has one, and inherited otherwise.
// `ownConfig` reports which.
func newFilesystemNode(env *Env, name, path string, parent Node) (b baseNode, ownConfig bool, err error) {
	b = inheritNode(env, name, path, parent)

	cfg, err := config.ParseNode(env.Fs, path)
	switch err.(type) {
	case nil:
		b.nodeConfig = cfg
		return b, true, nil
	case errors.FileNotFound:
		return b, false, nil
	default:
		return b, false, err
	}
}

// inheritNode creates the base of a node that shares its parent's config.
func inheritNode(env *Env, name, path string, parent Node) baseNode {
	b := baseNode{env: env, name: name, path: path, parent: parent}
	if parent != nil {
		b.nodeConfig = parent.NodeConfig()
	}
	return b
}

func (b *baseNode) sealed() {}

func (b *baseNode) Name() string {
	return b.name
}

func (b *baseNode) Path() string {
	return b.path
}

func (b *baseNode) Parent() Node {
	return b.parent
}

func (b *baseNode) Children() []Node {
	return b.children
}

func (b *baseNode) NodeConfig() *config.Node {
	return b.nodeConfig
}

func (b *baseNode) IsFolder() bool {
	return false
}

func (b *baseNode) Scan() error {
	return nil
}

func (b *baseNode) Errors() statuscache.Results {
	errs := statuscache.Results{}
	for _, child := range b.children {
		for step, res := range child.Errors() {
			errs[step] = res
		}
	}
	return errs
}

func (b *baseNode) HasError() bool {
	for _, child := range b.children {
		if child.HasError() {
			return true
		}
	}
	return false
}

func (b *baseNode) PeerDown() bool {
	for _, child := range b.children {
		if child.PeerDown() {
			return true
		}
	}
	return false
}

func (b *baseNode) StateString() string {
	return stateString(b.Errors(), b.PeerDown())
}

func (b *baseNode) Logs() string {
	logs := b.name + "\n"
	for _, child := range b.children {
		logs += child.Logs() + "\n"
	}
	return logs
}

// syncChildren syncs every child in order and sums their results.
func (b *baseNode) syncChildren(opts SyncOptions) Result {
	var total Result
	for _, child := range b.children {
		total = total.Add(child.Sync(opts))
	}
	return total
}

func (b *baseNode) logger() *log.Entry {
	return log.WithField("path", b.path)
}

// peerDownFlag marks subtrees with a peer that was down.
const peerDownFlag = "DOWN"

func stateString(errs statuscache.Results, peerDown bool) string {
	var flags []string
	for _, step := range statuscache.Steps {
		if _, ok := errs[step]; ok {
			flags = append(flags, step.Flag())
		}
	}
	if peerDown {
		flags = append(flags, peerDownFlag)
	}
	if len(flags) == 0 {
		return "OK"
	}
	return strings.Join(flags, ",")
}

func folderName(path string) string {
	return filepath.Base(filepath.Clean(path))
}
