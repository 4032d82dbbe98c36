// Package peer models the remote installations that projects are synced
// against.
//
// A Peer's liveness is sticky: the first remote call that can't reach the
// peer marks it down, and every later operation against it short circuits
// without contacting the host again. Peers are shared by all the nodes that
// sync against them, so this happens at most once per run.
package peer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/ghodss/yaml"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/uncaged-coder/echogit/pkg/config"
	"github.com/uncaged-coder/echogit/pkg/errors"
	"github.com/uncaged-coder/echogit/pkg/version"
)

const (
	// BareGitSuffix and BareRsyncSuffix mark the bare stores of projects.
	BareGitSuffix   = ".git"
	BareRsyncSuffix = ".rsync"
)

// Location is where a project is stored on a peer.
type Location struct {
	SyncType config.SyncType

	// URL is usable as a git remote or an rsync endpoint. It's a plain path
	// for peers on this machine, and `host:path` otherwise.
	URL string
}

// Peer is a remote echogit installation.
type Peer struct {
	name     string
	host     string
	priority int

	local    *config.Local
	remote   RemoteExecutor
	fs       afero.Fs
	cacheDir string

	isLocalhostFn func(host string) bool
	localhost     *bool

	isDown bool

	// cfg is the peer's own configuration. It's nil until fetched.
	cfg *config.Local
}

// Option configures a Peer.
type Option func(*Peer)

// WithFs sets the filesystem used for local probes and the project listing
// cache.
func WithFs(fs afero.Fs) Option {
	return func(p *Peer) {
		p.fs = fs
	}
}

// WithCacheDir sets the directory of the project listing cache.
func WithCacheDir(dir string) Option {
	return func(p *Peer) {
		p.cacheDir = dir
	}
}

// WithLocalhostCheck overrides how hosts are recognized as this machine.
func WithLocalhostCheck(fn func(host string) bool) Option {
	return func(p *Peer) {
		p.isLocalhostFn = fn
	}
}

// New returns the peer declared by `spec`. `local` is the configuration of
// this machine.
func New(spec config.PeerSpec, local *config.Local, remote RemoteExecutor, opts ...Option) *Peer {
	p := &Peer{
		name:          spec.Name,
		host:          spec.Host,
		priority:      spec.Priority,
		local:         local,
		remote:        remote,
		fs:            afero.NewOsFs(),
		cacheDir:      filepath.Join(xdg.CacheHome, "echogit", "peers"),
		isLocalhostFn: isLocalHost,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the peer's name. It's also the name of the git remote that
// points at the peer.
func (p *Peer) Name() string {
	return p.name
}

// Host returns the address used to reach the peer.
func (p *Peer) Host() string {
	return p.host
}

// Priority returns the priority declared for the peer.
func (p *Peer) Priority() int {
	return p.priority
}

// IsDown returns whether the peer has been found unreachable during this
// run.
func (p *Peer) IsDown() bool {
	return p.isDown
}

func (p *Peer) markDown(err error, context string) {
	if !p.isDown {
		log.WithError(err).WithField("peer", p.name).Warnf("Marking peer down: %s failed", context)
	}
	p.isDown = true
}

// IsLocalhost returns whether the peer is this machine. Down peers are never
// considered local.
func (p *Peer) IsLocalhost() bool {
	if p.localhost != nil {
		return *p.localhost
	}

	isLocal := !p.isDown && p.isLocalhostFn(p.host)
	p.localhost = &isLocal
	return isLocal
}

// Config returns the peer's configuration, or nil if it hasn't been fetched.
func (p *Peer) Config() *config.Local {
	return p.cfg
}

// HasConfig returns whether the peer's configuration has been fetched.
func (p *Peer) HasConfig() bool {
	return p.cfg != nil
}

// FetchConfig retrieves the peer's configuration and checks that it runs a
// compatible version of echogit. Peers on this machine share the local
// configuration. Any failure marks the peer down.
func (p *Peer) FetchConfig() error {
	if p.isDown {
		return errors.ErrPeerDown
	}

	if p.IsLocalhost() {
		p.cfg = p.local
		return nil
	}

	if err := p.fetchRemoteConfig(); err != nil {
		p.markDown(err, "fetch config")
		return err
	}
	return nil
}

func (p *Peer) fetchRemoteConfig() error {
	data, err := p.remote.Execute(p.host, "cat "+config.UserConfigPath)
	if err != nil {
		return errors.WithContext(err, "read remote config")
	}

	cfg, err := config.LoadLocal([]byte(data))
	if err != nil {
		return errors.WithContext(err, "parse remote config")
	}

	report, err := p.remote.Execute(p.host, toolCommand(cfg, "version"))
	if err != nil {
		return errors.WithContext(err, "get remote version")
	}

	peerVersion, err := version.ParseReport(report)
	if err != nil {
		return errors.WithContext(err, "parse remote version")
	}

	compatible, err := version.IsCompatible(peerVersion)
	if err != nil {
		return err
	}
	if !compatible {
		return errors.NewFriendlyError("Peer %s runs echogit %s, which is "+
			"incompatible with the local version %s.", p.name, peerVersion, version.Version)
	}

	p.cfg = cfg
	return nil
}

// fetchConfigIfNeeded returns ErrPeerDown once the peer is down, even if its
// config was fetched before.
func (p *Peer) fetchConfigIfNeeded() error {
	if p.isDown {
		return errors.ErrPeerDown
	}
	if p.cfg != nil {
		return nil
	}
	return p.FetchConfig()
}

// RemoteProjectURL returns where the project whose working copy is at
// `projectPath` is stored on the peer. The store is the path of the project
// relative to the local projects_path, under the peer's git_path, suffixed
// with `.git` or `.rsync` depending on which exists.
func (p *Peer) RemoteProjectURL(projectPath string) (Location, error) {
	if p.isDown {
		return Location{}, errors.ErrPeerDown
	}
	if err := p.fetchConfigIfNeeded(); err != nil {
		return Location{}, err
	}

	rel, err := p.local.RelativeProjectPath(projectPath)
	if err != nil {
		return Location{}, err
	}
	base := filepath.Join(p.cfg.GitPath, rel)

	for _, candidate := range []struct {
		suffix   string
		syncType config.SyncType
	}{
		{BareGitSuffix, config.SyncGit},
		{BareRsyncSuffix, config.SyncRsync},
	} {
		path := base + candidate.suffix
		exists, err := p.dirExists(path)
		if err != nil {
			return Location{}, err
		}
		if exists {
			return Location{SyncType: candidate.syncType, URL: p.url(path)}, nil
		}
	}
	return Location{}, errors.NoRemoteLocationError{Peer: p.name, Base: base}
}

func (p *Peer) dirExists(path string) (bool, error) {
	if p.IsLocalhost() {
		return afero.DirExists(p.fs, path)
	}

	_, err := p.remote.Execute(p.host, "test -d "+shellPath(path))
	switch err.(type) {
	case nil:
		return true, nil
	case CommandError:
		return false, nil
	default:
		p.markDown(err, "probe "+path)
		return false, errors.ErrPeerDown
	}
}

func (p *Peer) url(path string) string {
	if p.IsLocalhost() {
		return path
	}
	// Paths relative to the home directory are what the scp-like syntax
	// resolves them against.
	return p.host + ":" + strings.TrimPrefix(path, "~/")
}

// RemoteProjects returns the bare stores on the peer, keyed by their path
// relative to the peer's git_path. When `cached` is set and a previous
// listing was saved, it's returned without contacting the peer.
//
// An empty result from a down peer means the listing is unknown.
func (p *Peer) RemoteProjects(cached bool) map[string]string {
	if cached {
		if projects, ok := p.loadCachedProjects(); ok {
			return projects
		}
	}

	if err := p.fetchConfigIfNeeded(); err != nil {
		return map[string]string{}
	}

	out, err := p.remote.Execute(p.host, toolCommand(p.cfg, "list"))
	if err != nil {
		p.markDown(err, "list projects")
		return map[string]string{}
	}

	listing := map[string]string{}
	if err := yaml.Unmarshal([]byte(out), &listing); err != nil {
		p.markDown(err, "parse project listing")
		return map[string]string{}
	}

	projects := map[string]string{}
	for path, name := range listing {
		if strings.HasSuffix(path, BareGitSuffix+"/") || strings.HasSuffix(path, BareRsyncSuffix+"/") {
			projects[path] = name
		}
	}

	if len(projects) != 0 {
		if err := p.saveCachedProjects(projects); err != nil {
			log.WithError(err).WithField("peer", p.name).Warn("Failed to cache project listing")
		}
	}
	return projects
}

func (p *Peer) cachePath() string {
	return filepath.Join(p.cacheDir, p.name+"_projects.yaml")
}

func (p *Peer) loadCachedProjects() (map[string]string, bool) {
	data, err := afero.ReadFile(p.fs, p.cachePath())
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).WithField("peer", p.name).Warn("Ignoring project listing cache")
		}
		return nil, false
	}

	projects := map[string]string{}
	if err := yaml.Unmarshal(data, &projects); err != nil {
		log.WithError(err).WithField("peer", p.name).Warn("Ignoring project listing cache")
		return nil, false
	}
	return projects, len(projects) != 0
}

func (p *Peer) saveCachedProjects(projects map[string]string) error {
	data, err := yaml.Marshal(projects)
	if err != nil {
		return errors.WithContext(err, "encode")
	}

	if err := p.fs.MkdirAll(p.cacheDir, 0755); err != nil {
		return errors.WithContext(err, "create cache directory")
	}
	return afero.WriteFile(p.fs, p.cachePath(), data, 0644)
}

func toolCommand(cfg *config.Local, subcommand string) string {
	bin := config.DefaultToolBin
	if cfg != nil && cfg.ToolBin != "" {
		bin = cfg.ToolBin
	}
	return bin + " " + subcommand
}
