package config

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/uncaged-coder/echogit/pkg/errors"
)

const (
	// UserConfigPath is the default path to the local echogit config. Peers
	// read the same path over ssh, so it must stay relative to the home
	// directory.
	UserConfigPath = "~/.config/echogit/config.ini"

	// DefaultProjectsPath is where working copies live when the config
	// doesn't say otherwise.
	DefaultProjectsPath = "~/data/"

	// DefaultToolBin is the command used to run echogit on a peer.
	DefaultToolBin = "echogit"

	peersSection = "PEERS"
)

// homedirExpand will be overridden in mock tests.
var homedirExpand = homedir.Expand

// PeerSpec is a peer declared in the `[PEERS]` section as
// `name:host:priority`.
type PeerSpec struct {
	Name     string
	Host     string
	Priority int
}

// Local is the process-wide configuration of an echogit installation. The
// same structure describes a peer's installation once its config has been
// fetched.
type Local struct {
	// ProjectsPath is the root of the working copies.
	ProjectsPath string

	// GitPath is the root of the bare stores that peers push to.
	GitPath string

	// ToolBin is the command used to invoke echogit on this installation.
	ToolBin string

	IgnorePeersDown bool

	// CollapseFolders lists folder names that displays should show folded.
	CollapseFolders []string

	Peers []PeerSpec
}

// GetUserConfigPath returns the expanded path of the local config.
func GetUserConfigPath() (string, error) {
	return homedirExpand(UserConfigPath)
}

// ParseLocal parses the local config from the default path.
func ParseLocal(fs afero.Fs) (*Local, error) {
	path, err := GetUserConfigPath()
	if err != nil {
		return nil, errors.WithContext(err, "expand config path")
	}
	return ParseLocalFile(fs, path)
}

// ParseLocalFile parses the local config at `path`, expanding `~` in the
// configured paths.
func ParseLocalFile(fs afero.Fs, path string) (*Local, error) {
	f, err := loadINI(fs, path)
	if err != nil {
		if _, ok := err.(errors.FileNotFound); ok {
			return nil, errors.NewFriendlyError("The echogit config file "+
				"doesn't exist at %q. Please create it with at least a "+
				"projects_path entry.", path)
		}
		return nil, errors.WithContext(err, "parse")
	}

	cfg, err := localFromINI(f)
	if err != nil {
		return nil, errors.ConfigError{Path: path, Reason: err.Error()}
	}

	if err := cfg.expand(); err != nil {
		return nil, errors.WithContext(err, "expand paths")
	}
	return cfg, nil
}

// LoadLocal parses config file contents without expanding paths. It's used
// for configs fetched from peers, whose paths are only meaningful on the
// peer.
func LoadLocal(data []byte) (*Local, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, errors.WithContext(err, "parse")
	}

	cfg, err := localFromINI(f)
	if err != nil {
		return nil, errors.ConfigError{Reason: err.Error()}
	}
	return cfg, nil
}

func localFromINI(f *ini.File) (*Local, error) {
	def := f.Section(ini.DefaultSection)

	ignorePeersDown := false
	if def.HasKey("ignore_peers_down") {
		var err error
		ignorePeersDown, err = def.Key("ignore_peers_down").Bool()
		if err != nil {
			return nil, errors.WithContext(err, "ignore_peers_down")
		}
	}

	var peers []PeerSpec
	seen := map[string]struct{}{}
	for _, entry := range getList(f.Section(peersSection), "peers") {
		peer, err := ParsePeerSpec(entry)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[peer.Name]; ok {
			return nil, errors.New("duplicate peer " + peer.Name)
		}
		seen[peer.Name] = struct{}{}
		peers = append(peers, peer)
	}

	return &Local{
		ProjectsPath:    cleanPath(def.Key("projects_path").MustString(DefaultProjectsPath)),
		GitPath:         cleanPath(def.Key("git_path").String()),
		ToolBin:         def.Key("echogit_bin").MustString(DefaultToolBin),
		IgnorePeersDown: ignorePeersDown,
		CollapseFolders: getList(def, "collapse_folders"),
		Peers:           peers,
	}, nil
}

// ParsePeerSpec parses a `name:host:priority` peer entry.
func ParsePeerSpec(entry string) (PeerSpec, error) {
	fields := strings.Split(entry, ":")
	if len(fields) != 3 {
		return PeerSpec{}, errors.New("peer entry " + strconv.Quote(entry) +
			" must be formatted as name:host:priority")
	}

	name := strings.TrimSpace(fields[0])
	host := strings.TrimSpace(fields[1])
	if name == "" {
		return PeerSpec{}, errors.MissingFieldError{Field: "peer name"}
	}
	if host == "" {
		return PeerSpec{}, errors.MissingFieldError{Field: "peer host"}
	}

	priority, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return PeerSpec{}, errors.WithContext(err, "peer "+name+" priority")
	}
	return PeerSpec{Name: name, Host: host, Priority: priority}, nil
}

func (c *Local) expand() (err error) {
	if c.ProjectsPath, err = homedirExpand(c.ProjectsPath); err != nil {
		return err
	}
	if c.GitPath, err = homedirExpand(c.GitPath); err != nil {
		return err
	}
	return nil
}

// PeerNames returns the names of the configured peers in declaration order.
func (c *Local) PeerNames() []string {
	var names []string
	for _, peer := range c.Peers {
		names = append(names, peer.Name)
	}
	return names
}

// RelativeProjectPath returns the path of `path` relative to ProjectsPath.
func (c *Local) RelativeProjectPath(path string) (string, error) {
	rel, err := filepath.Rel(c.ProjectsPath, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.ConfigError{
			Path:   path,
			Reason: "project must be inside projects_path " + c.ProjectsPath,
		}
	}
	return rel, nil
}

func cleanPath(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}
