package config

import (
	"fmt"
	"io"
	"os"

	"github.com/ghodss/yaml"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/uncaged-coder/echogit/cmd/util"
	"github.com/uncaged-coder/echogit/pkg/config"
	"github.com/uncaged-coder/echogit/pkg/errors"
)

// Mocked for unit testing.
var (
	fs                          = afero.NewOsFs()
	stdout            io.Writer = os.Stdout
	parseLocalConfig            = config.ParseLocal
	getUserConfigPath           = config.GetUserConfigPath
)

type peerView struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Priority int    `json:"priority"`
}

// configView is the printed form of the local config.
type configView struct {
	Path            string     `json:"path"`
	ProjectsPath    string     `json:"projects_path"`
	GitPath         string     `json:"git_path,omitempty"`
	EchogitBin      string     `json:"echogit_bin"`
	IgnorePeersDown bool       `json:"ignore_peers_down"`
	CollapseFolders []string   `json:"collapse_folders,omitempty"`
	Peers           []peerView `json:"peers,omitempty"`
}

// New creates a new `config` command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective echogit configuration",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			if err := printConfig(); err != nil {
				util.HandleFatalError(err)
			}
		},
	}

	// Setup the commands for querying single values of the config.
	type getterSpec struct {
		use, short string
		fn         func(*config.Local) string
	}

	getters := []getterSpec{
		{
			use:   "get-projects-path",
			short: "Get the root of the working copies",
			fn:    func(cfg *config.Local) string { return cfg.ProjectsPath },
		},
		{
			use:   "get-git-path",
			short: "Get the root of the bare repositories",
			fn:    func(cfg *config.Local) string { return cfg.GitPath },
		},
	}
	for _, getter := range getters {
		getter := getter
		cmd.AddCommand(&cobra.Command{
			Use:   getter.use,
			Short: getter.short,
			Args:  cobra.NoArgs,
			Run: func(_ *cobra.Command, _ []string) {
				cfg, err := parseLocalConfig(fs)
				if err != nil {
					util.HandleFatalError(errors.WithContext(err, "read config"))
				}

				fmt.Fprintln(stdout, getter.fn(cfg))
			},
		})
	}

	return cmd
}

func printConfig() error {
	cfg, err := parseLocalConfig(fs)
	if err != nil {
		return errors.WithContext(err, "read config")
	}

	path, err := getUserConfigPath()
	if err != nil {
		return errors.WithContext(err, "get user config path")
	}

	view := configView{
		Path:            path,
		ProjectsPath:    cfg.ProjectsPath,
		GitPath:         cfg.GitPath,
		EchogitBin:      cfg.ToolBin,
		IgnorePeersDown: cfg.IgnorePeersDown,
		CollapseFolders: cfg.CollapseFolders,
	}
	for _, spec := range cfg.Peers {
		view.Peers = append(view.Peers, peerView(spec))
	}

	out, err := yaml.Marshal(view)
	if err != nil {
		return errors.WithContext(err, "encode")
	}

	_, err = stdout.Write(out)
	return err
}
