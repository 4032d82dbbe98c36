package sync

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/uncaged-coder/echogit/cmd/util"
	"github.com/uncaged-coder/echogit/pkg/errors"
	"github.com/uncaged-coder/echogit/pkg/node"
)

// Mocked for unit testing.
var (
	fs               = afero.NewOsFs()
	stdout io.Writer = os.Stdout
)

// New creates a new `sync` command.
func New() *cobra.Command {
	var ignorePeersDown bool
	cmd := &cobra.Command{
		Use:   "sync [PATH]",
		Short: "Synchronize projects with their peers",
		Long: "Synchronize every project below PATH with its peers. PATH\n" +
			"defaults to the configured projects_path.",
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			env, err := util.LoadEnv(fs)
			if err != nil {
				util.HandleFatalError(err)
			}

			opts := node.SyncOptions{IgnorePeersDown: env.Config.IgnorePeersDown}
			if cmd.Flags().Changed("ignore-peers-down") {
				opts.IgnorePeersDown = ignorePeersDown
			}

			if err := run(env, args, opts); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().BoolVar(&ignorePeersDown, "ignore-peers-down", false,
		"Count unreachable peers as synced. Defaults to ignore_peers_down from the config.")
	return cmd
}

func run(env *node.Env, args []string, opts node.SyncOptions) error {
	path, err := util.ResolveRoot(args, env.Config.ProjectsPath)
	if err != nil {
		return err
	}

	root, err := util.ScanTree(env, path)
	if err != nil {
		return err
	}

	res := root.Sync(opts)
	log.WithField("path", path).Debugf("Synced %d of %d", res.Success, res.Total)
	fmt.Fprintf(stdout, "synced %d/%d\n", res.Success, res.Total)

	switch {
	case res.Total == 0:
		fmt.Fprintln(stdout, "nothing to sync")
	case !res.Succeeded():
		return errors.NewFriendlyError("%d of %d projects failed to sync. "+
			"Run `echogit status --logs` for details.", res.Total-res.Success, res.Total)
	}
	return nil
}
