package peers

import (
	"fmt"
	"io"
	"os"

	"github.com/buger/goterm"
	"github.com/ghodss/yaml"
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

// New creates a new `peers` command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peers",
		Short: "List the configured peers",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			env, err := util.LoadEnv(fs)
			if err == nil {
				listPeers(env)
			}
			if err != nil {
				util.HandleFatalError(err)
			}
		},
	}

	var cached bool
	projectsCmd := &cobra.Command{
		Use:   "projects NAME",
		Short: "List the projects stored on a peer",
		Long: "List the bare repositories stored on the peer NAME, as a YAML map\n" +
			"from their path relative to the peer's git_path to their name.",
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			env, err := util.LoadEnv(fs)
			if err == nil {
				err = listProjects(env, args[0], cached)
			}
			if err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	projectsCmd.Flags().BoolVar(&cached, "cached", false,
		"Use the last listing fetched from the peer, if any.")
	cmd.AddCommand(projectsCmd)

	return cmd
}

func listPeers(env *node.Env) {
	table := goterm.NewTable(0, 10, 2, ' ', 0)
	fmt.Fprintln(table, "NAME\tHOST\tPRIORITY")
	for _, p := range env.Peers.All() {
		fmt.Fprintf(table, "%s\t%s\t%d\n", p.Name(), p.Host(), p.Priority())
	}
	fmt.Fprint(stdout, table.String())
}

func listProjects(env *node.Env, name string, cached bool) error {
	p, ok := env.Peers.Get(name)
	if !ok {
		return errors.NewFriendlyError("Unknown peer %q. Peers are declared in the "+
			"[PEERS] section of the echogit config.", name)
	}

	projects := p.RemoteProjects(cached)
	if p.IsDown() {
		return errors.NewFriendlyError("Peer %s (%s) is down.", p.Name(), p.Host())
	}

	out, err := yaml.Marshal(projects)
	if err != nil {
		return errors.WithContext(err, "encode")
	}

	_, err = stdout.Write(out)
	return err
}
