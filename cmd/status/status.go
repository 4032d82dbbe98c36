package status

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/buger/goterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/uncaged-coder/echogit/cmd/util"
	"github.com/uncaged-coder/echogit/pkg/node"
)

// Mocked for unit testing.
var (
	fs                   = afero.NewOsFs()
	stdout     io.Writer = os.Stdout
	isTerminal           = func() bool { return terminal.IsTerminal(int(os.Stdout.Fd())) }
)

type options struct {
	logs     bool
	color    bool
	collapse map[string]struct{}
}

// New creates a new `status` command.
func New() *cobra.Command {
	var showLogs bool
	cmd := &cobra.Command{
		Use:   "status [PATH]",
		Short: "Show the outcome of the last synchronization",
		Long: "Show the projects below PATH, and the outcome of their last\n" +
			"synchronization, without syncing. Failed steps are shown as R\n" +
			"(remote), P (push), L (pull) and D (dirty working tree). DOWN\n" +
			"marks peers that couldn't be reached.",
		Args: cobra.MaximumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			env, err := util.LoadEnv(fs)
			if err == nil {
				err = run(env, args, showLogs)
			}
			if err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().BoolVar(&showLogs, "logs", false,
		"Print the command outputs of the projects that have errors.")
	return cmd
}

func run(env *node.Env, args []string, showLogs bool) error {
	path, err := util.ResolveRoot(args, env.Config.ProjectsPath)
	if err != nil {
		return err
	}

	root, err := util.ScanTree(env, path)
	if err != nil {
		return err
	}

	opts := options{
		logs:     showLogs,
		color:    isTerminal(),
		collapse: map[string]struct{}{},
	}
	for _, name := range env.Config.CollapseFolders {
		opts.collapse[name] = struct{}{}
	}

	printNode(stdout, root, 0, opts)
	return nil
}

func printNode(w io.Writer, n node.Node, depth int, opts options) {
	indent := strings.Repeat("  ", depth)
	if n.IsFolder() {
		_, collapsed := opts.collapse[n.Name()]
		if collapsed {
			fmt.Fprintf(w, "%s%s/ [%s]\n", indent, n.Name(), stateString(n, opts))
			return
		}

		fmt.Fprintf(w, "%s%s/\n", indent, n.Name())
		for _, child := range n.Children() {
			printNode(w, child, depth+1, opts)
		}
		return
	}

	fmt.Fprintf(w, "%s%s [%s]\n", indent, n.Name(), stateString(n, opts))
	if opts.logs && n.HasError() && (n.Type() == node.GitProject || n.Type() == node.RsyncProject) {
		for _, line := range strings.Split(strings.TrimRight(n.Logs(), "\n"), "\n") {
			fmt.Fprintf(w, "%s  | %s\n", indent, line)
		}
	}

	switch n.Type() {
	case node.GitProject, node.RsyncProject, node.RepositoryPeer:
		for _, child := range n.Children() {
			printNode(w, child, depth+1, opts)
		}
	}
}

func stateString(n node.Node, opts options) string {
	state := n.StateString()
	if !opts.color {
		return state
	}

	switch {
	case n.HasError():
		return goterm.Color(state, goterm.RED)
	case n.PeerDown():
		return goterm.Color(state, goterm.YELLOW)
	}
	return goterm.Color(state, goterm.GREEN)
}
