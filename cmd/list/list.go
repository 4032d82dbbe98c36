package list

import (
	"io"
	"os"

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

// New creates a new `list` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the bare repositories stored under git_path",
		Long: "List the bare repositories stored under git_path, as a YAML map\n" +
			"from their relative path to their name. Peers run this command\n" +
			"remotely to discover the projects they can sync.",
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			env, err := util.LoadEnv(fs)
			if err == nil {
				err = run(env)
			}
			if err != nil {
				util.HandleFatalError(err)
			}
		},
	}
}

func run(env *node.Env) error {
	if env.Config.GitPath == "" {
		return errors.NewFriendlyError("git_path isn't set in the echogit config, " +
			"so there are no repositories to list.")
	}

	root, err := util.ScanTree(env, env.Config.GitPath)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(node.BareRepos(root, env.Config.GitPath))
	if err != nil {
		return errors.WithContext(err, "encode")
	}

	_, err = stdout.Write(out)
	return err
}
