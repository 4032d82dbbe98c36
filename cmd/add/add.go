package add

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/uncaged-coder/echogit/cmd/util"
	"github.com/uncaged-coder/echogit/pkg/config"
	"github.com/uncaged-coder/echogit/pkg/node"
)

// Mocked for unit testing.
var (
	fs               = afero.NewOsFs()
	stdout io.Writer = os.Stdout
)

// New creates a new `add` command.
func New() *cobra.Command {
	var rsync bool
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a new project",
		Long: "Create the project NAME: a bare repository under git_path and a\n" +
			"working copy under projects_path that syncs with every configured\n" +
			"peer. NAME may contain slashes to create the project in a folder.",
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			env, err := util.LoadEnv(fs)
			if err == nil {
				err = run(env, args[0], rsync)
			}
			if err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().BoolVar(&rsync, "rsync", false,
		"Mirror the project with rsync instead of versioning it with git.")
	return cmd
}

func run(env *node.Env, name string, rsync bool) error {
	syncType := config.SyncGit
	if rsync {
		syncType = config.SyncRsync
	}

	path, err := node.CreateProject(env, name, syncType)
	if err != nil {
		return err
	}

	log.WithField("path", path).WithField("type", syncType).Debug("Created project")
	fmt.Fprintf(stdout, "Created %s project %s at %s\n", syncType, name, path)
	return nil
}
