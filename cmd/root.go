package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/uncaged-coder/echogit/cmd/add"
	configCmd "github.com/uncaged-coder/echogit/cmd/config"
	"github.com/uncaged-coder/echogit/cmd/list"
	"github.com/uncaged-coder/echogit/cmd/peers"
	"github.com/uncaged-coder/echogit/cmd/status"
	syncCmd "github.com/uncaged-coder/echogit/cmd/sync"
	"github.com/uncaged-coder/echogit/cmd/util"
	"github.com/uncaged-coder/echogit/cmd/version"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "ECHOGIT_LOG_VERBOSE"

// Execute runs the main CLI process.
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		util.HandleFatalError(err)
	}
}

func newRootCommand() *cobra.Command {
	var verbose bool
	rootCmd := &cobra.Command{
		Use:          "echogit",
		Short:        "Keep project trees in sync across peers with git and rsync",
		SilenceUsage: true,

		// The call to rootCmd.Execute prints the error, so we silence errors
		// here to avoid double printing.
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogging(verbose || os.Getenv(verboseLogKey) == "true")
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log debug events. Also enabled by setting "+verboseLogKey+"=true.")

	rootCmd.AddCommand(
		add.New(),
		configCmd.New(),
		list.New(),
		peers.New(),
		status.New(),
		syncCmd.New(),
		version.New(),
	)
	return rootCmd
}

func setupLogging(verbose bool) {
	// Commands such as `list` and `version` are parsed by remote peers, so
	// logs never go to stdout.
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}
