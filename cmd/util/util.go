package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/uncaged-coder/echogit/pkg/command"
	"github.com/uncaged-coder/echogit/pkg/config"
	"github.com/uncaged-coder/echogit/pkg/errors"
	"github.com/uncaged-coder/echogit/pkg/node"
	"github.com/uncaged-coder/echogit/pkg/peer"
)

// Mocked for unit testing.
var (
	exit                          = os.Exit
	parseLocalConfig              = config.ParseLocal
	getWorkingDirectory           = os.Getwd
	stderr              io.Writer = os.Stderr
)

var runner command.Runner = command.OSRunner{}

// HandleFatalError prints the user facing message of `err` and exits.
func HandleFatalError(err error) {
	log.WithError(err).Debug("Fatal error")
	fmt.Fprintln(stderr, errors.GetPrintableMessage(err))
	exit(1)
}

// HandlePanic logs a panic along with its stack trace before exiting. It must
// be deferred.
func HandlePanic() {
	if r := recover(); r != nil {
		log.WithField("panic", r).Errorf("Unexpected panic. Stack trace:\n%s", debug.Stack())
		exit(1)
	}
}

// LoadEnv parses the local config and returns the environment used to build
// node trees. Commands run as local subprocesses, and peers are reached over
// ssh.
func LoadEnv(fs afero.Fs) (*node.Env, error) {
	cfg, err := parseLocalConfig(fs)
	if err != nil {
		return nil, errors.WithContext(err, "parse config")
	}
	return node.NewEnv(fs, cfg, runner, peer.NewSSH(runner)), nil
}

// ResolveRoot returns the root directory of a command: the path given as its
// argument, or `def`.
func ResolveRoot(args []string, def string) (string, error) {
	if len(args) == 0 {
		return def, nil
	}

	path := args[0]
	if !filepath.IsAbs(path) {
		wd, err := getWorkingDirectory()
		if err != nil {
			return "", errors.WithContext(err, "get working directory")
		}
		path = filepath.Join(wd, path)
	}
	return filepath.Clean(path), nil
}

// ScanTree builds and scans the node tree rooted at `path`.
func ScanTree(env *node.Env, path string) (node.Node, error) {
	root, err := node.New(env, path, nil)
	if err != nil {
		return nil, errors.WithContext(err, "load "+path)
	}

	if err := root.Scan(); err != nil {
		return nil, errors.WithContext(err, "scan "+path)
	}
	return root, nil
}
