// Package command runs the external tools echogit drives (git, rsync and ssh)
// and captures their results.
package command

import (
	"bytes"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// NotStarted is the exit code reported when a command couldn't be started at
// all, e.g. because the binary isn't installed.
const NotStarted = -1

// Result is the outcome of running a command. Outputs are trimmed of
// surrounding whitespace.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string

	// Err is set when the command couldn't be started or waited on. It's nil
	// for commands that ran and exited with a non-zero code.
	Err error
}

// Ok returns whether the command ran and exited successfully.
func (r Result) Ok() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Runner runs commands. Every call blocks until the command exits.
type Runner interface {
	Run(dir, name string, args ...string) Result
}

// OSRunner runs commands as local subprocesses.
type OSRunner struct{}

// Run implements Runner.
func (OSRunner) Run(dir, name string, args ...string) Result {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.WithField("dir", dir).Debugf("Running %s %s", name, strings.Join(args, " "))

	res := Result{}
	err := cmd.Run()
	if exitErr, ok := err.(*exec.ExitError); ok {
		res.ExitCode = exitErr.ExitCode()
	} else if err != nil {
		res.ExitCode = NotStarted
		res.Err = err
	}

	res.Stdout = strings.TrimSpace(stdout.String())
	res.Stderr = strings.TrimSpace(stderr.String())
	if res.Err != nil && res.Stderr == "" {
		res.Stderr = res.Err.Error()
	}
	return res
}
