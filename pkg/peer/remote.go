package peer

import (
	"fmt"
	"strings"

	"github.com/uncaged-coder/echogit/pkg/command"
)

// sshUnreachable is the exit status ssh uses for its own failures, as opposed
// to the exit status of the remote command.
const sshUnreachable = 255

// RemoteExecutor runs shell commands on other hosts.
type RemoteExecutor interface {
	// Execute runs `cmd` on `host` and returns its standard output. It
	// returns an UnreachableError if the host couldn't be reached, and a
	// CommandError if the command ran but failed.
	Execute(host, cmd string) (string, error)
}

// UnreachableError is returned when a remote host can't be reached.
type UnreachableError struct {
	Host   string
	Reason string
}

func (err UnreachableError) Error() string {
	return fmt.Sprintf("host %s is unreachable: %s", err.Host, err.Reason)
}

// CommandError is returned when a remote command exits with a non-zero
// status.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (err CommandError) Error() string {
	msg := fmt.Sprintf("remote command %q exited with status %d", err.Command, err.ExitCode)
	if err.Stderr != "" {
		msg += ": " + err.Stderr
	}
	return msg
}

// SSH executes remote commands with the ssh client. Authentication must not
// require interaction.
type SSH struct {
	runner command.Runner
}

// NewSSH returns an SSH executor that runs ssh through `runner`.
func NewSSH(runner command.Runner) *SSH {
	return &SSH{runner: runner}
}

// Execute implements RemoteExecutor.
func (s *SSH) Execute(host, cmd string) (string, error) {
	res := s.runner.Run("", "ssh", "-o", "BatchMode=yes", host, cmd)
	switch {
	case res.ExitCode == command.NotStarted || res.ExitCode == sshUnreachable:
		return "", UnreachableError{Host: host, Reason: res.Stderr}
	case !res.Ok():
		return "", CommandError{Command: cmd, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return res.Stdout, nil
}

// shellPath quotes `path` for a remote shell. A leading `~/` is left
// unquoted so that the remote shell expands it.
func shellPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return "~/" + shellQuote(strings.TrimPrefix(path, "~/"))
	}
	return shellQuote(path)
}

func shellQuote(s string) string {
	return "'" + strings.Replace(s, "'", `'\''`, -1) + "'"
}
