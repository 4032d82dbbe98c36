// Package git drives the git command line for the branch synchronization
// steps, and creates repositories with go-git.
package git

import (
	"strconv"
	"strings"

	gogit "gopkg.in/src-d/go-git.v4"
	gitconfig "gopkg.in/src-d/go-git.v4/config"

	"github.com/uncaged-coder/echogit/pkg/command"
	"github.com/uncaged-coder/echogit/pkg/errors"
)

// AutoCommitMessage is the message of commits created for projects with
// auto_commit enabled.
const AutoCommitMessage = "echogit auto commit"

// Client runs git commands in working copies.
type Client struct {
	runner command.Runner
}

// New returns a Client that runs git through `runner`.
func New(runner command.Runner) *Client {
	return &Client{runner: runner}
}

func (c *Client) git(dir string, args ...string) command.Result {
	return c.runner.Run(dir, "git", args...)
}

// CurrentBranch returns the branch checked out in `dir`.
func (c *Client) CurrentBranch(dir string) (string, error) {
	res := c.git(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if !res.Ok() {
		return "", errors.WithContext(resultError(res), "get current branch")
	}
	return res.Stdout, nil
}

// Checkout switches `dir` to `branch`.
func (c *Client) Checkout(dir, branch string) error {
	res := c.git(dir, "checkout", branch)
	if !res.Ok() {
		return errors.WithContext(resultError(res), "checkout "+branch)
	}
	return nil
}

// RemoteURL returns the URL of `remote`, and whether the remote exists.
func (c *Client) RemoteURL(dir, remote string) (string, bool) {
	res := c.git(dir, "remote", "get-url", remote)
	if !res.Ok() {
		return "", false
	}
	return res.Stdout, true
}

// EnsureRemote makes `remote` point at `url`, adding it if it's missing. The
// result is that of the command that was run, or an empty success if the
// remote was already correct.
func (c *Client) EnsureRemote(dir, remote, url string) command.Result {
	current, ok := c.RemoteURL(dir, remote)
	switch {
	case !ok:
		return c.git(dir, "remote", "add", remote, url)
	case current != url:
		return c.git(dir, "remote", "set-url", remote, url)
	default:
		return command.Result{}
	}
}

// Fetch fetches `remote`.
func (c *Client) Fetch(dir, remote string) command.Result {
	return c.git(dir, "fetch", remote)
}

// Push pushes `branch` to `remote`.
func (c *Client) Push(dir, remote, branch string) command.Result {
	return c.git(dir, "push", remote, branch)
}

// Pull pulls `branch` from `remote`.
func (c *Client) Pull(dir, remote, branch string) command.Result {
	return c.git(dir, "pull", remote, branch)
}

// Status runs `git status --porcelain`. The working tree is dirty if the
// command succeeds with a non-empty output.
func (c *Client) Status(dir string) command.Result {
	return c.git(dir, "status", "--porcelain")
}

// IsDirty returns whether a Status result describes uncommitted changes.
func IsDirty(status command.Result) bool {
	return status.Ok() && strings.TrimSpace(status.Stdout) != ""
}

// CommitAll stages and commits every change in `dir`.
func (c *Client) CommitAll(dir string) command.Result {
	if res := c.git(dir, "add", "-A", "."); !res.Ok() {
		return res
	}
	return c.git(dir, "commit", "-m", AutoCommitMessage)
}

// InitBare creates an empty bare repository at `path`.
func InitBare(path string) error {
	_, err := gogit.PlainInit(path, true)
	return err
}

// InitWorkingCopy creates a repository at `path` whose `origin` remote points
// at `originURL`.
func InitWorkingCopy(path, originURL string) error {
	repo, err := gogit.PlainInit(path, false)
	if err != nil {
		return errors.WithContext(err, "init")
	}

	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: gogit.DefaultRemoteName,
		URLs: []string{originURL},
	})
	if err != nil {
		return errors.WithContext(err, "add origin")
	}
	return nil
}

func resultError(res command.Result) error {
	if res.Err != nil {
		return res.Err
	}
	if res.Stderr != "" {
		return errors.New(res.Stderr)
	}
	return errors.New("exit status " + strconv.Itoa(res.ExitCode))
}
