// Package rsync mirrors project directories with the rsync command line.
package rsync

import (
	"strings"

	"github.com/uncaged-coder/echogit/pkg/command"
	"github.com/uncaged-coder/echogit/pkg/config"
)

// Flags are passed to every mirror. Files that are newer on the receiving
// side are kept, so mirroring in both directions converges.
var Flags = []string{"-a", "-z", "-u", "-r", "--exclude=" + config.DirName + "/"}

// Client runs rsync.
type Client struct {
	runner command.Runner
}

// New returns a Client that runs rsync through `runner`.
func New(runner command.Runner) *Client {
	return &Client{runner: runner}
}

// Mirror copies the contents of `src` into `dst`.
func (c *Client) Mirror(src, dst string) command.Result {
	args := append(append([]string{}, Flags...), withTrailingSlash(src), dst)
	return c.runner.Run("", "rsync", args...)
}

// withTrailingSlash makes rsync copy the directory's contents rather than
// the directory itself.
func withTrailingSlash(path string) string {
	if strings.HasSuffix(path, "/") {
		return path
	}
	return path + "/"
}
