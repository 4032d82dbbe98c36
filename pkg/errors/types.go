package errors

import (
	"fmt"
)

// ErrPeerDown is returned by operations that need a peer which has been
// marked unreachable during this run.
var ErrPeerDown = New("peer is down")

// MissingFieldError represents a missing required field.
type MissingFieldError struct {
	Field string
}

func (err MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", err.Field)
}

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}

// ClassificationError is returned when a node is requested for a path whose
// filesystem shape doesn't match any node type.
type ClassificationError struct {
	Path string
}

func (err ClassificationError) Error() string {
	return fmt.Sprintf("unknown node type for %q", err.Path)
}

// ConfigError represents a missing or invalid node or peer configuration.
type ConfigError struct {
	Path   string
	Reason string
}

func (err ConfigError) Error() string {
	if err.Path == "" {
		return fmt.Sprintf("invalid config: %s", err.Reason)
	}
	return fmt.Sprintf("invalid config %q: %s", err.Path, err.Reason)
}

// NoRemoteLocationError is returned when a peer has neither a bare git nor a
// bare rsync store for a project.
type NoRemoteLocationError struct {
	Peer string
	Base string
}

func (err NoRemoteLocationError) Error() string {
	return fmt.Sprintf("peer %s has no .git or .rsync store at %s", err.Peer, err.Base)
}
