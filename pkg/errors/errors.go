package errors

import (
	"errors"
	"fmt"
)

// New returns an error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// contextError annotates an error with a short description of what was being
// attempted when it occurred.
type contextError struct {
	err     error
	context string
}

// WithContext wraps `err` with `context`. The context should be a short
// description of the operation, e.g. "read config". Nil errors stay nil.
func WithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return contextError{err: err, context: context}
}

func (err contextError) Error() string {
	return fmt.Sprintf("%s: %s", err.context, err.err)
}

func (err contextError) Unwrap() error {
	return err.err
}

// FriendlyError is an error whose message is intended to be read by users
// directly, rather than being a chain of developer-oriented contexts.
type FriendlyError struct {
	template string
	args     []interface{}
}

// NewFriendlyError creates an error that's printed to users without any of the
// contexts that may have been added on top of it.
func NewFriendlyError(template string, args ...interface{}) error {
	return FriendlyError{template: template, args: args}
}

func (err FriendlyError) Error() string {
	return err.FriendlyMessage()
}

// FriendlyMessage returns the formatted message.
func (err FriendlyError) FriendlyMessage() string {
	return fmt.Sprintf(err.template, err.args...)
}

type friendlyMessager interface {
	FriendlyMessage() string
}

// GetPrintableMessage returns the message that should be shown to users for
// `err`. If any error in the chain has a friendly message, it's used instead
// of the full chain.
func GetPrintableMessage(err error) string {
	for curr := err; curr != nil; curr = errors.Unwrap(curr) {
		if friendly, ok := curr.(friendlyMessager); ok {
			return friendly.FriendlyMessage()
		}
	}
	return err.Error()
}
