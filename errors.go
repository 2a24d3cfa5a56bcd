package oauth2receiver

import (
	"fmt"

	"golang.org/x/xerrors"
)

var (
	// ErrInvalidConfig is wrapped by the error of New when the configuration is invalid.
	ErrInvalidConfig = xerrors.New("invalid config")
	// ErrAlreadyStarted is returned by Start when it is called more than once.
	ErrAlreadyStarted = xerrors.New("the receiver is already started")
	// ErrStopped is returned by Start when the receiver is already stopped.
	ErrStopped = xerrors.New("the receiver is already stopped")
)

// BindError represents an error while binding the local server.
// For example, the port is already in use or not permitted.
type BindError struct {
	Address string
	err     error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("could not bind the local server to %s: %s", e.Address, e.err)
}

func (e *BindError) Unwrap() error { return e.err }

// StartError represents an error while starting the local server, other than binding.
type StartError struct {
	err error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("could not start the local server: %s", e.err)
}

func (e *StartError) Unwrap() error { return e.err }

// AuthorizationDeniedError represents an error response from the authorization server.
// See https://tools.ietf.org/html/rfc6749#section-4.1.2.1
type AuthorizationDeniedError struct {
	Reason      string // error parameter, e.g. access_denied
	Description string // error_description parameter if given
}

func (e *AuthorizationDeniedError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("authorization denied (%s: %s)", e.Reason, e.Description)
	}
	return fmt.Sprintf("authorization denied (%s)", e.Reason)
}

// StoppedError is returned by WaitForCode when the receiver is stopped
// before any authorization response is received.
// Cause is the error of the context if the wait was cancelled by a context.
type StoppedError struct {
	Cause error
}

func (e *StoppedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("stopped without an authorization response: %s", e.Cause)
	}
	return "stopped without an authorization response"
}

func (e *StoppedError) Unwrap() error { return e.Cause }
