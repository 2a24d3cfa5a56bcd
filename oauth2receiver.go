// Package oauth2receiver provides a receiver of an OAuth 2.0 authorization response for CLI.
// It starts a local server, tells the redirect URI to the authorization flow,
// and waits for the browser to be redirected back with a code or an error.
//
// The receiver does not build an authorization URL nor exchange a code for a token.
// Use golang.org/x/oauth2 for them.
package oauth2receiver

import (
	"context"
)

// CodeReceiver receives an authorization code.
type CodeReceiver interface {
	// Start prepares the receiver and returns the redirect URI.
	Start() (string, error)
	// WaitForCode blocks until a code is received.
	WaitForCode(ctx context.Context) (string, error)
	// Stop releases the resources of the receiver.
	Stop() error
}
