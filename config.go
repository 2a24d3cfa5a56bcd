package oauth2receiver

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/int128/oauth2receiver/internal"
	"golang.org/x/xerrors"
)

const (
	// DefaultLocalServerBindAddress is the address which the local server binds to by default.
	DefaultLocalServerBindAddress = "127.0.0.1"
	// DefaultRedirectURLHostname is the hostname of the redirect URI by default.
	DefaultRedirectURLHostname = "localhost"
	// DefaultLocalServerCallbackPath is the path of the redirect URI by default.
	DefaultLocalServerCallbackPath = "/Callback"
	// DefaultLocalServerShutdownTimeout bounds the graceful shutdown after Stop.
	DefaultLocalServerShutdownTimeout = 5 * time.Second
)

// DefaultLocalServerSuccessHTML is the default response body on authorization completed.
const DefaultLocalServerSuccessHTML = `<html>
<head><title>OAuth 2.0 Authentication Token Received</title></head>
<body>
Received verification code. You may now close this window.
</body>
</html>
`

// Config represents a config for LocalServerReceiver.
// The zero value is valid and means a random port on 127.0.0.1
// with the redirect URI http://localhost:PORT/Callback.
type Config struct {
	// Address which the local server binds to.
	// Set to "0.0.0.0" to bind all interfaces.
	// Default to "127.0.0.1".
	LocalServerBindAddress string
	// Hostname of the redirect URI.
	// Default to "localhost".
	RedirectURLHostname string
	// Port which the local server binds to.
	// Set 0 or -1 to allocate a free port.
	LocalServerPort int
	// Path of the redirect URI.
	// Only requests to this path are treated as an authorization response.
	// Default to "/Callback".
	LocalServerCallbackPath string

	// Redirect URL upon successful authorization.
	// Default to none, that is, DefaultLocalServerSuccessHTML is shown.
	SuccessRedirectURL string
	// Redirect URL upon failed authorization.
	// Default to none, that is, DefaultLocalServerSuccessHTML is shown.
	FailureRedirectURL string
	// Response HTML body on authorization completed.
	// Default to DefaultLocalServerSuccessHTML.
	LocalServerSuccessHTML string
	// Middleware for the local server. Default to none.
	LocalServerMiddleware func(h http.Handler) http.Handler
	// Maximum duration to drain connections after Stop.
	// Default to DefaultLocalServerShutdownTimeout.
	LocalServerShutdownTimeout time.Duration

	// Logger for debug messages. Default to none.
	Logf func(format string, args ...interface{})
}

// complete returns a copy of the config filled with the default values.
func (c Config) complete() Config {
	if c.LocalServerBindAddress == "" {
		c.LocalServerBindAddress = DefaultLocalServerBindAddress
	}
	if c.RedirectURLHostname == "" {
		c.RedirectURLHostname = DefaultRedirectURLHostname
	}
	if c.LocalServerPort == -1 {
		c.LocalServerPort = 0
	}
	if c.LocalServerCallbackPath == "" {
		c.LocalServerCallbackPath = DefaultLocalServerCallbackPath
	}
	if c.LocalServerSuccessHTML == "" {
		c.LocalServerSuccessHTML = DefaultLocalServerSuccessHTML
	}
	if c.LocalServerMiddleware == nil {
		c.LocalServerMiddleware = internal.DefaultMiddleware
	}
	if c.LocalServerShutdownTimeout == 0 {
		c.LocalServerShutdownTimeout = DefaultLocalServerShutdownTimeout
	}
	if c.Logf == nil {
		c.Logf = func(string, ...interface{}) {}
	}
	return c
}

func (c Config) validate() error {
	if c.LocalServerPort < 0 || c.LocalServerPort > 65535 {
		return fmt.Errorf("%w: LocalServerPort must be -1 or in 0-65535 but was %d", ErrInvalidConfig, c.LocalServerPort)
	}
	if !strings.HasPrefix(c.LocalServerCallbackPath, "/") {
		return fmt.Errorf("%w: LocalServerCallbackPath must start with / but was %q", ErrInvalidConfig, c.LocalServerCallbackPath)
	}
	if strings.ContainsAny(c.LocalServerCallbackPath, "?#") {
		return fmt.Errorf("%w: LocalServerCallbackPath must not contain a query or fragment but was %q", ErrInvalidConfig, c.LocalServerCallbackPath)
	}
	if strings.ContainsAny(c.RedirectURLHostname, "/?#@ ") {
		return fmt.Errorf("%w: RedirectURLHostname must be a hostname but was %q", ErrInvalidConfig, c.RedirectURLHostname)
	}
	if err := validateRedirectURL(c.SuccessRedirectURL); err != nil {
		return fmt.Errorf("%w: SuccessRedirectURL: %s", ErrInvalidConfig, err)
	}
	if err := validateRedirectURL(c.FailureRedirectURL); err != nil {
		return fmt.Errorf("%w: FailureRedirectURL: %s", ErrInvalidConfig, err)
	}
	if c.LocalServerShutdownTimeout < 0 {
		return fmt.Errorf("%w: LocalServerShutdownTimeout must not be negative", ErrInvalidConfig)
	}
	return nil
}

func validateRedirectURL(s string) error {
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return xerrors.Errorf("could not parse the URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return xerrors.Errorf("scheme must be http or https but was %q", u.Scheme)
	}
	if u.Host == "" {
		return xerrors.Errorf("host is missing in %s", s)
	}
	return nil
}
