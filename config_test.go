package oauth2receiver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var ignoreFuncFields = cmpopts.IgnoreFields(Config{}, "LocalServerMiddleware", "Logf")

func TestConfig_complete(t *testing.T) {
	t.Run("Zero", func(t *testing.T) {
		got := Config{}.complete()
		want := Config{
			LocalServerBindAddress:     "127.0.0.1",
			RedirectURLHostname:        "localhost",
			LocalServerPort:            0,
			LocalServerCallbackPath:    "/Callback",
			LocalServerSuccessHTML:     DefaultLocalServerSuccessHTML,
			LocalServerShutdownTimeout: 5 * time.Second,
		}
		if diff := cmp.Diff(want, got, ignoreFuncFields); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
		if got.LocalServerMiddleware == nil {
			t.Errorf("LocalServerMiddleware wants non-nil but was nil")
		}
		if got.Logf == nil {
			t.Errorf("Logf wants non-nil but was nil")
		}
		got.Logf("must not panic %d", 1)
	})

	t.Run("NegativePort", func(t *testing.T) {
		got := Config{LocalServerPort: -1}.complete()
		if got.LocalServerPort != 0 {
			t.Errorf("LocalServerPort wants 0 but was %d", got.LocalServerPort)
		}
	})

	t.Run("Preserved", func(t *testing.T) {
		c := Config{
			LocalServerBindAddress:     "0.0.0.0",
			RedirectURLHostname:        "127.0.0.1",
			LocalServerPort:            8000,
			LocalServerCallbackPath:    "/oauth2/callback",
			SuccessRedirectURL:         "https://example.com/success",
			FailureRedirectURL:         "https://example.com/failure",
			LocalServerSuccessHTML:     "OK",
			LocalServerShutdownTimeout: time.Second,
		}
		if diff := cmp.Diff(c, c.complete(), ignoreFuncFields); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Middleware", func(t *testing.T) {
		var called bool
		c := Config{
			LocalServerMiddleware: func(h http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					called = true
					h.ServeHTTP(w, r)
				})
			},
		}.complete()
		c.LocalServerMiddleware(http.NotFoundHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
		if !called {
			t.Errorf("middleware wants called but was not")
		}
	})
}

func TestConfig_validate(t *testing.T) {
	for name, c := range map[string]Config{
		"PortTooLarge":        {LocalServerPort: 65536},
		"PortNegative":        {LocalServerPort: -2},
		"PathWithoutSlash":    {LocalServerCallbackPath: "Callback"},
		"PathWithQuery":       {LocalServerCallbackPath: "/Callback?foo=bar"},
		"PathWithFragment":    {LocalServerCallbackPath: "/Callback#top"},
		"HostnameWithPath":    {RedirectURLHostname: "localhost/Callback"},
		"HostnameWithSpace":   {RedirectURLHostname: "local host"},
		"RelativeSuccessURL":  {SuccessRedirectURL: "/success"},
		"NonHTTPFailureURL":   {FailureRedirectURL: "ftp://example.com/failure"},
		"NegativeTimeout":     {LocalServerShutdownTimeout: -time.Second},
		"SuccessURLNoHost":    {SuccessRedirectURL: "https:///success"},
		"FailureURLMalformed": {FailureRedirectURL: "http://[::1"},
	} {
		t.Run(name, func(t *testing.T) {
			err := c.complete().validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err wants ErrInvalidConfig but was %+v", err)
			}
			t.Logf("expected error: %s", err)
		})
	}

	for name, c := range map[string]Config{
		"Zero":          {},
		"EphemeralPort": {LocalServerPort: -1},
		"MaxPort":       {LocalServerPort: 65535},
		"AllInterfaces": {LocalServerBindAddress: "0.0.0.0", RedirectURLHostname: "127.0.0.1"},
		"IPv6Hostname":  {RedirectURLHostname: "::1"},
		"RedirectURLs": {
			SuccessRedirectURL: "https://example.com/success",
			FailureRedirectURL: "http://localhost:8080/failure",
		},
	} {
		t.Run(name, func(t *testing.T) {
			if err := c.complete().validate(); err != nil {
				t.Errorf("validate error: %s", err)
			}
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	r, err := New(Config{LocalServerCallbackPath: "Callback"})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err wants ErrInvalidConfig but was %+v", err)
	}
	if r != nil {
		t.Errorf("receiver wants nil but was %+v", r)
	}
}
