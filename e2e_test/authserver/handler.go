// Package authserver provides a stub server of the OAuth 2.0 authorization server.
// This supports the authorization endpoint of the authorization code grant described as:
// https://tools.ietf.org/html/rfc6749#section-4.1
package authserver

import (
	"errors"
	"net/http"
	"net/url"
	"testing"
)

// AuthorizationRequest represents an authorization request described as:
// https://tools.ietf.org/html/rfc6749#section-4.1.1
type AuthorizationRequest struct {
	Scope       string
	State       string
	RedirectURI string
	Raw         url.Values
}

// Handler handles HTTP requests.
type Handler struct {
	T *testing.T

	// This should return a URL with query parameters of authorization response.
	// See https://tools.ietf.org/html/rfc6749#section-4.1.2
	NewAuthorizationResponse func(r AuthorizationRequest) string
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.T.Logf("authServer: %s %s", r.Method, r.RequestURI)
	if err := h.serveHTTP(w, r); err != nil {
		h.T.Errorf("Handler error: %s", err)
		http.Error(w, err.Error(), 500)
	}
}

func (h *Handler) serveHTTP(w http.ResponseWriter, r *http.Request) error {
	if r.Method != "GET" || r.URL.Path != "/auth" {
		http.NotFound(w, r)
		return nil
	}
	q := r.URL.Query()
	scope, state, redirectURI := q.Get("scope"), q.Get("state"), q.Get("redirect_uri")
	if q.Get("response_type") != "code" {
		return errors.New("response_type must be code")
	}
	if scope == "" {
		return errors.New("scope is missing")
	}
	if state == "" {
		return errors.New("state is missing")
	}
	if redirectURI == "" {
		return errors.New("redirect_uri is missing")
	}
	to := h.NewAuthorizationResponse(AuthorizationRequest{
		Scope:       scope,
		State:       state,
		RedirectURI: redirectURI,
		Raw:         q,
	})
	http.Redirect(w, r, to, 302)
	return nil
}
