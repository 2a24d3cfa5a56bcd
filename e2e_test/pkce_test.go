package e2e_test

import (
	"fmt"
	"testing"

	"github.com/int128/oauth2receiver"
	"github.com/int128/oauth2receiver/e2e_test/authserver"
	"github.com/int128/oauth2receiver/oauth2params"
)

func TestPKCE(t *testing.T) {
	pkce, err := oauth2params.NewPKCE()
	if err != nil {
		t.Fatalf("NewPKCE error: %s", err)
	}
	h := &authserver.Handler{
		T: t,
		NewAuthorizationResponse: func(r authserver.AuthorizationRequest) string {
			if r.Raw.Get("code_challenge_method") != "S256" {
				t.Errorf("code_challenge_method wants S256 but was %s", r.Raw.Get("code_challenge_method"))
			}
			if r.Raw.Get("code_challenge") != pkce.CodeChallenge {
				t.Errorf("code_challenge wants %s but was %s", pkce.CodeChallenge, r.Raw.Get("code_challenge"))
			}
			if r.Raw.Has("code_verifier") {
				t.Errorf("code_verifier must not be sent to the authorization endpoint")
			}
			return fmt.Sprintf("%s?state=%s&code=%s", r.RedirectURI, r.State, "AUTH_CODE")
		},
	}
	code, err := doAuthCodeFlow(t,
		oauth2receiver.Config{},
		h,
		browser{wantStatus: 200, wantBody: oauth2receiver.DefaultLocalServerSuccessHTML},
		pkce.AuthCodeOptions()...,
	)
	if err != nil {
		t.Fatalf("could not receive a code: %s", err)
	}
	if code != "AUTH_CODE" {
		t.Errorf("code wants %s but %s", "AUTH_CODE", code)
	}
}
