package oauth2params

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/oauth2"
)

func Test_computeS256(t *testing.T) {
	// Testdata described at:
	// https://tools.ietf.org/html/rfc7636#appendix-B
	b := []byte{
		116, 24, 223, 180, 151, 153, 224, 37, 79, 250, 96, 125, 216, 173,
		187, 186, 22, 212, 37, 77, 105, 214, 191, 240, 91, 88, 5, 88, 83,
		132, 141, 121,
	}
	got := computeS256(b)
	want := PKCE{
		CodeChallenge:       "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM",
		CodeChallengeMethod: "S256",
		CodeVerifier:        "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNewPKCE(t *testing.T) {
	p1, err := NewPKCE()
	if err != nil {
		t.Fatalf("NewPKCE error: %s", err)
	}
	p2, err := NewPKCE()
	if err != nil {
		t.Fatalf("NewPKCE error: %s", err)
	}
	if p1.CodeVerifier == p2.CodeVerifier {
		t.Errorf("CodeVerifier wants random but both were %s", p1.CodeVerifier)
	}
	if len(p1.CodeVerifier) != 43 {
		t.Errorf("len(CodeVerifier) wants 43 but was %d", len(p1.CodeVerifier))
	}
}

func TestPKCE_AuthCodeOptions(t *testing.T) {
	pkce := PKCE{CodeChallenge: "CHALLENGE", CodeChallengeMethod: "S256", CodeVerifier: "VERIFIER"}
	cfg := oauth2.Config{
		ClientID:    "YOUR_CLIENT_ID",
		Endpoint:    oauth2.Endpoint{AuthURL: "https://example.com/auth"},
		RedirectURL: "http://localhost:8000/Callback",
	}
	u, err := url.Parse(cfg.AuthCodeURL("STATE", pkce.AuthCodeOptions()...))
	if err != nil {
		t.Fatalf("could not parse the URL: %s", err)
	}
	q := u.Query()
	want := map[string]string{
		"code_challenge":        "CHALLENGE",
		"code_challenge_method": "S256",
		"state":                 "STATE",
		"redirect_uri":          "http://localhost:8000/Callback",
	}
	got := map[string]string{}
	for key := range want {
		got[key] = q.Get(key)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if q.Has("code_verifier") {
		t.Errorf("code_verifier must not be sent in the authorization request")
	}
	if n := len(pkce.TokenRequestOptions()); n != 1 {
		t.Errorf("len(TokenRequestOptions) wants 1 but was %d", n)
	}
}
