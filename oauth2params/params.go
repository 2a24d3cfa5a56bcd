// Package oauth2params provides the parameters of an authorization request
// which are used together with a code receiver.
package oauth2params

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/oauth2"
	"golang.org/x/xerrors"
)

// PKCE represents a set of the PKCE parameters.
// See https://tools.ietf.org/html/rfc7636
type PKCE struct {
	CodeChallenge       string
	CodeChallengeMethod string
	CodeVerifier        string
}

// NewPKCE returns a new PKCE with the S256 method.
func NewPKCE() (*PKCE, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, xerrors.Errorf("could not generate a random: %w", err)
	}
	s := computeS256(b)
	return &s, nil
}

func computeS256(b []byte) PKCE {
	v := base64.RawURLEncoding.EncodeToString(b)
	s := sha256.Sum256([]byte(v))
	return PKCE{
		CodeChallenge:       base64.RawURLEncoding.EncodeToString(s[:]),
		CodeChallengeMethod: "S256",
		CodeVerifier:        v,
	}
}

// AuthCodeOptions returns the options for oauth2.Config.AuthCodeURL().
func (pkce *PKCE) AuthCodeOptions() []oauth2.AuthCodeOption {
	return []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("code_challenge", pkce.CodeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", pkce.CodeChallengeMethod),
	}
}

// TokenRequestOptions returns the options for oauth2.Config.Exchange().
// The verifier must be sent by whoever exchanges the code.
func (pkce *PKCE) TokenRequestOptions() []oauth2.AuthCodeOption {
	return []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("code_verifier", pkce.CodeVerifier),
	}
}
