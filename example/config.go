package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig represents the config file, for example:
//
//	client_id = "YOUR_CLIENT_ID"
//	scopes = ["email"]
//	timeout = "5m"
//
//	[local_server]
//	port = 8000
//	callback_path = "/oauth2/callback"
type fileConfig struct {
	ClientID    string            `toml:"client_id"`
	AuthURL     string            `toml:"auth_url"`
	Scopes      []string          `toml:"scopes"`
	PKCE        bool              `toml:"pkce"`
	Timeout     string            `toml:"timeout"`
	LocalServer localServerConfig `toml:"local_server"`
}

type localServerConfig struct {
	BindAddress         string `toml:"bind_address"`
	RedirectURLHostname string `toml:"redirect_url_hostname"`
	Port                int    `toml:"port"`
	CallbackPath        string `toml:"callback_path"`
	SuccessRedirectURL  string `toml:"success_redirect_url"`
	FailureRedirectURL  string `toml:"failure_redirect_url"`
}

func loadConfigFile(path string) (*fileConfig, error) {
	var c fileConfig
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return nil, fmt.Errorf("could not load the config file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return &c, nil
}

// applyTo overwrites the options with the values set in the file.
func (c *fileConfig) applyTo(o *options) error {
	if c.ClientID != "" {
		o.clientID = c.ClientID
	}
	if c.AuthURL != "" {
		o.authURL = c.AuthURL
	}
	if len(c.Scopes) > 0 {
		o.scopes = c.Scopes
	}
	if c.PKCE {
		o.pkce = true
	}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
		}
		o.timeout = d
	}
	ls := c.LocalServer
	if ls.BindAddress != "" {
		o.receiver.LocalServerBindAddress = ls.BindAddress
	}
	if ls.RedirectURLHostname != "" {
		o.receiver.RedirectURLHostname = ls.RedirectURLHostname
	}
	if ls.Port != 0 {
		o.receiver.LocalServerPort = ls.Port
	}
	if ls.CallbackPath != "" {
		o.receiver.LocalServerCallbackPath = ls.CallbackPath
	}
	if ls.SuccessRedirectURL != "" {
		o.receiver.SuccessRedirectURL = ls.SuccessRedirectURL
	}
	if ls.FailureRedirectURL != "" {
		o.receiver.FailureRedirectURL = ls.FailureRedirectURL
	}
	return nil
}
