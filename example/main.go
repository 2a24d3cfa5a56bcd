package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/int128/oauth2receiver"
	"github.com/int128/oauth2receiver/internal"
	"github.com/int128/oauth2receiver/oauth2params"
	"github.com/pkg/browser"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

const defaultAuthURL = "https://accounts.google.com/o/oauth2/auth"

type options struct {
	clientID  string
	authURL   string
	scopes    []string
	receiver  oauth2receiver.Config
	timeout   time.Duration
	noBrowser bool
	manual    bool
	pkce      bool
}

// environment is the outside world of the command.
type environment struct {
	stdin       io.Reader
	stdout      io.Writer
	logger      *log.Logger
	openBrowser func(url string) error
}

func newLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{ReportTimestamp: true})
}

func main() {
	env := environment{
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		logger:      newLogger(os.Stderr),
		openBrowser: browser.OpenURL,
	}
	app := newCommand(env, run)
	if err := app.Run(context.Background(), os.Args); err != nil {
		env.logger.Fatalf("authorization error: %s", err)
	}
}

func newCommand(env environment, action func(context.Context, options, environment) error) *cli.Command {
	return &cli.Command{
		Name:  "oauth2receiver-example",
		Usage: "Receive an authorization code via a local server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to a TOML config file"},
			&cli.StringFlag{Name: "client-id", Usage: "OAuth Client ID"},
			&cli.StringFlag{Name: "auth-url", Value: defaultAuthURL, Usage: "Authorization URL of the endpoint"},
			&cli.StringSliceFlag{Name: "scopes", Value: []string{"email"}, Usage: "Scopes to request"},
			&cli.StringFlag{Name: "bind-address", Usage: "Address which the local server binds to (default: 127.0.0.1)"},
			&cli.StringFlag{Name: "hostname", Usage: "Hostname of the redirect URI (default: localhost)"},
			&cli.IntFlag{Name: "port", Usage: "Port of the local server (default: a free port)"},
			&cli.StringFlag{Name: "callback-path", Usage: "Path of the redirect URI (default: /Callback)"},
			&cli.StringFlag{Name: "success-redirect-url", Usage: "Redirect the browser here on success"},
			&cli.StringFlag{Name: "failure-redirect-url", Usage: "Redirect the browser here on failure"},
			&cli.DurationFlag{Name: "timeout", Usage: "Stop waiting after the duration (default: no timeout)"},
			&cli.BoolFlag{Name: "no-browser", Usage: "Do not open the browser"},
			&cli.BoolFlag{Name: "manual", Usage: "Paste the code or the redirected URL instead of the local server"},
			&cli.BoolFlag{Name: "pkce", Usage: "Send a PKCE challenge and print the verifier"},
			&cli.BoolFlag{Name: "debug", Usage: "Show debug logs"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("debug") {
				env.logger.SetLevel(log.DebugLevel)
			}
			o, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			if o.clientID == "" {
				return errors.New("client-id is required. Set --client-id or client_id in the config file")
			}
			o.receiver.Logf = env.logger.Debugf
			return action(ctx, o, env)
		},
	}
}

// loadOptions reads the config file and then the flags.
// A flag wins over the config file if it is set.
func loadOptions(cmd *cli.Command) (options, error) {
	o := options{
		authURL: cmd.String("auth-url"),
		scopes:  cmd.StringSlice("scopes"),
	}
	if path := cmd.String("config"); path != "" {
		c, err := loadConfigFile(path)
		if err != nil {
			return o, err
		}
		if err := c.applyTo(&o); err != nil {
			return o, err
		}
	}
	if cmd.IsSet("client-id") {
		o.clientID = cmd.String("client-id")
	}
	if cmd.IsSet("auth-url") {
		o.authURL = cmd.String("auth-url")
	}
	if cmd.IsSet("scopes") {
		o.scopes = cmd.StringSlice("scopes")
	}
	if cmd.IsSet("bind-address") {
		o.receiver.LocalServerBindAddress = cmd.String("bind-address")
	}
	if cmd.IsSet("hostname") {
		o.receiver.RedirectURLHostname = cmd.String("hostname")
	}
	if cmd.IsSet("port") {
		o.receiver.LocalServerPort = int(cmd.Int("port"))
	}
	if cmd.IsSet("callback-path") {
		o.receiver.LocalServerCallbackPath = cmd.String("callback-path")
	}
	if cmd.IsSet("success-redirect-url") {
		o.receiver.SuccessRedirectURL = cmd.String("success-redirect-url")
	}
	if cmd.IsSet("failure-redirect-url") {
		o.receiver.FailureRedirectURL = cmd.String("failure-redirect-url")
	}
	if cmd.IsSet("timeout") {
		o.timeout = cmd.Duration("timeout")
	}
	if cmd.IsSet("pkce") {
		o.pkce = cmd.Bool("pkce")
	}
	o.noBrowser = cmd.Bool("no-browser")
	o.manual = cmd.Bool("manual")
	return o, nil
}

func newReceiver(o options, env environment) (oauth2receiver.CodeReceiver, func() error, error) {
	if o.manual {
		r := &oauth2receiver.PromptReceiver{Reader: env.stdin}
		return r, func() error { return nil }, nil
	}
	r, err := oauth2receiver.New(o.receiver)
	if err != nil {
		return nil, nil, err
	}
	return r, r.Wait, nil
}

func run(ctx context.Context, o options, env environment) error {
	receiver, wait, err := newReceiver(o, env)
	if err != nil {
		return err
	}
	redirectURI, err := receiver.Start()
	if err != nil {
		return fmt.Errorf("could not start the receiver: %w", err)
	}
	defer func() {
		if err := receiver.Stop(); err != nil {
			env.logger.Warnf("could not stop the receiver: %s", err)
		}
		if err := wait(); err != nil {
			env.logger.Warnf("local server error: %s", err)
		}
	}()
	if o.timeout > 0 {
		timer := time.AfterFunc(o.timeout, func() {
			env.logger.Warnf("no authorization response within %s", o.timeout)
			_ = receiver.Stop()
		})
		defer timer.Stop()
	}

	state, err := internal.NewOAuth2State()
	if err != nil {
		return err
	}
	var pkce *oauth2params.PKCE
	var authCodeOptions []oauth2.AuthCodeOption
	if o.pkce {
		if pkce, err = oauth2params.NewPKCE(); err != nil {
			return err
		}
		authCodeOptions = pkce.AuthCodeOptions()
	}
	oauth2Config := oauth2.Config{
		ClientID:    o.clientID,
		Endpoint:    oauth2.Endpoint{AuthURL: o.authURL},
		RedirectURL: redirectURI,
		Scopes:      o.scopes,
	}
	authCodeURL := oauth2Config.AuthCodeURL(state, authCodeOptions...)
	env.logger.Debugf("redirect URI is %s", redirectURI)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if o.noBrowser || o.manual {
			env.logger.Infof("Open %s", authCodeURL)
			return nil
		}
		env.logger.Infof("Opening %s", authCodeURL)
		if err := env.openBrowser(authCodeURL); err != nil {
			env.logger.Warnf("could not open the browser: %s", err)
			env.logger.Infof("Open %s", authCodeURL)
		}
		return nil
	})
	var code string
	eg.Go(func() error {
		var err error
		code, err = receiver.WaitForCode(ctx)
		if err != nil {
			return fmt.Errorf("could not receive an authorization code: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return err
	}
	env.logger.Infof("You got an authorization code")
	return printResult(env.stdout, code, pkce)
}

func printResult(w io.Writer, code string, pkce *oauth2params.PKCE) error {
	v := url.Values{}
	v.Set("code", code)
	if pkce != nil {
		v.Set("code_verifier", pkce.CodeVerifier)
	}
	if _, err := fmt.Fprintln(w, v.Encode()); err != nil {
		return fmt.Errorf("could not write the result: %w", err)
	}
	return nil
}
