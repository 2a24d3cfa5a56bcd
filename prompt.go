package oauth2receiver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"

	"golang.org/x/xerrors"
)

// DefaultPromptRedirectURL is the out-of-band redirect URI used by PromptReceiver by default.
const DefaultPromptRedirectURL = "urn:ietf:wg:oauth:2.0:oob"

// DefaultPromptText is shown by PromptReceiver by default.
const DefaultPromptText = "Enter the authorization code or the URL of the redirected page: "

// PromptReceiver receives an authorization code from the user input.
// This is useful when the browser cannot reach the local server,
// e.g. the CLI runs on a remote host.
//
// The input may be the code, the URL of the redirected page,
// or the query string of the URL.
type PromptReceiver struct {
	RedirectURL string    // Default to DefaultPromptRedirectURL.
	PromptText  string    // Default to DefaultPromptText.
	Reader      io.Reader // Default to os.Stdin.
	Writer      io.Writer // Default to os.Stderr.

	once     sync.Once
	stopOnce sync.Once
	stopCh   chan struct{}
}

var _ CodeReceiver = (*PromptReceiver)(nil)

func (r *PromptReceiver) init() {
	r.once.Do(func() { r.stopCh = make(chan struct{}) })
}

// Start returns the redirect URI.
func (r *PromptReceiver) Start() (string, error) {
	r.init()
	if r.RedirectURL == "" {
		return DefaultPromptRedirectURL, nil
	}
	return r.RedirectURL, nil
}

type promptInput struct {
	line string
	err  error
}

// WaitForCode shows the prompt and reads a line.
// It returns a *StoppedError if Stop is called or ctx is done before input.
func (r *PromptReceiver) WaitForCode(ctx context.Context) (string, error) {
	r.init()
	reader, writer, text := r.Reader, r.Writer, r.PromptText
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stderr
	}
	if text == "" {
		text = DefaultPromptText
	}
	if _, err := fmt.Fprint(writer, text); err != nil {
		return "", xerrors.Errorf("could not write the prompt: %w", err)
	}

	// the reader cannot be interrupted, so the goroutine may outlive this call
	inputCh := make(chan promptInput, 1)
	go func() {
		line, err := bufio.NewReader(reader).ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		inputCh <- promptInput{line: line, err: err}
	}()

	select {
	case input := <-inputCh:
		if input.err != nil {
			return "", xerrors.Errorf("could not read the input: %w", input.err)
		}
		o, err := parsePromptInput(input.line)
		if err != nil {
			return "", err
		}
		return o.result()
	case <-r.stopCh:
		return "", &StoppedError{}
	case <-ctx.Done():
		return "", &StoppedError{Cause: ctx.Err()}
	}
}

// Stop cancels WaitForCode. It can be called many times.
func (r *PromptReceiver) Stop() error {
	r.init()
	r.stopOnce.Do(func() { close(r.stopCh) })
	return nil
}

// parsePromptInput accepts a code, a URL with the query, or a query string.
func parsePromptInput(line string) (*outcome, error) {
	input := strings.TrimSpace(line)
	if input == "" {
		return nil, xerrors.New("no authorization code is entered")
	}
	var q url.Values
	switch {
	case strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://"):
		u, err := url.Parse(input)
		if err != nil {
			return nil, xerrors.Errorf("invalid URL: %w", err)
		}
		q = u.Query()
	case strings.HasPrefix(input, "?") || strings.Contains(input, "code=") || strings.Contains(input, "error="):
		v, err := url.ParseQuery(strings.TrimPrefix(input, "?"))
		if err != nil {
			return nil, xerrors.Errorf("invalid query string: %w", err)
		}
		q = v
	default:
		return &outcome{code: input}, nil
	}
	if q.Has("error") {
		return &outcome{denied: true, errorCode: q.Get("error"), errorDescription: q.Get("error_description")}, nil
	}
	if q.Get("code") == "" {
		return nil, xerrors.Errorf("code is missing in %s", input)
	}
	return &outcome{code: q.Get("code")}, nil
}
