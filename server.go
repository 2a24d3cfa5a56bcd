package oauth2receiver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/int128/oauth2receiver/internal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

// LocalServerReceiver receives an authorization code via a local server.
// It is intended for a single authorization attempt.
// Create a new instance for another attempt.
type LocalServerReceiver struct {
	config     Config
	completion *completion

	mu       sync.Mutex
	started  bool
	stopped  bool
	listener *localServerListener
	server   *http.Server
	stopCh   chan struct{}
	eg       errgroup.Group
}

var _ CodeReceiver = (*LocalServerReceiver)(nil)

// New returns a LocalServerReceiver with a copy of the config.
// It returns an error wrapping ErrInvalidConfig if the config is invalid.
func New(c Config) (*LocalServerReceiver, error) {
	config := c.complete()
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &LocalServerReceiver{
		config:     config,
		completion: newCompletion(),
		stopCh:     make(chan struct{}),
	}, nil
}

// Start starts the local server and returns the redirect URI.
//
// This returns a *BindError if the port is not available,
// or a *StartError if the server could not be started for other reasons.
// It can be called only once.
func (r *LocalServerReceiver) Start() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return "", ErrStopped
	}
	if r.started {
		return "", ErrAlreadyStarted
	}
	l, err := newLocalServerListener(r.config.LocalServerBindAddress, r.config.LocalServerPort)
	if err != nil {
		return "", err
	}
	r.started = true
	r.listener = l
	r.server = &http.Server{
		Handler: r.config.LocalServerMiddleware(&callbackHandler{
			config:     &r.config,
			completion: r.completion,
			next:       http.NotFoundHandler(),
		}),
	}
	r.eg.Go(func() error {
		if err := r.server.Serve(l); err != nil && err != http.ErrServerClosed && !errors.Is(err, net.ErrClosed) {
			return xerrors.Errorf("could not serve the local server: %w", err)
		}
		return nil
	})
	r.eg.Go(func() error {
		<-r.stopCh
		return r.shutdown()
	})
	redirectURI := r.redirectURI()
	r.config.Logf("oauth2receiver: started the local server at %s, redirect URI is %s", l.Addr(), redirectURI)
	return redirectURI, nil
}

func (r *LocalServerReceiver) redirectURI() string {
	host := internal.BindAddress(r.config.RedirectURLHostname, r.listener.Port)
	return fmt.Sprintf("http://%s%s", host, r.config.LocalServerCallbackPath)
}

// Port returns the port of the local server, or -1 if it is not started.
func (r *LocalServerReceiver) Port() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener == nil {
		return -1
	}
	return r.listener.Port
}

// WaitForCode blocks until an authorization response is received or the receiver is stopped.
//
// It returns the code if the response has a code.
// It returns an *AuthorizationDeniedError if the response has an error.
// It returns a *StoppedError if Stop is called or ctx is done before any response.
// In the latter case the receiver is stopped.
func (r *LocalServerReceiver) WaitForCode(ctx context.Context) (string, error) {
	select {
	case <-r.completion.done:
	case <-ctx.Done():
		_ = r.stop(ctx.Err())
		<-r.completion.done
	}
	return r.completion.load().result()
}

// Stop releases the waiter and stops the local server.
// It can be called many times, and from any goroutine including the handler.
// The listener is closed before return, and the connections are drained in background.
func (r *LocalServerReceiver) Stop() error {
	return r.stop(nil)
}

func (r *LocalServerReceiver) stop(cause error) error {
	r.completion.settle(&outcome{stopped: true, cause: cause})
	r.completion.release()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return nil
	}
	r.stopped = true
	if !r.started {
		return nil
	}
	r.config.Logf("oauth2receiver: stopping the local server")
	close(r.stopCh)
	if err := r.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return xerrors.Errorf("could not close the listener: %w", err)
	}
	return nil
}

func (r *LocalServerReceiver) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.LocalServerShutdownTimeout)
	defer cancel()
	err := r.server.Shutdown(ctx)
	if err == nil || errors.Is(err, net.ErrClosed) {
		return nil
	}
	r.config.Logf("oauth2receiver: could not shutdown the local server gracefully: %s", err)
	if err := r.server.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return xerrors.Errorf("could not close the local server: %w", err)
	}
	return nil
}

// Wait blocks until the local server exits after Stop,
// and returns the first error of the server if any.
// Do not call it from a handler of the local server.
func (r *LocalServerReceiver) Wait() error {
	r.mu.Lock()
	started := r.started
	r.mu.Unlock()
	if !started {
		return nil
	}
	if err := r.eg.Wait(); err != nil {
		return xerrors.Errorf("local server error: %w", err)
	}
	return nil
}
