package oauth2receiver

import (
	"net"
	"strconv"

	"github.com/int128/listener"
	"github.com/int128/oauth2receiver/internal"
	"golang.org/x/xerrors"
)

type localServerListener struct {
	net.Listener
	Port int // resolved port, never 0
}

// newLocalServerListener starts a TCP listener on the address and port.
// If the port is 0, it will allocate a free port.
func newLocalServerListener(bindAddress string, port int) (*localServerListener, error) {
	address := internal.BindAddress(bindAddress, port)
	l, err := listener.New([]string{address})
	if err != nil {
		return nil, &BindError{Address: address, err: err}
	}
	addr := l.Addr().String()
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		_ = l.Close()
		return nil, &StartError{err: xerrors.Errorf("could not parse the address %s: %w", addr, err)}
	}
	resolved, err := strconv.Atoi(p)
	if err != nil || resolved <= 0 {
		_ = l.Close()
		return nil, &StartError{err: xerrors.Errorf("could not resolve the port of %s", addr)}
	}
	return &localServerListener{Listener: l, Port: resolved}, nil
}
