package internal

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"golang.org/x/xerrors"
)

// BindAddress returns an address of the host and port.
// An IPv6 host is enclosed in brackets.
func BindAddress(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// NewOAuth2State returns a random state
func NewOAuth2State() (string, error) {
	var n uint64
	if err := binary.Read(rand.Reader, binary.LittleEndian, &n); err != nil {
		return "", xerrors.Errorf("error while reading random: %w", err)
	}
	return fmt.Sprintf("%x", n), nil
}

// DefaultMiddleware returns h handler
func DefaultMiddleware(h http.Handler) http.Handler {
	return h
}
