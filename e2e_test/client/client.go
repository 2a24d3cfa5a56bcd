// Package client provides a browser-like HTTP client.
// It follows redirects and does not reuse connections.
package client

import (
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"
)

var client = http.Client{
	Transport: &http.Transport{DisableKeepAlives: true},
	Timeout:   3 * time.Second,
}

func Get(url string) (int, string, error) {
	resp, err := client.Get(url)
	if err != nil {
		return 0, "", fmt.Errorf("could not send a request: %w", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("could not read response body: %w", err)
	}
	return resp.StatusCode, string(b), nil
}

func GetAndVerify(t *testing.T, url string, code int, body string) {
	t.Helper()
	gotCode, gotBody, err := Get(url)
	if err != nil {
		t.Errorf("could not open browser request: %s", err)
		return
	}
	if gotCode != code {
		t.Errorf("status wants %d but %d", code, gotCode)
	}
	if gotBody != body {
		t.Errorf("response body did not match: %s", gotBody)
	}
}
