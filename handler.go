package oauth2receiver

import (
	"io"
	"net/http"
)

// callbackHandler handles an authorization response on the callback path.
// Other paths are passed to the next handler.
type callbackHandler struct {
	config     *Config
	completion *completion
	next       http.Handler
}

func (h *callbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != h.config.LocalServerCallbackPath {
		h.next.ServeHTTP(w, r)
		return
	}
	// the waiter must be released even if writing the response fails
	defer h.completion.release()

	q := r.URL.Query()
	o := &outcome{code: q.Get("code")}
	if q.Has("error") {
		o = &outcome{denied: true, errorCode: q.Get("error"), errorDescription: q.Get("error_description")}
	}
	if h.completion.settle(o) {
		h.config.Logf("oauth2receiver: received an authorization response on %s", r.URL.Path)
	} else {
		h.config.Logf("oauth2receiver: ignored an authorization response since the result is already determined")
	}

	switch {
	case o.denied && h.config.FailureRedirectURL != "":
		http.Redirect(w, r, h.config.FailureRedirectURL, http.StatusFound)
	case !o.denied && h.config.SuccessRedirectURL != "":
		http.Redirect(w, r, h.config.SuccessRedirectURL, http.StatusFound)
	default:
		h.writeLandingHTML(w)
	}
}

func (h *callbackHandler) writeLandingHTML(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, h.config.LocalServerSuccessHTML); err != nil {
		h.config.Logf("oauth2receiver: could not write the response body: %s", err)
	}
}
