package oauth2receiver

import (
	"sync"
	"sync/atomic"
)

// outcome is a terminal result of an authorization attempt.
// Exactly one of the fields is meaningful.
type outcome struct {
	code             string
	errorCode        string
	errorDescription string
	denied           bool
	stopped          bool
	cause            error // set only if stopped
}

func (o *outcome) result() (string, error) {
	switch {
	case o == nil:
		return "", &StoppedError{}
	case o.stopped:
		return "", &StoppedError{Cause: o.cause}
	case o.denied:
		return "", &AuthorizationDeniedError{Reason: o.errorCode, Description: o.errorDescription}
	default:
		return o.code, nil
	}
}

// completion holds the outcome and the one-shot signal.
// The outcome transitions from nil to a terminal value at most once,
// and the signal is released after the transition.
type completion struct {
	outcome atomic.Pointer[outcome]
	once    sync.Once
	done    chan struct{}
}

func newCompletion() *completion {
	return &completion{done: make(chan struct{})}
}

// settle stores the outcome if nothing is stored yet.
// It returns false if another outcome has won.
func (c *completion) settle(o *outcome) bool {
	return c.outcome.CompareAndSwap(nil, o)
}

// release closes the done channel. Calling it again is a no-op.
func (c *completion) release() {
	c.once.Do(func() { close(c.done) })
}

func (c *completion) load() *outcome {
	return c.outcome.Load()
}
