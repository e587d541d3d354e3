package htest

import (
	"testing"
	"time"
)

// ScaleMs returns ms milliseconds, the timeout used by the channel helpers.
func ScaleMs(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// ReceiveSoon returns the value received from ch,
// failing t if nothing arrives within a short timeout.
func ReceiveSoon[T any](t testing.TB, ch <-chan T) T {
	t.Helper()

	timer := time.NewTimer(ScaleMs(250))
	defer timer.Stop()

	select {
	case v := <-ch:
		return v
	case <-timer.C:
		t.Fatalf("did not receive value within %s", ScaleMs(250))
		panic("unreachable")
	}
}

// NotSending fails t if ch has a value ready or is closed.
func NotSending[T any](t testing.TB, ch <-chan T) {
	t.Helper()

	select {
	case <-ch:
		t.Fatal("channel should not have been ready")
	default:
	}
}
