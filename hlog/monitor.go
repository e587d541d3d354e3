package hlog

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gordian-engine/hashtree"
	"github.com/gordian-engine/hashtree/hdigest"
)

// ConsistencyProver supplies consistency proofs between published heads.
// [*Log] satisfies ConsistencyProver.
type ConsistencyProver interface {
	ConsistencyProof(ctx context.Context, oldSize, newSize uint64) (hashtree.ConsistencyProof, error)
}

// MonitorConfig is the configuration passed to [NewMonitor].
type MonitorConfig struct {
	Hasher hdigest.Hasher

	Prover ConsistencyProver

	// The stream of heads to follow,
	// typically from [*Log.Heads].
	Heads *HeadStream

	// The head to check the first streamed head against.
	// If Trusted has zero size, the first streamed head is accepted as is.
	Trusted Head
}

// Monitor follows a stream of heads and checks that every head
// extends the last one it accepted.
// It stops at the first head that fails the check.
type Monitor struct {
	log *slog.Logger

	h      hdigest.Hasher
	prover ConsistencyProver

	verified atomic.Pointer[Head]

	err  error
	done chan struct{}
}

// InconsistentHeadError is the reason a [Monitor] stopped
// when a head did not extend the previously accepted head.
type InconsistentHeadError struct {
	Accepted, Rejected Head
}

func (e InconsistentHeadError) Error() string {
	return fmt.Sprintf(
		"head with size %d and root %s does not extend accepted head with size %d and root %s",
		e.Rejected.Size, e.Rejected.Root, e.Accepted.Size, e.Accepted.Root,
	)
}

// NewMonitor starts a Monitor in the background.
// The Monitor runs until ctx is canceled or a check fails;
// use [*Monitor.Wait] to observe why it stopped.
func NewMonitor(ctx context.Context, log *slog.Logger, cfg MonitorConfig) *Monitor {
	if cfg.Hasher == nil || cfg.Prover == nil || cfg.Heads == nil {
		panic("BUG: hlog.MonitorConfig requires Hasher, Prover, and Heads")
	}

	m := &Monitor{
		log: log,

		h:      cfg.Hasher,
		prover: cfg.Prover,

		done: make(chan struct{}),
	}
	if cfg.Trusted.Size > 0 {
		trusted := cfg.Trusted
		m.verified.Store(&trusted)
	}

	go m.mainLoop(ctx, cfg.Heads)

	return m
}

func (m *Monitor) mainLoop(ctx context.Context, s *HeadStream) {
	defer close(m.done)

	for {
		select {
		case <-ctx.Done():
			m.log.Info(
				"Stopping due to context cancellation",
				"cause", context.Cause(ctx),
			)
			m.err = context.Cause(ctx)
			return

		case <-s.Ready:
			head := s.Head
			s = s.Next

			if err := m.check(ctx, head); err != nil {
				m.log.Warn(
					"Stopping after failed head check",
					"size", head.Size,
					"root", head.Root,
					"err", err,
				)
				m.err = err
				return
			}
		}
	}
}

func (m *Monitor) check(ctx context.Context, head Head) error {
	prev := m.verified.Load()
	if prev == nil {
		m.verified.Store(&head)
		return nil
	}

	if head.Size < prev.Size {
		return InconsistentHeadError{Accepted: *prev, Rejected: head}
	}

	proof, err := m.prover.ConsistencyProof(ctx, prev.Size, head.Size)
	if err != nil {
		return fmt.Errorf(
			"failed to get consistency proof from %d to %d: %w",
			prev.Size, head.Size, err,
		)
	}

	ok, err := hashtree.VerifyConsistency(m.h, prev.Root, prev.Size, head.Root, head.Size, proof)
	if err != nil {
		return fmt.Errorf(
			"invalid consistency proof from %d to %d: %w",
			prev.Size, head.Size, err,
		)
	}
	if !ok {
		return InconsistentHeadError{Accepted: *prev, Rejected: head}
	}

	m.log.Debug("Accepted head", "size", head.Size, "root", head.Root)
	m.verified.Store(&head)
	return nil
}

// Verified returns the latest accepted head,
// or false if no head has been accepted yet.
func (m *Monitor) Verified() (Head, bool) {
	h := m.verified.Load()
	if h == nil {
		return Head{}, false
	}
	return *h, true
}

// Done returns a channel that is closed once the Monitor stops.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

// Wait blocks until the Monitor stops and returns the reason:
// an [InconsistentHeadError], a proof retrieval failure,
// or the cause of the context cancellation.
func (m *Monitor) Wait() error {
	<-m.done
	return m.err
}
