package hlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gordian-engine/hashtree"
	"github.com/gordian-engine/hashtree/hdigest"
)

// ErrNoHead is returned when a size does not match any published head.
var ErrNoHead = errors.New("no head published at size")

// Config is the configuration passed to [New].
type Config struct {
	// Hasher for every tree in the log. Required.
	Hasher hdigest.Hasher

	// Clock stamps published heads.
	// Defaults to time.Now.
	Clock func() time.Time
}

// Log is an append-only list of leaves.
// Every call to [*Log.Append] publishes a new [Head],
// and proofs may be requested against any published head.
//
// A Log is safe for concurrent use.
type Log struct {
	log *slog.Logger

	h     hdigest.Hasher
	clock func() time.Time

	mu sync.RWMutex

	// Published heads in increasing size order,
	// and the tree behind each one.
	heads []Head
	trees map[uint64]*hashtree.Tree

	// The node where the next head will be published.
	stream *HeadStream
}

// New returns an empty Log.
func New(log *slog.Logger, cfg Config) *Log {
	if cfg.Hasher == nil {
		panic("BUG: hlog.Config.Hasher must be set")
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Log{
		log: log,

		h:     cfg.Hasher,
		clock: clock,

		trees: make(map[uint64]*hashtree.Tree),

		stream: newHeadStream(),
	}
}

// Append adds data to the end of the log and publishes the resulting head.
// Append returns [hashtree.EmptyInputError] if data is empty.
func (l *Log) Append(ctx context.Context, data ...[]byte) (Head, error) {
	if err := ctx.Err(); err != nil {
		return Head{}, err
	}
	if len(data) == 0 {
		return Head{}, hashtree.EmptyInputError{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var t *hashtree.Tree
	if len(l.heads) == 0 {
		var err error
		t, err = hashtree.Build(l.h, data)
		if err != nil {
			return Head{}, err
		}
	} else {
		t = l.trees[l.heads[len(l.heads)-1].Size].Append(data...)
	}

	head := Head{
		Size:     t.Size(),
		Root:     t.Root(),
		IssuedAt: l.clock().UTC(),
	}
	l.heads = append(l.heads, head)
	l.trees[head.Size] = t

	l.stream.publish(head)
	l.stream = l.stream.Next

	l.log.Debug(
		"Published head",
		"appended", len(data),
		"size", head.Size,
		"root", head.Root,
	)

	return head, nil
}

// Head returns the most recently published head,
// or false if nothing has been appended yet.
func (l *Log) Head() (Head, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.heads) == 0 {
		return Head{}, false
	}
	return l.heads[len(l.heads)-1], true
}

// HeadAt returns the head published when the log reached size leaves.
func (l *Log) HeadAt(size uint64) (Head, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, h := range l.heads {
		if h.Size == size {
			return h, nil
		}
	}
	return Head{}, fmt.Errorf("%w %d", ErrNoHead, size)
}

// Heads returns the stream node where the next head will be published.
// Heads published before the call are not visible through the stream;
// use [*Log.Head] to get the current one.
func (l *Log) Heads() *HeadStream {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.stream
}

// InclusionProof proves that data is in the tree of the head published at size.
// Duplicate data resolves to its earliest leaf.
func (l *Log) InclusionProof(ctx context.Context, data []byte, size uint64) (hashtree.InclusionProof, error) {
	if err := ctx.Err(); err != nil {
		return hashtree.InclusionProof{}, err
	}

	l.mu.RLock()
	t, ok := l.trees[size]
	l.mu.RUnlock()
	if !ok {
		return hashtree.InclusionProof{}, fmt.Errorf("%w %d", ErrNoHead, size)
	}

	// Trees are immutable, so proving happens outside the lock.
	return hashtree.ProveInclusion(t, data)
}

// ConsistencyProof proves that the head published at oldSize
// is a prefix of the head published at newSize.
func (l *Log) ConsistencyProof(ctx context.Context, oldSize, newSize uint64) (hashtree.ConsistencyProof, error) {
	if err := ctx.Err(); err != nil {
		return hashtree.ConsistencyProof{}, err
	}

	l.mu.RLock()
	_, haveOld := l.trees[oldSize]
	t, haveNew := l.trees[newSize]
	l.mu.RUnlock()

	if !haveOld {
		return hashtree.ConsistencyProof{}, fmt.Errorf("%w %d", ErrNoHead, oldSize)
	}
	if !haveNew {
		return hashtree.ConsistencyProof{}, fmt.Errorf("%w %d", ErrNoHead, newSize)
	}
	if oldSize > newSize {
		return hashtree.ConsistencyProof{}, hashtree.NotAPrefixError{
			OldSize: oldSize,
			NewSize: newSize,
			Index:   newSize,
		}
	}

	return t.ConsistencyProof(oldSize)
}
