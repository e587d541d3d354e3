package hlog

import (
	"time"

	"github.com/gordian-engine/hashtree/hdigest"
)

// Head is a published tree head:
// the size and root of the log's tree after an append.
type Head struct {
	Size     uint64
	Root     hdigest.Digest
	IssuedAt time.Time
}

// HeadStream is a linked list of published heads.
// It has a single writer, the [Log], and any number of readers,
// each of which may follow the list at its own pace.
//
// A reader waits on Ready, then reads Head and moves to Next.
// A reader that stops following the list keeps every later node alive.
type HeadStream struct {
	Ready chan struct{}
	Next  *HeadStream
	Head  Head
}

func newHeadStream() *HeadStream {
	return &HeadStream{Ready: make(chan struct{})}
}

// publish sets s.Head, allocates s.Next, and closes s.Ready.
// It panics if called twice on the same node.
func (s *HeadStream) publish(h Head) {
	s.Head = h
	s.Next = newHeadStream()
	close(s.Ready)
}
