package video

import (
	"sync"

	"github.com/pion/camctl/pkg/frame"
)

// Broadcaster fans a single frame source out to any number of readers.
// Readers can come and go at any time. Each reader always observes the
// most recent frame; readers slower than the source skip frames instead
// of applying backpressure. The source buffer is copied under the
// broadcaster lock, so the driver may reuse it as soon as the pump
// releases it.
type Broadcaster struct {
	mu     sync.Mutex
	cond   *sync.Cond
	latest *frame.Raw
	seq    uint64
	err    error
	closed bool
}

// NewBroadcaster creates a broadcaster pulling from source on a background
// goroutine. The goroutine exits when source returns an error or the
// broadcaster is closed; the error is then delivered to every reader.
func NewBroadcaster(source Reader) *Broadcaster {
	b := &Broadcaster{}
	b.cond = sync.NewCond(&b.mu)
	go b.pump(source)
	return b
}

func (b *Broadcaster) pump(source Reader) {
	for {
		f, release, err := source.Read()

		b.mu.Lock()
		if b.closed {
			b.mu.Unlock()
			if release != nil {
				release()
			}
			return
		}
		if err != nil {
			b.err = err
			b.cond.Broadcast()
			b.mu.Unlock()
			return
		}

		b.latest = f.Clone()
		b.seq++
		b.cond.Broadcast()
		b.mu.Unlock()

		release()
	}
}

// NewReader creates a reader from the broadcast stream. If copyFrame is
// true, each Read returns a private copy the caller may keep; otherwise
// the shared latest frame is returned, valid until the next Read.
func (b *Broadcaster) NewReader(copyFrame bool) Reader {
	var lastSeen uint64

	return ReaderFunc(func() (*frame.Raw, func(), error) {
		b.mu.Lock()
		defer b.mu.Unlock()

		for b.seq == lastSeen && b.err == nil && !b.closed {
			b.cond.Wait()
		}
		if b.err != nil {
			return nil, func() {}, b.err
		}
		if b.closed {
			return nil, func() {}, ErrClosed
		}

		lastSeen = b.seq
		f := b.latest
		if copyFrame {
			f = f.Clone()
		}
		return f, func() {}, nil
	})
}

// Close stops the pump and unblocks all readers with ErrClosed.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	b.closed = true
	b.cond.Broadcast()
	b.mu.Unlock()
}
