// Package telemetry bridges task spans to a renderer through the OpenTelemetry SDK.
package telemetry

import (
	"bytes"
	"sync"
	"time"

	"go.trai.ch/zerr"
)

const (
	// DefaultSizeLimit is the buffered byte count that forces a flush.
	DefaultSizeLimit = 4096
	// DefaultInterval is how long buffered output may wait before it is flushed.
	DefaultInterval = 50 * time.Millisecond
)

// ErrBatcherClosed is returned by Write after Close.
var ErrBatcherClosed = zerr.New("batcher is closed")

// Batcher coalesces small writes from a running command into fewer flushes.
// A timer is armed only while data is pending, so idle spans cost nothing.
type Batcher struct {
	sizeLimit int
	interval  time.Duration
	onFlush   func([]byte)

	mu     sync.Mutex
	buf    bytes.Buffer
	timer  *time.Timer
	closed bool
}

// NewBatcher returns a Batcher that hands buffered data to onFlush.
// Non-positive limits fall back to DefaultSizeLimit and DefaultInterval.
func NewBatcher(sizeLimit int, interval time.Duration, onFlush func([]byte)) *Batcher {
	if sizeLimit <= 0 {
		sizeLimit = DefaultSizeLimit
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Batcher{
		sizeLimit: sizeLimit,
		interval:  interval,
		onFlush:   onFlush,
	}
}

// Write buffers p and flushes once the size limit is reached.
func (b *Batcher) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrBatcherClosed
	}

	n, _ := b.buf.Write(p)
	if b.buf.Len() >= b.sizeLimit {
		b.flushLocked()
		return n, nil
	}
	if b.timer == nil {
		b.timer = time.AfterFunc(b.interval, b.Flush)
	}
	return n, nil
}

// Flush hands any pending data to the callback.
func (b *Batcher) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.flushLocked()
}

// Close flushes pending data. Later writes fail with ErrBatcherClosed.
func (b *Batcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.flushLocked()
	b.closed = true
	return nil
}

// flushLocked must be called with mu held. The callback runs under the lock so
// flushes of one span never reorder.
func (b *Batcher) flushLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	if b.buf.Len() == 0 {
		return
	}

	data := bytes.Clone(b.buf.Bytes())
	b.buf.Reset()
	if b.onFlush != nil {
		b.onFlush(data)
	}
}
