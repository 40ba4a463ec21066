// Package audio plays keystroke cues without blocking input handling.
package audio

import (
	"io"
	"sync"
)

// Cue plays a keystroke sound. Play must never block.
type Cue interface {
	Play()
}

// Nop is a silent Cue.
type Nop struct{}

// Play does nothing.
func (Nop) Play() {}

// Bell rings the terminal bell from a background goroutine.
type Bell struct {
	w       io.Writer
	pending chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewBell starts a Bell writing to w. Call Close to stop it.
func NewBell(w io.Writer) *Bell {
	b := &Bell{
		w:       w,
		pending: make(chan struct{}, 8),
		done:    make(chan struct{}),
	}
	go b.loop()
	return b
}

func (b *Bell) loop() {
	defer close(b.done)
	for range b.pending {
		// Best effort: a lost cue is not worth reporting.
		_, _ = b.w.Write([]byte{'\a'})
	}
}

// Play queues a cue, dropping it when the queue is full.
func (b *Bell) Play() {
	select {
	case b.pending <- struct{}{}:
	default:
	}
}

// Close stops the background goroutine after queued cues are played.
func (b *Bell) Close() {
	b.once.Do(func() {
		close(b.pending)
		<-b.done
	})
}
