package loop

import (
	"sync"

	"github.com/vovakirdan/tankduel/internal/games/tanks"
)

// Frame is published after every tick.
type Frame struct {
	MatchID  string
	Snapshot tanks.Snapshot
}

// Sink receives frames from the loop. Send must not block.
type Sink interface {
	Send(f Frame)
}

// ChannelSink is a Sink backed by a buffered channel.
// A slow reader loses the oldest frames, never the newest.
type ChannelSink struct {
	frames   chan Frame
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSink creates a sink holding up to size frames.
func NewChannelSink(size int) *ChannelSink {
	if size < 1 {
		size = 4
	}
	return &ChannelSink{
		frames: make(chan Frame, size),
		done:   make(chan struct{}),
	}
}

// Send queues a frame, dropping the oldest one if the buffer is full.
func (s *ChannelSink) Send(f Frame) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.frames <- f:
	default:
		select {
		case <-s.frames:
		default:
		}
		select {
		case s.frames <- f:
		default:
		}
	}
}

// Frames returns the channel the presentation layer reads from.
func (s *ChannelSink) Frames() <-chan Frame {
	return s.frames
}

// Done returns a channel closed by Close.
func (s *ChannelSink) Done() <-chan struct{} {
	return s.done
}

// Close stops accepting frames. Safe to call multiple times.
func (s *ChannelSink) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Frame)

// Send calls f.
func (fn SinkFunc) Send(f Frame) {
	fn(f)
}
