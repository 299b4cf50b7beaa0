// Package tui provides the Bubble Tea front end for tank duels.
// It maps keys to held player input, shows the frames the loop publishes
// and hosts the same session over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tankduel/internal/loop"
)

// FrameMsg carries a frame published by the loop.
type FrameMsg loop.Frame

// latchTickMsg drives key release detection.
type latchTickMsg time.Time

// sinkClosedMsg is sent once the loop stops publishing.
type sinkClosedMsg struct{}

// latchTickCmd schedules the next latch check.
func latchTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return latchTickMsg(t)
	})
}

// waitFrame blocks until the loop publishes the next frame.
func waitFrame(sink *loop.ChannelSink) tea.Cmd {
	return func() tea.Msg {
		select {
		case f := <-sink.Frames():
			return FrameMsg(f)
		case <-sink.Done():
			return sinkClosedMsg{}
		}
	}
}
