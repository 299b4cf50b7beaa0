package loop

import (
	"sync"

	"github.com/vovakirdan/tankduel/internal/core"
)

// InputState holds the held keys of both players. The input collaborator
// writes it from its own goroutine; the loop reads it once per tick.
type InputState struct {
	mu     sync.Mutex
	frames core.MultiInputFrame
}

// NewInputState creates an input state with nothing held.
func NewInputState() *InputState {
	s := &InputState{frames: core.NewMultiInputFrame()}
	for _, p := range core.Players {
		s.frames.SetPlayer(p, core.NewInputFrame())
	}
	return s
}

// Press marks a held action. One-shot actions are ignored.
func (s *InputState) Press(p core.PlayerID, a core.Action) {
	if !p.Valid() || !a.Held() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.frames.Player(p)
	f.Set(a)
	s.frames.SetPlayer(p, f)
}

// Release clears a held action.
func (s *InputState) Release(p core.PlayerID, a core.Action) {
	if !p.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.frames.Player(p)
	f.Unset(a)
	s.frames.SetPlayer(p, f)
}

// ReleaseAll clears every held action of both players.
func (s *InputState) ReleaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range core.Players {
		s.frames.SetPlayer(p, core.NewInputFrame())
	}
}

// Frame returns a copy of the held actions.
func (s *InputState) Frame() core.MultiInputFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames.Clone()
}
