package tui

import (
	"time"

	"github.com/vovakirdan/tankduel/internal/core"
)

// HeldKey is a player action kept pressed by the latch.
type HeldKey struct {
	Player core.PlayerID
	Action core.Action
}

// KeyLatch turns the press and repeat events a terminal delivers into
// held state. A key stays held until no repeat has arrived for its window.
type KeyLatch struct {
	hold        time.Duration
	repeatDelay time.Duration
	deadlines   map[HeldKey]time.Time
}

// NewKeyLatch creates a latch. A fresh press is held for repeatDelay,
// each repeat extends it by hold.
func NewKeyLatch(hold, repeatDelay time.Duration) *KeyLatch {
	return &KeyLatch{
		hold:        hold,
		repeatDelay: max(repeatDelay, hold),
		deadlines:   make(map[HeldKey]time.Time),
	}
}

// Press records a key event at now. It reports whether the key was not
// already held.
func (l *KeyLatch) Press(k HeldKey, now time.Time) bool {
	if _, held := l.deadlines[k]; held {
		l.deadlines[k] = now.Add(l.hold)
		return false
	}
	l.deadlines[k] = now.Add(l.repeatDelay)
	return true
}

// Expire drops the keys whose window has passed and returns them.
func (l *KeyLatch) Expire(now time.Time) []HeldKey {
	var released []HeldKey
	for k, deadline := range l.deadlines {
		if !now.Before(deadline) {
			delete(l.deadlines, k)
			released = append(released, k)
		}
	}
	return released
}

// Held reports whether k is currently held.
func (l *KeyLatch) Held(k HeldKey) bool {
	_, ok := l.deadlines[k]
	return ok
}

// Clear releases everything.
func (l *KeyLatch) Clear() {
	clear(l.deadlines)
}
