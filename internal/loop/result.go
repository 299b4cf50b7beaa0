package loop

import (
	"time"

	"github.com/vovakirdan/tankduel/internal/core"
)

// EndReason tells why a match stopped.
type EndReason string

const (
	EndReasonCompleted EndReason = "completed" // A tank was destroyed
	EndReasonAbandoned EndReason = "abandoned" // Restarted or quit mid-match
)

// MatchResult is the outcome of one match.
type MatchResult struct {
	MatchID   string
	MapName   string
	Source    string // Where the match was played, e.g. "local" or "ssh:alice"
	Reason    EndReason
	Winner    core.PlayerID // Zero for a draw or an abandoned match
	Lives     [2]int
	Ticks     uint64
	StartedAt time.Time
	Duration  time.Duration
}

// MatchResultSaver persists finished matches.
type MatchResultSaver interface {
	SaveMatchResult(r MatchResult) error
}
