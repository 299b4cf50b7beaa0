// Package savegame persists the two tanks of a match as a pair of YAML
// documents, player 1 first. Projectiles and visuals are not stored.
package savegame

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vovakirdan/tankduel/internal/core"
	"github.com/vovakirdan/tankduel/internal/games/tanks"
	"gopkg.in/yaml.v3"
)

// Extension is the suffix every save file carries.
const Extension = ".savedata"

var (
	// ErrMalformed is returned for files that are not two valid vehicle records.
	ErrMalformed = errors.New("savegame: malformed save file")
	// ErrExtension is returned when loading a file without the save suffix.
	ErrExtension = errors.New("savegame: not a " + Extension + " file")
)

// Record is one serialized tank.
type Record struct {
	Player      int       `yaml:"player"`
	X           int       `yaml:"x"`
	Y           int       `yaml:"y"`
	Facing      string    `yaml:"facing"`
	Intent      string    `yaml:"intent"`
	Blocked     string    `yaml:"blocked"`
	Firing      bool      `yaml:"firing"`
	FiringTimer time.Time `yaml:"firing_timer"`
	CooldownMs  int64     `yaml:"cooldown_ms"`
	Lives       int       `yaml:"lives"`
	Dead        bool      `yaml:"dead"`
}

// FromState converts a live tank state to a record.
func FromState(s tanks.VehicleState) Record {
	return Record{
		Player:      int(s.Player),
		X:           s.X,
		Y:           s.Y,
		Facing:      s.Facing.String(),
		Intent:      s.Intent.String(),
		Blocked:     s.Blocked.String(),
		Firing:      s.Firing,
		FiringTimer: s.FiringTimer.UTC(),
		CooldownMs:  s.Cooldown.Milliseconds(),
		Lives:       s.Lives,
		Dead:        s.Dead,
	}
}

// State converts a record back, rejecting unknown enumerations.
func (r Record) State() (tanks.VehicleState, error) {
	facing, err := tanks.ParseDirection(r.Facing)
	if err != nil {
		return tanks.VehicleState{}, err
	}
	intent, err := tanks.ParseDirSet(r.Intent)
	if err != nil {
		return tanks.VehicleState{}, err
	}
	blocked, err := tanks.ParseDirSet(r.Blocked)
	if err != nil {
		return tanks.VehicleState{}, err
	}

	s := tanks.VehicleState{
		Player:      core.PlayerID(r.Player),
		X:           r.X,
		Y:           r.Y,
		Facing:      facing,
		Intent:      intent,
		Blocked:     blocked,
		Firing:      r.Firing,
		FiringTimer: r.FiringTimer,
		Cooldown:    time.Duration(r.CooldownMs) * time.Millisecond,
		Lives:       r.Lives,
		Dead:        r.Dead,
	}
	if err := s.Validate(); err != nil {
		return tanks.VehicleState{}, err
	}
	return s, nil
}

// Encode writes both tanks as two YAML documents.
func Encode(w io.Writer, states [2]tanks.VehicleState) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, s := range states {
		if err := enc.Encode(FromState(s)); err != nil {
			return fmt.Errorf("savegame: encode %s: %w", s.Player, err)
		}
	}
	return enc.Close()
}

// Decode reads exactly two vehicle records.
func Decode(r io.Reader) ([2]tanks.VehicleState, error) {
	var states [2]tanks.VehicleState
	dec := yaml.NewDecoder(r)

	for i := range states {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return states, fmt.Errorf("%w: expected 2 records, found %d", ErrMalformed, i)
			}
			return states, fmt.Errorf("%w: record %d: %v", ErrMalformed, i+1, err)
		}
		s, err := rec.State()
		if err != nil {
			return states, fmt.Errorf("%w: record %d: %v", ErrMalformed, i+1, err)
		}
		states[i] = s
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return states, fmt.Errorf("%w: trailing data after 2 records", ErrMalformed)
	}
	return states, nil
}

// WithExtension appends the save suffix unless path already has it.
func WithExtension(path string) string {
	if strings.EqualFold(filepath.Ext(path), Extension) {
		return path
	}
	return path + Extension
}

// Save writes both tanks to path, adding the suffix if missing.
// The file is replaced atomically. It returns the path written.
func Save(path string, states [2]tanks.VehicleState) (string, error) {
	path = WithExtension(path)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("savegame: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tankduel-*"+Extension)
	if err != nil {
		return "", fmt.Errorf("savegame: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, states); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("savegame: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("savegame: rename: %w", err)
	}
	return path, nil
}

// Load reads both tanks from a save file.
func Load(path string) ([2]tanks.VehicleState, error) {
	if !strings.EqualFold(filepath.Ext(path), Extension) {
		return [2]tanks.VehicleState{}, fmt.Errorf("%w: %s", ErrExtension, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return [2]tanks.VehicleState{}, fmt.Errorf("savegame: open: %w", err)
	}
	defer f.Close()

	return Decode(f)
}
