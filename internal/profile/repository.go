package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"time"

	"github.com/verte-zerg/chesscoach/internal/stats"
)

var (
	// ErrNotFound means nothing has been stored for the player yet.
	ErrNotFound = errors.New("profile not found")
	// ErrCorruptProfile means stored state exists but cannot be trusted.
	ErrCorruptProfile = errors.New("corrupt persisted state")
	// ErrInvalidPlayerID rejects ids that are unsafe as storage keys.
	ErrInvalidPlayerID = errors.New("invalid player id")
)

var playerIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// ValidatePlayerID checks that id is usable as a storage key.
func ValidatePlayerID(id string) error {
	if !playerIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidPlayerID, id)
	}
	return nil
}

// Repository persists profiles and the last finished session per player.
type Repository interface {
	Load(ctx context.Context, playerID string) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
	LoadSession(ctx context.Context, playerID string) (*stats.Stats, error)
	SaveSession(ctx context.Context, s *stats.Stats) error
	List(ctx context.Context) ([]string, error)
}

// LoadOrCreate loads a profile, returning a fresh one if none is stored.
// Corrupt state is returned as an error, never replaced.
func LoadOrCreate(ctx context.Context, repo Repository, playerID string, now time.Time) (*Profile, error) {
	p, err := repo.Load(ctx, playerID)
	if errors.Is(err, ErrNotFound) {
		return New(playerID, now), nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// LoadOrCreateSession loads the last session stats or returns empty ones.
func LoadOrCreateSession(ctx context.Context, repo Repository, playerID string, now time.Time) (*stats.Stats, error) {
	s, err := repo.LoadSession(ctx, playerID)
	if errors.Is(err, ErrNotFound) {
		return stats.New(playerID, now), nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Encode writes p as indented JSON.
func Encode(w io.Writer, p *Profile) error {
	return encodeJSON(w, p)
}

// EncodeSession writes session stats as indented JSON.
func EncodeSession(w io.Writer, s *stats.Stats) error {
	return encodeJSON(w, s)
}

// Decode parses and validates a stored profile for playerID.
func Decode(data []byte, playerID string) (*Profile, error) {
	var p Profile
	if err := strictUnmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: profile %s: %v", ErrCorruptProfile, playerID, err)
	}
	if err := p.validate(playerID); err != nil {
		return nil, fmt.Errorf("%w: profile %s: %v", ErrCorruptProfile, playerID, err)
	}
	return &p, nil
}

// DecodeSession parses and validates stored session stats for playerID.
func DecodeSession(data []byte, playerID string) (*stats.Stats, error) {
	var s stats.Stats
	if err := strictUnmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: session %s: %v", ErrCorruptProfile, playerID, err)
	}
	if s.PlayerID != playerID {
		return nil, fmt.Errorf("%w: session %s: stored for %q", ErrCorruptProfile, playerID, s.PlayerID)
	}
	if err := validateStats(s); err != nil {
		return nil, fmt.Errorf("%w: session %s: %v", ErrCorruptProfile, playerID, err)
	}
	return &s, nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data")
	}
	return nil
}

func (p *Profile) validate(playerID string) error {
	if p.PlayerID != playerID {
		return fmt.Errorf("stored for %q", p.PlayerID)
	}
	if math.IsNaN(p.Rating) || math.IsInf(p.Rating, 0) || p.Rating < RatingFloor {
		return fmt.Errorf("rating %v out of range", p.Rating)
	}
	if len(p.RatingHistory) == 0 {
		return errors.New("empty rating history")
	}
	for i, g := range p.GameHistory {
		if !g.Result.Valid() {
			return fmt.Errorf("game %d: unknown result %q", i, g.Result)
		}
	}
	return validateStats(p.Stats)
}

func validateStats(s stats.Stats) error {
	q := s.Quality
	for _, n := range []int{s.GamesPlayed, s.Wins, s.Losses, s.Draws, q.Total, q.Blunders, q.Mistakes, q.Inaccuracies, q.Good, q.Excellent, q.Book} {
		if n < 0 {
			return errors.New("negative counter")
		}
	}
	if q.Blunders+q.Mistakes+q.Inaccuracies+q.Good+q.Excellent+q.Book > q.Total {
		return errors.New("quality counts exceed total moves")
	}
	for phase := range s.Phases {
		if !phase.Valid() {
			return fmt.Errorf("unknown phase %q", phase)
		}
	}
	return nil
}
