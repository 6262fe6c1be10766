package profile

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/verte-zerg/chesscoach/internal/stats"
)

// MemoryRepository keeps encoded profiles in memory. Values round-trip
// through JSON so callers never share state with the repository.
type MemoryRepository struct {
	mu       sync.Mutex
	profiles map[string][]byte
	sessions map[string][]byte
	saves    int
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{profiles: map[string][]byte{}, sessions: map[string][]byte{}}
}

// Load returns a copy of the stored profile.
func (r *MemoryRepository) Load(_ context.Context, playerID string) (*Profile, error) {
	r.mu.Lock()
	data, ok := r.profiles[playerID]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, playerID)
	}
	return Decode(data, playerID)
}

// Save stores a copy of p.
func (r *MemoryRepository) Save(_ context.Context, p *Profile) error {
	if err := ValidatePlayerID(p.PlayerID); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.PlayerID] = buf.Bytes()
	r.saves++
	return nil
}

// LoadSession returns a copy of the stored session.
func (r *MemoryRepository) LoadSession(_ context.Context, playerID string) (*stats.Stats, error) {
	r.mu.Lock()
	data, ok := r.sessions[playerID]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, playerID)
	}
	return DecodeSession(data, playerID)
}

// SaveSession stores a copy of s.
func (r *MemoryRepository) SaveSession(_ context.Context, s *stats.Stats) error {
	var buf bytes.Buffer
	if err := EncodeSession(&buf, s); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.PlayerID] = buf.Bytes()
	return nil
}

// List returns stored player ids in order.
func (r *MemoryRepository) List(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Saves returns how many times Save succeeded.
func (r *MemoryRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

// Put stores raw bytes for a player, bypassing validation.
func (r *MemoryRepository) Put(playerID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[playerID] = append([]byte(nil), data...)
}
