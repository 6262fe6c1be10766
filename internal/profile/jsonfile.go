package profile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/verte-zerg/chesscoach/internal/stats"
)

const (
	profileSuffix = ".profile.json"
	sessionSuffix = ".session.json"
)

// FileRepository stores one JSON file per player under a directory.
type FileRepository struct {
	dir string
}

// NewFileRepository returns a repository rooted at dir.
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

// Dir returns the storage directory.
func (r *FileRepository) Dir() string { return r.dir }

func (r *FileRepository) path(playerID, suffix string) (string, error) {
	if err := ValidatePlayerID(playerID); err != nil {
		return "", err
	}
	return filepath.Join(r.dir, playerID+suffix), nil
}

// Load reads a player's profile.
func (r *FileRepository) Load(_ context.Context, playerID string) (*Profile, error) {
	data, err := r.read(playerID, profileSuffix)
	if err != nil {
		return nil, err
	}
	return Decode(data, playerID)
}

// Save writes a player's profile atomically.
func (r *FileRepository) Save(_ context.Context, p *Profile) error {
	path, err := r.path(p.PlayerID, profileSuffix)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	return writeAtomic(path, buf.Bytes())
}

// LoadSession reads the player's last finished session.
func (r *FileRepository) LoadSession(_ context.Context, playerID string) (*stats.Stats, error) {
	data, err := r.read(playerID, sessionSuffix)
	if err != nil {
		return nil, err
	}
	return DecodeSession(data, playerID)
}

// SaveSession writes the player's last finished session atomically.
func (r *FileRepository) SaveSession(_ context.Context, s *stats.Stats) error {
	path, err := r.path(s.PlayerID, sessionSuffix)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := EncodeSession(&buf, s); err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return writeAtomic(path, buf.Bytes())
}

// List returns stored player ids in order.
func (r *FileRepository) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if id, ok := strings.CutSuffix(e.Name(), profileSuffix); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *FileRepository) read(playerID, suffix string) ([]byte, error) {
	path, err := r.path(playerID, suffix)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, playerID)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create profile dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
