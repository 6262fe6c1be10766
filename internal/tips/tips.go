// Package tips loads user tip packs from files.
package tips

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/chesscoach/internal/model"
)

// Pack holds tips grouped by phase plus general encouragements.
type Pack struct {
	Phase   map[model.GamePhase][]string
	General []string
}

// Len returns the number of tips in the pack.
func (p Pack) Len() int {
	n := len(p.General)
	for _, tips := range p.Phase {
		n += len(tips)
	}
	return n
}

// Load reads a tip pack, one tip per line. A line may start with
// "opening:", "middlegame:", or "endgame:" to target a phase; other lines
// are general. Blank lines and lines starting with '#' are skipped.
func Load(path string) (Pack, error) {
	file, err := os.Open(path)
	if err != nil {
		return Pack{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only tip file.
			_ = cerr
		}
	}()
	pack, err := Parse(file)
	if err != nil {
		return Pack{}, fmt.Errorf("%s: %w", path, err)
	}
	return pack, nil
}

// Parse reads a tip pack from r.
func Parse(r io.Reader) (Pack, error) {
	pack := Pack{Phase: map[model.GamePhase][]string{}}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		prefix, rest, found := strings.Cut(line, ":")
		if found {
			if phase, err := model.ParsePhase(prefix); err == nil {
				tip := strings.TrimSpace(rest)
				if tip == "" {
					return Pack{}, fmt.Errorf("line %d: empty %s tip", lineNo, phase)
				}
				pack.Phase[phase] = append(pack.Phase[phase], tip)
				continue
			}
		}
		pack.General = append(pack.General, line)
	}
	if err := scanner.Err(); err != nil {
		return Pack{}, err
	}
	return pack, nil
}
