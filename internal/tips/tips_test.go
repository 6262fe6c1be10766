package tips

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/chesscoach/internal/model"
)

func TestParseGroupsByPhase(t *testing.T) {
	input := strings.Join([]string{
		"# my tips",
		"Opening: Play e4 and pray.",
		"",
		"endgame: Rook endings are always drawn.",
		"Note: breathe between moves.",
		"Sit on your hands.",
	}, "\n")
	pack, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Play e4 and pray."}, pack.Phase[model.PhaseOpening])
	assert.Len(t, pack.Phase[model.PhaseEndgame], 1)
	assert.Equal(t, []string{"Note: breathe between moves.", "Sit on your hands."}, pack.General)
	assert.Equal(t, 4, pack.Len())
}

func TestParseRejectsEmptyPhaseTip(t *testing.T) {
	_, err := Parse(strings.NewReader("middlegame:   "))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.True(t, os.IsNotExist(err), "got %v", err)
}
