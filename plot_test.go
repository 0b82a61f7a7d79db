package seqlab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLossPlot(t *testing.T) {
	hist := &History{}
	for i := 0; i < 50; i++ {
		hist.Add(1.0 / float64(i+1))
	}

	path := filepath.Join(t.TempDir(), "loss.png")
	require.NoError(t, SaveLossPlot(path, hist))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestHistoryFinal(t *testing.T) {
	hist := &History{}
	assert.Equal(t, 0.0, hist.Final())
	hist.Add(3)
	hist.Add(2)
	assert.Equal(t, 2.0, hist.Final())
}
