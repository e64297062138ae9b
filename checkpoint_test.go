package sweep

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.jsonl")
	cp, err := createCheckpoint(path)
	require.NoError(t, err)

	want := []CheckpointRecord{
		{SweeperIndex: 0, Columns: []string{"title"}},
		{SweeperIndex: 2, Columns: []string{"title", "body"}, Separate: true},
	}
	for _, r := range want {
		require.NoError(t, cp.Append(r))
	}
	require.NoError(t, cp.Close())
	require.NoError(t, cp.Close())
	assert.True(t, errors.Is(cp.Append(want[0]), ErrCheckpointClosed))

	assert.Equal(t, want, readCheckpoint(path, slog.Default()))

	_, err = createCheckpoint(path)
	assert.Error(t, err)
}

func TestCheckpointStopsAtCorruptLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"sweeper_index":1,"columns":["a"]}`+"\n"+
			`{"sweeper_index":1,"colu`+"\n"+
			`{"sweeper_index":3,"columns":["b"]}`+"\n"), 0600))

	records := readCheckpoint(path, slog.Default())
	assert.Equal(t, []CheckpointRecord{{SweeperIndex: 1, Columns: []string{"a"}}}, records)
}

func TestCheckpointMissing(t *testing.T) {
	assert.Empty(t, readCheckpoint(filepath.Join(t.TempDir(), "nope.jsonl"), slog.Default()))
}
