package sweep

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// ErrCheckpointClosed is returned when appending to a closed checkpoint.
var ErrCheckpointClosed = errors.New("checkpoint closed")

// CheckpointRecord is an accepted decision: the sweeper at SweeperIndex accepted Columns.
// Separate is set when the group of columns was featurized column by column.
type CheckpointRecord struct {
	SweeperIndex int      `json:"sweeper_index"`
	Columns      []string `json:"columns"`
	Separate     bool     `json:"separate,omitempty"`
}

// checkpoint is an append-only file of records, one JSON object per line. Every append is
// synced before it returns. Once closed, appends fail, so a batch that outlives its budget
// cannot add records while they are being replayed.
type checkpoint struct {
	mu     sync.Mutex
	f      *os.File
	path   string
	closed bool
}

func createCheckpoint(path string) (*checkpoint, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, errors.Wrap(err, "creating checkpoint")
	}
	return &checkpoint{f: f, path: path}, nil
}

func (c *checkpoint) Append(r CheckpointRecord) error {
	line, err := json.Marshal(r)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCheckpointClosed
	}
	if _, err := c.f.Write(append(line, '\n')); err != nil {
		return errors.Wrap(err, "appending to checkpoint")
	}
	return errors.Wrap(c.f.Sync(), "syncing checkpoint")
}

func (c *checkpoint) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.f.Close()
}

// readCheckpoint reads the records of a checkpoint in the order they were appended. Reading
// stops at the first line that cannot be decoded, since only a torn final write can produce one.
// A missing checkpoint has no records.
func readCheckpoint(path string, logger *slog.Logger) []CheckpointRecord {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("checkpoint unreadable, nothing to recover", "path", path, "error", err)
		return nil
	}
	defer f.Close()

	var records []CheckpointRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for line := 1; scanner.Scan(); line++ {
		var r CheckpointRecord
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			logger.Warn("corrupt checkpoint record, stopping recovery", "path", path, "line", line, "error", err)
			break
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("checkpoint read interrupted", "path", path, "error", err)
	}
	return records
}
