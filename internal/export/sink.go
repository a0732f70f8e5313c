package export

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/GoSim-25-26J-441/datagen/pkg/models"
)

// Sink persists one named dataset and returns where it was stored
type Sink interface {
	Write(ctx context.Context, name string, records []models.Interaction) (string, error)
}

// FileSink writes CSV files below Dir. A name may contain subdirectories.
type FileSink struct {
	Dir string
}

// NewFileSink creates a sink rooted at dir
func NewFileSink(dir string) *FileSink {
	if dir == "" {
		dir = "."
	}
	return &FileSink{Dir: dir}
}

// Write renders records to a temp file next to the target and renames it
// into place, so a failed export leaves no partial file behind. An existing
// file with the same name is replaced.
func (s *FileSink) Write(ctx context.Context, name string, records []models.Interaction) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rel := filepath.Clean(filepath.FromSlash(name))
	if name == "" || filepath.IsAbs(rel) || rel == "." || rel == ".." ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid dataset name %q", name)
	}

	path := filepath.Join(s.Dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := WriteCSV(bw, records); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("flush %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("rename %s: %w", name, err)
	}
	committed = true
	return path, nil
}

// MemorySink keeps rendered CSV datasets in memory
type MemorySink struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemorySink creates an empty in-memory sink
func NewMemorySink() *MemorySink {
	return &MemorySink{data: make(map[string][]byte)}
}

// Write renders records and stores them under name
func (s *MemorySink) Write(ctx context.Context, name string, records []models.Interaction) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}

	s.mu.Lock()
	s.data[name] = buf.Bytes()
	s.mu.Unlock()
	return "mem://" + name, nil
}

// Get returns the CSV bytes stored under name
func (s *MemorySink) Get(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[name]
	return b, ok
}

// Names returns the stored dataset names in sorted order
func (s *MemorySink) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
