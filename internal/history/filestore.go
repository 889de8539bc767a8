package history

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	internalfs "github.com/plandoc/plandoc-sync/internal/fs"
)

// FileStore is a durable JSON-lines log, one ResolutionRecord per line.
// Appends go through SafeFS so the store stays inside its directory.
type FileStore struct {
	fs   *internalfs.SafeFS
	name string
}

func NewFileStore(path string) (*FileStore, error) {
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return nil, fmt.Errorf("invalid history file path %q", path)
	}

	safe, err := internalfs.NewSafeFS(dir)
	if err != nil {
		return nil, err
	}

	return &FileStore{fs: safe, name: name}, nil
}

func (s *FileStore) Path() string {
	if s == nil || s.fs == nil {
		return ""
	}
	return filepath.Join(s.fs.Root(), s.name)
}

func (s *FileStore) Append(record ResolutionRecord) error {
	if s == nil || s.fs == nil {
		return fmt.Errorf("file store is not initialized")
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode resolution record: %w", err)
	}
	encoded = append(encoded, '\n')

	return s.fs.AppendFile(s.name, encoded, 0o644)
}

func (s *FileStore) ReadAll() ([]ResolutionRecord, error) {
	if s == nil || s.fs == nil {
		return nil, fmt.Errorf("file store is not initialized")
	}

	raw, err := s.fs.ReadFile(s.name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var records []ResolutionRecord
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var record ResolutionRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("failed to decode resolution record: %w", err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
