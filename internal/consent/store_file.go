package consent

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"consentgate/pkg/platform/sentinel"
)

// FileStore persists the decision literal in a single file, for hosts that
// embed the bootstrap outside a browser context. Writes are atomic
// (temp file + rename) so a crash never leaves a half-written record.
type FileStore struct {
	path string
}

// NewFileStore stores the record under dir using the standard record name.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, RecordName)}
}

func (s *FileStore) Read(_ context.Context) (Decision, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return DecisionUnset, nil
	}
	if err != nil {
		return DecisionUnset, fmt.Errorf("read consent record: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return ParseDecision(strings.TrimSpace(string(raw))), nil
}

func (s *FileStore) Write(_ context.Context, decision Decision) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), RecordName+".tmp")
	if err != nil {
		return fmt.Errorf("write consent record: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(decision.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write consent record: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write consent record: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write consent record: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}
