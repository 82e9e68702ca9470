package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/talker/internal/domain/model"
	"github.com/okian/talker/pkg/metrics"
)

const (
	defaultFileMode fs.FileMode = 0o644
	defaultIndent               = "  "
)

// FileStore keeps the talker collection as a JSON array in a single file.
// Every Load reads the whole file and every Save rewrites it. Save writes
// a temp file next to the target and renames it into place.
type FileStore struct {
	path   string
	mode   fs.FileMode
	indent string
}

// NewFileStore returns a store backed by the JSON file at path.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:   path,
		mode:   defaultFileMode,
		indent: defaultIndent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load reads and parses the whole file. A missing file is an error.
func (s *FileStore) Load(ctx context.Context) (talkers []model.Talker, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOperation("load", err, float64(time.Since(start).Microseconds())/1000)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrStorage, s.path, err)
	}
	if err := json.Unmarshal(data, &talkers); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrStorage, s.path, err)
	}
	if talkers == nil {
		// a literal null in the file
		talkers = []model.Talker{}
	}
	metrics.UpdateTalkersTotal(len(talkers))
	return talkers, nil
}

// Save serializes talkers and replaces the file.
func (s *FileStore) Save(ctx context.Context, talkers []model.Talker) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOperation("save", err, float64(time.Since(start).Microseconds())/1000)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	if talkers == nil {
		talkers = []model.Talker{}
	}
	data, err := s.encode(talkers)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrStorage, err)
	}
	if err := s.replace(data); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrStorage, s.path, err)
	}
	metrics.UpdateTalkersTotal(len(talkers))
	return nil
}

func (s *FileStore) encode(talkers []model.Talker) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if s.indent != "" {
		enc.SetIndent("", s.indent)
	}
	if err := enc.Encode(talkers); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// replace writes data to a temp file in the target directory and renames
// it over the target.
func (s *FileStore) replace(data []byte) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, s.mode); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}
