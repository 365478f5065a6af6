package fs

import (
	"bufio"
	"context"
	"os"

	wikidump "github.com/llamasoft/WikiDump"
)

// Ensure FileStore implements wikidump.DocumentStore at compile time.
var _ wikidump.DocumentStore = (*FileStore)(nil)

// FileStore implements wikidump.DocumentStore with atomic update semantics.
// Records are written to path.tmp, then moved to path on Commit, so a failed
// run never leaves a truncated file at path.
type FileStore struct {
	path string

	f *os.File
	w *bufio.Writer
}

// NewFileStore creates a new FileStore that writes to path.
// Nothing is created until the first document is written.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) tempPath() string {
	return s.path + ".tmp"
}

// Path returns the final output path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) open() error {
	if s.f != nil {
		return nil
	}
	f, err := os.Create(s.tempPath())
	if err != nil {
		return err
	}
	s.f = f
	s.w = bufio.NewWriterSize(f, 1<<20)
	return nil
}

func (s *FileStore) WriteDocument(ctx context.Context, doc *wikidump.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := s.open(); err != nil {
		return err
	}
	_, err := s.w.WriteString(FormatDocument(doc))
	return err
}

// Commit flushes the temp file and renames it over path. A run that kept
// no documents commits an empty file.
func (s *FileStore) Commit() error {
	if err := s.open(); err != nil {
		return err
	}
	if err := s.w.Flush(); err != nil {
		return err
	}
	if err := s.f.Close(); err != nil {
		return err
	}
	s.f, s.w = nil, nil

	// Remove existing final file if present
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(s.tempPath(), s.path)
}

func (s *FileStore) Abort() error {
	if s.f != nil {
		_ = s.f.Close()
		s.f, s.w = nil, nil
	}
	if err := os.Remove(s.tempPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
