package caserecord

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Store is the append-only flat-file record store. It assumes a single
// writer; concurrent appends from several processes are not coordinated.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// EnsureStore creates the store with its header row when absent. An existing
// but empty file also receives the header.
func (s *Store) EnsureStore() error {
	if filepath.Ext(s.path) != Extension {
		return fmt.Errorf("%w: %s", ErrInvalidStoreType, s.path)
	}

	info, err := os.Stat(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("stat record store: %w", err)
	case info.IsDir():
		return fmt.Errorf("%w: %s is a directory", ErrInvalidStoreType, s.path)
	case info.Size() > 0:
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create record store directory: %w", err)
		}
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create record store: %w", err)
	}
	if _, err := f.WriteString(HeaderRow + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	return f.Close()
}

// Append writes rec as one new line at the end of the store.
func (s *Store) Append(rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if err := s.EnsureStore(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer f.Close()

	line := rec.Row() + "\n"
	terminated, err := endsWithNewline(f)
	if err != nil {
		return fmt.Errorf("inspect record store: %w", err)
	}
	if !terminated {
		line = "\n" + line
	}

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close record store: %w", err)
	}
	return nil
}

// ReadAll returns every well-formed data row. Malformed rows are skipped and
// counted. A missing store yields no records and no error.
func (s *Store) ReadAll() ([]*Record, int, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open record store: %w", err)
	}
	defer f.Close()

	records, skipped, err := Read(f)
	if err != nil {
		return nil, 0, fmt.Errorf("read record store: %w", err)
	}
	return records, skipped, nil
}

// Read decodes a record stream whose first line is the header.
func Read(r io.Reader) ([]*Record, int, error) {
	var (
		records []*Record
		skipped int
		header  = true
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		line := sc.Text()
		if line == "" {
			continue
		}
		rec, err := ParseRow(line)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, sc.Err()
}

func endsWithNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return true, nil
	}
	buf := make([]byte, 1)
	if _, err := f.ReadAt(buf, info.Size()-1); err != nil {
		return false, err
	}
	return buf[0] == '\n', nil
}
