// Package bootstrap writes the default vocabulary and history files used on
// first run. It never overwrites an existing file.
package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/medassist/medassist/internal/domain/caserecord"
)

// Paths locates the three data files.
type Paths struct {
	Symptoms string
	Diseases string
	Records  string
}

// Seed creates whichever of the data files are absent and returns the paths
// it created.
func Seed(p Paths) ([]string, error) {
	var created []string

	for _, list := range []struct {
		path  string
		names []string
	}{
		{p.Symptoms, DefaultSymptoms},
		{p.Diseases, DefaultDiseases},
	} {
		ok, err := writeIfAbsent(list.path, strings.Join(list.names, "\n")+"\n")
		if err != nil {
			return created, err
		}
		if ok {
			created = append(created, list.path)
		}
	}

	exists, err := fileExists(p.Records)
	if err != nil {
		return created, err
	}
	if exists {
		return created, nil
	}
	store := caserecord.NewStore(p.Records)
	if err := store.EnsureStore(); err != nil {
		return created, fmt.Errorf("seed %s: %w", p.Records, err)
	}
	for _, rec := range DefaultRecords() {
		if err := store.Append(rec); err != nil {
			return created, fmt.Errorf("seed %s: %w", p.Records, err)
		}
	}
	return append(created, p.Records), nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}

func writeIfAbsent(path, content string) (bool, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, f.Close()
}
