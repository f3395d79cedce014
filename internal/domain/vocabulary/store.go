package vocabulary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

var (
	// ErrSourceMissing is returned when a vocabulary file does not exist.
	ErrSourceMissing = errors.New("vocabulary source not found")
	// ErrSourceEmpty is a warning: the source was read but held no names.
	// The accompanying Set is empty and diagnosis must stay disabled.
	ErrSourceEmpty = errors.New("vocabulary source is empty")
)

// LoadSymptoms reads the symptom vocabulary, one name per line.
func LoadSymptoms(path string) (Set, error) {
	return loadFile(path)
}

// LoadDiseases reads the disease vocabulary, one name per line.
func LoadDiseases(path string) (Set, error) {
	return loadFile(path)
}

// Load reads both vocabularies. A missing source aborts the load and returns
// a nil Vocabulary. Empty sources still return the Vocabulary together with
// the joined ErrSourceEmpty warnings.
func Load(symptomsPath, diseasesPath string) (*Vocabulary, error) {
	symptoms, symErr := LoadSymptoms(symptomsPath)
	if symErr != nil && !errors.Is(symErr, ErrSourceEmpty) {
		return nil, symErr
	}
	diseases, disErr := LoadDiseases(diseasesPath)
	if disErr != nil && !errors.Is(disErr, ErrSourceEmpty) {
		return nil, disErr
	}
	return &Vocabulary{Symptoms: symptoms, Diseases: diseases}, errors.Join(symErr, disErr)
}

// Read parses one name per line from r. Blank lines are ignored.
func Read(r io.Reader) (Set, error) {
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		names = append(names, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return Set{}, err
	}
	return NewSet(names...), nil
}

func loadFile(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Set{}, fmt.Errorf("%w: %s", ErrSourceMissing, path)
		}
		return Set{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	set, err := Read(f)
	if err != nil {
		return Set{}, fmt.Errorf("read %s: %w", path, err)
	}
	if set.Len() == 0 {
		return set, fmt.Errorf("%w: %s", ErrSourceEmpty, path)
	}
	return set, nil
}
