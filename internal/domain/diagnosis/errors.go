package diagnosis

import (
	"errors"
	"fmt"
)

// Kind tags a recognition failure.
type Kind int

const (
	KindUnrecognizedSymptom Kind = iota + 1
	KindUnrecognizedDisease
)

func (k Kind) String() string {
	switch k {
	case KindUnrecognizedSymptom:
		return "symptom"
	case KindUnrecognizedDisease:
		return "disease"
	default:
		return "unknown"
	}
}

var (
	ErrUnrecognizedSymptom = errors.New("unrecognized symptom")
	ErrUnrecognizedDisease = errors.New("unrecognized disease")
	ErrInvalidPatient      = errors.New("patient id and name are required")
)

// NameError reports a name missing from the vocabulary. It unwraps to the
// sentinel matching its Kind.
type NameError struct {
	Kind Kind
	Name string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("%s '%s' not recognized", e.Kind, e.Name)
}

func (e *NameError) Unwrap() error {
	switch e.Kind {
	case KindUnrecognizedSymptom:
		return ErrUnrecognizedSymptom
	case KindUnrecognizedDisease:
		return ErrUnrecognizedDisease
	}
	return nil
}

// Unrecognized collects the names carried by every NameError of the given
// kind inside err, including errors combined with errors.Join.
func Unrecognized(err error, kind Kind) []string {
	var names []string
	var walk func(error)
	walk = func(err error) {
		switch e := err.(type) {
		case nil:
		case *NameError:
			if e.Kind == kind {
				names = append(names, e.Name)
			}
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(e.Unwrap())
		}
	}
	walk(err)
	return names
}
