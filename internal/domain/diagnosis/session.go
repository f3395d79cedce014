package diagnosis

import (
	"fmt"
	"strings"
)

// Session is one patient's consultation. It is owned by the active
// consultation and discarded after persistence.
type Session struct {
	PatientID   string
	PatientName string

	symptoms []string
	seen     map[string]struct{}
}

// NewSession trims and validates the patient identity.
func NewSession(patientID, patientName string) (*Session, error) {
	id, name := strings.TrimSpace(patientID), strings.TrimSpace(patientName)
	if id == "" || name == "" {
		return nil, fmt.Errorf("%w: id=%q name=%q", ErrInvalidPatient, id, name)
	}
	return &Session{
		PatientID:   id,
		PatientName: name,
		seen:        make(map[string]struct{}),
	}, nil
}

// Symptoms returns the selected symptoms in insertion order.
func (s *Session) Symptoms() []string {
	out := make([]string, len(s.symptoms))
	copy(out, s.symptoms)
	return out
}

func (s *Session) Len() int { return len(s.symptoms) }

// add inserts a normalized symptom; duplicates are ignored.
func (s *Session) add(symptom string) {
	if _, ok := s.seen[symptom]; ok {
		return
	}
	s.seen[symptom] = struct{}{}
	s.symptoms = append(s.symptoms, symptom)
}
