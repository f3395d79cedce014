package consultation

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNoSymptoms        = errors.New("at least one symptom is required")
	ErrDiagnosisDisabled = errors.New("diagnosis disabled: symptom or disease data is missing")
	ErrArchiveDisabled   = errors.New("consultation archive is not configured")
)

// Sources locates the vocabulary files and the record store.
type Sources struct {
	SymptomsPath string
	DiseasesPath string
	RecordsPath  string
}

// Request is what a front end submits for one consultation.
type Request struct {
	PatientID   string   `json:"patient_id"`
	PatientName string   `json:"patient_name"`
	Symptoms    []string `json:"symptoms"`
}

// Result is the diagnosis shown to the operator. Diseases is exactly what
// was persisted.
type Result struct {
	ConsultationID uuid.UUID `json:"consultation_id"`
	PatientID      string    `json:"patient_id"`
	PatientName    string    `json:"patient_name"`
	Symptoms       []string  `json:"symptoms"`
	Diseases       []string  `json:"diseases"`
	RecordsPath    string    `json:"records_path"`
	Archived       bool      `json:"archived"`
}
