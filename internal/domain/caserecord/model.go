package caserecord

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record-store format constants.
const (
	FieldDelimiter = "|"
	ListDelimiter  = ","
	Extension      = ".csv"
	HeaderRow      = "patient id|patient name|symptoms list|possible disease"

	fieldCount = 4
)

var (
	ErrInvalidStoreType = errors.New("invalid record store type: must be a " + Extension + " file")
	ErrInvalidField     = errors.New("invalid record field")
	ErrMalformedRow     = errors.New("malformed record row")
	ErrNotFound         = errors.New("archived record not found")
)

// Record is one persisted consultation. Records are appended, never rewritten.
type Record struct {
	PatientID   string   `json:"patient_id"`
	PatientName string   `json:"patient_name"`
	Symptoms    []string `json:"symptoms"`
	Diseases    []string `json:"diseases"`
}

// Validate rejects values that would corrupt the row layout.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.PatientID) == "" {
		return fmt.Errorf("%w: patient id is required", ErrInvalidField)
	}
	if strings.TrimSpace(r.PatientName) == "" {
		return fmt.Errorf("%w: patient name is required", ErrInvalidField)
	}
	for _, v := range []string{r.PatientID, r.PatientName} {
		if strings.ContainsAny(v, FieldDelimiter+"\r\n") {
			return fmt.Errorf("%w: %q contains a delimiter", ErrInvalidField, v)
		}
	}
	for _, list := range [][]string{r.Symptoms, r.Diseases} {
		for _, v := range list {
			if strings.ContainsAny(v, FieldDelimiter+ListDelimiter+"\r\n") {
				return fmt.Errorf("%w: list item %q contains a delimiter", ErrInvalidField, v)
			}
		}
	}
	return nil
}

// Row serializes the record without a trailing newline.
func (r *Record) Row() string {
	return strings.Join([]string{
		strings.TrimSpace(r.PatientID),
		strings.TrimSpace(r.PatientName),
		strings.Join(r.Symptoms, ListDelimiter),
		strings.Join(r.Diseases, ListDelimiter),
	}, FieldDelimiter)
}

// ParseRow decodes one data row. Rows with fewer than four fields are
// rejected with ErrMalformedRow; extra fields are ignored.
func ParseRow(line string) (*Record, error) {
	parts := strings.Split(strings.TrimRight(line, "\r\n"), FieldDelimiter)
	if len(parts) < fieldCount {
		return nil, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedRow, fieldCount, len(parts))
	}
	return &Record{
		PatientID:   strings.TrimSpace(parts[0]),
		PatientName: strings.TrimSpace(parts[1]),
		Symptoms:    SplitList(parts[2]),
		Diseases:    SplitList(parts[3]),
	}, nil
}

// SplitList splits a list field and drops blank items.
func SplitList(field string) []string {
	var out []string
	for _, item := range strings.Split(field, ListDelimiter) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ArchivedRecord is a Record mirrored into the Postgres archive.
type ArchivedRecord struct {
	Record

	ID          uuid.UUID `db:"id" json:"id"`
	RecordsPath string    `db:"records_path" json:"records_path"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
