package caserecord

import (
	"context"

	"github.com/google/uuid"
)

// ArchiveRepository mirrors appended records into a queryable database.
type ArchiveRepository interface {
	Create(ctx context.Context, rec *ArchivedRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*ArchivedRecord, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*ArchivedRecord, int, error)
}
