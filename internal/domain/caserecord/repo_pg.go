package caserecord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type archiveRepoPG struct{ pool *pgxpool.Pool }

func NewArchiveRepoPG(pool *pgxpool.Pool) ArchiveRepository {
	return &archiveRepoPG{pool: pool}
}

const archiveCols = `id, patient_id, patient_name, symptoms, diseases, records_path, created_at`

func (r *archiveRepoPG) scan(row pgx.Row) (*ArchivedRecord, error) {
	var a ArchivedRecord
	err := row.Scan(&a.ID, &a.PatientID, &a.PatientName, &a.Symptoms, &a.Diseases, &a.RecordsPath, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *archiveRepoPG) Create(ctx context.Context, rec *ArchivedRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Symptoms == nil {
		rec.Symptoms = []string{}
	}
	if rec.Diseases == nil {
		rec.Diseases = []string{}
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO consultation_records (`+archiveCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.PatientID, rec.PatientName, rec.Symptoms, rec.Diseases, rec.RecordsPath, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("archive record: %w", err)
	}
	return nil
}

func (r *archiveRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ArchivedRecord, error) {
	a, err := r.scan(r.pool.QueryRow(ctx, `SELECT `+archiveCols+` FROM consultation_records WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get archived record: %w", err)
	}
	return a, nil
}

func (r *archiveRepoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*ArchivedRecord, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM consultation_records WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count archived records: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT `+archiveCols+` FROM consultation_records
		WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list archived records: %w", err)
	}
	defer rows.Close()

	var items []*ArchivedRecord
	for rows.Next() {
		a, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}
