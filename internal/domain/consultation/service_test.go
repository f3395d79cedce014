package consultation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medassist/medassist/internal/domain/bootstrap"
	"github.com/medassist/medassist/internal/domain/caseindex"
	"github.com/medassist/medassist/internal/domain/caserecord"
	"github.com/medassist/medassist/internal/domain/diagnosis"
)

// =========== Mock Archive ===========

type mockArchive struct {
	store map[uuid.UUID]*caserecord.ArchivedRecord
	err   error
}

func newMockArchive() *mockArchive {
	return &mockArchive{store: make(map[uuid.UUID]*caserecord.ArchivedRecord)}
}

func (m *mockArchive) Create(_ context.Context, rec *caserecord.ArchivedRecord) error {
	if m.err != nil {
		return m.err
	}
	m.store[rec.ID] = rec
	return nil
}

func (m *mockArchive) GetByID(_ context.Context, id uuid.UUID) (*caserecord.ArchivedRecord, error) {
	rec, ok := m.store[id]
	if !ok {
		return nil, caserecord.ErrNotFound
	}
	return rec, nil
}

func (m *mockArchive) ListByPatient(_ context.Context, patientID string, limit, offset int) ([]*caserecord.ArchivedRecord, int, error) {
	var out []*caserecord.ArchivedRecord
	for _, rec := range m.store {
		if rec.PatientID == patientID {
			out = append(out, rec)
		}
	}
	return out, len(out), nil
}

// =========== Helpers ===========

func seededSources(t *testing.T) Sources {
	t.Helper()
	dir := t.TempDir()
	src := Sources{
		SymptomsPath: filepath.Join(dir, "symptoms.txt"),
		DiseasesPath: filepath.Join(dir, "disease.txt"),
		RecordsPath:  filepath.Join(dir, "medicalDatabase.csv"),
	}
	_, err := bootstrap.Seed(bootstrap.Paths{Symptoms: src.SymptomsPath, Diseases: src.DiseasesPath, Records: src.RecordsPath})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return src
}

func newTestService(t *testing.T) (*Service, Sources) {
	src := seededSources(t)
	return NewService(src, nil, zerolog.Nop()), src
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return len(strings.Split(strings.TrimRight(string(data), "\n"), "\n"))
}

// =========== Run ===========

func TestRun_DiagnosesAndAppends(t *testing.T) {
	svc, src := newTestService(t)
	before := countLines(t, src.RecordsPath)

	res, err := svc.Run(context.Background(), &Request{
		PatientID:   "P100",
		PatientName: "Ada",
		Symptoms:    []string{" Fever ", "cough", "FATIGUE", "fever"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Diseases) != 1 || res.Diseases[0] != "flu" {
		t.Errorf("expected [flu], got %v", res.Diseases)
	}
	if len(res.Symptoms) != 3 {
		t.Errorf("expected 3 distinct symptoms, got %v", res.Symptoms)
	}
	if res.ConsultationID == uuid.Nil {
		t.Error("expected a consultation id")
	}
	if res.Archived {
		t.Error("expected no archive without a repository")
	}

	if got := countLines(t, src.RecordsPath); got != before+1 {
		t.Fatalf("expected one appended line, got %d -> %d", before, got)
	}
	records, _, err := caserecord.NewStore(src.RecordsPath).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	last := records[len(records)-1]
	if last.Row() != "P100|Ada|fever,cough,fatigue|flu" {
		t.Errorf("unexpected persisted row %q", last.Row())
	}
}

func TestRun_RoundTripThroughIndex(t *testing.T) {
	svc, src := newTestService(t)
	res, err := svc.Run(context.Background(), &Request{PatientID: "P1", PatientName: "Ann", Symptoms: []string{"ear pain", "fever"}})
	if err != nil {
		t.Fatal(err)
	}

	records, _, err := caserecord.NewStore(src.RecordsPath).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	ix := caseindex.Build(records[len(records)-1:])
	for _, s := range res.Symptoms {
		for _, d := range res.Diseases {
			if !ix.Linked(s, d) {
				t.Errorf("reloaded record lost pair (%s, %s)", s, d)
			}
		}
	}
}

func TestRun_UnrecognizedSymptomsWriteNothing(t *testing.T) {
	svc, src := newTestService(t)
	before := countLines(t, src.RecordsPath)

	_, err := svc.Run(context.Background(), &Request{
		PatientID:   "P1",
		PatientName: "Ann",
		Symptoms:    []string{"fever", "aliens", "time travel"},
	})
	if !errors.Is(err, diagnosis.ErrUnrecognizedSymptom) {
		t.Fatalf("expected ErrUnrecognizedSymptom, got %v", err)
	}
	if names := diagnosis.Unrecognized(err, diagnosis.KindUnrecognizedSymptom); len(names) != 2 {
		t.Errorf("expected both names reported, got %v", names)
	}
	if got := countLines(t, src.RecordsPath); got != before {
		t.Errorf("record store changed: %d -> %d", before, got)
	}
}

func TestRun_InvalidPatient(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Run(context.Background(), &Request{PatientID: " ", PatientName: "Ann", Symptoms: []string{"fever"}})
	if !errors.Is(err, diagnosis.ErrInvalidPatient) {
		t.Fatalf("expected ErrInvalidPatient, got %v", err)
	}
}

func TestRun_NoSymptoms(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Run(context.Background(), &Request{PatientID: "P1", PatientName: "Ann"})
	if !errors.Is(err, ErrNoSymptoms) {
		t.Fatalf("expected ErrNoSymptoms, got %v", err)
	}
}

func TestRun_EmptySymptomSourceDisablesDiagnosis(t *testing.T) {
	svc, src := newTestService(t)
	if err := os.WriteFile(src.SymptomsPath, []byte("\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Run(context.Background(), &Request{PatientID: "P1", PatientName: "Ann", Symptoms: []string{"fever"}})
	if !errors.Is(err, ErrDiagnosisDisabled) {
		t.Fatalf("expected ErrDiagnosisDisabled, got %v", err)
	}
}

func TestRun_MissingDiseaseSource(t *testing.T) {
	svc, src := newTestService(t)
	if err := os.Remove(src.DiseasesPath); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Run(context.Background(), &Request{PatientID: "P1", PatientName: "Ann", Symptoms: []string{"fever"}})
	if err == nil || errors.Is(err, ErrDiagnosisDisabled) {
		t.Fatalf("expected a source-missing error, got %v", err)
	}
}

func TestRun_InvalidStoreType(t *testing.T) {
	src := seededSources(t)
	src.RecordsPath = filepath.Join(filepath.Dir(src.RecordsPath), "records.txt")
	svc := NewService(src, nil, zerolog.Nop())

	_, err := svc.Run(context.Background(), &Request{PatientID: "P1", PatientName: "Ann", Symptoms: []string{"fever"}})
	if !errors.Is(err, caserecord.ErrInvalidStoreType) {
		t.Fatalf("expected ErrInvalidStoreType, got %v", err)
	}
}

func TestRun_CorruptIndexWritesNothing(t *testing.T) {
	svc, src := newTestService(t)
	store := caserecord.NewStore(src.RecordsPath)
	if err := store.Append(&caserecord.Record{PatientID: "PX", PatientName: "Bad", Symptoms: []string{"fever"}, Diseases: []string{"space plague"}}); err != nil {
		t.Fatal(err)
	}
	before := countLines(t, src.RecordsPath)

	_, err := svc.Run(context.Background(), &Request{PatientID: "P1", PatientName: "Ann", Symptoms: []string{"fever"}})
	if !errors.Is(err, diagnosis.ErrUnrecognizedDisease) {
		t.Fatalf("expected ErrUnrecognizedDisease, got %v", err)
	}
	if got := countLines(t, src.RecordsPath); got != before {
		t.Errorf("record store changed after failed diagnosis: %d -> %d", before, got)
	}
}

func TestRun_Archive(t *testing.T) {
	src := seededSources(t)
	archive := newMockArchive()
	svc := NewService(src, archive, zerolog.Nop())

	res, err := svc.Run(context.Background(), &Request{PatientID: "P7", PatientName: "Cy", Symptoms: []string{"rash", "joint pain"}})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Archived {
		t.Error("expected result to be archived")
	}
	got, err := archive.GetByID(context.Background(), res.ConsultationID)
	if err != nil {
		t.Fatalf("archived record missing: %v", err)
	}
	if got.PatientID != "P7" || len(got.Diseases) != 1 || got.Diseases[0] != "lyme disease" {
		t.Errorf("unexpected archived record %+v", got)
	}
}

func TestRun_ArchiveFailureIsNotFatal(t *testing.T) {
	src := seededSources(t)
	archive := newMockArchive()
	archive.err = errors.New("connection refused")
	svc := NewService(src, archive, zerolog.Nop())

	res, err := svc.Run(context.Background(), &Request{PatientID: "P7", PatientName: "Cy", Symptoms: []string{"rash"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Archived {
		t.Error("expected Archived=false when the archive fails")
	}
}

// =========== Queries ===========

func TestDiseasesForSymptom(t *testing.T) {
	svc, _ := newTestService(t)
	got, err := svc.DiseasesForSymptom("Ear Pain")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "ear infection" {
		t.Errorf("expected [ear infection], got %v", got)
	}

	if _, err := svc.DiseasesForSymptom("aliens"); !errors.Is(err, diagnosis.ErrUnrecognizedSymptom) {
		t.Errorf("expected ErrUnrecognizedSymptom, got %v", err)
	}
}

func TestRecords_Pagination(t *testing.T) {
	svc, _ := newTestService(t)

	page, total, err := svc.Records(10, 25)
	if err != nil {
		t.Fatal(err)
	}
	if total != 30 || len(page) != 5 {
		t.Errorf("expected 5 of 30, got %d of %d", len(page), total)
	}

	page, _, _ = svc.Records(10, 100)
	if len(page) != 0 {
		t.Errorf("expected empty page past the end, got %d", len(page))
	}
}

// =========== Archive Queries ===========

func TestHistory_ArchiveDisabled(t *testing.T) {
	svc, _ := newTestService(t)
	if _, _, err := svc.History(context.Background(), "P1", 10, 0); !errors.Is(err, ErrArchiveDisabled) {
		t.Errorf("expected ErrArchiveDisabled, got %v", err)
	}
	if _, err := svc.Consultation(context.Background(), uuid.New()); !errors.Is(err, ErrArchiveDisabled) {
		t.Errorf("expected ErrArchiveDisabled, got %v", err)
	}
}

func TestHistory_ByPatient(t *testing.T) {
	src := seededSources(t)
	archive := newMockArchive()
	svc := NewService(src, archive, zerolog.Nop())

	for _, symptoms := range [][]string{{"rash"}, {"fever", "cough"}} {
		if _, err := svc.Run(context.Background(), &Request{PatientID: "P9", PatientName: "Di", Symptoms: symptoms}); err != nil {
			t.Fatal(err)
		}
	}
	items, total, err := svc.History(context.Background(), "P9", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 archived consultations, got %d (total %d)", len(items), total)
	}

	if _, _, err := svc.History(context.Background(), "", 10, 0); !errors.Is(err, caserecord.ErrInvalidField) {
		t.Errorf("expected ErrInvalidField for empty patient id, got %v", err)
	}
}

func TestConsultation_NotFound(t *testing.T) {
	src := seededSources(t)
	svc := NewService(src, newMockArchive(), zerolog.Nop())
	if _, err := svc.Consultation(context.Background(), uuid.New()); !errors.Is(err, caserecord.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
