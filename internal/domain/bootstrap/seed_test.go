package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/medassist/medassist/internal/domain/caserecord"
	"github.com/medassist/medassist/internal/domain/vocabulary"
)

func testPaths(t *testing.T) Paths {
	dir := t.TempDir()
	return Paths{
		Symptoms: filepath.Join(dir, "symptoms.txt"),
		Diseases: filepath.Join(dir, "disease.txt"),
		Records:  filepath.Join(dir, "medicalDatabase.csv"),
	}
}

func TestDefaults_Sizes(t *testing.T) {
	if len(DefaultSymptoms) != 30 {
		t.Errorf("expected 30 default symptoms, got %d", len(DefaultSymptoms))
	}
	if len(DefaultDiseases) != 30 {
		t.Errorf("expected 30 default diseases, got %d", len(DefaultDiseases))
	}
	if len(DefaultRecords()) != 30 {
		t.Errorf("expected 30 default records, got %d", len(DefaultRecords()))
	}
}

func TestDefaultRecords_DiseasesAreKnown(t *testing.T) {
	diseases := vocabulary.NewSet(DefaultDiseases...)
	for _, rec := range DefaultRecords() {
		for _, d := range rec.Diseases {
			if !diseases.Contains(d) {
				t.Errorf("seed record disease %q is not in the default vocabulary", d)
			}
		}
	}
}

func TestSeed_CreatesAllFiles(t *testing.T) {
	p := testPaths(t)

	created, err := Seed(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("expected 3 created files, got %v", created)
	}

	symptoms, err := vocabulary.LoadSymptoms(p.Symptoms)
	if err != nil || symptoms.Len() != 30 {
		t.Errorf("expected 30 seeded symptoms, got %d (%v)", symptoms.Len(), err)
	}
	records, skipped, err := caserecord.NewStore(p.Records).ReadAll()
	if err != nil {
		t.Fatalf("read records: %v", err)
	}
	if len(records) != 30 || skipped != 0 {
		t.Errorf("expected 30 records and 0 skipped, got %d/%d", len(records), skipped)
	}
	if records[0].Row() != "P000|Setup|fever,cough,fatigue|flu" {
		t.Errorf("unexpected first row %q", records[0].Row())
	}
}

func TestSeed_NeverOverwrites(t *testing.T) {
	p := testPaths(t)
	if err := os.WriteFile(p.Symptoms, []byte("aliens\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p.Records, []byte(caserecord.HeaderRow+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	created, err := Seed(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 1 || created[0] != p.Diseases {
		t.Errorf("expected only the disease file to be created, got %v", created)
	}
	data, _ := os.ReadFile(p.Symptoms)
	if string(data) != "aliens\n" {
		t.Errorf("symptom file was overwritten: %q", data)
	}
	records, _, _ := caserecord.NewStore(p.Records).ReadAll()
	if len(records) != 0 {
		t.Errorf("record store was reseeded: %d records", len(records))
	}
}
