package consultation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medassist/medassist/internal/domain/caseindex"
	"github.com/medassist/medassist/internal/domain/caserecord"
	"github.com/medassist/medassist/internal/domain/diagnosis"
	"github.com/medassist/medassist/internal/domain/vocabulary"
)

// Service runs the load, validate, diagnose and save pipeline. Vocabulary
// and index are rebuilt from the source files on every call.
type Service struct {
	src     Sources
	archive caserecord.ArchiveRepository
	logger  zerolog.Logger
}

// NewService creates a consultation service. archive may be nil.
func NewService(src Sources, archive caserecord.ArchiveRepository, logger zerolog.Logger) *Service {
	return &Service{src: src, archive: archive, logger: logger}
}

func (s *Service) store() *caserecord.Store {
	return caserecord.NewStore(s.src.RecordsPath)
}

// Vocabulary loads the current vocabulary. Empty sources are logged and
// returned with their warning.
func (s *Service) Vocabulary() (*vocabulary.Vocabulary, error) {
	vocab, err := vocabulary.Load(s.src.SymptomsPath, s.src.DiseasesPath)
	if err != nil && vocab != nil {
		s.logger.Warn().Err(err).Msg("vocabulary loaded with warnings")
	}
	return vocab, err
}

// Index builds the co-occurrence index from the record store.
func (s *Service) Index() (*caseindex.Index, error) {
	records, skipped, err := s.store().ReadAll()
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		s.logger.Warn().Int("skipped", skipped).Str("path", s.src.RecordsPath).Msg("skipped malformed records")
	}
	return caseindex.Build(records), nil
}

// Run executes one consultation. Nothing is written unless every symptom is
// recognized and diagnosis succeeds.
func (s *Service) Run(ctx context.Context, req *Request) (*Result, error) {
	session, err := diagnosis.NewSession(req.PatientID, req.PatientName)
	if err != nil {
		return nil, err
	}
	log := s.logger.With().Str("patient_id", session.PatientID).Logger()
	log.Info().Int("symptoms", len(req.Symptoms)).Msg("consultation started")

	store := s.store()
	if err := store.EnsureStore(); err != nil {
		return nil, err
	}

	vocab, err := vocabulary.Load(s.src.SymptomsPath, s.src.DiseasesPath)
	switch {
	case errors.Is(err, vocabulary.ErrSourceEmpty):
		log.Warn().Err(err).Msg("diagnosis disabled")
		return nil, fmt.Errorf("%w: %w", ErrDiagnosisDisabled, err)
	case err != nil:
		return nil, err
	case !vocab.Usable():
		return nil, ErrDiagnosisDisabled
	}

	index, err := s.Index()
	if err != nil {
		return nil, err
	}
	engine := diagnosis.NewEngine(vocab, index)

	if err := engine.AddSymptoms(session, req.Symptoms); err != nil {
		log.Info().Strs("unrecognized", diagnosis.Unrecognized(err, diagnosis.KindUnrecognizedSymptom)).Msg("symptoms rejected")
		return nil, err
	}
	if session.Len() == 0 {
		return nil, ErrNoSymptoms
	}

	rec, err := s.persist(store, engine, session)
	if err != nil {
		log.Error().Err(err).Msg("consultation not saved")
		return nil, err
	}
	log.Info().Int("diseases", len(rec.Diseases)).Str("path", store.Path()).Msg("consultation saved")

	result := &Result{
		ConsultationID: uuid.New(),
		PatientID:      rec.PatientID,
		PatientName:    rec.PatientName,
		Symptoms:       rec.Symptoms,
		Diseases:       rec.Diseases,
		RecordsPath:    store.Path(),
	}
	if s.archive != nil {
		err := s.archive.Create(ctx, &caserecord.ArchivedRecord{
			Record:      *rec,
			ID:          result.ConsultationID,
			RecordsPath: store.Path(),
		})
		if err != nil {
			log.Error().Err(err).Msg("archive failed")
		} else {
			result.Archived = true
		}
	}
	return result, nil
}

// persist diagnoses the session and appends the record in one step so the
// stored diseases match what the caller is shown.
func (s *Service) persist(store *caserecord.Store, engine *diagnosis.Engine, session *diagnosis.Session) (*caserecord.Record, error) {
	diseases, err := engine.Diagnose(session)
	if err != nil {
		return nil, fmt.Errorf("diagnose: %w", err)
	}
	rec := &caserecord.Record{
		PatientID:   session.PatientID,
		PatientName: session.PatientName,
		Symptoms:    session.Symptoms(),
		Diseases:    diseases,
	}
	if err := store.Append(rec); err != nil {
		return nil, fmt.Errorf("save consultation: %w", err)
	}
	return rec, nil
}

// DiseasesForSymptom returns the diseases historically seen with symptom.
func (s *Service) DiseasesForSymptom(symptom string) ([]string, error) {
	vocab, err := s.Vocabulary()
	if vocab == nil {
		return nil, err
	}
	if !vocab.Symptoms.Contains(symptom) {
		return nil, &diagnosis.NameError{Kind: diagnosis.KindUnrecognizedSymptom, Name: symptom}
	}
	index, err := s.Index()
	if err != nil {
		return nil, err
	}
	return index.DiseasesFor(symptom), nil
}

// Records returns one page of the record store and the total row count.
func (s *Service) Records(limit, offset int) ([]*caserecord.Record, int, error) {
	records, _, err := s.store().ReadAll()
	if err != nil {
		return nil, 0, err
	}
	total := len(records)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []*caserecord.Record{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return records[offset:end], total, nil
}

// Consultation fetches one archived consultation.
func (s *Service) Consultation(ctx context.Context, id uuid.UUID) (*caserecord.ArchivedRecord, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return s.archive.GetByID(ctx, id)
}

// History lists a patient's archived consultations, newest first.
func (s *Service) History(ctx context.Context, patientID string, limit, offset int) ([]*caserecord.ArchivedRecord, int, error) {
	if s.archive == nil {
		return nil, 0, ErrArchiveDisabled
	}
	if patientID == "" {
		return nil, 0, fmt.Errorf("%w: patient id is required", caserecord.ErrInvalidField)
	}
	return s.archive.ListByPatient(ctx, patientID, limit, offset)
}
