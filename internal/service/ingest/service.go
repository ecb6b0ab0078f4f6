package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/ris-ingest/internal/hl7"
	"github.com/jwalitptl/ris-ingest/internal/mapper"
	"github.com/jwalitptl/ris-ingest/internal/model"
	"github.com/jwalitptl/ris-ingest/internal/repository"
	"github.com/jwalitptl/ris-ingest/pkg/metrics"
)

// Debug string prefixes surfaced in the result report.
const (
	debugInserted = "Inserted"
	debugExisted  = "Existed already"
	debugFailed   = "Failed"
)

// Config tunes the coordinator.
type Config struct {
	// ExistenceCacheTTL bounds how long a patient id stays in the
	// known-patients cache. Zero means the default of 15 minutes.
	ExistenceCacheTTL time.Duration
}

// Service orchestrates one message: tokenize, map, persist, report. Each
// instance is safe for concurrent use; all per-message state lives in the
// IngestResult.
type Service struct {
	store    repository.RecordStore
	mapper   *mapper.Mapper
	validate *validator.Validate
	known    *gocache.Cache
	metrics  *metrics.Metrics
}

func NewService(store repository.RecordStore, m *mapper.Mapper, mx *metrics.Metrics, cfg Config) *Service {
	ttl := cfg.ExistenceCacheTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Service{
		store:    store,
		mapper:   m,
		validate: validator.New(),
		known:    gocache.New(ttl, 2*ttl),
		metrics:  mx,
	}
}

// Ingest processes one raw HL7 message. Mapping never fails; persistence
// failures stay local to their record and are described in the report
// instead of being raised. The caller always receives a complete report.
func (s *Service) Ingest(ctx context.Context, raw string) *model.IngestResult {
	start := time.Now()
	s.metrics.MessagesReceived.Inc()

	order := s.mapper.Map(hl7.Parse(raw))
	result := &model.IngestResult{ParsedData: order}

	// Ordering matters for the patient (existence check before the
	// conditional insert); the two study inserts just run sequentially
	// for deterministic reporting.
	s.ingestPatient(ctx, &order.Patient, result)
	s.ingestStudy(ctx, &order.Study, result)
	s.ingestImagingStudy(ctx, &order.ImagingStudy, result)

	s.metrics.RecordOutcomes.WithLabelValues("patient", string(result.Outcomes.Patient)).Inc()
	s.metrics.RecordOutcomes.WithLabelValues("study", string(result.Outcomes.Study)).Inc()
	s.metrics.RecordOutcomes.WithLabelValues("imaging_study", string(result.Outcomes.ImagingStudy)).Inc()
	s.metrics.IngestDuration.Observe(time.Since(start).Seconds())

	return result
}

func (s *Service) ingestPatient(ctx context.Context, patient *model.Patient, result *model.IngestResult) {
	if patient.ID != "" {
		if _, cached := s.known.Get(patient.ID); cached {
			result.Outcomes.Patient = model.OutcomeAlreadyExisted
			result.Debug.Patient = debugExisted
			return
		}
	}

	var checkNote string
	exists, err := s.store.PatientExists(ctx, patient.ID)
	if err != nil {
		// Prefer a possible duplicate rejection from the store's own
		// uniqueness constraint over silently dropping a new patient.
		log.Warn().Err(err).Str("patient_id", patient.ID).
			Msg("patient existence check failed, treating patient as new")
		checkNote = fmt.Sprintf(" (existence check failed: %v; treated as new)", err)
		exists = false
	}

	if exists {
		s.known.SetDefault(patient.ID, struct{}{})
		result.Outcomes.Patient = model.OutcomeAlreadyExisted
		result.Debug.Patient = debugExisted
		return
	}

	if err := s.attempt(patient, func() error {
		return s.store.InsertPatient(ctx, patient)
	}); err != nil {
		log.Error().Err(err).Str("patient_id", patient.ID).Msg("patient insert failed")
		result.Outcomes.Patient = model.OutcomeFailed
		result.Debug.Patient = fmt.Sprintf("%s: %v%s", debugFailed, err, checkNote)
		return
	}

	if patient.ID != "" {
		s.known.SetDefault(patient.ID, struct{}{})
	}
	result.Operations.PatientInserted = true
	result.Outcomes.Patient = model.OutcomeInserted
	result.Debug.Patient = debugInserted + checkNote
}

func (s *Service) ingestStudy(ctx context.Context, study *model.Study, result *model.IngestResult) {
	if err := s.attempt(study, func() error {
		return s.store.InsertStudy(ctx, study)
	}); err != nil {
		log.Error().Err(err).Str("study_id", study.ID).Msg("study insert failed")
		result.Outcomes.Study = model.OutcomeFailed
		result.Debug.Study = fmt.Sprintf("%s: %v", debugFailed, err)
		return
	}
	result.Operations.StudyInserted = true
	result.Outcomes.Study = model.OutcomeInserted
	result.Debug.Study = debugInserted
}

func (s *Service) ingestImagingStudy(ctx context.Context, imaging *model.ImagingStudy, result *model.IngestResult) {
	if err := s.attempt(imaging, func() error {
		return s.store.InsertImagingStudy(ctx, imaging)
	}); err != nil {
		log.Error().Err(err).Str("imaging_study_id", imaging.ID).Msg("imaging study insert failed")
		result.Outcomes.ImagingStudy = model.OutcomeFailed
		result.Debug.ImagingStudy = fmt.Sprintf("%s: %v", debugFailed, err)
		return
	}
	result.Operations.ImagingStudyInserted = true
	result.Outcomes.ImagingStudy = model.OutcomeInserted
	result.Debug.ImagingStudy = debugInserted
}

// attempt validates the record's required fields and, only when they
// hold, issues the insert. A validation failure short-circuits this one
// attempt without touching the store.
func (s *Service) attempt(record any, insert func() error) error {
	if err := s.validate.Struct(record); err != nil {
		return fmt.Errorf("missing required fields: %w", err)
	}
	return insert()
}
