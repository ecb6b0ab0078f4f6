package repository

import (
	"context"
	"time"

	"github.com/jwalitptl/ris-ingest/internal/model"
	"github.com/jwalitptl/ris-ingest/pkg/metrics"
)

// instrumentedStore decorates a RecordStore with operation counters and
// latency histograms.
type instrumentedStore struct {
	next RecordStore
	m    *metrics.Metrics
}

func NewInstrumentedStore(next RecordStore, m *metrics.Metrics) RecordStore {
	return &instrumentedStore{next: next, m: m}
}

func (s *instrumentedStore) PatientExists(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	exists, err := s.next.PatientExists(ctx, id)
	s.observe("patient_exists", start, err)
	return exists, err
}

func (s *instrumentedStore) InsertPatient(ctx context.Context, patient *model.Patient) error {
	start := time.Now()
	err := s.next.InsertPatient(ctx, patient)
	s.observe("insert_patient", start, err)
	return err
}

func (s *instrumentedStore) InsertStudy(ctx context.Context, study *model.Study) error {
	start := time.Now()
	err := s.next.InsertStudy(ctx, study)
	s.observe("insert_study", start, err)
	return err
}

func (s *instrumentedStore) InsertImagingStudy(ctx context.Context, imaging *model.ImagingStudy) error {
	start := time.Now()
	err := s.next.InsertImagingStudy(ctx, imaging)
	s.observe("insert_imaging_study", start, err)
	return err
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.m.StoreOperations.WithLabelValues(op, status).Inc()
	s.m.StoreLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
