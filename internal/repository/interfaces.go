package repository

import (
	"context"

	"github.com/jwalitptl/ris-ingest/internal/model"
)

// RecordStore is the backing store for the three normalized record types.
// Implementations translate these semantics onto their own transport; the
// ingestion coordinator depends on nothing beyond them. Inserting a
// duplicate id must fail with an error the caller can report as a failed
// attempt — the store's uniqueness constraint is the only safeguard
// against two concurrent messages racing on the same patient.
type RecordStore interface {
	PatientExists(ctx context.Context, id string) (bool, error)
	InsertPatient(ctx context.Context, patient *model.Patient) error
	InsertStudy(ctx context.Context, study *model.Study) error
	InsertImagingStudy(ctx context.Context, imaging *model.ImagingStudy) error
}
