package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/jwalitptl/ris-ingest/internal/model"
)

// Config holds the direct-Postgres connection parameters, used when the
// gateway writes to the RIS database without the PostgREST layer.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

func NewDB(cfg Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Store persists records with plain INSERTs; the primary-key constraint
// on each table rejects duplicate ids, which the coordinator reports as a
// failed attempt.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) PatientExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM ris_patient WHERE id = $1)`
	if err := s.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("patient lookup: %w", err)
	}
	return exists, nil
}

func (s *Store) InsertPatient(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO ris_patient (id, mrn, given_name, family_name, gender, birthdate)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		patient.ID,
		patient.MRN,
		patient.GivenName,
		patient.FamilyName,
		patient.Gender,
		patient.BirthDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert patient: %w", err)
	}
	return nil
}

func (s *Store) InsertStudy(ctx context.Context, study *model.Study) error {
	query := `
		INSERT INTO ris_study (id, accession_number, mrn, name, cito, examination, examination_name, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		study.ID,
		study.AccessionNumber,
		study.MRN,
		study.Name,
		study.Cito,
		study.ExaminationCode,
		study.ExaminationName,
		study.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert study: %w", err)
	}
	return nil
}

func (s *Store) InsertImagingStudy(ctx context.Context, imaging *model.ImagingStudy) error {
	query := `
		INSERT INTO ris_imaging_study (id, started, status, modality, number_of_series, number_of_instances, study_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		imaging.ID,
		imaging.Started,
		imaging.Status,
		imaging.Modality,
		imaging.NumberOfSeries,
		imaging.NumberOfInstances,
		imaging.StudyID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert imaging study: %w", err)
	}
	return nil
}
