package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/jwalitptl/ris-ingest/internal/model"
)

// Destination tables, one per record type.
const (
	tablePatient      = "ris_patient"
	tableStudy        = "ris_study"
	tableImagingStudy = "ris_imaging_study"
)

// Config holds the PostgREST endpoint and credentials.
type Config struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	RetryMax int
}

// Store talks to a PostgREST-compatible endpoint (Supabase in
// production): key lookups via `?id=eq.` filters, inserts via POST with a
// representation echo. Transient failures are retried by the underlying
// retryable client.
type Store struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func New(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retryMax := cfg.RetryMax
	if retryMax <= 0 {
		retryMax = 3
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retryMax
	retryClient.Logger = nil
	retryClient.HTTPClient = &http.Client{Timeout: timeout}

	return &Store{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  retryClient.StandardClient(),
	}
}

func (s *Store) PatientExists(ctx context.Context, id string) (bool, error) {
	endpoint := fmt.Sprintf("%s/%s?id=eq.%s", s.baseURL, tablePatient, url.QueryEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build patient lookup request: %w", err)
	}
	s.authorize(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("patient lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("patient lookup: %s", responseError(resp))
	}

	var rows []model.Patient
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return false, fmt.Errorf("decode patient lookup response: %w", err)
	}
	return len(rows) > 0, nil
}

func (s *Store) InsertPatient(ctx context.Context, patient *model.Patient) error {
	return s.insert(ctx, tablePatient, patient)
}

func (s *Store) InsertStudy(ctx context.Context, study *model.Study) error {
	return s.insert(ctx, tableStudy, study)
}

func (s *Store) InsertImagingStudy(ctx context.Context, imaging *model.ImagingStudy) error {
	return s.insert(ctx, tableImagingStudy, imaging)
}

func (s *Store) insert(ctx context.Context, table string, record any) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", table, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/"+table, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s insert request: %w", table, err)
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("insert into %s: %s", table, responseError(resp))
	}
	return nil
}

func (s *Store) authorize(req *http.Request) {
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
}

func responseError(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	detail := strings.TrimSpace(string(body))
	if detail == "" {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", resp.StatusCode, detail)
}
