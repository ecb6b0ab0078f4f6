package postgrest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/ris-ingest/internal/model"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, APIKey: "test-key", RetryMax: 1})
}

func TestPatientExists(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/ris_patient", r.URL.Path)
		assert.Equal(t, "eq.patient-12345", r.URL.Query().Get("id"))
		assert.Equal(t, "test-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":"patient-12345","mrn":"12345"}]`)
	})

	exists, err := store.PatientExists(context.Background(), "patient-12345")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPatientExistsEmptyResult(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[]`)
	})

	exists, err := store.PatientExists(context.Background(), "patient-999")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPatientExistsServerError(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "permission denied", http.StatusForbidden)
	})

	_, err := store.PatientExists(context.Background(), "patient-12345")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Contains(t, err.Error(), "permission denied")
}

func TestInsertStudy(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ris_study", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var got model.Study
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "study-ACC100", got.ID)
		assert.Equal(t, "12345", got.MRN)

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `[{"id":"study-ACC100"}]`)
	})

	err := store.InsertStudy(context.Background(), &model.Study{
		ID:              "study-ACC100",
		AccessionNumber: "ACC100",
		MRN:             "12345",
		Status:          model.StatusRegistered,
	})
	assert.NoError(t, err)
}

func TestInsertDuplicateRejected(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"code":"23505","message":"duplicate key value violates unique constraint"}`)
	})

	err := store.InsertPatient(context.Background(), &model.Patient{ID: "patient-12345"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 409")
	assert.Contains(t, err.Error(), "duplicate key")
}
