package model

// StatusRegistered is the placeholder status both study records carry at
// creation. A downstream worklist process transitions it once images
// start arriving.
const StatusRegistered = "registered"

// Study is the normalized order record persisted to ris_study. ID derives
// deterministically from the accession number.
type Study struct {
	ID              string `json:"id" db:"id" validate:"required"`
	AccessionNumber string `json:"accessionNumber" db:"accession_number"`
	MRN             string `json:"mrn" db:"mrn" validate:"required"`
	Name            string `json:"name" db:"name"`
	Cito            bool   `json:"cito" db:"cito"`
	ExaminationCode string `json:"examination" db:"examination"`
	ExaminationName string `json:"examinationName,omitempty" db:"examination_name"`
	Status          string `json:"status" db:"status"`
}
