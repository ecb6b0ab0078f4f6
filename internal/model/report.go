package model

// MappedOrder is the record triple derived from one inbound message. The
// mapper constructs it once; the coordinator only reads it.
type MappedOrder struct {
	Patient      Patient      `json:"patient"`
	Study        Study        `json:"study"`
	ImagingStudy ImagingStudy `json:"imagingStudy"`
}

// Outcome is the result of one persistence attempt.
type Outcome string

const (
	OutcomeInserted       Outcome = "inserted"
	OutcomeAlreadyExisted Outcome = "already_existed"
	OutcomeFailed         Outcome = "failed"
)

// Operations carries the per-record inserted flags of one ingestion.
type Operations struct {
	PatientInserted      bool `json:"patientInserted"`
	StudyInserted        bool `json:"studyInserted"`
	ImagingStudyInserted bool `json:"imagingStudyInserted"`
}

// Outcomes is the ternary per-record result. AlreadyExisted only ever
// applies to the patient.
type Outcomes struct {
	Patient      Outcome `json:"patient"`
	Study        Outcome `json:"study"`
	ImagingStudy Outcome `json:"imagingStudy"`
}

// Debug carries one human-readable summary line per record type.
type Debug struct {
	Patient      string `json:"patient"`
	Study        string `json:"study"`
	ImagingStudy string `json:"imagingStudy"`
}

// IngestResult is the structured report returned for every accepted
// message. Individual record failures are described here instead of
// failing the request.
type IngestResult struct {
	ParsedData MappedOrder `json:"parsedData"`
	Operations Operations  `json:"operations"`
	Outcomes   Outcomes    `json:"outcomes"`
	Debug      Debug       `json:"debug"`
}
