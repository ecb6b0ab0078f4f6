package model

// ImagingStudy is the DICOM-side record persisted to ris_imaging_study.
// Series and instance counts are always zero at creation; the image
// receiver updates them later. StudyID references Study.ID and is derived
// from the same accession number extraction.
type ImagingStudy struct {
	ID                string `json:"id" db:"id" validate:"required"`
	Started           string `json:"started" db:"started"`
	Status            string `json:"status" db:"status"`
	Modality          string `json:"modality" db:"modality"`
	NumberOfSeries    int    `json:"numberOfSeries" db:"number_of_series"`
	NumberOfInstances int    `json:"numberOfInstances" db:"number_of_instances"`
	StudyID           string `json:"studyID" db:"study_id" validate:"required"`
}
