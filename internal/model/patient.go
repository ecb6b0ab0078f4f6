package model

import "strings"

// Gender is the normalized administrative gender stored with a patient.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParseGender maps an HL7 coded gender (PID-8) onto the enum. The mapping
// is total: any unrecognized or empty code resolves to GenderOther.
func ParseGender(code string) Gender {
	switch strings.ToLower(code) {
	case "m", "male":
		return GenderMale
	case "f", "female":
		return GenderFemale
	default:
		return GenderOther
	}
}

// Patient is the normalized patient record persisted to ris_patient.
// ID is a deterministic function of the MRN alone, so re-ingesting the
// same patient always resolves to the same row.
type Patient struct {
	ID         string `json:"id" db:"id" validate:"required"`
	MRN        string `json:"mrn" db:"mrn"`
	GivenName  string `json:"givenName" db:"given_name"`
	FamilyName string `json:"familyName" db:"family_name"`
	Gender     Gender `json:"gender" db:"gender"`
	BirthDate  string `json:"birthdate" db:"birthdate"`
}
