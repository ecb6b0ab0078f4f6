package mapper

import (
	"strings"

	"github.com/jwalitptl/ris-ingest/internal/hl7"
	"github.com/jwalitptl/ris-ingest/internal/model"
)

// Record id namespaces. Ids are plain concatenations of namespace and
// business key so re-ingesting identical input is idempotent at the id
// level.
const (
	patientIDPrefix = "patient-"
	studyIDPrefix   = "study-"
	imagingIDPrefix = "imaging-"
)

// Mapper derives the normalized record triple from a tokenized message
// using the profile registered for the message's sender.
type Mapper struct {
	profiles *Registry
}

func New(profiles *Registry) *Mapper {
	return &Mapper{profiles: profiles}
}

// Map locates the first MSH, PID, OBR and TQ1 segments and derives the
// Patient/Study/ImagingStudy triple. Every derivation is total: a missing
// segment or field resolves to its documented default ("", other, false,
// zero counts) instead of an error.
func (m *Mapper) Map(msg hl7.Message) model.MappedOrder {
	msh := msg.Segment("MSH")
	pid := msg.Segment("PID")
	obr := msg.Segment("OBR")
	tq1 := msg.Segment("TQ1")

	profile := m.profiles.ForSender(hl7.FirstComponent(msh.Field(3)))

	mrn := hl7.FirstComponent(pid.Field(3))

	var familyName, givenName string
	if name := hl7.Components(pid.Field(5)); len(name) > 0 {
		familyName = name[0]
		if len(name) > 1 {
			givenName = name[1]
		}
	}

	// One shared extraction keeps Study.ID and ImagingStudy.StudyID on
	// the same accession number even when the field is malformed.
	accession := accessionNumber(obr, profile)

	var examCode, examName string
	if exam := hl7.Components(obr.Field(profile.ExamField)); len(exam) > 0 {
		examCode = exam[0]
		if len(exam) > 1 {
			examName = exam[1]
		}
	}

	patientID := recordID(patientIDPrefix, mrn)
	studyID := recordID(studyIDPrefix, accession)

	return model.MappedOrder{
		Patient: model.Patient{
			ID:         patientID,
			MRN:        mrn,
			GivenName:  givenName,
			FamilyName: familyName,
			Gender:     model.ParseGender(pid.Field(8)),
			BirthDate:  hl7.ToISO(pid.Field(7)),
		},
		Study: model.Study{
			ID:              studyID,
			AccessionNumber: accession,
			MRN:             mrn,
			Name:            strings.TrimSpace(givenName + " " + familyName),
			Cito:            isStat(tq1.Field(profile.PriorityField)),
			ExaminationCode: examCode,
			ExaminationName: examName,
			Status:          model.StatusRegistered,
		},
		ImagingStudy: model.ImagingStudy{
			ID:                recordID(imagingIDPrefix, accession),
			Started:           hl7.ToISO(tq1.Field(profile.StartField)),
			Status:            model.StatusRegistered,
			Modality:          profile.DefaultModality,
			NumberOfSeries:    0,
			NumberOfInstances: 0,
			StudyID:           studyID,
		},
	}
}

func accessionNumber(obr hl7.Segment, p Profile) string {
	for _, i := range p.AccessionFields {
		if v := hl7.FirstComponent(obr.Field(i)); v != "" {
			return v
		}
	}
	return ""
}

// recordID keeps ids deterministic and leaves them empty when the
// business key is missing, so required-field validation catches the
// record before a nonsense insert.
func recordID(prefix, key string) string {
	if key == "" {
		return ""
	}
	return prefix + key
}

// isStat applies the priority heuristic: field text containing "stat"
// marks the order urgent. Substring matching tolerates the coded variants
// senders emit (S^Stat^HL70078, STAT, stat).
func isStat(v string) bool {
	return strings.Contains(strings.ToLower(v), "stat")
}
