package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/ris-ingest/internal/hl7"
	"github.com/jwalitptl/ris-ingest/internal/model"
)

const sampleORM = "MSH|^~\\&|RIS|HOSP|PACS|HOSP|20241217095948||ORM^O01|MSG001|P|2.5.1\r" +
	"PID|1||12345^^^MRN||DOE^JOHN||19800101|M\r" +
	"ORC|NW|ACC100\r" +
	"OBR|1|ACC100||US1^Abdominal ultrasound\r" +
	"TQ1|||||||20241217095948.021||S^Stat^HL70078\r"

func newTestMapper() *Mapper {
	return New(NewRegistry(DefaultProfile(), nil))
}

func TestMapPatient(t *testing.T) {
	order := newTestMapper().Map(hl7.Parse(sampleORM))

	assert.Equal(t, model.Patient{
		ID:         "patient-12345",
		MRN:        "12345",
		GivenName:  "JOHN",
		FamilyName: "DOE",
		Gender:     model.GenderMale,
		BirthDate:  "1980-01-01",
	}, order.Patient)
}

func TestMapStudy(t *testing.T) {
	order := newTestMapper().Map(hl7.Parse(sampleORM))

	assert.Equal(t, model.Study{
		ID:              "study-ACC100",
		AccessionNumber: "ACC100",
		MRN:             "12345",
		Name:            "JOHN DOE",
		Cito:            true,
		ExaminationCode: "US1",
		ExaminationName: "Abdominal ultrasound",
		Status:          "registered",
	}, order.Study)
}

func TestMapImagingStudy(t *testing.T) {
	order := newTestMapper().Map(hl7.Parse(sampleORM))

	assert.Equal(t, model.ImagingStudy{
		ID:                "imaging-ACC100",
		Started:           "2024-12-17T09:59:48",
		Status:            "registered",
		Modality:          "US",
		NumberOfSeries:    0,
		NumberOfInstances: 0,
		StudyID:           "study-ACC100",
	}, order.ImagingStudy)
}

func TestMapIdempotentIdentifiers(t *testing.T) {
	m := newTestMapper()

	first := m.Map(hl7.Parse(sampleORM))
	second := m.Map(hl7.Parse(sampleORM))

	assert.Equal(t, first.Patient.ID, second.Patient.ID)
	assert.Equal(t, first.Study.ID, second.Study.ID)
	assert.Equal(t, first.ImagingStudy.ID, second.ImagingStudy.ID)
}

func TestMapStudyReferenceSharesAccession(t *testing.T) {
	// Even with a garbled OBR the two derived ids must agree.
	order := newTestMapper().Map(hl7.Parse("OBR|1|^^garbled|ACC2^X"))

	require.Equal(t, "ACC2", order.Study.AccessionNumber)
	assert.Equal(t, "study-ACC2", order.Study.ID)
	assert.Equal(t, "study-ACC2", order.ImagingStudy.StudyID)
	assert.Equal(t, "imaging-ACC2", order.ImagingStudy.ID)
}

func TestMapUrgency(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"stat coded", "TQ1|||||||20241217||S^Stat^HL70078", true},
		{"uppercase literal", "TQ1|||||||20241217||STAT", true},
		{"routine", "TQ1|||||||20241217||R^Routine^HL70078", false},
		{"no timing segment", "PID|1||12345", false},
		{"timing segment without priority", "TQ1|1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := newTestMapper().Map(hl7.Parse(tt.raw))
			assert.Equal(t, tt.want, order.Study.Cito)
		})
	}
}

func TestMapGenderIsTotal(t *testing.T) {
	tests := []struct {
		code string
		want model.Gender
	}{
		{"M", model.GenderMale},
		{"m", model.GenderMale},
		{"male", model.GenderMale},
		{"F", model.GenderFemale},
		{"female", model.GenderFemale},
		{"U", model.GenderOther},
		{"unknown", model.GenderOther},
		{"", model.GenderOther},
	}

	for _, tt := range tests {
		order := newTestMapper().Map(hl7.Parse("PID|1||12345||DOE^JOHN||19800101|" + tt.code))
		assert.Equal(t, tt.want, order.Patient.Gender, "code %q", tt.code)
	}
}

func TestMapMissingSegmentsDefaults(t *testing.T) {
	order := newTestMapper().Map(hl7.Parse("MSH|^~\\&|RIS"))

	assert.Empty(t, order.Patient.ID, "no MRN means no patient id")
	assert.Empty(t, order.Patient.MRN)
	assert.Equal(t, model.GenderOther, order.Patient.Gender)
	assert.Empty(t, order.Patient.BirthDate)
	assert.Empty(t, order.Study.ID, "no accession means no study id")
	assert.False(t, order.Study.Cito)
	assert.Empty(t, order.ImagingStudy.StudyID)
	assert.Zero(t, order.ImagingStudy.NumberOfSeries)
	assert.Zero(t, order.ImagingStudy.NumberOfInstances)
}

func TestMapAccessionFallbackField(t *testing.T) {
	// OBR-2 empty, OBR-3 carries the filler order number.
	order := newTestMapper().Map(hl7.Parse("OBR|1||ACC300^FILLER|US1^Echo"))

	assert.Equal(t, "ACC300", order.Study.AccessionNumber)
}

func TestMapSenderProfileOverride(t *testing.T) {
	broker := Profile{
		Name:            "pacs-broker",
		AccessionFields: []int{18},
		ExamField:       4,
		PriorityField:   8,
		StartField:      7,
		DefaultModality: "MR",
	}
	m := New(NewRegistry(DefaultProfile(), map[string]Profile{"BROKER": broker}))

	raw := "MSH|^~\\&|BROKER|HOSP\r" +
		"PID|1||777^^^MRN||ROE^JANE||19900202|F\r" +
		"OBR|1|IGNORED||MR1^Knee MRI||||||||||||||ACC900\r"
	order := m.Map(hl7.Parse(raw))

	assert.Equal(t, "ACC900", order.Study.AccessionNumber)
	assert.Equal(t, "study-ACC900", order.ImagingStudy.StudyID)
	assert.Equal(t, "MR", order.ImagingStudy.Modality)

	// An unknown sender keeps the default layout.
	fallback := m.Map(hl7.Parse("MSH|^~\\&|OTHER\rOBR|1|ACC901"))
	assert.Equal(t, "ACC901", fallback.Study.AccessionNumber)
}
