// Package intake holds the symptom-assessment record, its validation schema
// and the wizard controller that sequences one assessment session.
package intake

import (
	"strings"

	"github.com/google/uuid"
)

// Gender is the enumerated gender of the patient.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Genders lists the accepted gender values in display order.
func Genders() []Gender {
	return []Gender{GenderMale, GenderFemale, GenderOther}
}

// ValidGender reports whether g is a member of the enumerated set.
func ValidGender(g Gender) bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Severity is the ordered severity of a single symptom.
type Severity string

const (
	SeverityMild     Severity = "Mild"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
)

// Severities lists the accepted severities from least to most severe.
func Severities() []Severity {
	return []Severity{SeverityMild, SeverityModerate, SeveritySevere}
}

// ValidSeverity reports whether s is a member of the enumerated set.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// Rank returns the position of the severity in the ordered enumeration,
// starting at 0 for Mild. Unknown severities rank below Mild.
func (s Severity) Rank() int {
	switch s {
	case SeverityMild:
		return 0
	case SeverityModerate:
		return 1
	case SeveritySevere:
		return 2
	}
	return -1
}

// WeightUnit is the unit paired with the weight magnitude.
type WeightUnit string

const (
	WeightKilograms WeightUnit = "kg"
	WeightPounds    WeightUnit = "lb"
)

// ValidWeightUnit reports whether u is a member of the enumerated set.
func ValidWeightUnit(u WeightUnit) bool {
	return u == WeightKilograms || u == WeightPounds
}

// HeightUnit is the unit paired with the height magnitude.
type HeightUnit string

const (
	HeightCentimeters HeightUnit = "cm"
	HeightInches      HeightUnit = "in"
)

// ValidHeightUnit reports whether u is a member of the enumerated set.
func ValidHeightUnit(u HeightUnit) bool {
	return u == HeightCentimeters || u == HeightInches
}

// Symptom is a single reported symptom with its severity.
type Symptom struct {
	Name     string
	Severity Severity
}

// History holds the free-text medical history fields. Both carry
// comma-delimited list semantics; the raw text is kept as entered and only
// split into lists when the submission payload is built.
type History struct {
	PastConditions     string
	CurrentMedications string
}

// ImageAttachment is an opaque binary medical image with its content type.
type ImageAttachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Size returns the byte size of the attachment.
func (a *ImageAttachment) Size() int64 {
	if a == nil {
		return 0
	}
	return int64(len(a.Data))
}

// Record is the complete set of user-entered fields for one assessment.
// It is owned exclusively by the Controller for the lifetime of a session;
// nothing else mutates it.
type Record struct {
	AssessmentID uuid.UUID

	Name   string
	Age    int
	Gender Gender

	// Optional measurements. A nil magnitude means the field is absent;
	// the paired unit must be present iff the magnitude is.
	Weight     *float64
	WeightUnit WeightUnit
	Height     *float64
	HeightUnit HeightUnit

	Symptoms []Symptom
	History  History

	Image            *ImageAttachment
	ImageDescription string
}

// NewRecord creates an empty record for a fresh assessment session.
func NewRecord() *Record {
	return &Record{AssessmentID: uuid.New()}
}

// SplitList derives an ordered list from comma-delimited free text: entries
// are trimmed and empties dropped. The result is never nil so it serializes
// as an empty JSON array, not null.
func SplitList(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
