// Package analysis talks to the external symptom-analysis service: it
// assembles the submission payload from an intake record and performs the
// HTTP call.
package analysis

import (
	"github.com/mrsinham/intakeforge/internal/imaging"
	"github.com/mrsinham/intakeforge/internal/intake"
)

// Payload is the wire format the analysis service accepts.
type Payload struct {
	AssessmentID string           `json:"assessmentId"`
	Name         string           `json:"name"`
	Age          int              `json:"age"`
	Gender       string           `json:"gender"`
	Weight       *float64         `json:"weight,omitempty"`
	WeightUnit   string           `json:"weightUnit,omitempty"`
	Height       *float64         `json:"height,omitempty"`
	HeightUnit   string           `json:"heightUnit,omitempty"`
	Symptoms     []SymptomPayload `json:"symptoms"`
	History      HistoryPayload   `json:"medicalHistory"`
	ImageDataURI string           `json:"imageDataUri,omitempty"`
}

// SymptomPayload is one reported symptom on the wire.
type SymptomPayload struct {
	Name     string `json:"name"`
	Severity string `json:"severity"`
}

// HistoryPayload carries the history lists. Blank free-text fields become
// empty arrays, never null.
type HistoryPayload struct {
	PastConditions     []string `json:"pastConditions"`
	CurrentMedications []string `json:"currentMedications"`
}

// BuildPayload transforms a validated record into the wire payload: the
// comma-delimited history text is split into trimmed lists and the image, if
// any, becomes a base64 data URI.
func BuildPayload(rec *intake.Record) Payload {
	p := Payload{
		AssessmentID: rec.AssessmentID.String(),
		Name:         rec.Name,
		Age:          rec.Age,
		Gender:       string(rec.Gender),
		Weight:       rec.Weight,
		WeightUnit:   string(rec.WeightUnit),
		Height:       rec.Height,
		HeightUnit:   string(rec.HeightUnit),
		Symptoms:     make([]SymptomPayload, 0, len(rec.Symptoms)),
		History: HistoryPayload{
			PastConditions:     intake.SplitList(rec.History.PastConditions),
			CurrentMedications: intake.SplitList(rec.History.CurrentMedications),
		},
	}

	for _, s := range rec.Symptoms {
		p.Symptoms = append(p.Symptoms, SymptomPayload{Name: s.Name, Severity: string(s.Severity)})
	}

	if rec.Image != nil && rec.Image.Size() > 0 {
		p.ImageDataURI = imaging.EncodeDataURI(rec.Image.ContentType, rec.Image.Data)
	}

	return p
}
