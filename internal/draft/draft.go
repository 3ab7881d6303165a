// Package draft persists an in-progress intake record as YAML so an
// assessment can be saved from the wizard and resumed or submitted later.
// Image bytes are not embedded; drafts reference the image by path and the
// file is re-read and re-validated on load.
package draft

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/mrsinham/intakeforge/internal/intake"
)

// Draft is the YAML form of an intake record.
type Draft struct {
	AssessmentID string        `yaml:"assessment_id,omitempty"`
	Profile      ProfileYAML   `yaml:"profile"`
	Symptoms     []SymptomYAML `yaml:"symptoms"`
	History      HistoryYAML   `yaml:"medical_history"`
	ImagePath    string        `yaml:"image_path,omitempty"`
	ImageNote    string        `yaml:"image_description,omitempty"`
}

// ProfileYAML holds the patient profile fields.
type ProfileYAML struct {
	Name       string   `yaml:"name"`
	Age        int      `yaml:"age"`
	Gender     string   `yaml:"gender"`
	Weight     *float64 `yaml:"weight,omitempty"`
	WeightUnit string   `yaml:"weight_unit,omitempty"`
	Height     *float64 `yaml:"height,omitempty"`
	HeightUnit string   `yaml:"height_unit,omitempty"`
}

// SymptomYAML holds one symptom entry.
type SymptomYAML struct {
	Name     string `yaml:"name"`
	Severity string `yaml:"severity"`
}

// HistoryYAML holds the free-text history fields, comma-delimited semantics
// preserved as entered.
type HistoryYAML struct {
	PastConditions     string `yaml:"past_conditions,omitempty"`
	CurrentMedications string `yaml:"current_medications,omitempty"`
}

// FromRecord captures a record as a draft. imagePath records where the
// attachment came from so it can be re-read on load.
func FromRecord(rec *intake.Record, imagePath string) *Draft {
	d := &Draft{
		AssessmentID: rec.AssessmentID.String(),
		Profile: ProfileYAML{
			Name:       rec.Name,
			Age:        rec.Age,
			Gender:     string(rec.Gender),
			Weight:     rec.Weight,
			WeightUnit: string(rec.WeightUnit),
			Height:     rec.Height,
			HeightUnit: string(rec.HeightUnit),
		},
		History: HistoryYAML{
			PastConditions:     rec.History.PastConditions,
			CurrentMedications: rec.History.CurrentMedications,
		},
		ImagePath: imagePath,
		ImageNote: rec.ImageDescription,
	}
	for _, s := range rec.Symptoms {
		d.Symptoms = append(d.Symptoms, SymptomYAML{Name: s.Name, Severity: string(s.Severity)})
	}
	return d
}

// ToRecord rebuilds a record from the draft. Enum values are carried as-is;
// the schema validator is the single authority on their validity. The image
// is not attached here, only its path is surfaced.
func (d *Draft) ToRecord() (*intake.Record, string) {
	rec := intake.NewRecord()
	if id, err := uuid.Parse(d.AssessmentID); err == nil {
		rec.AssessmentID = id
	}
	rec.Name = d.Profile.Name
	rec.Age = d.Profile.Age
	rec.Gender = intake.Gender(d.Profile.Gender)
	rec.Weight = d.Profile.Weight
	rec.WeightUnit = intake.WeightUnit(d.Profile.WeightUnit)
	rec.Height = d.Profile.Height
	rec.HeightUnit = intake.HeightUnit(d.Profile.HeightUnit)
	for _, s := range d.Symptoms {
		rec.Symptoms = append(rec.Symptoms, intake.Symptom{
			Name:     s.Name,
			Severity: intake.Severity(s.Severity),
		})
	}
	rec.History.PastConditions = d.History.PastConditions
	rec.History.CurrentMedications = d.History.CurrentMedications
	rec.ImageDescription = d.ImageNote
	return rec, d.ImagePath
}

// Save writes the draft to path.
func Save(d *Draft, path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling draft: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing draft: %w", err)
	}
	return nil
}

// Load reads a draft from path.
func Load(path string) (*Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading draft: %w", err)
	}
	var d Draft
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing draft: %w", err)
	}
	return &d, nil
}
