package intake

import (
	"fmt"
	"math/rand/v2"
)

var (
	sampleMaleNames   = []string{"James Smith", "Robert Johnson", "Michael Williams", "David Brown", "Daniel Garcia"}
	sampleFemaleNames = []string{"Mary Jones", "Jennifer Miller", "Linda Davis", "Sarah Wilson", "Emily Martinez"}

	sampleSymptoms = []string{
		"Headache", "Fever", "Fatigue", "Nausea", "Cough",
		"Dizziness", "Chest pain", "Shortness of breath", "Joint pain", "Sore throat",
	}

	sampleConditions  = []string{"Asthma", "Hypertension", "Type 2 diabetes", "Seasonal allergies", "Migraine"}
	sampleMedications = []string{"Ibuprofen", "Lisinopril", "Metformin", "Cetirizine", "Atorvastatin"}
)

// SampleRecord generates a plausible, fully valid record for demos and
// drafts. The rng controls every choice so seeded output is reproducible.
func SampleRecord(rng *rand.Rand) *Record {
	rec := NewRecord()

	if rng.IntN(2) == 0 {
		rec.Gender = GenderMale
		rec.Name = sampleMaleNames[rng.IntN(len(sampleMaleNames))]
	} else {
		rec.Gender = GenderFemale
		rec.Name = sampleFemaleNames[rng.IntN(len(sampleFemaleNames))]
	}
	rec.Age = 18 + rng.IntN(62)

	weight := 50 + float64(rng.IntN(500))/10 // 50.0-99.9
	rec.Weight = &weight
	rec.WeightUnit = WeightKilograms
	height := 150 + float64(rng.IntN(450))/10
	rec.Height = &height
	rec.HeightUnit = HeightCentimeters

	severities := Severities()
	count := 1 + rng.IntN(3)
	for _, i := range rng.Perm(len(sampleSymptoms))[:count] {
		rec.Symptoms = append(rec.Symptoms, Symptom{
			Name:     sampleSymptoms[i],
			Severity: severities[rng.IntN(len(severities))],
		})
	}

	if rng.IntN(2) == 0 {
		rec.History.PastConditions = sampleConditions[rng.IntN(len(sampleConditions))]
	}
	if rng.IntN(2) == 0 {
		a, b := rng.IntN(len(sampleMedications)), rng.IntN(len(sampleMedications))
		if a == b {
			rec.History.CurrentMedications = sampleMedications[a]
		} else {
			rec.History.CurrentMedications = fmt.Sprintf("%s, %s", sampleMedications[a], sampleMedications[b])
		}
	}

	return rec
}
