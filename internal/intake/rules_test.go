package intake

import (
	"strings"
	"testing"
)

func validRecord() *Record {
	rec := NewRecord()
	rec.Name = "Jane Doe"
	rec.Age = 30
	rec.Gender = GenderFemale
	rec.Symptoms = []Symptom{{Name: "Headache", Severity: SeverityMild}}
	return rec
}

func floatPtr(v float64) *float64 { return &v }

func TestValidateAll_ValidRecord(t *testing.T) {
	res := ValidateAll(validRecord())
	if !res.Valid {
		t.Fatalf("expected valid record, got errors: %v", res.Errors)
	}
	if len(res.Errors) != 0 {
		t.Errorf("expected no errors, got %v", res.Errors)
	}
}

func TestValidateAll_FieldRules(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Record)
		wantField string
	}{
		{"empty name", func(r *Record) { r.Name = "" }, FieldName},
		{"zero age", func(r *Record) { r.Age = 0 }, FieldAge},
		{"negative age", func(r *Record) { r.Age = -5 }, FieldAge},
		{"missing gender", func(r *Record) { r.Gender = "" }, FieldGender},
		{"unknown gender", func(r *Record) { r.Gender = "Unknown" }, FieldGender},
		{"negative weight", func(r *Record) { r.Weight = floatPtr(-1); r.WeightUnit = WeightKilograms }, FieldWeight},
		{"zero height", func(r *Record) { r.Height = floatPtr(0); r.HeightUnit = HeightCentimeters }, FieldHeight},
		{"unknown weight unit", func(r *Record) { r.Weight = floatPtr(70); r.WeightUnit = "stone" }, FieldWeightUnit},
		{"unknown height unit", func(r *Record) { r.Height = floatPtr(170); r.HeightUnit = "furlong" }, FieldHeightUnit},
		{"no symptoms", func(r *Record) { r.Symptoms = nil }, FieldSymptoms},
		{"oversize image", func(r *Record) {
			r.Image = &ImageAttachment{ContentType: "image/png", Data: make([]byte, MaxImageBytes+1)}
			r.ImageDescription = "x-ray"
		}, FieldMedicalImage},
		{"disallowed image type", func(r *Record) {
			r.Image = &ImageAttachment{ContentType: "image/gif", Data: []byte{1}}
			r.ImageDescription = "scan"
		}, FieldMedicalImage},
		{"long description", func(r *Record) {
			r.ImageDescription = strings.Repeat("a", MaxImageDescriptionLen+1)
		}, FieldImageDescription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(rec)
			res := ValidateAll(rec)
			if res.Valid {
				t.Fatalf("expected invalid record")
			}
			if len(res.Of(tt.wantField)) == 0 {
				t.Errorf("expected error on %q, got %v", tt.wantField, res.Errors)
			}
		})
	}
}

func TestValidateAll_SymptomAttribution(t *testing.T) {
	rec := validRecord()
	rec.Symptoms = []Symptom{
		{Name: "Headache", Severity: SeverityMild},
		{Name: "", Severity: "Extreme"},
	}

	res := ValidateAll(rec)
	if res.Valid {
		t.Fatal("expected invalid record")
	}
	if len(res.Of("symptoms[1].name")) == 0 {
		t.Errorf("expected error on symptoms[1].name, got %v", res.Errors)
	}
	if len(res.Of("symptoms[1].severity")) == 0 {
		t.Errorf("expected error on symptoms[1].severity, got %v", res.Errors)
	}
	if len(res.Of("symptoms[0].name")) != 0 {
		t.Errorf("unexpected error on valid symptom: %v", res.Errors)
	}
}

func TestValidateAll_CrossFieldRules(t *testing.T) {
	t.Run("weight without unit", func(t *testing.T) {
		rec := validRecord()
		rec.Weight = floatPtr(70)
		res := ValidateAll(rec)
		if res.Valid {
			t.Fatal("expected invalid record")
		}
		if len(res.Of(FieldWeightUnit)) == 0 {
			t.Errorf("expected error attributed to weightUnit, got %v", res.Errors)
		}
	})

	t.Run("height without unit", func(t *testing.T) {
		rec := validRecord()
		rec.Height = floatPtr(170)
		res := ValidateAll(rec)
		if len(res.Of(FieldHeightUnit)) == 0 {
			t.Errorf("expected error attributed to heightUnit, got %v", res.Errors)
		}
	})

	t.Run("image without description", func(t *testing.T) {
		rec := validRecord()
		rec.Image = &ImageAttachment{ContentType: "image/jpeg", Data: []byte{0xFF, 0xD8}}
		res := ValidateAll(rec)
		if len(res.Of(FieldImageDescription)) == 0 {
			t.Errorf("expected error attributed to imageDescription, got %v", res.Errors)
		}
	})

	t.Run("unit without weight", func(t *testing.T) {
		rec := validRecord()
		rec.WeightUnit = WeightKilograms
		res := ValidateAll(rec)
		if len(res.Of(FieldWeightUnit)) == 0 {
			t.Errorf("expected error attributed to weightUnit, got %v", res.Errors)
		}
	})

	t.Run("unit without height", func(t *testing.T) {
		rec := validRecord()
		rec.HeightUnit = HeightInches
		res := ValidateAll(rec)
		if len(res.Of(FieldHeightUnit)) == 0 {
			t.Errorf("expected error attributed to heightUnit, got %v", res.Errors)
		}
	})

	t.Run("weight with unit passes", func(t *testing.T) {
		rec := validRecord()
		rec.Weight = floatPtr(70)
		rec.WeightUnit = WeightKilograms
		if res := ValidateAll(rec); !res.Valid {
			t.Errorf("expected valid record, got %v", res.Errors)
		}
	})
}

func TestValidate_ScopedToProfile(t *testing.T) {
	// Everything outside the profile scope is invalid; none of it may leak
	// into a profile-scoped validation.
	rec := NewRecord()
	rec.Name = "Jane"
	rec.Age = 30
	rec.Gender = GenderFemale
	rec.Symptoms = nil
	rec.Image = &ImageAttachment{ContentType: "image/gif", Data: make([]byte, MaxImageBytes+1)}

	res := Validate(rec,
		FieldName, FieldAge, FieldGender,
		FieldWeight, FieldWeightUnit, FieldHeight, FieldHeightUnit)
	if !res.Valid {
		t.Fatalf("profile scope should pass, got %v", res.Errors)
	}
	for _, path := range []string{FieldSymptoms, FieldMedicalImage, FieldImageDescription} {
		if len(res.Of(path)) != 0 {
			t.Errorf("scoped validation leaked errors for %q", path)
		}
	}
}

func TestValidate_CrossRuleRunsWhenReferencedPathInScope(t *testing.T) {
	// The image step validates only the medicalImage path, but the
	// description requirement must still fire through the cross-field rule.
	rec := validRecord()
	rec.Image = &ImageAttachment{ContentType: "image/png", Data: []byte{1, 2, 3}}

	res := Validate(rec, FieldMedicalImage)
	if res.Valid {
		t.Fatal("expected image scope to fail without a description")
	}
	if len(res.Of(FieldImageDescription)) == 0 {
		t.Errorf("expected error on imageDescription, got %v", res.Errors)
	}
}

func TestValidate_NeverMutates(t *testing.T) {
	rec := validRecord()
	rec.Weight = floatPtr(70)
	before := *rec

	ValidateAll(rec)

	if rec.Name != before.Name || rec.Age != before.Age || *rec.Weight != 70 {
		t.Error("validation mutated the record")
	}
}

func TestValidate_NilRecord(t *testing.T) {
	res := Validate(nil, FieldName)
	if res.Valid {
		t.Error("nil record should not validate")
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", []string{}},
		{"  ", []string{}},
		{"asthma", []string{"asthma"}},
		{"asthma, diabetes", []string{"asthma", "diabetes"}},
		{" asthma ,, diabetes , ", []string{"asthma", "diabetes"}},
	}

	for _, tt := range tests {
		got := SplitList(tt.raw)
		if got == nil {
			t.Fatalf("SplitList(%q) returned nil", tt.raw)
		}
		if len(got) != len(tt.want) {
			t.Errorf("SplitList(%q) = %v, want %v", tt.raw, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SplitList(%q)[%d] = %q, want %q", tt.raw, i, got[i], tt.want[i])
			}
		}
	}
}

func TestSeverityRank(t *testing.T) {
	if SeverityMild.Rank() >= SeverityModerate.Rank() || SeverityModerate.Rank() >= SeveritySevere.Rank() {
		t.Error("severity ordering broken")
	}
	if Severity("Bogus").Rank() != -1 {
		t.Error("unknown severity should rank -1")
	}
}
