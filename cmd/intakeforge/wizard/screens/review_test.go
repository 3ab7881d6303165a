package screens

import (
	"strings"
	"testing"

	"github.com/mrsinham/intakeforge/internal/intake"
)

func reviewRecord() *intake.Record {
	rec := intake.NewRecord()
	rec.Name = "Jane"
	rec.Age = 34
	rec.Gender = intake.GenderFemale
	rec.Symptoms = []intake.Symptom{{Name: "headache", Severity: intake.SeverityMild}}
	return rec
}

func TestReviewScreen_ShowsLastError(t *testing.T) {
	s := NewReviewScreen(reviewRecord(), "analysis service returned 502")
	if !strings.Contains(s.View(), "analysis service returned 502") {
		t.Error("view should show the last submission error")
	}
}

func TestReviewScreen_ShowsFieldErrors(t *testing.T) {
	s := NewReviewScreen(reviewRecord(), "")
	s.SetFieldErrors(map[string][]string{
		intake.FieldWeightUnit: {"weight unit is required when weight is provided"},
		intake.FieldName:       {"name is required"},
	})

	view := s.View()
	if !strings.Contains(view, "weight unit is required when weight is provided") {
		t.Error("view should show the weightUnit error")
	}
	if !strings.Contains(view, "name is required") {
		t.Error("view should show the name error")
	}
	if strings.Index(view, "name is required") > strings.Index(view, "weight unit is required") {
		t.Error("field errors should be listed in path order")
	}
}

func TestReviewScreen_NoErrorBlockWhenClean(t *testing.T) {
	s := NewReviewScreen(reviewRecord(), "")
	if strings.Contains(s.View(), "✗") {
		t.Error("a clean record should not render an error block")
	}
}
