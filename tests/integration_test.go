package tests

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mrsinham/intakeforge/internal/analysis"
	"github.com/mrsinham/intakeforge/internal/draft"
	"github.com/mrsinham/intakeforge/internal/intake"
	"github.com/rs/zerolog"
)

func floatPtr(f float64) *float64 { return &f }

// fillValidProfile sets the profile fields so the profile step passes
// on its own.
func fillValidProfile(rec *intake.Record) {
	rec.Name = "Jane Doe"
	rec.Age = 34
	rec.Gender = intake.GenderFemale
}

// analysisServer is a stand-in for the remote analysis service. It
// captures the last received payload and answers with a fixed report.
func analysisServer(t *testing.T, status int) (*httptest.Server, *analysis.Payload) {
	t.Helper()

	captured := &analysis.Payload{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/analyze" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]string{"error": "upstream model unavailable"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"summary":         "Symptoms are consistent with a viral infection.",
			"recommendations": []string{"rest", "hydrate", "seek care if symptoms worsen"},
		})
	}))
	t.Cleanup(srv.Close)

	return srv, captured
}

func newSession(t *testing.T, srvURL string) *intake.Controller {
	t.Helper()
	client := analysis.NewClient(srvURL, 5*time.Second, 0, zerolog.Nop())
	return intake.NewController(client, zerolog.Nop())
}

func TestFullAssessment_HappyPath(t *testing.T) {
	srv, captured := analysisServer(t, http.StatusOK)
	ctrl := newSession(t, srv.URL)

	rec := ctrl.Record()
	fillValidProfile(rec)
	rec.Weight = floatPtr(65)
	rec.WeightUnit = intake.WeightKilograms

	if err := ctrl.Next(); err != nil {
		t.Fatalf("profile step rejected: %v", err)
	}

	rec.Symptoms = append(rec.Symptoms,
		intake.Symptom{Name: "headache", Severity: intake.SeverityModerate},
		intake.Symptom{Name: "fever", Severity: intake.SeverityMild},
	)
	if err := ctrl.Next(); err != nil {
		t.Fatalf("symptoms step rejected: %v", err)
	}

	// No image, no history.
	if err := ctrl.Skip(); err != nil {
		t.Fatalf("skipping image step: %v", err)
	}
	if err := ctrl.Skip(); err != nil {
		t.Fatalf("skipping history step: %v", err)
	}

	if ctrl.Step() != intake.StepReview {
		t.Fatalf("expected review step, at %q", ctrl.Step())
	}

	outcome, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	report, ok := outcome.(*analysis.Report)
	if !ok {
		t.Fatalf("outcome is %T, want *analysis.Report", outcome)
	}
	if !strings.Contains(report.Summary, "viral infection") {
		t.Errorf("unexpected summary %q", report.Summary)
	}
	if len(report.Recommendations) != 3 {
		t.Errorf("expected 3 recommendations, got %d", len(report.Recommendations))
	}

	// The service saw the full record.
	if captured.Name != "Jane Doe" || captured.Age != 34 {
		t.Errorf("payload identity mismatch: %+v", captured)
	}
	if len(captured.Symptoms) != 2 {
		t.Errorf("expected 2 symptoms in payload, got %d", len(captured.Symptoms))
	}
	if captured.History.PastConditions == nil || captured.History.CurrentMedications == nil {
		t.Error("empty history must serialize as empty lists, not null")
	}

	if !ctrl.Completed() {
		t.Error("session should be completed after a successful submission")
	}
}

func TestWeightWithoutUnit_RejectedThenAccepted(t *testing.T) {
	srv, _ := analysisServer(t, http.StatusOK)
	ctrl := newSession(t, srv.URL)

	rec := ctrl.Record()
	fillValidProfile(rec)
	rec.Weight = floatPtr(65)

	err := ctrl.Next()
	if err == nil {
		t.Fatal("profile step should reject a weight without a unit")
	}
	verr, ok := err.(*intake.ValidationError)
	if !ok {
		t.Fatalf("expected *intake.ValidationError, got %T", err)
	}
	if len(verr.Fields[intake.FieldWeightUnit]) == 0 {
		t.Errorf("expected an error on %s, got %v", intake.FieldWeightUnit, verr.Fields)
	}
	if ctrl.Step() != intake.StepProfile {
		t.Errorf("rejected transition must not advance, at %q", ctrl.Step())
	}

	rec.WeightUnit = intake.WeightKilograms
	if err := ctrl.Next(); err != nil {
		t.Fatalf("profile step should pass once the unit is set: %v", err)
	}
	if ctrl.Step() != intake.StepSymptoms {
		t.Errorf("expected symptoms step, at %q", ctrl.Step())
	}
}

func TestFailedSubmission_SettlesOnReviewThenRetries(t *testing.T) {
	failing, _ := analysisServer(t, http.StatusBadGateway)
	ctrl := newSession(t, failing.URL)

	rec := ctrl.Record()
	fillValidProfile(rec)
	rec.Symptoms = []intake.Symptom{{Name: "cough", Severity: intake.SeverityMild}}

	for ctrl.Step() != intake.StepReview {
		if err := ctrl.Next(); err != nil {
			t.Fatalf("step %q rejected: %v", ctrl.Step(), err)
		}
	}

	if _, err := ctrl.Submit(context.Background()); err == nil {
		t.Fatal("submit should fail against a broken service")
	}
	if ctrl.Step() != intake.StepReview {
		t.Errorf("failed submission must settle on review, at %q", ctrl.Step())
	}
	if ctrl.LastError() == "" {
		t.Error("failed submission must record a page-level error")
	}
	if ctrl.Completed() {
		t.Error("failed submission must not complete the session")
	}
}

func TestDraftRoundTrip_ResumesAndSubmits(t *testing.T) {
	srv, captured := analysisServer(t, http.StatusOK)

	rec := intake.NewRecord()
	fillValidProfile(rec)
	rec.Symptoms = []intake.Symptom{{Name: "joint pain", Severity: intake.SeveritySevere}}
	rec.History.PastConditions = "asthma, hypertension"
	rec.History.CurrentMedications = "salbutamol"

	path := filepath.Join(t.TempDir(), "draft.yaml")
	if err := draft.Save(draft.FromRecord(rec, ""), path); err != nil {
		t.Fatalf("saving draft: %v", err)
	}

	loaded, err := draft.Load(path)
	if err != nil {
		t.Fatalf("loading draft: %v", err)
	}
	restored, imgPath := loaded.ToRecord()
	if imgPath != "" {
		t.Errorf("draft without image returned path %q", imgPath)
	}

	ctrl := newSession(t, srv.URL)
	ctrl.Load(restored)

	for ctrl.Step() != intake.StepReview {
		if err := ctrl.Next(); err != nil {
			t.Fatalf("step %q rejected after draft resume: %v", ctrl.Step(), err)
		}
	}
	if _, err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("submit after draft resume: %v", err)
	}

	want := []string{"asthma", "hypertension"}
	if len(captured.History.PastConditions) != len(want) {
		t.Fatalf("expected %v, got %v", want, captured.History.PastConditions)
	}
	for i, c := range want {
		if captured.History.PastConditions[i] != c {
			t.Errorf("condition %d: expected %q, got %q", i, c, captured.History.PastConditions[i])
		}
	}
}

func TestSkipImageStep_DiscardsUnconfirmedAttachment(t *testing.T) {
	srv, captured := analysisServer(t, http.StatusOK)
	ctrl := newSession(t, srv.URL)

	rec := ctrl.Record()
	fillValidProfile(rec)
	rec.Symptoms = []intake.Symptom{{Name: "rash", Severity: intake.SeverityMild}}

	if err := ctrl.Next(); err != nil {
		t.Fatalf("profile: %v", err)
	}
	if err := ctrl.Next(); err != nil {
		t.Fatalf("symptoms: %v", err)
	}

	// Attach a file but never describe it, then skip.
	rec.Image = &intake.ImageAttachment{Filename: "x.png", ContentType: "image/png", Data: []byte{1, 2, 3}}
	if err := ctrl.Skip(); err != nil {
		t.Fatalf("skip image: %v", err)
	}
	if rec.Image != nil {
		t.Error("skipping with an undescribed image must discard it")
	}

	if err := ctrl.Skip(); err != nil {
		t.Fatalf("skip history: %v", err)
	}
	if _, err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if captured.ImageDataURI != "" {
		t.Error("payload must not carry a discarded image")
	}
}

func TestSampleRecord_PassesEveryStep(t *testing.T) {
	ctrl := newSession(t, "http://127.0.0.1:0")

	rng := rand.New(rand.NewPCG(7, 0))
	ctrl.Load(intake.SampleRecord(rng))

	for ctrl.Step() != intake.StepReview {
		if err := ctrl.Next(); err != nil {
			t.Fatalf("sample record rejected at %q: %v", ctrl.Step(), err)
		}
	}
}
