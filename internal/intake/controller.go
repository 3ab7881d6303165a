package intake

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Step identifies a wizard step.
type Step string

const (
	StepProfile  Step = "profile"
	StepSymptoms Step = "symptoms"
	StepImage    Step = "medical-image"
	StepHistory  Step = "medical-history"
	StepReview   Step = "review"
)

// stepOrder is the fixed linear sequence; profile is initial, review terminal.
var stepOrder = []Step{StepProfile, StepSymptoms, StepImage, StepHistory, StepReview}

// stepScopes maps each step to the field paths validated before a forward
// transition out of it. The image description requirement rides along with
// the medicalImage path through the cross-field rule.
var stepScopes = map[Step][]string{
	StepProfile: {
		FieldName, FieldAge, FieldGender,
		FieldWeight, FieldWeightUnit,
		FieldHeight, FieldHeightUnit,
	},
	StepSymptoms: {FieldSymptoms},
	StepImage:    {FieldMedicalImage},
	StepHistory:  nil,
	StepReview:   nil,
}

// optionalSteps may be skipped without validation.
var optionalSteps = map[Step]bool{
	StepImage:   true,
	StepHistory: true,
}

// Steps returns the fixed step sequence.
func Steps() []Step {
	out := make([]Step, len(stepOrder))
	copy(out, stepOrder)
	return out
}

// Caller-misuse sentinels. These indicate contract violations by the calling
// layer, never user-facing validation failures.
var (
	ErrNotTerminalStep     = errors.New("submit is only permitted from the review step")
	ErrStepNotSkippable    = errors.New("only optional steps may be skipped")
	ErrSubmissionInFlight  = errors.New("a submission is already in flight")
	ErrSubmissionAbandoned = errors.New("submission abandoned: session was reset")
	ErrAlreadyCompleted    = errors.New("assessment already completed; start a new one")
)

// ValidationError carries the per-field messages of a rejected transition
// or submission.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	paths := make([]string, 0, len(e.Fields))
	for p := range e.Fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return fmt.Sprintf("validation failed on %s", strings.Join(paths, ", "))
}

// Analyzer is the external analysis collaborator. Implementations receive a
// fully validated record and return an opaque analysis outcome.
type Analyzer interface {
	Analyze(ctx context.Context, rec *Record) (any, error)
}

// Controller sequences one assessment session: it owns the record, tracks
// the current step, gates forward transitions on scoped validation and runs
// the terminal submission. All record mutation in response to user actions
// goes through the controller.
//
// Methods are safe for the single-goroutine, action-driven use the wizard
// makes of them; the mutex exists because a submission completes on another
// goroutine and must not clobber state after a Reset.
type Controller struct {
	mu       sync.Mutex
	analyzer Analyzer
	log      zerolog.Logger

	rec        *Record
	stepIndex  int
	submitting bool
	lastError  string
	outcome    any

	// stepErrors holds the errors of the most recent rejected transition,
	// keyed by field path, so the UI can display them inline.
	stepErrors map[string][]string

	// generation advances on Reset; in-flight submissions that started under
	// an older generation settle without mutating state.
	generation uint64
}

// NewController creates a controller at the profile step with an empty record.
func NewController(analyzer Analyzer, log zerolog.Logger) *Controller {
	return &Controller{
		analyzer:   analyzer,
		log:        log,
		rec:        NewRecord(),
		stepErrors: make(map[string][]string),
	}
}

// Record returns the session's intake record for editing by the UI layer.
func (c *Controller) Record() *Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rec
}

// Step returns the current step identifier.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return stepOrder[c.stepIndex]
}

// StepIndex returns the 0-based current step index.
func (c *Controller) StepIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stepIndex
}

// Submitting reports whether a submission is in flight.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// LastError returns the page-level message of the most recent failed
// submission, empty when none.
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// Outcome returns the opaque analysis result once a submission succeeded.
func (c *Controller) Outcome() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

// Completed reports whether the assessment reached the results state.
func (c *Controller) Completed() bool {
	return c.Outcome() != nil
}

// StepErrors returns the field errors of the most recent rejected forward
// transition or submission.
func (c *Controller) StepErrors() map[string][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string][]string, len(c.stepErrors))
	for k, v := range c.stepErrors {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Next validates the fields scoped to the current step and, when they pass,
// advances one step (clamped to the terminal step). A rejection returns a
// *ValidationError and leaves the step unchanged.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	step := stepOrder[c.stepIndex]
	res := Validate(c.rec, stepScopes[step]...)
	if !res.Valid {
		c.stepErrors = res.Errors
		c.log.Debug().Str("step", string(step)).Int("fields", len(res.Errors)).
			Msg("forward transition rejected")
		return &ValidationError{Fields: res.Errors}
	}

	c.stepErrors = make(map[string][]string)
	if c.stepIndex < len(stepOrder)-1 {
		c.stepIndex++
	}
	return nil
}

// Previous moves one step back, clamped to the first step. Backward
// navigation is always permitted and performs no validation.
func (c *Controller) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stepIndex > 0 {
		c.stepIndex--
	}
}

// Skip advances past the current step without validation. Only optional
// steps may be skipped. Skipping the image step with a file attached but no
// description silently discards the file, preserving the "description
// present iff image present" invariant.
func (c *Controller) Skip() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	step := stepOrder[c.stepIndex]
	if !optionalSteps[step] {
		return ErrStepNotSkippable
	}

	if step == StepImage && c.rec.Image != nil && c.rec.ImageDescription == "" {
		c.log.Debug().Str("file", c.rec.Image.Filename).Msg("discarding unconfirmed image on skip")
		c.rec.Image = nil
		c.clearImageErrorsLocked()
	}

	if c.stepIndex < len(stepOrder)-1 {
		c.stepIndex++
	}
	return nil
}

// RemoveImage clears the attached image together with its description and
// any accrued image-related errors, as one logical operation.
func (c *Controller) RemoveImage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rec.Image = nil
	c.rec.ImageDescription = ""
	c.clearImageErrorsLocked()
}

func (c *Controller) clearImageErrorsLocked() {
	delete(c.stepErrors, FieldMedicalImage)
	delete(c.stepErrors, FieldImageDescription)
}

// Submit runs the terminal submission: full-record validation, then exactly
// one call to the analysis collaborator. On success the outcome is recorded
// and the assessment is complete; on failure the session settles back to the
// review step with LastError set. Submit blocks until the collaborator
// returns; the caller is expected to run it off the UI goroutine. A session
// reset during the call abandons the submission without touching state.
func (c *Controller) Submit(ctx context.Context) (any, error) {
	c.mu.Lock()
	if stepOrder[c.stepIndex] != StepReview {
		c.mu.Unlock()
		return nil, ErrNotTerminalStep
	}
	if c.submitting {
		c.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	if c.outcome != nil {
		c.mu.Unlock()
		return nil, ErrAlreadyCompleted
	}

	res := ValidateAll(c.rec)
	if !res.Valid {
		c.stepErrors = res.Errors
		c.mu.Unlock()
		return nil, &ValidationError{Fields: res.Errors}
	}

	c.submitting = true
	c.lastError = ""
	c.stepErrors = make(map[string][]string)
	gen := c.generation
	rec := c.rec
	c.mu.Unlock()

	c.log.Info().Str("assessment_id", rec.AssessmentID.String()).
		Int("symptoms", len(rec.Symptoms)).Bool("image", rec.Image != nil).
		Msg("submitting assessment")

	outcome, err := c.analyzer.Analyze(ctx, rec)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		// The session moved on while we were in flight; a stale completion
		// must not overwrite newer state.
		c.log.Debug().Str("assessment_id", rec.AssessmentID.String()).
			Msg("dropping stale submission result")
		return nil, ErrSubmissionAbandoned
	}

	c.submitting = false
	if err != nil {
		c.lastError = err.Error()
		c.log.Warn().Err(err).Str("assessment_id", rec.AssessmentID.String()).
			Msg("analysis failed")
		return nil, err
	}

	c.outcome = outcome
	return outcome, nil
}

// Load adopts a previously saved record as the session's working record.
// The session restarts at the profile step; the record still has to pass
// every step's validation on its way to submission.
func (c *Controller) Load(rec *Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.rec = rec
	c.stepIndex = 0
	c.submitting = false
	c.lastError = ""
	c.outcome = nil
	c.stepErrors = make(map[string][]string)
}

// Reset starts a new assessment: fresh record, profile step, cleared errors
// and outcome. Any in-flight submission is abandoned.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.rec = NewRecord()
	c.stepIndex = 0
	c.submitting = false
	c.lastError = ""
	c.outcome = nil
	c.stepErrors = make(map[string][]string)
}
