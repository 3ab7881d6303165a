package wizard

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/components"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/screens"
	"github.com/mrsinham/intakeforge/internal/analysis"
	"github.com/mrsinham/intakeforge/internal/config"
	"github.com/mrsinham/intakeforge/internal/draft"
	"github.com/mrsinham/intakeforge/internal/imaging"
	"github.com/mrsinham/intakeforge/internal/intake"
	"github.com/rs/zerolog"
)

// Phase represents the current phase/screen of the wizard.
type Phase int

const (
	PhaseProfile Phase = iota
	PhaseSymptoms
	PhaseImage
	PhaseHistory
	PhaseReview
	PhaseSaveDraft
	PhaseSubmitting
	PhaseResults
	PhaseError
)

// Wizard is the main orchestrator for the intake interface. It renders
// one screen per assessment step and lets the controller decide every
// transition.
type Wizard struct {
	ctrl     *intake.Controller
	maxBytes int64
	log      zerolog.Logger

	phase Phase

	profileScreen    *screens.ProfileScreen
	symptomsScreen   *screens.SymptomsScreen
	imageScreen      *screens.ImageScreen
	historyScreen    *screens.HistoryScreen
	reviewScreen     *screens.ReviewScreen
	submittingScreen *screens.SubmittingScreen
	resultsScreen    *screens.ResultsScreen
	errorScreen      *screens.ErrorScreen

	// Save draft form
	saveDraftForm *huh.Form
	draftPath     string

	// imagePath remembers where the attached image came from so drafts
	// can reference the file instead of embedding its bytes.
	imagePath string

	width  int
	height int

	cancelled bool
	finished  bool
	err       error
}

// NewWizard creates a wizard driving the given controller.
func NewWizard(ctrl *intake.Controller, maxBytes int64, imagePath string, log zerolog.Logger) *Wizard {
	w := &Wizard{
		ctrl:      ctrl,
		maxBytes:  maxBytes,
		imagePath: imagePath,
		log:       log,
	}
	w.transitionToStep()
	return w
}

// Init implements tea.Model.
func (w *Wizard) Init() tea.Cmd {
	return w.profileScreen.Init()
}

// Update implements tea.Model.
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		w.width = wsm.Width
		w.height = wsm.Height
	}

	// Global navigation keys, active on the step screens only.
	if km, ok := msg.(tea.KeyMsg); ok && w.phase <= PhaseHistory {
		switch km.String() {
		case "ctrl+b":
			w.ctrl.Previous()
			return w, w.transitionToStep()
		case "ctrl+k":
			if err := w.ctrl.Skip(); err == nil {
				return w, w.transitionToStep()
			}
			return w, nil
		}
	}

	switch w.phase {
	case PhaseProfile:
		return w.updateProfile(msg)
	case PhaseSymptoms:
		return w.updateSymptoms(msg)
	case PhaseImage:
		return w.updateImage(msg)
	case PhaseHistory:
		return w.updateHistory(msg)
	case PhaseReview:
		return w.updateReview(msg)
	case PhaseSaveDraft:
		return w.updateSaveDraft(msg)
	case PhaseSubmitting:
		return w.updateSubmitting(msg)
	case PhaseResults:
		return w.updateResults(msg)
	case PhaseError:
		return w.updateError(msg)
	}

	return w, nil
}

// View implements tea.Model.
func (w *Wizard) View() string {
	switch w.phase {
	case PhaseProfile:
		return w.profileScreen.View()
	case PhaseSymptoms:
		return w.symptomsScreen.View()
	case PhaseImage:
		return w.imageScreen.View()
	case PhaseHistory:
		return w.historyScreen.View()
	case PhaseReview:
		return w.reviewScreen.View()
	case PhaseSaveDraft:
		return w.viewSaveDraft()
	case PhaseSubmitting:
		return w.submittingScreen.View()
	case PhaseResults:
		return w.resultsScreen.View()
	case PhaseError:
		return w.errorScreen.View()
	}

	return ""
}

// transitionToStep builds the screen matching the controller's current
// step and returns its Init command.
func (w *Wizard) transitionToStep() tea.Cmd {
	rec := w.ctrl.Record()
	stepErrors := w.ctrl.StepErrors()

	switch w.ctrl.Step() {
	case intake.StepProfile:
		w.phase = PhaseProfile
		w.profileScreen = screens.NewProfileScreen(rec, stepErrors)
		return w.profileScreen.Init()
	case intake.StepSymptoms:
		w.phase = PhaseSymptoms
		w.symptomsScreen = screens.NewSymptomsScreen(rec, stepErrors)
		return w.symptomsScreen.Init()
	case intake.StepImage:
		w.phase = PhaseImage
		w.imageScreen = screens.NewImageScreen(rec, w.maxBytes, w.removeImage, stepErrors)
		return w.imageScreen.Init()
	case intake.StepHistory:
		w.phase = PhaseHistory
		w.historyScreen = screens.NewHistoryScreen(rec)
		return w.historyScreen.Init()
	default:
		w.phase = PhaseReview
		w.reviewScreen = screens.NewReviewScreen(rec, w.ctrl.LastError())
		return w.reviewScreen.Init()
	}
}

func (w *Wizard) removeImage() {
	w.ctrl.RemoveImage()
	w.imagePath = ""
}

// advance asks the controller to move forward. A validation rejection
// rebuilds the current screen so the errors show up next to the form.
func (w *Wizard) advance() tea.Cmd {
	if err := w.ctrl.Next(); err != nil {
		var verr *intake.ValidationError
		if errors.As(err, &verr) {
			return w.transitionToStep()
		}
		w.err = err
		w.phase = PhaseError
		w.errorScreen = screens.NewErrorScreen(err)
		return nil
	}
	return w.transitionToStep()
}

func (w *Wizard) updateProfile(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.profileScreen.Update(msg)
	if ps, ok := model.(*screens.ProfileScreen); ok {
		w.profileScreen = ps
	}

	if w.profileScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.profileScreen.Done() {
		return w, w.advance()
	}

	return w, cmd
}

func (w *Wizard) updateSymptoms(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.symptomsScreen.Update(msg)
	if ss, ok := model.(*screens.SymptomsScreen); ok {
		w.symptomsScreen = ss
	}

	if w.symptomsScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.symptomsScreen.Done() {
		return w, w.advance()
	}

	return w, cmd
}

func (w *Wizard) updateImage(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.imageScreen.Update(msg)
	if is, ok := model.(*screens.ImageScreen); ok {
		w.imageScreen = is
	}

	if w.imageScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.imageScreen.Done() {
		if p := w.imageScreen.Path(); p != "" {
			w.imagePath = p
		}
		return w, w.advance()
	}

	return w, cmd
}

func (w *Wizard) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.historyScreen.Update(msg)
	if hs, ok := model.(*screens.HistoryScreen); ok {
		w.historyScreen = hs
	}

	if w.historyScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.historyScreen.Done() {
		return w, w.advance()
	}

	return w, cmd
}

func (w *Wizard) updateReview(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.reviewScreen.Update(msg)
	if rs, ok := model.(*screens.ReviewScreen); ok {
		w.reviewScreen = rs
	}

	if w.reviewScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.reviewScreen.Done() {
		switch w.reviewScreen.Action() {
		case screens.ReviewActionBack:
			w.ctrl.Previous()
			return w, w.transitionToStep()

		case screens.ReviewActionSubmit:
			return w.startSubmission()

		case screens.ReviewActionSaveDraft:
			return w.transitionToSaveDraft()

		case screens.ReviewActionCancel:
			w.cancelled = true
			return w, tea.Quit
		}
	}

	return w, cmd
}

// transitionToSaveDraft shows the save draft dialog.
func (w *Wizard) transitionToSaveDraft() (tea.Model, tea.Cmd) {
	w.phase = PhaseSaveDraft
	if w.draftPath == "" {
		w.draftPath = "assessment-draft.yaml"
	}

	w.saveDraftForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("draft_path").
				Title("Save draft to").
				Description("Path for the YAML draft file").
				Value(&w.draftPath).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		),
	).WithShowHelp(false)

	return w, w.saveDraftForm.Init()
}

func (w *Wizard) updateSaveDraft(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			w.phase = PhaseReview
			w.reviewScreen = screens.NewReviewScreen(w.ctrl.Record(), w.ctrl.LastError())
			return w, w.reviewScreen.Init()
		case "ctrl+c":
			w.cancelled = true
			return w, tea.Quit
		}
	}

	form, cmd := w.saveDraftForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.saveDraftForm = f
	}

	if w.saveDraftForm.State == huh.StateCompleted {
		d := draft.FromRecord(w.ctrl.Record(), w.imagePath)
		if err := draft.Save(d, w.draftPath); err != nil {
			w.err = err
			w.phase = PhaseError
			w.errorScreen = screens.NewErrorScreen(err)
			return w, nil
		}
		w.log.Info().Str("path", w.draftPath).Msg("draft saved")

		w.phase = PhaseReview
		w.reviewScreen = screens.NewReviewScreen(w.ctrl.Record(), w.ctrl.LastError())
		return w, w.reviewScreen.Init()
	}

	return w, cmd
}

func (w *Wizard) viewSaveDraft() string {
	title := components.TitleStyle.Render("Save Draft")

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		w.saveDraftForm.View(),
		"",
		"Enter: Save | Esc: Back",
	)

	return content
}

// startSubmission hands the record to the controller and waits for the
// outcome in the background.
func (w *Wizard) startSubmission() (tea.Model, tea.Cmd) {
	w.phase = PhaseSubmitting
	w.submittingScreen = screens.NewSubmittingScreen()

	ctrl := w.ctrl
	return w, tea.Batch(w.submittingScreen.Init(), func() tea.Msg {
		outcome, err := ctrl.Submit(context.Background())
		if err != nil {
			return screens.ErrorMsg{Error: err}
		}
		return screens.ResultMsg{Outcome: outcome}
	})
}

func (w *Wizard) updateSubmitting(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case screens.ResultMsg:
		w.phase = PhaseResults
		w.resultsScreen = screens.NewResultsScreen(msg.Outcome)
		return w, w.resultsScreen.Init()

	case screens.ErrorMsg:
		if errors.Is(msg.Error, intake.ErrSubmissionAbandoned) {
			// A reset raced the submission; the controller already
			// discarded the result.
			return w, w.transitionToStep()
		}
		// Failed submissions settle back on review with the message shown.
		w.phase = PhaseReview
		w.reviewScreen = screens.NewReviewScreen(w.ctrl.Record(), w.ctrl.LastError())
		var verr *intake.ValidationError
		if errors.As(msg.Error, &verr) {
			// Full-record validation rejected the submission; show the
			// field errors since there is no transport message.
			w.reviewScreen.SetFieldErrors(verr.Fields)
		}
		return w, w.reviewScreen.Init()
	}

	model, cmd := w.submittingScreen.Update(msg)
	if ss, ok := model.(*screens.SubmittingScreen); ok {
		w.submittingScreen = ss
	}

	if w.submittingScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	return w, cmd
}

func (w *Wizard) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.resultsScreen.Update(msg)
	if rs, ok := model.(*screens.ResultsScreen); ok {
		w.resultsScreen = rs
	}

	if w.resultsScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.resultsScreen.Done() {
		if w.resultsScreen.StartNew() {
			w.ctrl.Reset()
			w.imagePath = ""
			w.draftPath = ""
			return w, w.transitionToStep()
		}
		w.finished = true
		return w, tea.Quit
	}

	return w, cmd
}

func (w *Wizard) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.errorScreen.Update(msg)
	if es, ok := model.(*screens.ErrorScreen); ok {
		w.errorScreen = es
	}

	if w.errorScreen.Done() {
		w.finished = true
		return w, tea.Quit
	}

	return w, cmd
}

// Run starts the interactive intake wizard. If fromDraft is provided,
// the session resumes from that YAML draft file.
func Run(cfg *config.Config, log zerolog.Logger, fromDraft string) error {
	maxBytes, err := cfg.MaxImageBytes()
	if err != nil {
		return fmt.Errorf("reading image size limit: %w", err)
	}

	client := analysis.NewClient(cfg.AnalysisURL, cfg.AnalysisTimeout, cfg.AnalysisRetries, log)
	ctrl := intake.NewController(client, log)

	var imagePath string
	if fromDraft != "" {
		absPath, err := filepath.Abs(fromDraft)
		if err != nil {
			return fmt.Errorf("resolving draft path: %w", err)
		}

		d, err := draft.Load(absPath)
		if err != nil {
			return fmt.Errorf("loading draft: %w", err)
		}

		rec, imgPath := d.ToRecord()
		if imgPath != "" {
			data, contentType, err := imaging.ReadFile(imgPath, maxBytes)
			if err != nil {
				return fmt.Errorf("loading draft image: %w", err)
			}
			rec.Image = &intake.ImageAttachment{
				Filename:    filepath.Base(imgPath),
				ContentType: contentType,
				Data:        data,
			}
			imagePath = imgPath
		}
		ctrl.Load(rec)
	}

	w := NewWizard(ctrl, maxBytes, imagePath, log)
	p := tea.NewProgram(w, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("running wizard: %w", err)
	}

	if w, ok := finalModel.(*Wizard); ok {
		if w.cancelled {
			return nil // User cancelled, not an error
		}
		if w.err != nil {
			return w.err
		}
	}

	return nil
}
