package screens

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/components"
	"github.com/mrsinham/intakeforge/internal/imaging"
	"github.com/mrsinham/intakeforge/internal/intake"
)

// ReviewAction represents the action selected on the review screen
type ReviewAction int

const (
	// ReviewActionBack returns to the previous step
	ReviewActionBack ReviewAction = iota
	// ReviewActionSubmit sends the assessment for analysis
	ReviewActionSubmit
	// ReviewActionSaveDraft saves the assessment to a YAML draft
	ReviewActionSaveDraft
	// ReviewActionCancel exits the wizard
	ReviewActionCancel
)

const (
	actionBack      = "back"
	actionSubmit    = "submit"
	actionSaveDraft = "save_draft"
	actionCancel    = "cancel"
)

var (
	reviewPanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(1, 2)

	reviewTitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("63")).
		Bold(true).
		MarginBottom(1)

	reviewLabelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))

	reviewValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Bold(true)

	previewStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))
)

// ReviewScreen displays the full assessment before submission
type ReviewScreen struct {
	form        *huh.Form
	rec         *intake.Record
	lastError   string
	fieldErrors map[string][]string
	action      string
	done        bool
	cancelled   bool
	width       int
	height      int
}

// NewReviewScreen creates the review screen. lastError is the message
// from a previous failed submission, empty when none.
func NewReviewScreen(rec *intake.Record, lastError string) *ReviewScreen {
	s := &ReviewScreen{
		rec:       rec,
		lastError: lastError,
		action:    actionSubmit,
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("review_action").
				Title("What would you like to do?").
				Options(
					huh.NewOption("Submit for analysis", actionSubmit),
					huh.NewOption("Go back and edit", actionBack),
					huh.NewOption("Save draft to file", actionSaveDraft),
					huh.NewOption("Cancel", actionCancel),
				).
				Value(&s.action),
		),
	).WithShowHelp(false)

	return s
}

// SetFieldErrors attaches per-field validation errors to display above the
// actions, for submissions rejected by full-record validation.
func (s *ReviewScreen) SetFieldErrors(fields map[string][]string) {
	s.fieldErrors = fields
}

// Init implements tea.Model
func (s *ReviewScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *ReviewScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			s.cancelled = true
			return s, tea.Quit
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
	}

	return s, cmd
}

// View implements tea.Model
func (s *ReviewScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	title := components.TitleStyle.Render("REVIEW & SUBMIT")

	var parts []string
	parts = append(parts, title, "", s.renderSummary())

	if s.lastError != "" {
		parts = append(parts, "", components.ErrorStyle.Render("✗ Last submission failed: "+s.lastError))
	}

	if len(s.fieldErrors) > 0 {
		paths := make([]string, 0, len(s.fieldErrors))
		for p := range s.fieldErrors {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		parts = append(parts, "", components.ErrorStyle.Render("✗ The record has validation errors:"))
		for _, p := range paths {
			for _, msg := range s.fieldErrors[p] {
				parts = append(parts, components.ErrorStyle.Render(fmt.Sprintf("  %s: %s", p, msg)))
			}
		}
	}

	parts = append(parts, "", s.form.View(), "", "Enter: Select | Esc: Cancel")

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (s *ReviewScreen) renderSummary() string {
	var sb strings.Builder

	sb.WriteString(reviewTitleStyle.Render("Assessment"))
	sb.WriteString("\n")

	writeRow := func(label, value string) {
		sb.WriteString(reviewLabelStyle.Render(label + ":"))
		sb.WriteString(" ")
		sb.WriteString(reviewValueStyle.Render(value))
		sb.WriteString("\n")
	}

	writeRow("Name", s.rec.Name)
	writeRow("Age", strconv.Itoa(s.rec.Age))
	writeRow("Gender", string(s.rec.Gender))
	if s.rec.Weight != nil {
		writeRow("Weight", fmt.Sprintf("%g %s", *s.rec.Weight, s.rec.WeightUnit))
	}
	if s.rec.Height != nil {
		writeRow("Height", fmt.Sprintf("%g %s", *s.rec.Height, s.rec.HeightUnit))
	}

	sb.WriteString("\n")
	sb.WriteString(reviewLabelStyle.Render("Symptoms:"))
	sb.WriteString("\n")
	for _, sym := range s.rec.Symptoms {
		sb.WriteString(fmt.Sprintf("  • %s (%s)\n", reviewValueStyle.Render(sym.Name), sym.Severity))
	}

	if conditions := intake.SplitList(s.rec.History.PastConditions); len(conditions) > 0 {
		writeRow("Past conditions", strings.Join(conditions, ", "))
	}
	if meds := intake.SplitList(s.rec.History.CurrentMedications); len(meds) > 0 {
		writeRow("Medications", strings.Join(meds, ", "))
	}

	if img := s.rec.Image; img != nil {
		sb.WriteString("\n")
		writeRow("Image", fmt.Sprintf("%s (%s, %s)",
			img.Filename, img.ContentType, humanize.IBytes(uint64(img.Size()))))
		writeRow("Description", s.rec.ImageDescription)
		if p, err := imaging.Render(img.Data, img.ContentType, 40); err == nil {
			sb.WriteString(previewStyle.Render(p.ASCII))
			sb.WriteString("\n")
		}
	}

	return reviewPanelStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

// Done returns true if the form was completed
func (s *ReviewScreen) Done() bool { return s.done }

// Cancelled returns true if the user cancelled
func (s *ReviewScreen) Cancelled() bool { return s.cancelled }

// Action returns the selected review action
func (s *ReviewScreen) Action() ReviewAction {
	switch s.action {
	case actionBack:
		return ReviewActionBack
	case actionSaveDraft:
		return ReviewActionSaveDraft
	case actionCancel:
		return ReviewActionCancel
	default:
		return ReviewActionSubmit
	}
}
