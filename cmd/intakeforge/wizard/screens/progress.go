package screens

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/components"
	"github.com/mrsinham/intakeforge/internal/analysis"
)

// ResultMsg is sent when a submission completes successfully
type ResultMsg struct {
	Outcome any
}

// ErrorMsg is sent when a submission fails
type ErrorMsg struct {
	Error error
}

// tickMsg drives the elapsed-time display while a submission is in flight
type tickMsg time.Time

var (
	spinnerStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("63")).
		Bold(true)

	submitElapsedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))

	submitHintStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SubmittingScreen is shown while the assessment is being analyzed
type SubmittingScreen struct {
	startTime time.Time
	frame     int
	cancelled bool
	width     int
	height    int
}

// NewSubmittingScreen creates a new submitting screen
func NewSubmittingScreen() *SubmittingScreen {
	return &SubmittingScreen{startTime: time.Now()}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model
func (s *SubmittingScreen) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model
func (s *SubmittingScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, tea.Quit
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	case tickMsg:
		s.frame++
		return s, tick()
	}

	return s, nil
}

// View implements tea.Model
func (s *SubmittingScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	spinner := spinnerStyle.Render(spinnerFrames[s.frame%len(spinnerFrames)])
	title := components.TitleStyle.Render("Analyzing your symptoms...")
	elapsed := submitElapsedStyle.Render(fmt.Sprintf("Elapsed: %.1fs", time.Since(s.startTime).Seconds()))
	hint := submitHintStyle.Render("Press Ctrl+C to abandon")

	var sb strings.Builder
	sb.WriteString(spinner)
	sb.WriteString(" ")
	sb.WriteString(title)
	sb.WriteString("\n\n")
	sb.WriteString(elapsed)
	sb.WriteString("\n\n")
	sb.WriteString(hint)

	return sb.String()
}

// Cancelled returns true if the user cancelled
func (s *SubmittingScreen) Cancelled() bool { return s.cancelled }

// Results screen styles
var (
	resultsSuccessStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	resultsSectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("63")).
		Bold(true)

	resultsBodyStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	disclaimerStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("244")).
		Italic(true)
)

const (
	resultsNewAssessment = "new"
	resultsExit          = "exit"
)

// ResultsScreen displays the analysis outcome
type ResultsScreen struct {
	form      *huh.Form
	outcome   any
	choice    string
	done      bool
	cancelled bool
	width     int
	height    int
}

// NewResultsScreen creates a results screen for the given outcome
func NewResultsScreen(outcome any) *ResultsScreen {
	s := &ResultsScreen{
		outcome: outcome,
		choice:  resultsExit,
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("results_action").
				Title("What next?").
				Options(
					huh.NewOption("Start a new assessment", resultsNewAssessment),
					huh.NewOption("Exit", resultsExit),
				).
				Value(&s.choice),
		),
	).WithShowHelp(false)

	return s
}

// Init implements tea.Model
func (s *ResultsScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *ResultsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
func (s *ResultsScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	var sb strings.Builder
	sb.WriteString(resultsSuccessStyle.Render("✓ Analysis complete"))
	sb.WriteString("\n\n")

	if report, ok := s.outcome.(*analysis.Report); ok {
		sb.WriteString(resultsSectionStyle.Render("Summary:"))
		sb.WriteString("\n  ")
		sb.WriteString(resultsBodyStyle.Render(report.Summary))
		sb.WriteString("\n\n")

		if len(report.Recommendations) > 0 {
			sb.WriteString(resultsSectionStyle.Render("Recommendations:"))
			sb.WriteString("\n")
			for _, r := range report.Recommendations {
				sb.WriteString("  • ")
				sb.WriteString(resultsBodyStyle.Render(r))
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString(resultsBodyStyle.Render(fmt.Sprintf("%v", s.outcome)))
		sb.WriteString("\n\n")
	}

	sb.WriteString(disclaimerStyle.Render("This is not a medical diagnosis. Consult a healthcare professional."))
	sb.WriteString("\n\n")
	sb.WriteString(s.form.View())

	return sb.String()
}

// Done returns true if the user is finished
func (s *ResultsScreen) Done() bool { return s.done }

// Cancelled returns true if the user cancelled
func (s *ResultsScreen) Cancelled() bool { return s.cancelled }

// StartNew returns true if the user chose to start a new assessment
func (s *ResultsScreen) StartNew() bool { return s.choice == resultsNewAssessment }

// ErrorScreen displays a fatal wizard error
type ErrorScreen struct {
	err    error
	done   bool
	width  int
	height int
}

var (
	errorTitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true)

	errorMessageStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	errorHintStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("244")).
		Italic(true)
)

// NewErrorScreen creates a new error screen
func NewErrorScreen(err error) *ErrorScreen {
	return &ErrorScreen{err: err}
}

// Init implements tea.Model
func (s *ErrorScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *ErrorScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "enter", "q":
			s.done = true
			return s, tea.Quit
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	return s, nil
}

// View implements tea.Model
func (s *ErrorScreen) View() string {
	var sb strings.Builder

	sb.WriteString(errorTitleStyle.Render("✗ Something went wrong"))
	sb.WriteString("\n\n")
	sb.WriteString(components.TitleStyle.Render("Error:"))
	sb.WriteString("\n  ")
	sb.WriteString(errorMessageStyle.Render(s.err.Error()))
	sb.WriteString("\n\n")
	sb.WriteString(errorHintStyle.Render("Press Enter or q to exit"))

	return sb.String()
}

// Done returns true if the user is finished
func (s *ErrorScreen) Done() bool { return s.done }

// Error returns the error
func (s *ErrorScreen) Error() error { return s.err }
