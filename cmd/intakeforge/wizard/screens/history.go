package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/components"
	"github.com/mrsinham/intakeforge/internal/intake"
)

// HistoryScreen collects the optional medical history. Both fields are
// free text; commas separate entries.
type HistoryScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	rec       *intake.Record
	width     int
	height    int
	done      bool
	cancelled bool
}

// NewHistoryScreen creates the medical history screen.
func NewHistoryScreen(rec *intake.Record) *HistoryScreen {
	s := &HistoryScreen{
		helpPanel: components.NewHelpPanel(),
		rec:       rec,
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Key("past_conditions").
				Title("Past conditions").
				Placeholder("e.g., asthma, hypertension").
				Value(&s.rec.History.PastConditions),

			huh.NewText().
				Key("current_medications").
				Title("Current medications").
				Placeholder("e.g., salbutamol 100mcg, lisinopril 10mg").
				Value(&s.rec.History.CurrentMedications),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

// Init implements tea.Model
func (s *HistoryScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *HistoryScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		s.helpPanel.SetSize(msg.Width/3, msg.Height/2)
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if focused := s.form.GetFocusedField(); focused != nil {
		s.helpPanel.SetField(focused.GetKey())
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
	}

	return s, cmd
}

// View implements tea.Model
func (s *HistoryScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	title := components.TitleStyle.Render("MEDICAL HISTORY")
	subtitle := components.SubtitleStyle.Render("Optional. Separate entries with commas.")

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		"",
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		"Tab: Next field | Enter: Continue | Ctrl+K: Skip | Esc: Cancel",
	)

	return content
}

// Done returns true if the form was completed
func (s *HistoryScreen) Done() bool { return s.done }

// Cancelled returns true if the user cancelled
func (s *HistoryScreen) Cancelled() bool { return s.cancelled }
