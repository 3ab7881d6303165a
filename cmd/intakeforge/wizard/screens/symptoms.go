package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/components"
	"github.com/mrsinham/intakeforge/internal/intake"
)

var symptomListStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252"))

// SymptomsScreen collects symptoms one at a time. Each completed form
// appends a symptom to the record; the confirm field loops back for
// the next one. Ctrl+R removes the most recently added symptom.
type SymptomsScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	rec       *intake.Record
	width     int
	height    int
	done      bool
	cancelled bool

	name       string
	severity   string
	addAnother bool
}

// NewSymptomsScreen creates a symptom entry screen bound to the given record.
func NewSymptomsScreen(rec *intake.Record, stepErrors map[string][]string) *SymptomsScreen {
	s := &SymptomsScreen{
		helpPanel: components.NewHelpPanel(),
		rec:       rec,
		severity:  string(intake.SeverityMild),
	}
	s.helpPanel.SetErrors(flattenErrors(stepErrors))
	s.form = s.newEntryForm()
	return s
}

func (s *SymptomsScreen) newEntryForm() *huh.Form {
	s.name = ""
	s.severity = string(intake.SeverityMild)
	s.addAnother = false

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("symptom_name").
				Title(fmt.Sprintf("Symptom %d", len(s.rec.Symptoms)+1)).
				Placeholder("e.g., persistent dry cough").
				Value(&s.name).
				Validate(func(str string) error {
					if strings.TrimSpace(str) == "" && len(s.rec.Symptoms) == 0 {
						return fmt.Errorf("at least one symptom is required")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Key("symptom_severity").
				Title("Severity").
				Options(
					huh.NewOption("Mild", string(intake.SeverityMild)),
					huh.NewOption("Moderate", string(intake.SeverityModerate)),
					huh.NewOption("Severe", string(intake.SeveritySevere)),
				).
				Value(&s.severity),

			huh.NewConfirm().
				Key("add_another").
				Title("Add another symptom?").
				Value(&s.addAnother),
		),
	).WithShowHelp(false).WithShowErrors(true)
}

// Init implements tea.Model
func (s *SymptomsScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *SymptomsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			s.cancelled = true
			return s, tea.Quit
		case "ctrl+r":
			if n := len(s.rec.Symptoms); n > 0 {
				s.rec.Symptoms = s.rec.Symptoms[:n-1]
			}
			return s, nil
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
		if name := strings.TrimSpace(s.name); name != "" {
			s.rec.Symptoms = append(s.rec.Symptoms, intake.Symptom{
				Name:     name,
				Severity: intake.Severity(s.severity),
			})
		}
		if s.addAnother {
			s.form = s.newEntryForm()
			return s, s.form.Init()
		}
		s.done = true
	}

	return s, cmd
}

// View implements tea.Model
func (s *SymptomsScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	title := components.TitleStyle.Render("SYMPTOMS")

	var listed string
	if len(s.rec.Symptoms) > 0 {
		var sb strings.Builder
		for _, sym := range s.rec.Symptoms {
			sb.WriteString(fmt.Sprintf("  • %s (%s)\n", sym.Name, sym.Severity))
		}
		listed = symptomListStyle.Render(strings.TrimRight(sb.String(), "\n"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		listed,
		"",
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		"Tab: Next field | Enter: Continue | Ctrl+R: Remove last | Esc: Cancel",
	)

	return content
}

// Done returns true if the form was completed
func (s *SymptomsScreen) Done() bool { return s.done }

// Cancelled returns true if the user cancelled
func (s *SymptomsScreen) Cancelled() bool { return s.cancelled }
