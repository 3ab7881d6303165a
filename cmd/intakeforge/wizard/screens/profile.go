package screens

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/components"
	"github.com/mrsinham/intakeforge/internal/intake"
)

// ProfileScreen collects the patient profile: identity plus optional
// body measurements.
type ProfileScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	rec       *intake.Record
	width     int
	height    int
	done      bool
	cancelled bool

	// String versions for form binding (huh binds to strings)
	ageStr    string
	weightStr string
	heightStr string
	gender    string
	weightU   string
	heightU   string
}

// NewProfileScreen creates a profile screen bound to the given record.
func NewProfileScreen(rec *intake.Record, stepErrors map[string][]string) *ProfileScreen {
	s := &ProfileScreen{
		helpPanel: components.NewHelpPanel(),
		rec:       rec,
		gender:    string(rec.Gender),
		weightU:   string(rec.WeightUnit),
		heightU:   string(rec.HeightUnit),
	}
	if rec.Age > 0 {
		s.ageStr = strconv.Itoa(rec.Age)
	}
	if rec.Weight != nil {
		s.weightStr = strconv.FormatFloat(*rec.Weight, 'f', -1, 64)
	}
	if rec.Height != nil {
		s.heightStr = strconv.FormatFloat(*rec.Height, 'f', -1, 64)
	}
	s.helpPanel.SetErrors(flattenErrors(stepErrors))

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Full Name").
				Value(&s.rec.Name).
				Validate(validateRequired("name")),

			huh.NewInput().
				Key("age").
				Title("Age").
				Placeholder("e.g., 34").
				Value(&s.ageStr).
				Validate(validatePositiveInt),

			huh.NewSelect[string]().
				Key("gender").
				Title("Gender").
				Options(
					huh.NewOption("Male", string(intake.GenderMale)),
					huh.NewOption("Female", string(intake.GenderFemale)),
					huh.NewOption("Other", string(intake.GenderOther)),
				).
				Value(&s.gender),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("weight").
				Title("Weight (optional)").
				Placeholder("leave blank to skip").
				Value(&s.weightStr).
				Validate(validateOptionalFloat),

			huh.NewSelect[string]().
				Key("weight_unit").
				Title("Weight Unit").
				Options(
					huh.NewOption("none", ""),
					huh.NewOption("kilograms (kg)", string(intake.WeightKilograms)),
					huh.NewOption("pounds (lb)", string(intake.WeightPounds)),
				).
				Value(&s.weightU),

			huh.NewInput().
				Key("height").
				Title("Height (optional)").
				Placeholder("leave blank to skip").
				Value(&s.heightStr).
				Validate(validateOptionalFloat),

			huh.NewSelect[string]().
				Key("height_unit").
				Title("Height Unit").
				Options(
					huh.NewOption("none", ""),
					huh.NewOption("centimeters (cm)", string(intake.HeightCentimeters)),
					huh.NewOption("inches (in)", string(intake.HeightInches)),
				).
				Value(&s.heightU),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a whole number")
	}
	if n <= 0 {
		return fmt.Errorf("must be greater than 0")
	}
	return nil
}

func validateOptionalFloat(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n <= 0 {
		return fmt.Errorf("must be greater than 0")
	}
	return nil
}

func flattenErrors(m map[string][]string) []string {
	var out []string
	for _, msgs := range m {
		out = append(out, msgs...)
	}
	return out
}

// Init implements tea.Model
func (s *ProfileScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *ProfileScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		s.syncRecord()
		s.done = true
	}

	return s, cmd
}

// syncRecord copies the string-bound form values back onto the record.
// A measurement left blank clears its unit as well, so a unit picked
// earlier never lingers after the value was erased.
func (s *ProfileScreen) syncRecord() {
	s.rec.Name = strings.TrimSpace(s.rec.Name)
	if n, err := strconv.Atoi(strings.TrimSpace(s.ageStr)); err == nil {
		s.rec.Age = n
	}
	s.rec.Gender = intake.Gender(s.gender)

	if w := strings.TrimSpace(s.weightStr); w == "" {
		s.rec.Weight = nil
		s.rec.WeightUnit = ""
	} else if n, err := strconv.ParseFloat(w, 64); err == nil {
		s.rec.Weight = &n
		s.rec.WeightUnit = intake.WeightUnit(s.weightU)
	}

	if h := strings.TrimSpace(s.heightStr); h == "" {
		s.rec.Height = nil
		s.rec.HeightUnit = ""
	} else if n, err := strconv.ParseFloat(h, 64); err == nil {
		s.rec.Height = &n
		s.rec.HeightUnit = intake.HeightUnit(s.heightU)
	}
}

// View implements tea.Model
func (s *ProfileScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	title := components.TitleStyle.Render("PATIENT PROFILE")

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		"Tab: Next field | Enter: Continue | Esc: Cancel",
	)

	return content
}

// Done returns true if the form was completed
func (s *ProfileScreen) Done() bool { return s.done }

// Cancelled returns true if the user cancelled
func (s *ProfileScreen) Cancelled() bool { return s.cancelled }
