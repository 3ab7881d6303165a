package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/help"
)

var (
	helpPanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(1, 2).
		Width(60)

	helpTitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("63")).
		Bold(true)

	helpDescStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	helpDetailStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))

	helpErrorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))
)

// HelpPanel displays contextual help for the current field, plus any
// validation errors recorded for the current step.
type HelpPanel struct {
	currentField string
	errors       []string
	width        int
	height       int
}

// NewHelpPanel creates a new help panel
func NewHelpPanel() *HelpPanel {
	return &HelpPanel{
		width:  60,
		height: 10,
	}
}

// SetField updates which field's help to display
func (h *HelpPanel) SetField(field string) {
	h.currentField = field
}

// SetErrors replaces the validation errors shown below the help text.
func (h *HelpPanel) SetErrors(errs []string) {
	h.errors = errs
}

// SetSize updates panel dimensions
func (h *HelpPanel) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// View renders the help panel
func (h *HelpPanel) View() string {
	style := helpPanelStyle.Width(h.width - 4) // Compute locally, don't mutate global

	var sb strings.Builder
	text, ok := help.Texts[h.currentField]
	if !ok {
		sb.WriteString("Select a field to see help")
	} else {
		sb.WriteString("ℹ️  ")
		sb.WriteString(helpTitleStyle.Render(text.Title))
		sb.WriteString("\n\n")
		sb.WriteString(helpDescStyle.Render(text.Description))
		sb.WriteString("\n\n")
		sb.WriteString(helpDetailStyle.Render(text.Details))
	}

	if len(h.errors) > 0 {
		sb.WriteString("\n\n")
		for i, e := range h.errors {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(helpErrorStyle.Render("✗ " + e))
		}
	}

	return style.Render(sb.String())
}
