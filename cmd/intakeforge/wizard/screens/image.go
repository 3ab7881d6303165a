package screens

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/components"
	"github.com/mrsinham/intakeforge/internal/imaging"
	"github.com/mrsinham/intakeforge/internal/intake"
)

var attachedStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("42"))

// ImageScreen attaches an optional medical image to the record. The
// path is read and sniffed while the form validates, so an oversized
// or unsupported file is rejected before leaving the field.
type ImageScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	rec       *intake.Record
	maxBytes  int64
	remove    func()
	width     int
	height    int
	done      bool
	cancelled bool

	path        string
	description string
}

// NewImageScreen creates the medical image screen. remove is invoked
// when the user discards the currently attached image.
func NewImageScreen(rec *intake.Record, maxBytes int64, remove func(), stepErrors map[string][]string) *ImageScreen {
	s := &ImageScreen{
		helpPanel:   components.NewHelpPanel(),
		rec:         rec,
		maxBytes:    maxBytes,
		remove:      remove,
		description: rec.ImageDescription,
	}
	s.helpPanel.SetErrors(flattenErrors(stepErrors))
	s.form = s.newForm()
	return s
}

func (s *ImageScreen) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("image_path").
				Title("Image file (optional)").
				Placeholder("path to JPEG, PNG, WebP or DICOM").
				Value(&s.path).
				Validate(s.validatePath),

			huh.NewText().
				Key("image_description").
				Title("Image description").
				Placeholder("what does the image show?").
				CharLimit(intake.MaxImageDescriptionLen).
				Value(&s.description),
		),
	).WithShowHelp(false).WithShowErrors(true)
}

func (s *ImageScreen) validatePath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	_, _, err := imaging.ReadFile(path, s.maxBytes)
	return err
}

// Init implements tea.Model
func (s *ImageScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *ImageScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			s.cancelled = true
			return s, tea.Quit
		case "ctrl+x":
			s.remove()
			s.path = ""
			s.description = ""
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
		if err := s.syncRecord(); err != nil {
			// File changed under us between focus and submit; re-show the form.
			s.helpPanel.SetErrors([]string{err.Error()})
			s.form = s.newForm()
			return s, s.form.Init()
		}
		s.done = true
	}

	return s, cmd
}

func (s *ImageScreen) syncRecord() error {
	s.rec.ImageDescription = strings.TrimSpace(s.description)

	path := strings.TrimSpace(s.path)
	if path == "" {
		return nil
	}
	data, contentType, err := imaging.ReadFile(path, s.maxBytes)
	if err != nil {
		return err
	}
	s.rec.Image = &intake.ImageAttachment{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}
	return nil
}

// View implements tea.Model
func (s *ImageScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	title := components.TitleStyle.Render("MEDICAL IMAGE")

	var attached string
	if img := s.rec.Image; img != nil {
		attached = attachedStyle.Render(fmt.Sprintf("✓ Attached: %s (%s, %s)",
			img.Filename, img.ContentType, humanize.IBytes(uint64(img.Size()))))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		attached,
		"",
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		"Tab: Next field | Enter: Continue | Ctrl+X: Remove image | Esc: Cancel",
	)

	return content
}

// Done returns true if the form was completed
func (s *ImageScreen) Done() bool { return s.done }

// Path returns the image file path entered on this screen
func (s *ImageScreen) Path() string { return strings.TrimSpace(s.path) }

// Cancelled returns true if the user cancelled
func (s *ImageScreen) Cancelled() bool { return s.cancelled }
