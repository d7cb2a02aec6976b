package rangeseek

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

const defaultWidth = 40

// ProgressChangedMsg is emitted after every committed step change, one per
// change. Parent models pick it up from their Update.
type ProgressChangedMsg struct {
	Lesser   float64
	Larger   float64
	FromUser bool
}

// Styles controls how the terminal slider is drawn.
type Styles struct {
	Track   lipgloss.Style
	Fill    lipgloss.Style
	Handle  lipgloss.Style
	Active  lipgloss.Style
	Caption lipgloss.Style
}

// DefaultStyles returns a gray track with a pink filled range.
func DefaultStyles() Styles {
	return Styles{
		Track:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Fill:    lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		Handle:  lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Active:  lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Caption: lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
	}
}

// ModelConfig configures a terminal slider. Geometry comes from the window
// size; each handle occupies one cell.
type ModelConfig struct {
	Scale     Scale
	Gap       int
	Tolerance float64
	// Margin is the number of blank columns on each side of the track.
	Margin int
	// Width is the layout width until the first tea.WindowSizeMsg.
	Width  int
	Styles *Styles
	Logger logrus.FieldLogger
}

// Model is a bubbletea model for a range slider. The track is drawn on the
// model's first row with a caption below it. Mouse coordinates are taken
// relative to the model's top-left corner.
//
// Example:
//
//	m, err := rangeseek.NewModel(rangeseek.ModelConfig{
//		Scale: rangeseek.Scale{Min: 0, Max: 100, Steps: 20},
//		Gap:   1,
//	})
//	if err != nil {
//		return err
//	}
//	_, err = tea.NewProgram(m, tea.WithMouseCellMotion()).Run()
type Model struct {
	ctrl    *Controller
	styles  Styles
	margin  int
	width   int
	pending []ProgressChangedMsg
	last    *ProgressChangedMsg
	quit    bool
}

// NewModel builds the controller for a terminal of cfg.Width columns.
//
// Fails with ErrConfiguration.
func NewModel(cfg ModelConfig) (*Model, error) {
	width := cfg.Width
	if width <= 0 {
		width = defaultWidth
	}
	margin := cfg.Margin
	if margin < 0 {
		margin = 0
	}
	styles := DefaultStyles()
	if cfg.Styles != nil {
		styles = *cfg.Styles
	}

	ctrl, err := NewController(Config{
		Scale:      cfg.Scale,
		Track:      trackFor(width, margin),
		HandleSize: Size{Width: 1, Height: 1},
		Gap:        cfg.Gap,
		Tolerance:  cfg.Tolerance,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	m := &Model{
		ctrl:   ctrl,
		styles: styles,
		margin: margin,
		width:  width,
	}
	ctrl.Subscribe(func(lesser, larger float64, fromUser bool) {
		m.pending = append(m.pending, ProgressChangedMsg{Lesser: lesser, Larger: larger, FromUser: fromUser})
	})
	return m, nil
}

// trackFor lays the track out between the margins; the last track cell is
// at column width-margin-1.
func trackFor(width, margin int) Track {
	length := width - 2*margin - 1
	if length < 0 {
		length = 0
	}
	return Track{Start: float64(margin), Length: float64(length), Top: 0}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		// trackFor never yields a negative length.
		_ = m.ctrl.SetTrack(trackFor(m.width, m.margin))

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quit = true
			return m, tea.Quit
		case "esc":
			m.ctrl.PointerCancel()
		}

	case ProgressChangedMsg:
		m.last = &msg
	}

	return m, m.flush()
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	x, y := float64(msg.X), float64(msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.ctrl.PointerDown(x, y)
		}
	case tea.MouseActionMotion:
		m.ctrl.PointerMove(x, y)
	case tea.MouseActionRelease:
		m.ctrl.PointerUp()
	}
}

// flush turns queued notifications into commands.
func (m *Model) flush() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}

	cmds := make([]tea.Cmd, 0, len(m.pending))
	for _, change := range m.pending {
		cmds = append(cmds, func() tea.Msg { return change })
	}
	m.pending = nil
	return tea.Batch(cmds...)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quit {
		return ""
	}
	return m.trackLine() + "\n" + m.caption()
}

func (m *Model) trackLine() string {
	frame := m.ctrl.Frame()
	if m.width <= 0 {
		return ""
	}

	start := int(math.Round(frame.Track.Left))
	end := int(math.Round(frame.Track.Right))
	lesser := int(math.Round(frame.LesserCenter.X))
	larger := int(math.Round(frame.LargerCenter.X))

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", start))
	for col := start; col <= end && col < m.width; col++ {
		switch {
		case col == lesser:
			b.WriteString(m.handleStyle(SideLesser).Render("●"))
		case col == larger:
			b.WriteString(m.handleStyle(SideLarger).Render("●"))
		case col > lesser && col < larger:
			b.WriteString(m.styles.Fill.Render("━"))
		default:
			b.WriteString(m.styles.Track.Render("─"))
		}
	}
	return b.String()
}

func (m *Model) handleStyle(side Side) lipgloss.Style {
	if m.ctrl.Active() == side {
		return m.styles.Active
	}
	return m.styles.Handle
}

func (m *Model) caption() string {
	lesser, larger := m.ctrl.Progress()
	text := fmt.Sprintf("%s%s .. %s", strings.Repeat(" ", m.margin), formatValue(lesser), formatValue(larger))
	if state := m.ctrl.State(); state != Idle {
		text += fmt.Sprintf("  (%s)", strings.ReplaceAll(state.String(), "_", " "))
	}
	return m.styles.Caption.Render(text)
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// Controller exposes the underlying controller, for programmatic updates
// and state save/restore.
func (m *Model) Controller() *Controller {
	return m.ctrl
}

// Frame returns the controller's rendering surface in cell coordinates.
func (m *Model) Frame() Frame {
	return m.ctrl.Frame()
}

// LastChange returns the most recent ProgressChangedMsg seen by Update.
func (m *Model) LastChange() (ProgressChangedMsg, bool) {
	if m.last == nil {
		return ProgressChangedMsg{}, false
	}
	return *m.last, true
}

// DragState returns the controller's drag state by name.
func (m *Model) DragState() string {
	return m.ctrl.State().String()
}

// Steps returns the lesser and larger steps.
func (m *Model) Steps() (int, int) {
	return m.ctrl.Steps()
}

// CheckCondition answers named conditions for the stage director:
// "idle", "dragging", "gap_holds" and "changed_by_user".
func (m *Model) CheckCondition(condition string) bool {
	switch condition {
	case "idle":
		return m.ctrl.State() == Idle
	case "dragging":
		return m.ctrl.State() != Idle
	case "gap_holds":
		lesser, larger := m.ctrl.Steps()
		return lesser+m.ctrl.Gap() <= larger
	case "changed_by_user":
		return m.last != nil && m.last.FromUser
	default:
		return false
	}
}
