package rangeseek

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{Track: plain, Fill: plain, Handle: plain, Active: plain, Caption: plain}
}

// newTestModel lays out 20 steps over 0..100 so that step s sits at column
// s+1: a 23 column terminal with a one column margin.
func newTestModel(t *testing.T) *Model {
	t.Helper()

	logger, _ := logtest.NewNullLogger()
	m, err := NewModel(ModelConfig{
		Scale:  Scale{Min: 0, Max: 100, Steps: 20},
		Gap:    1,
		Margin: 1,
		Width:  23,
		Styles: plainStyles(),
		Logger: logger,
	})
	require.NoError(t, err)
	return m
}

// drain runs cmd and returns the messages it produces, flattening batches.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var msgs []tea.Msg
		for _, c := range msg {
			msgs = append(msgs, drain(c)...)
		}
		return msgs
	default:
		return []tea.Msg{msg}
	}
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

// TestModel_View tests the initial rendering
func TestModel_View(t *testing.T) {
	m := newTestModel(t)

	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, " ●"+strings.Repeat("━", 19)+"●", lines[0])
	assert.Equal(t, " 0 .. 100", lines[1])
	assert.Nil(t, m.Init())
}

// TestModel_Configuration tests that invalid scales are rejected
func TestModel_Configuration(t *testing.T) {
	_, err := NewModel(ModelConfig{Scale: Scale{Min: 0, Max: 100, Steps: 0}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))

	m, err := NewModel(ModelConfig{Scale: Scale{Min: 0, Max: 1, Steps: 4}, Logger: logrus.New()})
	require.NoError(t, err)
	assert.Equal(t, float64(defaultWidth-1), m.Frame().LargerCenter.X, "default width without margin")
}

// TestModel_Drag tests that mouse events drive the controller
func TestModel_Drag(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(mouse(tea.MouseActionPress, 1, 0))
	assert.Nil(t, cmd, "pressing does not change the range")
	assert.Equal(t, "dragging_lesser", m.DragState())
	assert.True(t, m.CheckCondition("dragging"))
	assert.Contains(t, m.View(), "(dragging lesser)")

	_, cmd = m.Update(mouse(tea.MouseActionMotion, 6, 0))
	msgs := drain(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, ProgressChangedMsg{Lesser: 25, Larger: 100, FromUser: true}, msgs[0])

	_, ok := m.LastChange()
	assert.False(t, ok, "not seen until delivered")
	m.Update(msgs[0])
	change, ok := m.LastChange()
	require.True(t, ok)
	assert.Equal(t, 25.0, change.Lesser)
	assert.True(t, m.CheckCondition("changed_by_user"))

	m.Update(mouse(tea.MouseActionRelease, 6, 0))
	assert.Equal(t, "idle", m.DragState())
	assert.True(t, m.CheckCondition("idle"))

	lesser, larger := m.Steps()
	assert.Equal(t, 5, lesser)
	assert.Equal(t, 20, larger)
	assert.Equal(t, " 25 .. 100", strings.Split(m.View(), "\n")[1])
}

// TestModel_OtherButtons tests that only the left button starts a drag
func TestModel_OtherButtons(t *testing.T) {
	m := newTestModel(t)

	m.Update(tea.MouseMsg{X: 1, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	assert.Equal(t, "idle", m.DragState())

	m.Update(tea.MouseMsg{X: 10, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, "idle", m.DragState(), "track between the handles is not a handle")
}

// TestModel_Escape tests that escape cancels a drag and keeps the committed steps
func TestModel_Escape(t *testing.T) {
	m := newTestModel(t)

	m.Update(mouse(tea.MouseActionPress, 21, 0))
	m.Update(mouse(tea.MouseActionMotion, 15, 0))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, "idle", m.DragState())
	lesser, larger := m.Steps()
	assert.Equal(t, 0, lesser)
	assert.Equal(t, 14, larger)

	_, cmd := m.Update(mouse(tea.MouseActionMotion, 5, 0))
	assert.Nil(t, cmd, "moves after cancel are ignored")
}

// TestModel_Resize tests that the track follows the window width
func TestModel_Resize(t *testing.T) {
	m := newTestModel(t)
	require.NoError(t, m.Controller().RestoreState(State{LesserStep: 5, LargerStep: 10}))

	_, cmd := m.Update(tea.WindowSizeMsg{Width: 43, Height: 10})
	assert.Nil(t, cmd, "relayout does not notify")

	lesser, larger := m.Steps()
	assert.Equal(t, 5, lesser)
	assert.Equal(t, 10, larger)

	frame := m.Frame()
	assert.Equal(t, 11.0, frame.LesserCenter.X)
	assert.Equal(t, 21.0, frame.LargerCenter.X)
	assert.Equal(t, 41.0, frame.Track.Right)
	assert.Len(t, []rune(strings.Split(m.View(), "\n")[0]), 42)

	m.Update(tea.WindowSizeMsg{Width: 1, Height: 10})
	assert.Equal(t, 1.0, m.Frame().Track.Left, "too narrow collapses the track")
	assert.Equal(t, 1.0, m.Frame().Track.Right)
}

// TestModel_Quit tests the quit keys
func TestModel_Quit(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		m := newTestModel(t)
		_, cmd := m.Update(key)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
		assert.Empty(t, m.View())
	}
}

// TestModel_ProgrammaticChange tests that SetProgress surfaces as a message
func TestModel_ProgrammaticChange(t *testing.T) {
	m := newTestModel(t)
	require.NoError(t, m.Controller().SetProgress(20, 80))

	// The next Update flushes what the controller queued.
	_, cmd := m.Update(nil)
	msgs := drain(cmd)
	require.Len(t, msgs, 2)
	assert.Equal(t, ProgressChangedMsg{Lesser: 20, Larger: 100, FromUser: false}, msgs[0])
	assert.Equal(t, ProgressChangedMsg{Lesser: 20, Larger: 80, FromUser: false}, msgs[1])
	assert.False(t, m.CheckCondition("changed_by_user"))
	assert.False(t, m.CheckCondition("unknown"))
}
