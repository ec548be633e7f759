package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ScrollView is a read-only scrollable text pane that wraps bubbles/viewport.
// Replacing the content keeps the scroll position when possible.
type ScrollView struct {
	vp     viewport.Model
	lines  []string
	width  int
	height int
}

// NewScrollView creates an empty ScrollView with the given dimensions.
func NewScrollView(w, h int) ScrollView {
	return ScrollView{
		vp:     viewport.New(w, h),
		width:  w,
		height: h,
	}
}

// SetContent replaces the displayed text.
func (v ScrollView) SetContent(text string) ScrollView {
	return v.SetLines(strings.Split(text, "\n"))
}

// SetLines replaces the displayed lines with a copy of lines.
func (v ScrollView) SetLines(lines []string) ScrollView {
	v.lines = make([]string, len(lines))
	copy(v.lines, lines)
	v.vp.SetContent(strings.Join(v.lines, "\n"))
	return v
}

// Lines returns the number of content lines.
func (v ScrollView) Lines() int {
	return len(v.lines)
}

// GotoTop scrolls back to the first line.
func (v ScrollView) GotoTop() ScrollView {
	v.vp.GotoTop()
	return v
}

// ScrollOffset returns how many lines are hidden above the view.
func (v ScrollView) ScrollOffset() int {
	return v.vp.YOffset
}

// SetSize resizes the view to the given dimensions.
func (v ScrollView) SetSize(w, h int) ScrollView {
	v.width = w
	v.height = h
	v.vp.Width = w
	v.vp.Height = h
	v.vp.SetContent(strings.Join(v.lines, "\n"))
	return v
}

// Update handles scroll keys and mouse wheel events.
func (v ScrollView) Update(msg tea.Msg) (ScrollView, tea.Cmd) {
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

// View renders the visible part of the content.
func (v ScrollView) View() string {
	return v.vp.View()
}
