package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// RenderFunc renders one item. selected marks the cursor row.
type RenderFunc[T any] func(item T, selected bool) string

// Model is a scrolling list that renders only the rows around the cursor.
// The editor uses it so long property lists stay usable in short
// terminals.
type Model[T any] struct {
	items      []T
	renderFunc RenderFunc[T]

	selected    int
	visibleFrom int
	visibleTo   int
	height      int
}

// New creates a list showing height rows at a time.
func New[T any](items []T, height int, renderFunc RenderFunc[T]) *Model[T] {
	m := &Model[T]{
		items:      items,
		renderFunc: renderFunc,
		height:     max(height, 1),
	}
	m.updateVisibleRange()
	return m
}

// Init implements tea.Model.
func (m *Model[T]) Init() tea.Cmd { return nil }

// Update handles navigation keys and resizes. Keys it does not own are
// ignored so a parent model can handle them.
//
//nolint:exhaustive // Only navigation keys are relevant.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetHeight(msg.Height)
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyUp:
			m.Move(-1)
		case tea.KeyDown:
			m.Move(1)
		case tea.KeyPgUp:
			m.Move(-m.height)
		case tea.KeyPgDown:
			m.Move(m.height)
		case tea.KeyHome:
			m.SetSelected(0)
		case tea.KeyEnd:
			m.SetSelected(len(m.items) - 1)
		case tea.KeyRunes:
			switch string(msg.Runes) {
			case "j":
				m.Move(1)
			case "k":
				m.Move(-1)
			}
		}
	}
	return m, nil
}

// Move shifts the cursor by delta rows, clamped to the list.
func (m *Model[T]) Move(delta int) { m.SetSelected(m.selected + delta) }

// SetSelected moves the cursor to index, clamped to the list.
func (m *Model[T]) SetSelected(index int) {
	if len(m.items) == 0 {
		m.selected = 0
	} else {
		m.selected = min(max(index, 0), len(m.items)-1)
	}
	m.updateVisibleRange()
}

// SetItems replaces the items and keeps the cursor in range.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.SetSelected(m.selected)
}

// SetHeight changes the number of visible rows.
func (m *Model[T]) SetHeight(h int) {
	m.height = max(h, 1)
	m.updateVisibleRange()
}

// updateVisibleRange centers the window on the cursor where possible.
func (m *Model[T]) updateVisibleRange() {
	if len(m.items) == 0 {
		m.visibleFrom, m.visibleTo = 0, 0
		return
	}

	from := m.selected - m.height/2
	from = max(0, min(from, len(m.items)-m.height))
	m.visibleFrom = from
	m.visibleTo = min(from+m.height, len(m.items))
}

// View renders the visible rows.
func (m *Model[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}

	lines := make([]string, 0, m.visibleTo-m.visibleFrom)
	for i := m.visibleFrom; i < m.visibleTo; i++ {
		lines = append(lines, m.renderFunc(m.items[i], i == m.selected))
	}
	return strings.Join(lines, "\n")
}

// Len returns the number of items.
func (m *Model[T]) Len() int { return len(m.items) }

// Selected returns the cursor index.
func (m *Model[T]) Selected() int { return m.selected }

// VisibleFrom returns the first visible index.
func (m *Model[T]) VisibleFrom() int { return m.visibleFrom }

// VisibleTo returns the index after the last visible row.
func (m *Model[T]) VisibleTo() int { return m.visibleTo }

// HasMoreAbove reports whether rows are hidden above the window.
func (m *Model[T]) HasMoreAbove() bool { return m.visibleFrom > 0 }

// HasMoreBelow reports whether rows are hidden below the window.
func (m *Model[T]) HasMoreBelow() bool { return m.visibleTo < len(m.items) }

// SelectedItem returns the item under the cursor, or nil for an empty list.
func (m *Model[T]) SelectedItem() *T {
	if len(m.items) == 0 {
		return nil
	}
	return &m.items[m.selected]
}
