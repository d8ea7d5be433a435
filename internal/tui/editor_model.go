package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/loadcalc/internal/engine"
	"github.com/rshade/loadcalc/internal/project"
	listview "github.com/rshade/loadcalc/internal/tui/list"
)

// EditorState represents the current state of the editor.
type EditorState int

const (
	// EditorStateEditing indicates the user is browsing or editing properties.
	EditorStateEditing EditorState = iota
	// EditorStateQuitting indicates the program is exiting.
	EditorStateQuitting
)

// PropertyRow is one editable project property.
type PropertyRow struct {
	Key           string
	OriginalValue string
	CurrentValue  string
	LoadDelta     float64
	// Invalid marks a value the last recalculation rejected.
	Invalid bool
}

// RecalculateFunc runs a what-if estimate of state with overrides.
type RecalculateFunc func(ctx context.Context, state project.ProjectState, overrides map[string]string) (*engine.WhatIfResult, error)

// recalculateMsg is sent when a recalculation completes.
type recalculateMsg struct {
	result *engine.WhatIfResult
	err    error
}

// Layout defaults.
const (
	editorDefaultWidth  = 80
	editorDefaultHeight = 24
	// editorChromeLines is the number of lines around the property list.
	editorChromeLines = 16
)

type keyMap struct {
	Quit   key.Binding
	Edit   key.Binding
	Cancel key.Binding
	Reset  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Edit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel edit")),
		Reset:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
	}
}

// EditorModel is the Bubble Tea model for interactive what-if editing of a
// project's scalar properties.
type EditorModel struct {
	ctx   context.Context
	state project.ProjectState

	properties []PropertyRow
	list       *listview.Model[PropertyRow]
	editMode   bool
	editBuffer string

	result *engine.WhatIfResult

	status  EditorState
	loading bool
	spinner spinner.Model
	err     error
	keys    keyMap

	width  int
	height int

	recalculateFn RecalculateFunc
}

// NewEditorModel creates an editor over state. result, when non-nil, is
// shown until the first recalculation.
func NewEditorModel(ctx context.Context, state project.ProjectState, result *engine.WhatIfResult) *EditorModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorSpinner)

	m := &EditorModel{
		ctx:     ctx,
		state:   state,
		status:  EditorStateEditing,
		spinner: sp,
		keys:    defaultKeyMap(),
		width:   editorDefaultWidth,
		height:  editorDefaultHeight,
	}
	m.initializeProperties()
	m.list = listview.New(m.properties, m.listHeight(), m.renderRow)
	if result != nil {
		m.applyResult(result)
	}
	return m
}

// NewEditorModelWithCallback creates an editor that recalculates through fn.
func NewEditorModelWithCallback(
	ctx context.Context,
	state project.ProjectState,
	result *engine.WhatIfResult,
	fn RecalculateFunc,
) *EditorModel {
	m := NewEditorModel(ctx, state, result)
	m.recalculateFn = fn
	return m
}

func (m *EditorModel) initializeProperties() {
	keys := project.OverrideKeys()
	m.properties = make([]PropertyRow, 0, len(keys))
	for _, k := range keys {
		v, err := project.OverrideValue(m.state, k)
		if err != nil {
			continue
		}
		m.properties = append(m.properties, PropertyRow{Key: k, OriginalValue: v, CurrentValue: v})
	}
}

func (m *EditorModel) listHeight() int {
	return max(m.height-editorChromeLines, 3)
}

func (m *EditorModel) renderRow(row PropertyRow, selected bool) string {
	return renderPropertyRow(row, selected, selected && m.editMode, m.editBuffer)
}

// applyResult copies per-property deltas from a what-if result.
func (m *EditorModel) applyResult(result *engine.WhatIfResult) {
	m.result = result
	for i := range m.properties {
		m.properties[i].LoadDelta = 0
		m.properties[i].Invalid = false
		for _, d := range result.Deltas {
			if d.Property == m.properties[i].Key {
				m.properties[i].LoadDelta = d.ChangeBTUh
				break
			}
		}
	}
	m.list.SetItems(m.properties)
}

// Init starts the first estimate when a callback is configured.
func (m *EditorModel) Init() tea.Cmd {
	if m.recalculateFn == nil || m.result != nil {
		return nil
	}
	return m.triggerRecalculation()
}

// Update handles messages and updates the model state.
func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetHeight(m.listHeight())
		return m, nil

	case recalculateMsg:
		return m.handleRecalculateComplete(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m *EditorModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editMode {
		return m.handleEditModeKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.status = EditorStateQuitting
		return m, tea.Quit

	case key.Matches(msg, m.keys.Edit):
		if row := m.list.SelectedItem(); row != nil {
			m.editMode = true
			m.editBuffer = row.CurrentValue
		}
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		for i := range m.properties {
			m.properties[i].CurrentValue = m.properties[i].OriginalValue
		}
		m.err = nil
		m.list.SetItems(m.properties)
		if m.recalculateFn != nil {
			return m, m.triggerRecalculation()
		}
		return m, nil
	}

	m.list.Update(msg)
	return m, nil
}

//nolint:exhaustive // Only text-editing keys are relevant.
func (m *EditorModel) handleEditModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		idx := m.list.Selected()
		if idx < len(m.properties) {
			m.properties[idx].CurrentValue = strings.TrimSpace(m.editBuffer)
		}
		m.editMode = false
		m.editBuffer = ""
		m.list.SetItems(m.properties)

		if m.recalculateFn != nil {
			return m, m.triggerRecalculation()
		}
		return m, nil

	case tea.KeyEsc:
		m.editMode = false
		m.editBuffer = ""
		return m, nil

	case tea.KeyCtrlC:
		m.status = EditorStateQuitting
		return m, tea.Quit

	case tea.KeyBackspace:
		runes := []rune(m.editBuffer)
		if len(runes) > 0 {
			m.editBuffer = string(runes[:len(runes)-1])
		}
		return m, nil

	case tea.KeySpace:
		m.editBuffer += " "
		return m, nil

	case tea.KeyRunes:
		m.editBuffer += string(msg.Runes)
		return m, nil
	}

	return m, nil
}

// triggerRecalculation returns a command that runs the callback with the
// current overrides.
func (m *EditorModel) triggerRecalculation() tea.Cmd {
	m.loading = true

	// Capture before the goroutine so the model is not read concurrently.
	ctx := m.ctx
	state := m.state
	overrides := m.GetOverrides()
	fn := m.recalculateFn

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		result, err := fn(ctx, state, overrides)
		return recalculateMsg{result: result, err: err}
	})
}

func (m *EditorModel) handleRecalculateComplete(msg recalculateMsg) (tea.Model, tea.Cmd) {
	m.loading = false

	if msg.err != nil {
		m.err = msg.err
		m.markInvalid(msg.err)
		return m, nil
	}

	m.err = nil
	if msg.result != nil {
		m.applyResult(msg.result)
	}
	return m, nil
}

// markInvalid flags the changed rows an error message names.
func (m *EditorModel) markInvalid(err error) {
	text := err.Error()
	for i := range m.properties {
		p := &m.properties[i]
		p.Invalid = p.CurrentValue != p.OriginalValue && strings.Contains(text, p.Key)
	}
	m.list.SetItems(m.properties)
}

// View renders the current view.
func (m *EditorModel) View() string {
	if m.status == EditorStateQuitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(RenderEditorHeader(m.state.Name, string(m.state.ClimateZone)))
	sb.WriteString("\n\n")

	if m.loading {
		sb.WriteString(m.spinner.View())
		sb.WriteString(" Calculating load...")
	} else {
		sb.WriteString(RenderLoadComparison(m.Baseline(), m.Modified()))
	}
	sb.WriteString("\n\n")

	sb.WriteString(RenderPropertyTableHeader())
	sb.WriteString("\n")
	muted := lipgloss.NewStyle().Foreground(ColorMuted)
	if m.list.HasMoreAbove() {
		sb.WriteString(muted.Render("  ...") + "\n")
	}
	sb.WriteString(m.list.View())
	sb.WriteString("\n")
	if m.list.HasMoreBelow() {
		sb.WriteString(muted.Render("  ...") + "\n")
	}

	if m.err != nil {
		sb.WriteString("\n")
		sb.WriteString(RenderError(m.err))
		sb.WriteString("\n")
	}
	if tips := RenderTips(m.Modified()); tips != "" {
		sb.WriteString("\n")
		sb.WriteString(tips)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(RenderEditorHelp())

	return lipgloss.NewStyle().MaxWidth(m.width).Render(sb.String())
}

// GetOverrides returns the properties whose value was changed.
func (m *EditorModel) GetOverrides() map[string]string {
	overrides := make(map[string]string)
	for _, prop := range m.properties {
		if prop.CurrentValue != prop.OriginalValue {
			overrides[prop.Key] = prop.CurrentValue
		}
	}
	return overrides
}

// Baseline returns the estimate without edits, or nil before the first one.
func (m *EditorModel) Baseline() *engine.Estimate {
	if m.result == nil {
		return nil
	}
	return &m.result.Baseline
}

// Modified returns the estimate with edits applied, or nil.
func (m *EditorModel) Modified() *engine.Estimate {
	if m.result == nil {
		return nil
	}
	return &m.result.Modified
}

// GetResult returns the latest what-if result.
func (m *EditorModel) GetResult() *engine.WhatIfResult { return m.result }

// Err returns the last recalculation error.
func (m *EditorModel) Err() error { return m.err }

// ModifiedState applies the current edits to the original project.
func (m *EditorModel) ModifiedState() (project.ProjectState, error) {
	if m.err != nil {
		return project.ProjectState{}, errors.Join(errors.New("unresolved edit error"), m.err)
	}
	return project.ApplyOverrides(m.state, m.GetOverrides())
}
