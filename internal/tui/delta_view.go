package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/loadcalc/internal/engine"
)

// Column widths for the property table.
const (
	propertyKeyWidth   = 24
	propertyValueWidth = 14
	separatorWidth     = 70
	minTruncateLen     = 3
)

// RenderLoadDelta renders a signed load change with a direction arrow.
// Increases use the warning color since they mean more cooling.
func RenderLoadDelta(delta float64) string {
	rounded := math.Round(delta)

	var icon, sign string
	var color lipgloss.Color

	switch {
	case rounded > 0:
		icon = IconArrowUp
		sign = "+"
		color = ColorWarning
	case rounded < 0:
		icon = IconArrowDown
		sign = "-"
		color = ColorOK
	default:
		icon = IconArrowRight
		color = ColorMuted
	}

	style := lipgloss.NewStyle().Foreground(color).Bold(true)
	return style.Render(fmt.Sprintf("%s%s %s", sign, formatBTUh(math.Abs(rounded)), icon))
}

// RenderEditorHeader renders the title block of the editor.
func RenderEditorHeader(name, climateZone string) string {
	var sb strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorHeader).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)

	sb.WriteString(titleStyle.Render("What-If Cooling Load"))
	sb.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().Foreground(ColorLabel)
	valueStyle := lipgloss.NewStyle().Foreground(ColorValue).Bold(true)

	if name == "" {
		name = "(unnamed)"
	}
	sb.WriteString(labelStyle.Render("Project: "))
	sb.WriteString(valueStyle.Render(name))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("Climate: "))
	sb.WriteString(valueStyle.Render(climateZone))

	return sb.String()
}

// RenderLoadComparison renders required capacity and recommended equipment
// before and after the edits.
func RenderLoadComparison(baseline, modified *engine.Estimate) string {
	labelStyle := lipgloss.NewStyle().Foreground(ColorLabel)
	valueStyle := lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	muted := lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)

	if baseline == nil {
		return muted.Render("No estimate yet")
	}
	if modified == nil {
		modified = baseline
	}

	line := func(label string, est *engine.Estimate) string {
		return labelStyle.Render(label) +
			valueStyle.Render(formatBTUh(est.Breakdown.TotalCapacityBTUh)) +
			labelStyle.Render(fmt.Sprintf("  -> %s (%.2f t, %s)",
				formatBTUh(est.Sizing.RecommendedCapacityBTUh),
				est.Sizing.RecommendedTonnage,
				est.Sizing.EquipmentClass))
	}

	var sb strings.Builder
	sb.WriteString(line("Baseline:  ", baseline))
	sb.WriteString("\n")
	sb.WriteString(line("Modified:  ", modified))
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("Change:    "))
	sb.WriteString(RenderLoadDelta(modified.Breakdown.TotalCapacityBTUh - baseline.Breakdown.TotalCapacityBTUh))
	if modified.Sizing.RecommendedCapacityBTUh != baseline.Sizing.RecommendedCapacityBTUh ||
		modified.Sizing.UnitsRequired != baseline.Sizing.UnitsRequired {
		sb.WriteString("  ")
		sb.WriteString(lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true).Render("equipment size changes"))
	}
	return sb.String()
}

// RenderPropertyTableHeader renders the column headings of the property table.
func RenderPropertyTableHeader() string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	sb.WriteString(headerStyle.Render("Properties:"))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", separatorWidth))
	sb.WriteString("\n")

	labelStyle := lipgloss.NewStyle().Foreground(ColorLabel)
	sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-*s %-*s %-*s %s",
		propertyKeyWidth, "Property", propertyValueWidth, "Original", propertyValueWidth, "Modified", "Δ Load")))
	return sb.String()
}

// renderPropertyRow renders a single property row. editBuffer replaces the
// current value while the row is being edited.
func renderPropertyRow(prop PropertyRow, focused, editing bool, editBuffer string) string {
	var sb strings.Builder

	switch {
	case focused && editing:
		sb.WriteString("> ")
	case focused:
		sb.WriteString("→ ")
	default:
		sb.WriteString("  ")
	}

	keyStyle := lipgloss.NewStyle().Foreground(ColorLabel)
	valueStyle := lipgloss.NewStyle().Foreground(ColorValue)
	modifiedStyle := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)

	sb.WriteString(keyStyle.Render(fmt.Sprintf("%-*s ", propertyKeyWidth, truncate(prop.Key, propertyKeyWidth))))
	sb.WriteString(valueStyle.Render(fmt.Sprintf("%-*s ", propertyValueWidth,
		truncate(prop.OriginalValue, propertyValueWidth))))

	current := prop.CurrentValue
	if editing {
		current = editBuffer + "▌"
	}
	currFormatted := fmt.Sprintf("%-*s ", propertyValueWidth, truncate(current, propertyValueWidth))
	if editing || prop.CurrentValue != prop.OriginalValue {
		sb.WriteString(modifiedStyle.Render(currFormatted))
	} else {
		sb.WriteString(valueStyle.Render(currFormatted))
	}

	switch {
	case prop.Invalid:
		sb.WriteString(lipgloss.NewStyle().Foreground(ColorError).Render("(invalid)"))
	case prop.LoadDelta != 0:
		sb.WriteString(RenderLoadDelta(prop.LoadDelta))
	case prop.CurrentValue != prop.OriginalValue:
		sb.WriteString(lipgloss.NewStyle().Foreground(ColorMuted).Render("(pending)"))
	}

	return sb.String()
}

// truncate shortens s to maxLen runes with an ellipsis.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= minTruncateLen {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-minTruncateLen]) + "..."
}

// RenderTips renders the tip codes of an estimate.
func RenderTips(est *engine.Estimate) string {
	if est == nil || len(est.Sizing.Tips) == 0 {
		return ""
	}
	headerStyle := lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	itemStyle := lipgloss.NewStyle().Foreground(ColorValue)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Tips:"))
	for _, tip := range est.Sizing.Tips {
		sb.WriteString("\n  - ")
		sb.WriteString(itemStyle.Render(strings.ReplaceAll(string(tip), "_", " ")))
	}
	return sb.String()
}

// RenderEditorHelp renders the keyboard shortcut help text.
func RenderEditorHelp() string {
	helpStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	shortcuts := []string{
		"↑/↓: Navigate",
		"Enter: Edit",
		"Esc: Cancel edit",
		"ctrl+r: Reset",
		"q: Quit",
	}

	return helpStyle.Render(strings.Join(shortcuts, " | "))
}

// RenderError renders an inline error line.
func RenderError(err error) string {
	return lipgloss.NewStyle().Foreground(ColorError).Render("Error: " + err.Error())
}
