package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/loadcalc/internal/engine"
	"github.com/rshade/loadcalc/internal/recommend"
)

// TestRenderLoadDelta tests the delta visualization component.
func TestRenderLoadDelta(t *testing.T) {
	t.Run("renders increase with plus sign and up arrow", func(t *testing.T) {
		result := RenderLoadDelta(1234.4)

		assert.Contains(t, result, "+")
		assert.Contains(t, result, IconArrowUp)
		assert.Contains(t, result, "1,234 BTU/h")
	})

	t.Run("renders decrease with down arrow", func(t *testing.T) {
		result := RenderLoadDelta(-560)

		assert.NotContains(t, result, "+")
		assert.Contains(t, result, IconArrowDown)
		assert.Contains(t, result, "560 BTU/h")
	})

	t.Run("rounds sub-unit changes to zero", func(t *testing.T) {
		result := RenderLoadDelta(0.3)

		assert.Contains(t, result, IconArrowRight)
		assert.Contains(t, result, "0 BTU/h")
	})
}

func TestRenderEditorHeader(t *testing.T) {
	t.Run("renders project and climate", func(t *testing.T) {
		result := RenderEditorHeader("office", "hot-humid")

		assert.Contains(t, result, "What-If")
		assert.Contains(t, result, "office")
		assert.Contains(t, result, "hot-humid")
	})

	t.Run("placeholder for unnamed project", func(t *testing.T) {
		assert.Contains(t, RenderEditorHeader("", "temperate"), "(unnamed)")
	})
}

func estimateWith(total, recommended float64, units int) *engine.Estimate {
	est := &engine.Estimate{}
	est.Breakdown.TotalCapacityBTUh = total
	est.Sizing = recommend.Sizing{
		RecommendedCapacityBTUh: recommended,
		RecommendedTonnage:      recommended / 12000,
		EquipmentClass:          recommend.ClassMiniSplit,
		UnitsRequired:           units,
	}
	return est
}

func TestRenderLoadComparison(t *testing.T) {
	t.Run("no estimate yet", func(t *testing.T) {
		assert.Contains(t, RenderLoadComparison(nil, nil), "No estimate yet")
	})

	t.Run("same step", func(t *testing.T) {
		result := RenderLoadComparison(estimateWith(10000, 12000, 1), estimateWith(10500, 12000, 1))

		assert.Contains(t, result, "10,000 BTU/h")
		assert.Contains(t, result, "10,500 BTU/h")
		assert.Contains(t, result, "12,000 BTU/h")
		assert.Contains(t, result, "+500 BTU/h")
		assert.NotContains(t, result, "equipment size changes")
	})

	t.Run("step change is flagged", func(t *testing.T) {
		result := RenderLoadComparison(estimateWith(11000, 12000, 1), estimateWith(13000, 18000, 1))

		assert.Contains(t, result, "equipment size changes")
		assert.Contains(t, result, "1.50 t")
	})

	t.Run("nil modified compares baseline with itself", func(t *testing.T) {
		result := RenderLoadComparison(estimateWith(9000, 9000, 1), nil)

		assert.Contains(t, result, IconArrowRight)
	})
}

func TestRenderPropertyRow(t *testing.T) {
	tests := []struct {
		name     string
		row      PropertyRow
		focused  bool
		editing  bool
		buffer   string
		contains []string
		absent   []string
	}{
		{
			name:     "unchanged row",
			row:      PropertyRow{Key: "occupants", OriginalValue: "2", CurrentValue: "2"},
			contains: []string{"occupants", "2"},
			absent:   []string{"→", "(pending)", "(invalid)"},
		},
		{
			name:     "focused row has cursor",
			row:      PropertyRow{Key: "occupants", OriginalValue: "2", CurrentValue: "2"},
			focused:  true,
			contains: []string{"→ "},
		},
		{
			name:     "editing shows buffer with caret",
			row:      PropertyRow{Key: "occupants", OriginalValue: "2", CurrentValue: "2"},
			focused:  true,
			editing:  true,
			buffer:   "5",
			contains: []string{"> ", "5▌"},
		},
		{
			name:     "changed row without delta is pending",
			row:      PropertyRow{Key: "occupants", OriginalValue: "2", CurrentValue: "4"},
			contains: []string{"(pending)"},
		},
		{
			name:     "changed row shows delta",
			row:      PropertyRow{Key: "occupants", OriginalValue: "2", CurrentValue: "4", LoadDelta: 900},
			contains: []string{"+900 BTU/h", IconArrowUp},
		},
		{
			name:     "invalid row",
			row:      PropertyRow{Key: "occupants", OriginalValue: "2", CurrentValue: "x", Invalid: true},
			contains: []string{"(invalid)"},
			absent:   []string{"(pending)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := renderPropertyRow(tt.row, tt.focused, tt.editing, tt.buffer)
			for _, s := range tt.contains {
				assert.Contains(t, result, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, result, s)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"ceiling.exposed_to_sun", 10, "ceiling..."},
		{"abcdef", 3, "abc"},
		{"ñandú-ñandú", 8, "ñandú..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.maxLen), tt.in)
	}
}

func TestRenderTips(t *testing.T) {
	assert.Empty(t, RenderTips(nil))
	assert.Empty(t, RenderTips(estimateWith(1, 1, 1)))

	est := estimateWith(1, 1, 1)
	est.Sizing.Tips = []recommend.Tip{recommend.TipAddWindowProtection, recommend.TipPreferInverter}
	result := RenderTips(est)
	assert.Contains(t, result, "Tips:")
	assert.Contains(t, result, "add window protection")
	assert.Contains(t, result, "prefer inverter")
}

func TestRenderEditorHelpAndError(t *testing.T) {
	help := RenderEditorHelp()
	for _, s := range []string{"Navigate", "Edit", "Reset", "Quit"} {
		assert.Contains(t, help, s)
	}
	assert.True(t, strings.Contains(RenderError(errors.New("boom")), "Error: boom"))
}
