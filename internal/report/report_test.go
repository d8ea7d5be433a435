package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/loadcalc/internal/factors"
	"github.com/rshade/loadcalc/internal/load"
	"github.com/rshade/loadcalc/internal/project"
	"github.com/rshade/loadcalc/internal/recommend"
)

func sampleInput(t *testing.T) Input {
	t.Helper()
	s := project.CreateDefault()
	s.Name = "Office"
	s.Dimensions = project.Dimensions{Length: 4, Width: 2.5, Height: 2.5}
	s.RoomVolume = 25
	s.AddWall(project.WallSegment{ID: "south", Area: 10, Material: factors.MaterialStandardBrick,
		Orientation: factors.OrientationS, SunExposure: factors.ExposureFull})
	s.AddWindow(project.WindowSegment{ID: "front", Area: 2, GlassType: factors.GlassSinglePane,
		Protection: factors.ProtectionNone, Orientation: factors.OrientationS})
	s.Ceiling = project.Ceiling{Type: factors.CeilingFlat, Color: factors.ColorDark, ExposedToSun: true}
	s.Occupants = 2
	s.EquipmentLoadWatts = 300
	s.UsagePattern = factors.UsageContinuous
	s = project.Normalize(s)

	b, err := load.ComputeLoad(s, factors.Default())
	require.NoError(t, err)
	return Input{
		Key:       "abc123",
		State:     s,
		Breakdown: b,
		Sizing:    recommend.Recommend(b, s, recommend.DefaultLadder()),
	}
}

func english(t *testing.T) Labels {
	t.Helper()
	l, err := LoadLabels("en")
	require.NoError(t, err)
	return l
}

func TestLoadLabels_Matching(t *testing.T) {
	tests := []struct {
		requested string
		want      string
	}{
		{"", "en"},
		{"en", "en"},
		{"en-GB", "en"},
		{"es", "es"},
		{"es-MX", "es"},
		{"es-ES,es;q=0.9,en;q=0.8", "es"},
		{"fr", "en"},
		{"not a tag!!", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.requested, func(t *testing.T) {
			l, err := LoadLabels(tt.requested)
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.Locale)
		})
	}
}

func TestLoadLabels_EveryLocaleCoversEnglish(t *testing.T) {
	en := english(t)
	for _, name := range Locales() {
		raw, err := readEmbedded(name)
		require.NoError(t, err)
		for key := range en.Strings {
			assert.Contains(t, raw.Strings, key, "locale %s", name)
		}
	}
}

func TestLabels_MissingKeyRendersKey(t *testing.T) {
	assert.Equal(t, "tip.unheard_of", english(t).Get("tip.unheard_of"))
}

func TestLoadLabelsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.yaml")
	require.NoError(t, os.WriteFile(path, []byte("locale: es\nstrings:\n  title: Informe de carga\n"), 0o600))

	l, err := LoadLabelsFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Informe de carga", l.Get("title"))
	es, err := LoadLabels("es")
	require.NoError(t, err)
	assert.Equal(t, es.Get("tip.prefer_inverter"), l.Get("tip.prefer_inverter"))

	_, err = LoadLabelsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestFormatReport(t *testing.T) {
	in := sampleInput(t)
	doc := FormatReport(in, english(t), Branding{CompanyName: "Frio SA"})

	assert.Equal(t, "en", doc.Locale)
	assert.Equal(t, "Cooling load report", doc.Title)
	assert.Equal(t, "12,000 BTU/h (1.00 tons)", doc.Headline)

	summary := map[string]string{}
	for _, f := range doc.Summary {
		summary[f.Key] = f.Value
	}
	assert.Equal(t, "Office", summary["project"])
	assert.Equal(t, "11,582 BTU/h", summary["total_load"])
	assert.Equal(t, "10%", summary["margin"])
	assert.Equal(t, "Mini-split", summary["equipment_class"])
	assert.Equal(t, "Windows", summary["dominant_source"])
	assert.NotContains(t, summary, "units_required")

	require.Len(t, doc.Sources, 5)
	assert.Equal(t, "window", doc.Sources[1].Source)
	assert.Equal(t, "5,110 BTU/h", doc.Sources[1].Load)
	assert.Equal(t, "49%", doc.Sources[1].Percent)

	require.Len(t, doc.Internal, 2)
	assert.Equal(t, "people", doc.Internal[0].Source)
	assert.Equal(t, "900 BTU/h", doc.Internal[0].Load)

	require.Len(t, doc.Walls, 1)
	assert.Equal(t, SegmentRow{ID: "south", Area: "10.00 m²", Gain: "1,671 BTU/h"}, doc.Walls[0])

	codes := make([]string, 0, len(doc.Tips))
	for _, tip := range doc.Tips {
		codes = append(codes, tip.Code)
		assert.NotEqual(t, "tip."+tip.Code, tip.Text)
	}
	assert.Equal(t, []string{"add_window_protection", "prefer_inverter"}, codes)
	assert.Empty(t, doc.Warnings)
}

func TestFormatReport_ZeroSourcesOmitted(t *testing.T) {
	in := sampleInput(t)
	in.Breakdown.WallGainBTUh = 0
	in.Breakdown.Internal.CookingBTUh = 0

	doc := FormatReport(in, english(t), Branding{})

	for _, row := range doc.Sources {
		assert.NotEqual(t, "wall", row.Source)
	}
	assert.Len(t, doc.Sources, 4)
}

func TestFormatReport_IDs(t *testing.T) {
	in := sampleInput(t)
	en := english(t)

	a := FormatReport(in, en, Branding{})
	b := FormatReport(in, en, Branding{})
	assert.Equal(t, a.ID, b.ID)

	in.Key = ""
	c := FormatReport(in, en, Branding{})
	d := FormatReport(in, en, Branding{})
	assert.NotEqual(t, c.ID, d.ID)
}

func TestFormatReport_Spanish(t *testing.T) {
	es, err := LoadLabels("es-AR")
	require.NoError(t, err)

	doc := FormatReport(sampleInput(t), es, Branding{Disclaimer: "Sujeto a visita técnica."})

	assert.Equal(t, "es", doc.Locale)
	assert.Equal(t, "Sujeto a visita técnica.", doc.Disclaimer)
	assert.Contains(t, doc.Headline, "12.000")
	assert.Equal(t, es.Get("source.window"), doc.Sources[1].Label)
}

func TestFormatReport_MultiUnit(t *testing.T) {
	in := sampleInput(t)
	in.Sizing = recommend.Recommend(load.Breakdown{TotalCapacityBTUh: 130000}, in.State, recommend.DefaultLadder())

	doc := FormatReport(in, english(t), Branding{})

	var units string
	for _, f := range doc.Summary {
		if f.Key == "units_required" {
			units = f.Value
		}
	}
	assert.Equal(t, "3", units)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"table", FormatText, false},
		{"MD", FormatMarkdown, false},
		{"html", FormatHTML, false},
		{" json ", FormatJSON, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender(t *testing.T) {
	doc := FormatReport(sampleInput(t), english(t), Branding{CompanyName: "Frio SA", Contact: "ventas@frio.example"})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, doc, FormatText))
		out := buf.String()
		assert.Contains(t, out, "Cooling load report")
		assert.Contains(t, out, "Frio SA")
		assert.Contains(t, out, "5,110 BTU/h")
		assert.Contains(t, out, doc.Tips[0].Text)
		assert.Contains(t, out, doc.Disclaimer)
	})

	t.Run("markdown", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, doc, FormatMarkdown))
		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "# Cooling load report\n"))
		assert.Contains(t, out, "| Windows | 5,110 BTU/h | 49% |")
		assert.Contains(t, out, "| south | 10.00 m² | 1,671 BTU/h |")
		assert.Contains(t, out, "## Recommendations")
	})

	t.Run("html", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, doc, FormatHTML))
		out := buf.String()
		assert.Contains(t, out, `<html lang="en">`)
		assert.Contains(t, out, "<h1>Cooling load report</h1>")
		assert.Contains(t, out, "<table>")
		assert.Contains(t, out, doc.ID)
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, doc, FormatJSON))
		var got Document
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, doc, got)
	})

	t.Run("unknown", func(t *testing.T) {
		require.ErrorIs(t, Render(&bytes.Buffer{}, doc, "pdf"), ErrUnknownFormat)
	})
}

func TestMarkdownEscapesUserText(t *testing.T) {
	in := sampleInput(t)
	in.State.Name = "Office | <b>2</b>"
	doc := FormatReport(in, english(t), Branding{})

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, doc))
	assert.NotContains(t, buf.String(), "<b>2</b>")
}
