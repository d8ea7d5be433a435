// Package report turns an estimate into a presentable document. All display
// text comes from injected Labels keyed by the semantic codes the
// calculation emits, so the calculation itself carries no prose and a
// report can be produced in any locale with a label file.
package report

import (
	"github.com/google/uuid"

	"github.com/rshade/loadcalc/internal/load"
	"github.com/rshade/loadcalc/internal/project"
	"github.com/rshade/loadcalc/internal/recommend"
)

// documentNamespace seeds name-based document IDs.
var documentNamespace = uuid.MustParse("6f1c8a3e-2b7d-5e94-a0c1-3d5f7b9e1a24")

// Branding identifies who issues the report.
type Branding struct {
	CompanyName string `yaml:"company_name" json:"company_name"`
	Contact     string `yaml:"contact"      json:"contact"`
	Website     string `yaml:"website"      json:"website"`
	// Disclaimer replaces the locale's default disclaimer when set.
	Disclaimer string `yaml:"disclaimer" json:"disclaimer"`
}

// Input is what the report consumes. Key, when set, makes the document ID
// reproducible for the same estimate.
type Input struct {
	Key       string
	State     project.ProjectState
	Breakdown load.Breakdown
	Sizing    recommend.Sizing
}

// Field is one labelled summary value.
type Field struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// SourceRow is one line of the load breakdown.
type SourceRow struct {
	Source string  `json:"source"`
	Label  string  `json:"label"`
	BTUh   float64 `json:"btuh"`
	Share  float64 `json:"share"`
	Load   string  `json:"load"`
	// Percent is Share formatted for the locale.
	Percent string `json:"percent"`
}

// SegmentRow is one wall or window line.
type SegmentRow struct {
	ID   string `json:"id"`
	Area string `json:"area"`
	Gain string `json:"gain"`
}

// Message is a tip or warning with its code and rendered text.
type Message struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// Document is the format-agnostic report.
type Document struct {
	ID         string       `json:"id"`
	Locale     string       `json:"locale"`
	Title      string       `json:"title"`
	Brand      Branding     `json:"brand"`
	Headline   string       `json:"headline"`
	Summary    []Field      `json:"summary"`
	Sources    []SourceRow  `json:"sources"`
	Internal   []SourceRow  `json:"internal"`
	Walls      []SegmentRow `json:"walls"`
	Windows    []SegmentRow `json:"windows"`
	Tips       []Message    `json:"tips"`
	Warnings   []Message    `json:"warnings"`
	Disclaimer string       `json:"disclaimer"`

	// Labels used by renderers for section and column headings.
	Headings map[string]string `json:"headings"`
}

var headingKeys = []string{
	"section.summary", "section.breakdown", "section.internal", "section.walls",
	"section.windows", "section.tips", "section.warnings",
	"column.source", "column.load", "column.share", "column.id", "column.area", "column.gain",
}

// FormatReport builds a Document from an estimate. Sources with zero gain
// are omitted from the breakdown; shares are of the pre-margin subtotal.
func FormatReport(in Input, labels Labels, brand Branding) Document {
	num := newNumberFormatter(labels.Tag())
	btuh := func(v float64) string { return num.Int(v) + " " + labels.Get("unit.btuh") }

	id := uuid.New()
	if in.Key != "" {
		id = uuid.NewSHA1(documentNamespace, []byte(in.Key+"|"+labels.Locale))
	}

	b, s := in.Breakdown, in.Sizing
	doc := Document{
		ID:       id.String(),
		Locale:   labels.Locale,
		Title:    labels.Get("title"),
		Brand:    brand,
		Headline: btuh(s.RecommendedCapacityBTUh) + " (" + num.Decimal(s.RecommendedTonnage, 2) + " " + labels.Get("unit.tons") + ")",
		Sources:  []SourceRow{},
		Internal: []SourceRow{},
		Walls:    make([]SegmentRow, 0, len(b.Walls)),
		Windows:  make([]SegmentRow, 0, len(b.Windows)),
		Tips:     make([]Message, 0, len(s.Tips)),
		Warnings: make([]Message, 0, len(b.Warnings)),
		Headings: make(map[string]string, len(headingKeys)),
	}

	if in.State.Name != "" {
		doc.Summary = append(doc.Summary, Field{"project", labels.Get("summary.project"), in.State.Name})
	}
	doc.Summary = append(doc.Summary,
		Field{"total_load", labels.Get("summary.total_load"), btuh(b.TotalCapacityBTUh)},
		Field{"subtotal", labels.Get("summary.subtotal"), btuh(b.SubtotalBTUh)},
		Field{"margin", labels.Get("summary.margin"), num.Percent(b.MarginApplied)},
		Field{"recommended", labels.Get("summary.recommended"), btuh(s.RecommendedCapacityBTUh)},
		Field{"tonnage", labels.Get("summary.tonnage"), num.Decimal(s.RecommendedTonnage, 2)},
		Field{"equipment_class", labels.Get("summary.equipment_class"), labels.Get("class." + string(s.EquipmentClass))},
	)
	if s.MultiUnitRequired {
		doc.Summary = append(doc.Summary,
			Field{"units_required", labels.Get("summary.units_required"), num.Int(float64(s.UnitsRequired))})
	}
	doc.Summary = append(doc.Summary,
		Field{"dominant_source", labels.Get("summary.dominant_source"), labels.Get("source." + string(s.DominantLoadSource))},
		Field{"climate_zone", labels.Get("summary.climate_zone"), labels.Get("climate." + string(b.ClimateZone))},
		Field{"design_delta", labels.Get("summary.design_delta"), num.Decimal(b.DesignDeltaF, 1) + " " + labels.Get("unit.deg_f")},
	)

	for _, src := range load.Sources() {
		gain := b.Gain(src)
		if gain <= 0 {
			continue
		}
		doc.Sources = append(doc.Sources, SourceRow{
			Source:  string(src),
			Label:   labels.Get("source." + string(src)),
			BTUh:    gain,
			Share:   b.Share(src),
			Load:    btuh(gain),
			Percent: num.Percent(b.Share(src)),
		})
	}

	internal := []struct {
		key  string
		btuh float64
	}{
		{"people", b.Internal.PeopleBTUh},
		{"equipment", b.Internal.EquipmentBTUh},
		{"lighting", b.Internal.LightingBTUh},
		{"cooking", b.Internal.CookingBTUh},
	}
	for _, item := range internal {
		if item.btuh <= 0 {
			continue
		}
		share := 0.0
		if b.SubtotalBTUh > 0 {
			share = item.btuh / b.SubtotalBTUh
		}
		doc.Internal = append(doc.Internal, SourceRow{
			Source:  item.key,
			Label:   labels.Get("internal." + item.key),
			BTUh:    item.btuh,
			Share:   share,
			Load:    btuh(item.btuh),
			Percent: num.Percent(share),
		})
	}

	area := func(m2 float64) string { return num.Decimal(m2, 2) + " " + labels.Get("unit.m2") }
	for _, w := range b.Walls {
		doc.Walls = append(doc.Walls, SegmentRow{ID: w.ID, Area: area(w.AreaM2), Gain: btuh(w.GainBTUh)})
	}
	for _, w := range b.Windows {
		doc.Windows = append(doc.Windows, SegmentRow{ID: w.ID, Area: area(w.AreaM2), Gain: btuh(w.GainBTUh)})
	}

	for _, tip := range s.Tips {
		doc.Tips = append(doc.Tips, Message{Code: string(tip), Text: labels.Get("tip." + string(tip))})
	}
	for _, w := range b.Warnings {
		doc.Warnings = append(doc.Warnings, Message{Code: string(w), Text: labels.Get("warning." + string(w))})
	}

	doc.Disclaimer = labels.Get("disclaimer")
	if brand.Disclaimer != "" {
		doc.Disclaimer = brand.Disclaimer
	}
	for _, k := range headingKeys {
		doc.Headings[k] = labels.Get(k)
	}
	return doc
}
