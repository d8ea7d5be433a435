package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Format selects a renderer.
type Format string

// Supported output formats.
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// ErrUnknownFormat is returned for an unsupported Format.
const ErrUnknownFormat = constError("unknown report format")

type constError string

func (e constError) Error() string { return string(e) }

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatText, FormatMarkdown, FormatHTML, FormatJSON}
}

// ParseFormat accepts a format name or a common alias ("md", "table").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "table":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q (valid: text, markdown, html, json)", ErrUnknownFormat, s)
}

// Render writes doc to w in the given format.
func Render(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatText, "":
		return RenderText(w, doc)
	case FormatMarkdown:
		return RenderMarkdown(w, doc)
	case FormatHTML:
		return RenderHTML(w, doc)
	case FormatJSON:
		return RenderJSON(w, doc)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// RenderJSON writes the document as indented JSON.
func RenderJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Terminal styles. lipgloss drops colors when the output is not a TTY.
var (
	colorHeader  = lipgloss.Color("12")
	colorLabel   = lipgloss.Color("245")
	colorValue   = lipgloss.Color("15")
	colorWarning = lipgloss.Color("214")
	colorMuted   = lipgloss.Color("241")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHeader).
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(colorHeader)
	labelStyle   = lipgloss.NewStyle().Foreground(colorLabel)
	valueStyle   = lipgloss.NewStyle().Foreground(colorValue).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(colorWarning)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
)

// RenderText writes a terminal-friendly report.
func RenderText(w io.Writer, doc Document) error {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(doc.Title))
	sb.WriteString("\n")
	if doc.Brand.CompanyName != "" {
		sb.WriteString(mutedStyle.Render(brandLine(doc.Brand)))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(headingStyle.Render(doc.Headings["section.summary"]))
	sb.WriteString("\n")
	width := 0
	for _, f := range doc.Summary {
		width = max(width, lipgloss.Width(f.Label))
	}
	for _, f := range doc.Summary {
		sb.WriteString("  ")
		sb.WriteString(labelStyle.Render(padRight(f.Label+":", width+1)))
		sb.WriteString(" ")
		sb.WriteString(valueStyle.Render(f.Value))
		sb.WriteString("\n")
	}

	writeTextRows(&sb, doc.Headings["section.breakdown"], doc.Sources)
	writeTextRows(&sb, doc.Headings["section.internal"], doc.Internal)
	writeTextSegments(&sb, doc.Headings["section.walls"], doc.Walls)
	writeTextSegments(&sb, doc.Headings["section.windows"], doc.Windows)

	if len(doc.Tips) > 0 {
		sb.WriteString("\n")
		sb.WriteString(headingStyle.Render(doc.Headings["section.tips"]))
		sb.WriteString("\n")
		for _, t := range doc.Tips {
			sb.WriteString("  - " + t.Text + "\n")
		}
	}
	if len(doc.Warnings) > 0 {
		sb.WriteString("\n")
		sb.WriteString(headingStyle.Render(doc.Headings["section.warnings"]))
		sb.WriteString("\n")
		for _, m := range doc.Warnings {
			sb.WriteString("  " + warnStyle.Render("! "+m.Text) + "\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(doc.Disclaimer))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTextRows(sb *strings.Builder, heading string, rows []SourceRow) {
	if len(rows) == 0 {
		return
	}
	sb.WriteString("\n")
	sb.WriteString(headingStyle.Render(heading))
	sb.WriteString("\n")
	labelW, loadW := 0, 0
	for _, r := range rows {
		labelW = max(labelW, lipgloss.Width(r.Label))
		loadW = max(loadW, lipgloss.Width(r.Load))
	}
	for _, r := range rows {
		fmt.Fprintf(sb, "  %s  %s  %s\n",
			labelStyle.Render(padRight(r.Label, labelW)),
			valueStyle.Render(padLeft(r.Load, loadW)),
			padLeft(r.Percent, 4))
	}
}

func writeTextSegments(sb *strings.Builder, heading string, rows []SegmentRow) {
	if len(rows) == 0 {
		return
	}
	sb.WriteString("\n")
	sb.WriteString(headingStyle.Render(heading))
	sb.WriteString("\n")
	idW, areaW := 0, 0
	for _, r := range rows {
		idW = max(idW, lipgloss.Width(r.ID))
		areaW = max(areaW, lipgloss.Width(r.Area))
	}
	for _, r := range rows {
		fmt.Fprintf(sb, "  %s  %s  %s\n",
			labelStyle.Render(padRight(r.ID, idW)),
			padLeft(r.Area, areaW),
			valueStyle.Render(r.Gain))
	}
}

func padRight(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func padLeft(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

func brandLine(b Branding) string {
	parts := []string{b.CompanyName}
	if b.Contact != "" {
		parts = append(parts, b.Contact)
	}
	if b.Website != "" {
		parts = append(parts, b.Website)
	}
	return strings.Join(parts, " · ")
}

// RenderMarkdown writes the report as GitHub-flavored markdown.
func RenderMarkdown(w io.Writer, doc Document) error {
	_, err := io.WriteString(w, markdown(doc))
	return err
}

func markdown(doc Document) string {
	var sb strings.Builder
	h := doc.Headings

	fmt.Fprintf(&sb, "# %s\n\n", mdEscape(doc.Title))
	if doc.Brand.CompanyName != "" {
		fmt.Fprintf(&sb, "_%s_\n\n", mdEscape(brandLine(doc.Brand)))
	}
	fmt.Fprintf(&sb, "**%s**\n\n", mdEscape(doc.Headline))

	fmt.Fprintf(&sb, "## %s\n\n", mdEscape(h["section.summary"]))
	for _, f := range doc.Summary {
		fmt.Fprintf(&sb, "- **%s:** %s\n", mdEscape(f.Label), mdEscape(f.Value))
	}

	writeMarkdownRows(&sb, h, h["section.breakdown"], doc.Sources)
	writeMarkdownRows(&sb, h, h["section.internal"], doc.Internal)
	writeMarkdownSegments(&sb, h, h["section.walls"], doc.Walls)
	writeMarkdownSegments(&sb, h, h["section.windows"], doc.Windows)

	if len(doc.Tips) > 0 {
		fmt.Fprintf(&sb, "\n## %s\n\n", mdEscape(h["section.tips"]))
		for _, t := range doc.Tips {
			fmt.Fprintf(&sb, "- %s\n", mdEscape(t.Text))
		}
	}
	if len(doc.Warnings) > 0 {
		fmt.Fprintf(&sb, "\n## %s\n\n", mdEscape(h["section.warnings"]))
		for _, m := range doc.Warnings {
			fmt.Fprintf(&sb, "- %s\n", mdEscape(m.Text))
		}
	}

	fmt.Fprintf(&sb, "\n---\n\n_%s_\n", mdEscape(doc.Disclaimer))
	return sb.String()
}

func writeMarkdownRows(sb *strings.Builder, h map[string]string, heading string, rows []SourceRow) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n## %s\n\n", mdEscape(heading))
	fmt.Fprintf(sb, "| %s | %s | %s |\n|---|---:|---:|\n",
		mdEscape(h["column.source"]), mdEscape(h["column.load"]), mdEscape(h["column.share"]))
	for _, r := range rows {
		fmt.Fprintf(sb, "| %s | %s | %s |\n", mdEscape(r.Label), mdEscape(r.Load), mdEscape(r.Percent))
	}
}

func writeMarkdownSegments(sb *strings.Builder, h map[string]string, heading string, rows []SegmentRow) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n## %s\n\n", mdEscape(heading))
	fmt.Fprintf(sb, "| %s | %s | %s |\n|---|---:|---:|\n",
		mdEscape(h["column.id"]), mdEscape(h["column.area"]), mdEscape(h["column.gain"]))
	for _, r := range rows {
		fmt.Fprintf(sb, "| %s | %s | %s |\n", mdEscape(r.ID), mdEscape(r.Area), mdEscape(r.Gain))
	}
}

var mdReplacer = strings.NewReplacer(
	`\`, `\\`, "|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`", "<", "&lt;", ">", "&gt;",
)

func mdEscape(s string) string { return mdReplacer.Replace(s) }

// RenderHTML converts the markdown rendering to a standalone HTML page.
func RenderHTML(w io.Writer, doc Document) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var body bytes.Buffer
	if err := md.Convert([]byte(markdown(doc)), &body); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	fmt.Fprintf(&sb, "<html lang=\"%s\">\n<head>\n<meta charset=\"utf-8\">\n", html.EscapeString(doc.Locale))
	fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(doc.Title))
	sb.WriteString("<style>body{font-family:sans-serif;max-width:48rem;margin:2rem auto}" +
		"table{border-collapse:collapse}td,th{padding:.25rem .75rem;border-bottom:1px solid #ddd}</style>\n")
	fmt.Fprintf(&sb, "</head>\n<body data-report-id=\"%s\">\n", html.EscapeString(doc.ID))
	sb.Write(body.Bytes())
	sb.WriteString("</body>\n</html>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
