package report

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// numberFormatter renders values with the grouping and decimal separators
// of a locale.
type numberFormatter struct {
	p *message.Printer
}

func newNumberFormatter(tag language.Tag) numberFormatter {
	return numberFormatter{p: message.NewPrinter(tag)}
}

// Int renders a rounded integer with thousand separators: 11,582.
func (f numberFormatter) Int(v float64) string {
	return f.p.Sprintf("%d", int64(math.Round(v)))
}

// Decimal renders v with a fixed number of fraction digits: 1,234.57.
func (f numberFormatter) Decimal(v float64, digits int) string {
	return f.p.Sprintf(fmt.Sprintf("%%.%df", digits), v)
}

// Percent renders a fraction as a whole percentage: 0.486 -> 49%.
func (f numberFormatter) Percent(fraction float64) string {
	return f.p.Sprintf("%d%%", int64(math.Round(fraction*100)))
}
