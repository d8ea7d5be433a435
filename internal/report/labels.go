package report

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLocale is used when nothing better matches.
const DefaultLocale = "en"

// Labels maps semantic keys to display strings for one locale. Missing keys
// render as the key itself so gaps are visible rather than blank.
type Labels struct {
	Locale  string            `yaml:"locale"`
	Strings map[string]string `yaml:"strings"`

	tag language.Tag
}

// Get returns the label for key.
func (l Labels) Get(key string) string {
	if v, ok := l.Strings[key]; ok {
		return v
	}
	return key
}

// Tag returns the locale as a language tag, used for number formatting.
func (l Labels) Tag() language.Tag {
	if l.tag == language.Und {
		return language.Make(l.Locale)
	}
	return l.tag
}

// Locales returns the embedded locale names.
func Locales() []string {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return []string{DefaultLocale}
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(out)
	return out
}

// LoadLabels returns the embedded labels that best match the requested
// locale, which may be a tag ("es-MX") or an Accept-Language value.
// Keys missing from the matched locale fall back to English.
func LoadLabels(requested string) (Labels, error) {
	available := Locales()
	tags := make([]language.Tag, len(available))
	for i, name := range available {
		tags[i] = language.Make(name)
	}
	// The default goes first so the matcher falls back to it.
	for i, name := range available {
		if name == DefaultLocale {
			tags[0], tags[i] = tags[i], tags[0]
			available[0], available[i] = available[i], available[0]
		}
	}

	desired, _, err := language.ParseAcceptLanguage(requested)
	if err != nil || len(desired) == 0 {
		desired = []language.Tag{language.Make(DefaultLocale)}
	}
	_, idx, _ := language.NewMatcher(tags).Match(desired...)

	base, err := readEmbedded(DefaultLocale)
	if err != nil {
		return Labels{}, err
	}
	if available[idx] == DefaultLocale {
		base.tag = tags[idx]
		return base, nil
	}

	matched, err := readEmbedded(available[idx])
	if err != nil {
		return Labels{}, err
	}
	return matched.withFallback(base), nil
}

// LoadLabelsFile reads a custom label file and fills missing keys from the
// embedded labels of its declared locale.
func LoadLabelsFile(file string) (Labels, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return Labels{}, fmt.Errorf("reading labels %s: %w", file, err)
	}
	custom, err := parseLabels(data)
	if err != nil {
		return Labels{}, fmt.Errorf("%s: %w", file, err)
	}
	base, err := LoadLabels(custom.Locale)
	if err != nil {
		return Labels{}, err
	}
	return custom.withFallback(base), nil
}

func readEmbedded(name string) (Labels, error) {
	data, err := localeFS.ReadFile("locales/" + name + ".yaml")
	if err != nil {
		return Labels{}, fmt.Errorf("locale %q: %w", name, err)
	}
	return parseLabels(data)
}

func parseLabels(data []byte) (Labels, error) {
	var l Labels
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Labels{}, fmt.Errorf("parsing labels: %w", err)
	}
	if l.Locale == "" {
		l.Locale = DefaultLocale
	}
	tag, err := language.Parse(l.Locale)
	if err != nil {
		return Labels{}, fmt.Errorf("parsing labels: locale %q: %w", l.Locale, err)
	}
	l.tag = tag
	return l, nil
}

func (l Labels) withFallback(base Labels) Labels {
	merged := make(map[string]string, len(base.Strings))
	for k, v := range base.Strings {
		merged[k] = v
	}
	for k, v := range l.Strings {
		merged[k] = v
	}
	l.Strings = merged
	return l
}
