package frontend

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed lang/*.toml
var embeddedLang embed.FS

// DefaultLang is used when no catalog matches the requested language.
const DefaultLang = "en"

// langNames are the native names of the embedded catalogs.
var langNames = map[string]string{
	"de": "Deutsch",
	"en": "English",
}

// Translator looks up front-end strings in one language catalog.
type Translator struct {
	lang     string
	catalog  map[string]string
	fallback map[string]string
}

// NewTranslator loads the catalog for lang. lang may be a locale such as
// "de_DE.UTF-8"; only the language part is used.
func NewTranslator(lang string) (*Translator, error) {
	fallback, err := loadCatalog(DefaultLang)
	if err != nil {
		return nil, err
	}
	t := &Translator{lang: DefaultLang, catalog: fallback, fallback: fallback}

	code := normalizeLang(lang)
	if code == "" || code == DefaultLang {
		return t, nil
	}
	if catalog, err := loadCatalog(code); err == nil {
		t.lang = code
		t.catalog = catalog
	}
	return t, nil
}

func loadCatalog(code string) (map[string]string, error) {
	data, err := embeddedLang.ReadFile("lang/" + code + ".toml")
	if err != nil {
		return nil, fmt.Errorf("no catalog for %q: %w", code, err)
	}
	var catalog map[string]string
	if err := toml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %q: %w", code, err)
	}
	return catalog, nil
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "_.-@"); i >= 0 {
		lang = lang[:i]
	}
	if lang == "c" || lang == "posix" {
		return ""
	}
	return lang
}

// Lang returns the language code in use.
func (t *Translator) Lang() string { return t.lang }

// T returns the translation of name, falling back to English and then to
// name itself.
func (t *Translator) T(name string) string {
	if s, ok := t.catalog[name]; ok {
		return s
	}
	if s, ok := t.fallback[name]; ok {
		return s
	}
	return name
}

// Langs lists the embedded catalogs as [code, name] pairs sorted by code.
// A catalog without a known native name is listed under its code.
func (t *Translator) Langs() [][2]string {
	entries, err := fs.ReadDir(embeddedLang, "lang")
	if err != nil {
		return nil
	}
	out := make([][2]string, 0, len(entries))
	for _, e := range entries {
		code, ok := strings.CutSuffix(e.Name(), ".toml")
		if !ok || e.IsDir() {
			continue
		}
		name := langNames[code]
		if name == "" {
			name = code
		}
		out = append(out, [2]string{code, name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
