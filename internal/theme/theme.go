// Package theme loads the user's stylesheet override. It is applied above
// the bundled page stylesheets and reloaded when the file changes.
package theme

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jmylchreest/relaydesk/internal/config"
	"github.com/jmylchreest/relaydesk/internal/frontend"
)

// FileName is the override stylesheet's name in the config directory.
const FileName = "style.css"

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// UserPath returns the override stylesheet path.
func UserPath() string {
	return filepath.Join(config.ConfigDir(), FileName)
}

// Stylesheet is a CSS file with its imports inlined.
type Stylesheet struct {
	Path    string
	CSS     string
	ModTime time.Time
}

// Load reads the stylesheet at path. CSS @import statements are resolved
// and inlined.
func Load(path string) (*Stylesheet, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	css, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Stylesheet{
		Path:    path,
		CSS:     Inline(string(css), filepath.Dir(path), nil),
		ModTime: info.ModTime(),
	}, nil
}

// Inline resolves @import statements relative to baseDir. Imports that are
// not on disk fall back to the bundled page stylesheets, so "home.css"
// pulls in the stock home page rules. The seen map prevents cycles.
func Inline(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		importPath := submatch[1]

		fullPath := importPath
		if !filepath.IsAbs(importPath) {
			fullPath = filepath.Join(baseDir, importPath)
		}
		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		imported, err := os.ReadFile(fullPath)
		if err != nil {
			if bundled, ok := bundledPage(importPath); ok {
				return "/* imported (bundled): " + importPath + " */\n" + bundled
			}
			return "/* import failed: " + importPath + " - " + err.Error() + " */"
		}
		return "/* imported: " + importPath + " */\n" + Inline(string(imported), filepath.Dir(fullPath), seen)
	})
}

func bundledPage(importPath string) (string, bool) {
	name := strings.TrimSuffix(filepath.Base(importPath), ".css")
	return frontend.Stylesheet(frontend.Page(name))
}

// Reload rereads the file if its modification time moved forward.
// Returns true if the CSS changed.
func (s *Stylesheet) Reload() (bool, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return false, err
	}
	if !info.ModTime().After(s.ModTime) {
		return false, nil
	}

	css, err := os.ReadFile(s.Path)
	if err != nil {
		return false, err
	}
	processed := Inline(string(css), filepath.Dir(s.Path), nil)

	old := s.CSS
	s.CSS = processed
	s.ModTime = info.ModTime()
	return old != s.CSS, nil
}
