// Package frontend holds the front-end resources selected at launch and the
// contracts between the host window and the native handlers bound to it.
package frontend

import (
	"embed"
	"strings"
)

// Page identifies a front-end resource.
type Page string

const (
	PageHome    Page = "home"
	PageInstall Page = "install"
	PageCM      Page = "cm"
	PageRemote  Page = "remote"
)

// Pages lists every bundled page.
var Pages = []Page{PageHome, PageInstall, PageCM, PageRemote}

// EmbeddedPages contains the stylesheet of every bundled page.
//
//go:embed pages/*.css
var EmbeddedPages embed.FS

const basePartial = "pages/_base.css"

// Stylesheet returns the CSS for a page with the shared base rules prepended.
// Returns false if the page is not bundled.
func Stylesheet(p Page) (string, bool) {
	data, err := EmbeddedPages.ReadFile("pages/" + string(p) + ".css")
	if err != nil {
		return "", false
	}

	var b strings.Builder
	if base, err := EmbeddedPages.ReadFile(basePartial); err == nil {
		b.Write(base)
		b.WriteByte('\n')
	}
	b.Write(data)
	return b.String(), true
}

// CSSClass returns the class name applied to the page's root widget.
func (p Page) CSSClass() string {
	return "page-" + string(p)
}

// Valid reports whether p is a bundled page.
func (p Page) Valid() bool {
	for _, known := range Pages {
		if p == known {
			return true
		}
	}
	return false
}
