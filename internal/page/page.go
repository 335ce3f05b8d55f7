// Package page renders the single-page Leaflet map.
package page

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"regexp"

	"github.com/woozymasta/quakemap/assets"
	"github.com/woozymasta/quakemap/internal/config"
	"github.com/woozymasta/quakemap/internal/quake"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
)

// Data selects where the client takes the marker layer from.
// Exactly one of DataURL or Markers is expected to be set.
type Data struct {
	// DataURL is fetched by the browser when Markers is nil.
	DataURL string
	// Markers are embedded into the page, making it self-contained.
	Markers []quake.Marker
	// FaviconURL defaults to an inline data URL.
	FaviconURL string
}

type legendRow struct {
	Color template.CSS
	Label string
}

type pageData struct {
	View       config.View
	Legend     []legendRow
	Style      template.CSS
	Script     template.JS
	DataURL    string
	FaviconURL template.URL
	Markers    any
}

var jsMime = regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$")

// Renderer executes the page template and minifies the result.
type Renderer struct {
	tmpl   *template.Template
	min    *minify.M
	style  template.CSS
	script template.JS
	icon   template.URL
}

// NewRenderer parses the embedded template and minifies the static assets once.
func NewRenderer() (*Renderer, error) {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFuncRegexp(jsMime, js.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)

	tmpl, err := template.New("index").Parse(assets.IndexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	styleMin, err := m.String("text/css", assets.Style)
	if err != nil {
		return nil, fmt.Errorf("minify css: %w", err)
	}
	scriptMin, err := m.String("text/javascript", assets.Script)
	if err != nil {
		return nil, fmt.Errorf("minify js: %w", err)
	}
	iconMin, err := m.String("image/svg+xml", assets.Favicon)
	if err != nil {
		return nil, fmt.Errorf("minify svg: %w", err)
	}

	return &Renderer{
		tmpl:   tmpl,
		min:    m,
		style:  template.CSS(styleMin),
		script: template.JS(scriptMin),
		icon:   template.URL("data:image/svg+xml," + template.URLQueryEscaper(iconMin)),
	}, nil
}

// Favicon returns the minified SVG icon.
func (r *Renderer) Favicon() ([]byte, error) {
	return r.min.Bytes("image/svg+xml", []byte(assets.Favicon))
}

// Render writes the minified page for the given view.
func (r *Renderer) Render(w io.Writer, view config.View, data Data) error {
	pd := pageData{
		View:       view,
		Style:      r.style,
		Script:     r.script,
		DataURL:    data.DataURL,
		FaviconURL: r.icon,
	}
	if data.FaviconURL != "" {
		pd.FaviconURL = template.URL(data.FaviconURL)
	}
	if data.Markers != nil {
		pd.Markers = quake.FeatureCollection(data.Markers)
	}

	for _, e := range quake.Legend() {
		pd.Legend = append(pd.Legend, legendRow{Color: template.CSS(e.Color), Label: e.Label})
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, pd); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	if err := r.min.Minify("text/html", w, &buf); err != nil {
		return fmt.Errorf("minify html: %w", err)
	}

	return nil
}

// Bytes renders the page into memory.
func (r *Renderer) Bytes(view config.View, data Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, view, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
