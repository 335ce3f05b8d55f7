// Package server handles HTTP requests and middleware.
package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/woozymasta/quakemap/internal/preview"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Routes builds the HTTP router.
func (s *ServerContext) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	r.Use(middleware.GetHead)

	r.Get("/", s.HandleIndex)
	r.Get("/favicon.ico", s.HandleFavicon)
	r.Get(EarthquakesPath, s.HandleEarthquakes)
	r.Get("/api/legend", s.HandleLegend)
	r.Get("/preview.webp", s.HandlePreview)

	return r
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	s.serveBytes(w, r, s.IndexHTML, s.IndexETag, "text/html; charset=utf-8")
}

// HandleEarthquakes serves the marker layer as GeoJSON.
func (s *ServerContext) HandleEarthquakes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Last-Modified", s.FetchedAt.Format(http.TimeFormat))
	s.serveBytes(w, r, s.GeoJSON, s.GeoJSONETag, "application/geo+json")
}

// HandleLegend serves the static depth legend entries.
func (s *ServerContext) HandleLegend(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	// Ignoring error as we cannot handle client disconnects
	_, _ = w.Write(s.Legend)
}

// HandleFavicon serves the site favicon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.Favicon)
}

// HandlePreview serves the markers as a WebP image, ?width= sets the size.
func (s *ServerContext) HandlePreview(w http.ResponseWriter, r *http.Request) {
	width := preview.ClampWidth(s.Config.Preview.Width)
	if v := r.URL.Query().Get("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < preview.MinWidth || n > preview.MaxWidth {
			http.Error(w, "invalid width", http.StatusBadRequest)
			return
		}
		width = n
	}

	img, err := s.previews.get(width)
	if err != nil {
		log.Error().Err(err).Int("width", width).Msg("Failed to render preview")
		http.Error(w, "preview failed", http.StatusInternalServerError)
		return
	}

	s.serveBytes(w, r, img.body, img.etag, "image/webp")
}

// serveBytes writes an in-memory body with ETag revalidation.
func (s *ServerContext) serveBytes(w http.ResponseWriter, r *http.Request, body []byte, etag, contentType string) {
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	// check If-None-Match (client sent ETag)
	if etagMatch(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	_, _ = w.Write(body)
}

// etagMatch reports whether an If-None-Match header lists etag.
// Comparison is weak, so W/ prefixes are ignored.
func etagMatch(header, etag string) bool {
	if header == "" {
		return false
	}

	etag = strings.TrimPrefix(etag, "W/")
	for _, tag := range strings.Split(header, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "*" {
			return true
		}
		if strings.TrimPrefix(tag, "W/") == etag {
			return true
		}
	}

	return false
}
