package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

const usgsSample = `{
  "type": "FeatureCollection",
  "metadata": {"generated": 1700000000000, "title": "USGS All Earthquakes, Past Month", "count": 2},
  "features": [
    {"type": "Feature", "id": "ak0231",
     "properties": {"mag": 1.7, "place": "42 km W of Anchor Point, Alaska", "time": 1700000000000, "type": "earthquake"},
     "geometry": {"type": "Point", "coordinates": [-152.5, 59.8, 73.4]}},
    {"type": "Feature", "id": "us7000",
     "properties": {"mag": 4.6, "place": "Tonga", "time": 1700000100000, "type": "earthquake"},
     "geometry": {"type": "Point", "coordinates": [-174.9, -18.2, 112]}}
  ]
}`

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(usgsSample))
	}))
	defer srv.Close()

	fc, err := NewClient(5*time.Second).Fetch(context.Background(), srv.URL+"/all_month.geojson")
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	f := fc.Features[1]
	assert.Equal(t, "us7000", f.ID)
	assert.Equal(t, "Tonga", f.Properties["place"])

	point, ok := f.Geometry.(*geom.Point)
	require.True(t, ok)
	assert.Equal(t, geom.XYZ, point.Layout())
	assert.Equal(t, 112.0, point.Z())
}

func TestFetchStatusError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(time.Second).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Equal(t, int32(1), calls.Load(), "feed must be requested exactly once")
}

func TestFetchDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"type": "FeatureCollection", "features": [`))
	}))
	defer srv.Close()

	_, err := NewClient(time.Second).Fetch(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "decode feature collection")
}

func TestFetchCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(usgsSample))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(time.Second).Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.geojson")
	require.NoError(t, os.WriteFile(path, []byte(usgsSample), 0o644))

	fc, err := NewClient(0).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, fc.Features, 2)

	missing := filepath.Join(t.TempDir(), "missing.geojson")
	_, err = ReadFile(missing)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorContains(t, err, "read "+missing)
}
