package server

import (
	"bytes"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/woozymasta/quakemap/internal/preview"
	"github.com/woozymasta/quakemap/internal/quake"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// maxCachedPreviews bounds how many distinct widths are kept in memory.
const maxCachedPreviews = 16

type previewImage struct {
	body []byte
	etag string
}

// previewCache renders each preview width at most once.
// Concurrent requests for the same width share a single rendering.
type previewCache struct {
	markers []quake.Marker
	quality float32

	mu      sync.RWMutex
	images  map[int]previewImage
	group   singleflight.Group
	renders atomic.Int64
}

func newPreviewCache(markers []quake.Marker, quality float32) *previewCache {
	return &previewCache{
		markers: markers,
		quality: quality,
		images:  make(map[int]previewImage),
	}
}

// get returns the encoded preview for width, which must already be clamped.
func (c *previewCache) get(width int) (previewImage, error) {
	c.mu.RLock()
	img, ok := c.images[width]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	v, err, _ := c.group.Do(strconv.Itoa(width), func() (interface{}, error) {
		c.mu.RLock()
		cached, ok := c.images[width]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		c.renders.Add(1)
		rendered := preview.Render(c.markers, preview.Options{Width: width, Graticule: 30})

		var buf bytes.Buffer
		if err := preview.Encode(&buf, rendered, c.quality); err != nil {
			return previewImage{}, err
		}

		img := previewImage{body: buf.Bytes(), etag: etag(buf.Bytes())}

		c.mu.Lock()
		if len(c.images) < maxCachedPreviews {
			c.images[width] = img
		} else {
			log.Debug().Int("width", width).Msg("Preview cache full, not storing")
		}
		c.mu.Unlock()

		return img, nil
	})
	if err != nil {
		return previewImage{}, err
	}

	return v.(previewImage), nil
}
