package api

import (
	"bytes"
	"context"
	"sync"

	"github.com/okian/rankplot/internal/adapters/render"
	service "github.com/okian/rankplot/internal/app"
	"github.com/okian/rankplot/internal/domain/model"
)

// ChartCache keeps the SVG of the controller's current frame at one size.
// Register it with Controller.AddRenderer; GET /chart.svg for the current
// selection at that size is then served without re-encoding.
type ChartCache struct {
	width, height int

	mu       sync.RWMutex
	x, y     model.Field
	revision uint64
	svg      []byte
}

// NewChartCache returns an empty cache for charts of width x height pixels.
func NewChartCache(width, height int) *ChartCache {
	return &ChartCache{width: width, height: height}
}

// Render draws f. A failed render clears the cache so a stale chart is
// never served for a newer selection.
func (c *ChartCache) Render(_ context.Context, f service.Frame) error {
	var buf bytes.Buffer
	err := render.SVG(&buf, f.Result, render.WithSize(c.width, c.height))

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.svg = nil
		return err
	}
	c.x, c.y, c.revision = f.X, f.Y, f.Revision
	c.svg = buf.Bytes()
	return nil
}

// Lookup returns the cached chart when it was drawn for x, y at the given
// size, along with the frame revision it came from.
func (c *ChartCache) Lookup(x, y model.Field, width, height int) (svg []byte, revision uint64, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.svg == nil || x != c.x || y != c.y || width != c.width || height != c.height {
		return nil, 0, false
	}
	return c.svg, c.revision, true
}
