package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/rankplot/internal/adapters/repository"
	"github.com/okian/rankplot/internal/domain/encoding"
	"github.com/okian/rankplot/internal/domain/model"
	"github.com/okian/rankplot/internal/domain/rank"
	"github.com/okian/rankplot/pkg/logger"
	"github.com/okian/rankplot/pkg/metrics"
)

// Axis names one of the two selectors.
type Axis string

// The two selectable axes.
const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// ParseAxis accepts "x" or "y" in any case.
func ParseAxis(s string) (Axis, error) {
	switch Axis(strings.ToLower(strings.TrimSpace(s))) {
	case AxisX:
		return AxisX, nil
	case AxisY:
		return AxisY, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAxis, s)
}

// Frame is one complete rendering of the dataset for a selection.
type Frame struct {
	ID       string
	Revision uint64
	X        model.Field
	Y        model.Field
	XDesc    string
	YDesc    string
	Result   encoding.Result
}

// LegendEntry is one legend row.
type LegendEntry struct {
	Bucket rank.Bucket
	Name   string
	Color  string // #rrggbb at full opacity
}

// Renderer receives every new frame. Render is called with the controller
// locked, so it must not call back into the controller.
type Renderer interface {
	Render(ctx context.Context, f Frame) error
}

// ControllerOption applies a configuration option to the Controller.
type ControllerOption func(*Controller)

// WithControllerDefaultFields sets the initial selection. Invalid fields are ignored.
func WithControllerDefaultFields(x, y model.Field) ControllerOption {
	return func(c *Controller) {
		if x.Valid() {
			c.x = x
		}
		if y.Valid() {
			c.y = y
		}
	}
}

// WithControllerLogger overrides the logger.
func WithControllerLogger(log logger.Logger) ControllerOption {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// Controller owns the axis selection and the frame computed from it.
type Controller struct {
	mu sync.RWMutex

	store     repository.Store
	x, y      model.Field
	frame     Frame
	revision  uint64
	renderers []Renderer

	log logger.Logger
}

// NewController builds a controller over store and computes the initial
// frame (PPS against TR unless overridden).
func NewController(ctx context.Context, store repository.Store, opts ...ControllerOption) (*Controller, error) {
	c := &Controller{
		store: store,
		x:     model.FieldPPS,
		y:     model.FieldTR,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Named("controller")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.recompute(ctx, c.x, c.y); err != nil {
		return nil, err
	}
	return c, nil
}

// AddRenderer hands r the current frame and, if that succeeds, registers it
// for every later one.
func (c *Controller) AddRenderer(ctx context.Context, r Renderer) error {
	if r == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := r.Render(ctx, c.frame); err != nil {
		return fmt.Errorf("add renderer: %w", err)
	}
	c.renderers = append(c.renderers, r)
	return nil
}

// SetXField selects the horizontal field and recomputes the frame. An
// invalid field leaves the selection unchanged.
func (c *Controller) SetXField(ctx context.Context, f model.Field) (Frame, error) {
	return c.set(ctx, AxisX, f)
}

// SetYField selects the vertical field and recomputes the frame.
func (c *Controller) SetYField(ctx context.Context, f model.Field) (Frame, error) {
	return c.set(ctx, AxisY, f)
}

// SetField parses axis and field names and applies the change.
func (c *Controller) SetField(ctx context.Context, axis, field string) (Frame, error) {
	a, err := ParseAxis(axis)
	if err != nil {
		return Frame{}, err
	}
	f, err := model.ParseField(field)
	if err != nil {
		metrics.RecordEncodeError()
		return Frame{}, err
	}
	return c.set(ctx, a, f)
}

func (c *Controller) set(ctx context.Context, axis Axis, f model.Field) (Frame, error) {
	if !f.Valid() {
		metrics.RecordEncodeError()
		return Frame{}, &model.FieldError{Value: f.String()}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	x, y := c.x, c.y
	if axis == AxisX {
		x = f
	} else {
		y = f
	}
	if err := c.recompute(ctx, x, y); err != nil {
		return Frame{}, err
	}
	metrics.RecordSelectionChange(string(axis), c.revision)
	c.log.Debug(ctx, "selection changed",
		logger.String("axis", string(axis)),
		logger.String("field", f.String()),
		logger.Any("revision", c.revision),
	)
	return c.frame, nil
}

// recompute replaces the current frame. Callers hold mu.
func (c *Controller) recompute(ctx context.Context, x, y model.Field) error {
	start := time.Now()
	res, err := encoding.Encode(c.store.All(ctx), x, y)
	if err != nil {
		metrics.RecordEncodeError()
		return err
	}
	metrics.RecordEncode(float64(time.Since(start).Microseconds())/1000, len(res.Points), res.Dropped, res.PerBucket())

	if res.Dropped > 0 {
		c.log.Warn(ctx, "records with unknown rank dropped",
			logger.Int("dropped", res.Dropped),
			logger.Any("tokens", res.UnknownTokens),
		)
	}

	xd, _ := Describe(x)
	yd, _ := Describe(y)
	c.x, c.y = x, y
	c.revision++
	c.frame = Frame{
		ID:       uuid.NewString(),
		Revision: c.revision,
		X:        x,
		Y:        y,
		XDesc:    xd,
		YDesc:    yd,
		Result:   res,
	}

	for _, r := range c.renderers {
		if err := r.Render(ctx, c.frame); err != nil {
			c.log.Error(ctx, "renderer failed",
				logger.String("frame", c.frame.ID),
				logger.Error(err),
			)
		}
	}
	return nil
}

// Frame returns the current frame.
func (c *Controller) Frame() Frame {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frame
}

// Selection returns the current (x, y) fields.
func (c *Controller) Selection() (x, y model.Field) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.x, c.y
}

// Encode projects the dataset onto any pair without touching the selection.
func (c *Controller) Encode(ctx context.Context, x, y model.Field) (encoding.Result, error) {
	res, err := encoding.Encode(c.store.All(ctx), x, y)
	if err != nil {
		metrics.RecordEncodeError()
	}
	return res, err
}

// Describe returns the description of f.
func (c *Controller) Describe(f model.Field) (string, error) {
	return Describe(f)
}

// Legend returns every bucket highest rank first with its opaque color.
func (c *Controller) Legend() []LegendEntry {
	return Legend()
}

// Legend returns every bucket highest rank first with its opaque color.
func Legend() []LegendEntry {
	order := rank.LegendOrder()
	out := make([]LegendEntry, len(order))
	for i, b := range order {
		out[i] = LegendEntry{Bucket: b, Name: b.DisplayName(), Color: b.Hex()}
	}
	return out
}
