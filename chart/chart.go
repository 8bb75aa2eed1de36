// Package chart implements the state of a Vizzu chart widget
// bound to a chartable.Table.
//
// A Chart derives the column schema of its data,
// merges animation updates into its config, data, and style,
// publishes changed properties as Patch to subscribers
// like the HTTP synchronization channel of the server package,
// and relays click events of the widget to registered handlers.
package chart

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/domonda/go-chartable"
)

// Animation targets accepted by Chart.Animate
const (
	TargetConfig = "config"
	TargetData   = "data"
	TargetStyle  = "style"
)

// Chart holds the state of a chart widget.
// All methods are safe for concurrent use.
type Chart struct {
	id     string
	logger *zap.Logger

	// pubMtx is held from a state change until
	// its Patch was delivered to all subscribers,
	// so subscribers receive patches in the order of the changes.
	pubMtx sync.Mutex

	mtx         sync.Mutex
	table       *chartable.Table
	columnTypes chartable.ColumnTypes
	columns     chartable.Schema
	config      map[string]any
	style       map[string]any
	animation   map[string]any
	duration    time.Duration
	click       map[string]any

	clickHandlers []func(map[string]any)
	subscribers   map[int]func(Patch)
	nextSubID     int
}

// New returns a Chart for a data source
// supported by chartable.NewTableFrom.
func New(source any, options ...Option) (*Chart, error) {
	table, err := chartable.NewTableFrom(source)
	if err != nil {
		return nil, err
	}
	c := &Chart{
		id:          uuid.NewString(),
		logger:      zap.NewNop(),
		table:       table,
		config:      map[string]any{},
		style:       map[string]any{},
		animation:   map[string]any{},
		duration:    DefaultDuration,
		subscribers: make(map[int]func(Patch)),
	}
	for _, option := range options {
		option(c)
	}
	if err := c.columnTypes.Validate(); err != nil {
		return nil, err
	}
	for _, m := range []*map[string]any{&c.config, &c.style, &c.animation} {
		if *m == nil {
			*m = map[string]any{}
		}
	}
	c.columns = chartable.InferSchema(c.table, c.columnTypes)
	c.logger = c.logger.With(zap.String("chart", c.id))
	c.logger.Debug("Created chart", zap.Stringer("columns", c.columns))
	return c, nil
}

// ID returns the unique model ID of the chart.
func (c *Chart) ID() string { return c.id }

// Table returns the current data of the chart.
func (c *Chart) Table() *chartable.Table {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.table
}

// Columns returns the current column schema.
func (c *Chart) Columns() chartable.Schema {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return slices.Clone(c.columns)
}

// ColumnTypes returns a copy of the column type overrides.
func (c *Chart) ColumnTypes() chartable.ColumnTypes {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.columnTypes.Clone()
}

// Config returns a shallow copy of the chart config.
func (c *Chart) Config() map[string]any {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return maps.Clone(c.config)
}

// Style returns a shallow copy of the chart style.
func (c *Chart) Style() map[string]any {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return maps.Clone(c.style)
}

// Animation returns a shallow copy of the animation options.
func (c *Chart) Animation() map[string]any {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return maps.Clone(c.animation)
}

// Duration returns the animation duration.
func (c *Chart) Duration() time.Duration {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.duration
}

// Click returns the data of the latest click event
// or nil if there was no click yet.
func (c *Chart) Click() map[string]any {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return maps.Clone(c.click)
}

// SetData replaces the data of the chart
// and recomputes the column schema.
func (c *Chart) SetData(source any) error {
	table, err := chartable.NewTableFrom(source)
	if err != nil {
		return err
	}
	return c.update(func() (Patch, error) {
		c.table = table
		c.columns = chartable.InferSchema(table, c.columnTypes)
		return Patch{
			PropData:    EncodeData(table, c.columns),
			PropColumns: slices.Clone(c.columns),
		}, nil
	})
}

// SetColumnTypes replaces the column type overrides
// and recomputes the column schema.
func (c *Chart) SetColumnTypes(types chartable.ColumnTypes) error {
	if err := types.Validate(); err != nil {
		return err
	}
	return c.update(func() (Patch, error) {
		c.columnTypes = types.Clone()
		c.columns = chartable.InferSchema(c.table, c.columnTypes)
		return Patch{PropColumns: slices.Clone(c.columns)}, nil
	})
}

// Animate updates the chart with the entries of anim.
//
// anim may contain "config", "data", and "style" entries
// that are merged into the current values of the chart:
// new keys overwrite existing ones and all other keys are preserved.
// If anim contains none of these keys, then it is used
// as config update, so the following calls are equivalent:
//
//	c.Animate(map[string]any{"x": "Genres", "y": "Popularity"})
//	c.Animate(map[string]any{"config": map[string]any{"x": "Genres", "y": "Popularity"}})
//
// Any other key returns an *InvalidTargetError
// without changing the chart:
//
//	err := c.Animate(map[string]any{"config": cfg, "colors": colors})
//	errors.Is(err, ErrInvalidTarget) // true
//
// Config and style entries must be map[string]any,
// the data entry can be any source supported by
// chartable.NewTableFrom and its columns are merged
// into the current table by name.
// Columns of the current table that are not part
// of the data entry are kept, and the column schema
// is inferred again from the merged table.
//
// All entries are validated before the chart is changed.
// On success one Patch with all changed properties
// is published to the subscribers.
// Use WithAnimDuration and WithAnimOptions to change
// the duration and the animation options of the widget
// together with the update.
func (c *Chart) Animate(anim map[string]any, options ...AnimateOption) error {
	var opts animateOptions
	for _, option := range options {
		option(&opts)
	}

	_, hasConfig := anim[TargetConfig]
	_, hasData := anim[TargetData]
	_, hasStyle := anim[TargetStyle]
	if !hasConfig && !hasData && !hasStyle {
		anim = map[string]any{TargetConfig: anim}
	}

	var (
		config, style map[string]any
		data          *chartable.Table
	)
	for _, target := range sortedKeys(anim) {
		value := anim[target]
		switch target {
		case TargetConfig, TargetStyle:
			m, ok := value.(map[string]any)
			if !ok && value != nil {
				return fmt.Errorf("animation target %q must be a map, got %T", target, value)
			}
			if target == TargetConfig {
				config = m
			} else {
				style = m
			}
		case TargetData:
			t, err := chartable.NewTableFrom(value)
			if err != nil {
				return fmt.Errorf("animation target %q: %w", target, err)
			}
			data = t
		default:
			return &InvalidTargetError{Target: target}
		}
	}

	return c.update(func() (Patch, error) {
		patch := make(Patch)
		if data != nil {
			merged, err := c.table.WithColumns(data.Cols()...)
			if err != nil {
				return nil, err
			}
			c.table = merged
			c.columns = chartable.InferSchema(merged, c.columnTypes)
			patch[PropData] = EncodeData(merged, c.columns)
			patch[PropColumns] = slices.Clone(c.columns)
		}
		if hasConfig || !hasData && !hasStyle {
			c.config = merge(c.config, config)
			patch[PropConfig] = maps.Clone(c.config)
		}
		if hasStyle {
			c.style = merge(c.style, style)
			patch[PropStyle] = maps.Clone(c.style)
		}
		if opts.duration != nil {
			c.duration = *opts.duration
			patch[PropDuration] = c.duration.Milliseconds()
		}
		if opts.animation != nil {
			c.animation = opts.animation
			patch[PropAnimation] = maps.Clone(c.animation)
		}
		c.logger.Debug("Animate", zap.Strings("properties", sortedKeys(patch)))
		return patch, nil
	})
}

// update calls change with the state locked
// and publishes the returned Patch before
// any other update can change the state.
func (c *Chart) update(change func() (Patch, error)) error {
	c.pubMtx.Lock()
	defer c.pubMtx.Unlock()

	c.mtx.Lock()
	patch, err := change()
	c.mtx.Unlock()
	if err != nil {
		return err
	}
	c.publish(patch)
	return nil
}

// merge returns a copy of dst with all entries of src
func merge(dst, src map[string]any) map[string]any {
	merged := make(map[string]any, len(dst)+len(src))
	maps.Copy(merged, dst)
	maps.Copy(merged, src)
	return merged
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
