package chart

import (
	"maps"
	"time"

	"go.uber.org/zap"

	"github.com/domonda/go-chartable"
)

// DefaultDuration of chart animations.
const DefaultDuration = 500 * time.Millisecond

// Option configures a Chart created with New.
type Option func(*Chart)

// WithColumnTypes sets column types that take
// precedence over the inferred column types.
func WithColumnTypes(types chartable.ColumnTypes) Option {
	return func(c *Chart) { c.columnTypes = types.Clone() }
}

// WithConfig sets the initial chart config.
func WithConfig(config map[string]any) Option {
	return func(c *Chart) { c.config = maps.Clone(config) }
}

// WithStyle sets the initial chart style.
func WithStyle(style map[string]any) Option {
	return func(c *Chart) { c.style = maps.Clone(style) }
}

// WithAnimation sets the initial animation options.
func WithAnimation(animation map[string]any) Option {
	return func(c *Chart) { c.animation = maps.Clone(animation) }
}

// WithDuration sets the animation duration.
func WithDuration(d time.Duration) Option {
	return func(c *Chart) { c.duration = d }
}

// WithLogger sets the logger of the chart.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Chart) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// AnimateOption modifies the animation started by Chart.Animate.
type AnimateOption func(*animateOptions)

type animateOptions struct {
	duration  *time.Duration
	animation map[string]any
}

// WithAnimDuration sets the duration of the chart
// for this and all following animations.
func WithAnimDuration(d time.Duration) AnimateOption {
	return func(o *animateOptions) { o.duration = &d }
}

// WithAnimOptions replaces the animation options of the chart.
func WithAnimOptions(animation map[string]any) AnimateOption {
	return func(o *animateOptions) { o.animation = maps.Clone(animation) }
}
