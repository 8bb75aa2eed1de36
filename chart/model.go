package chart

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/domonda/go-chartable"
)

// Chart properties synchronized with the widget
const (
	PropID        = "id"
	PropColumns   = "columns"
	PropData      = "data"
	PropConfig    = "config"
	PropStyle     = "style"
	PropAnimation = "animation"
	PropDuration  = "duration"
	PropClick     = "click"
)

// Patch maps changed property names to their new values.
type Patch map[string]any

// Model is the full property payload of a chart
// as sent to the widget.
type Model struct {
	ID        string           `json:"id"`
	Columns   chartable.Schema `json:"columns"`
	Data      map[string][]any `json:"data"`
	Config    map[string]any   `json:"config"`
	Style     map[string]any   `json:"style"`
	Animation map[string]any   `json:"animation"`
	Duration  int64            `json:"duration"`
}

// Model returns the full property payload of the chart.
func (c *Chart) Model() *Model {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return &Model{
		ID:        c.id,
		Columns:   slices.Clone(c.columns),
		Data:      EncodeData(c.table, c.columns),
		Config:    maps.Clone(c.config),
		Style:     maps.Clone(c.style),
		Animation: maps.Clone(c.animation),
		Duration:  c.duration.Milliseconds(),
	}
}

// EncodeData returns the column values of table
// in the form expected by the widget:
// datetime columns as Unix milliseconds,
// measure columns as numbers,
// dimension columns as strings.
// Nil values, zero times, and non finite floats are encoded as nil.
//
// Strings in datetime or measure columns,
// typically caused by a column type override,
// are parsed with chartable.DefaultParser.
// Strings that can't be parsed are passed through unchanged
// for the widget to interpret.
func EncodeData(table *chartable.Table, schema chartable.Schema) map[string][]any {
	data := make(map[string][]any)
	if table == nil {
		return data
	}
	numRows := table.NumRows()
	for _, col := range table.Cols() {
		colType, ok := schema.TypeOf(col.Name)
		if !ok {
			colType = chartable.Classify(col, nil)
		}
		values := make([]any, numRows)
		for row := range numRows {
			values[row] = encodeValue(col.Value(row), colType)
		}
		data[col.Name] = values
	}
	return data
}

func encodeValue(value any, colType chartable.ColumnType) any {
	if chartable.ValueIsNil(reflect.ValueOf(value)) {
		return nil
	}
	switch colType {
	case chartable.Datetime:
		if t, ok := chartable.TimeOf(value); ok {
			return encodeTime(t)
		}
		if str, ok := stringValue(value); ok {
			if chartable.DefaultParser.IsNil(str) {
				return nil
			}
			if t, err := chartable.DefaultParser.ParseTime(str); err == nil {
				return encodeTime(t)
			}
			return str
		}
		return encodeNumber(value)

	case chartable.Measure:
		if num := encodeNumber(value); num != nil {
			return num
		}
		if str, ok := stringValue(value); ok {
			if chartable.DefaultParser.IsNil(str) {
				return nil
			}
			f, err := chartable.DefaultParser.ParseFloat(str)
			if err != nil {
				return str
			}
			return encodeFloat(f)
		}
		// Measure forced by column type override
		if t, ok := chartable.TimeOf(value); ok {
			return encodeTime(t)
		}
		return nil
	}

	if str, ok := stringValue(value); ok {
		return str
	}
	val := derefValue(value)
	if s, ok := val.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(val.Interface())
}

// encodeNumber returns numbers as int64, uint64, or float64
// and bools as 1 or 0.
// Non finite floats and all other values return nil.
func encodeNumber(value any) any {
	val := derefValue(value)
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return val.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return val.Uint()
	case reflect.Float32, reflect.Float64:
		return encodeFloat(val.Float())
	case reflect.Bool:
		if val.Bool() {
			return int64(1)
		}
		return int64(0)
	}
	return nil
}

func encodeFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

func encodeTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UnixMilli()
}

func stringValue(value any) (string, bool) {
	val := derefValue(value)
	if val.Kind() != reflect.String {
		return "", false
	}
	return val.String(), true
}

func derefValue(value any) reflect.Value {
	val := reflect.ValueOf(value)
	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		val = val.Elem()
	}
	return val
}

// Event is sent by the widget.
type Event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// EventClick is the type of click events.
const EventClick = "click"

// ErrUnknownEvent is returned by HandleEvent for unsupported event types.
var ErrUnknownEvent = errors.New("unknown chart event")

// OnClick registers a handler that is called
// with the data of every click event.
func (c *Chart) OnClick(handler func(data map[string]any)) {
	if handler == nil {
		return
	}
	c.mtx.Lock()
	c.clickHandlers = append(c.clickHandlers, handler)
	c.mtx.Unlock()
}

// HandleEvent processes an event sent by the widget.
// Click events set the click property of the chart,
// publish it as Patch, and then call the handlers
// registered with OnClick in registration order.
func (c *Chart) HandleEvent(event Event) error {
	if event.Type != EventClick {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event.Type)
	}

	c.logger.Debug("Click", zap.Any("data", event.Data))
	var handlers []func(map[string]any)
	err := c.update(func() (Patch, error) {
		c.click = maps.Clone(event.Data)
		handlers = slices.Clone(c.clickHandlers)
		return Patch{PropClick: maps.Clone(event.Data)}, nil
	})
	if err != nil {
		return err
	}
	// Handlers are called after publishing
	// so they can update the chart
	for _, handler := range handlers {
		handler(maps.Clone(event.Data))
	}
	return nil
}

// Subscribe registers a callback for every published Patch.
// Patches are delivered synchronously after the chart state was updated,
// one at a time and in the order of the state changes.
// Further updates of the chart block until all callbacks returned,
// so callbacks must not block for long and must not
// update the chart themselves.
// The returned function removes the subscription.
func (c *Chart) Subscribe(callback func(Patch)) (unsubscribe func()) {
	if callback == nil {
		return func() {}
	}
	c.mtx.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = callback
	c.mtx.Unlock()

	return func() {
		c.mtx.Lock()
		delete(c.subscribers, id)
		c.mtx.Unlock()
	}
}

func (c *Chart) publish(patch Patch) {
	if len(patch) == 0 {
		return
	}
	c.mtx.Lock()
	ids := slices.Sorted(maps.Keys(c.subscribers))
	callbacks := make([]func(Patch), len(ids))
	for i, id := range ids {
		callbacks[i] = c.subscribers[id]
	}
	c.mtx.Unlock()

	for _, callback := range callbacks {
		callback(patch)
	}
}
