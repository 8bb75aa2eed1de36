// Package arrowtable converts Apache Arrow records into chartable.Table values.
//
// Integer, float, boolean, and string arrays become columns
// of the corresponding Go types, timestamp and date arrays
// become time.Time columns. Arrays with nulls result
// in pointer slices like []*int64.
// Values of other array types are converted to strings.
package arrowtable

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	fs "github.com/ungerik/go-fs"

	"github.com/domonda/go-chartable"
)

// FromRecords returns a Table with the rows of all records
// which must have the same schema.
func FromRecords(title string, records ...arrow.Record) (*chartable.Table, error) {
	if len(records) == 0 {
		return chartable.MustNewTable(title), nil
	}
	schema := records[0].Schema()
	for _, rec := range records[1:] {
		if !rec.Schema().Equal(schema) {
			return nil, fmt.Errorf("record schema %s differs from %s", rec.Schema(), schema)
		}
	}
	cols := make([]*chartable.Column, schema.NumFields())
	for c, field := range schema.Fields() {
		arrays := make([]arrow.Array, len(records))
		for r, rec := range records {
			arrays[r] = rec.Column(c)
		}
		values, err := columnValues(arrays)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", field.Name, err)
		}
		cols[c], err = chartable.NewColumn(field.Name, values)
		if err != nil {
			return nil, err
		}
	}
	return chartable.NewTable(title, cols...)
}

// ReadIPCFile reads all records of an Arrow IPC file.
func ReadIPCFile(title string, r ipc.ReadAtSeeker) (*chartable.Table, error) {
	reader, err := ipc.NewFileReader(r, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, fmt.Errorf("failed to create Arrow file reader: %w", err)
	}
	defer reader.Close()

	records := make([]arrow.Record, 0, reader.NumRecords())
	defer func() {
		for _, rec := range records {
			rec.Release()
		}
	}()
	for i := range reader.NumRecords() {
		rec, err := reader.Record(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", i, err)
		}
		rec.Retain()
		records = append(records, rec)
	}
	if len(records) == 0 {
		return emptyTable(title, reader.Schema())
	}
	return FromRecords(title, records...)
}

// ReadIPCStream reads all records of an Arrow IPC stream.
func ReadIPCStream(title string, r io.Reader) (*chartable.Table, error) {
	reader, err := ipc.NewReader(r, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, fmt.Errorf("failed to create Arrow stream reader: %w", err)
	}
	defer reader.Release()

	var records []arrow.Record
	defer func() {
		for _, rec := range records {
			rec.Release()
		}
	}()
	for reader.Next() {
		rec := reader.Record()
		rec.Retain()
		records = append(records, rec)
	}
	if err := reader.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error reading record: %w", err)
	}
	if len(records) == 0 {
		return emptyTable(title, reader.Schema())
	}
	return FromRecords(title, records...)
}

// ReadFile reads an Arrow IPC file, or an IPC stream
// if the file is not in the IPC file format.
func ReadFile(ctx context.Context, file fs.FileReader) (*chartable.Table, error) {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSuffix(file.Name(), file.Ext())
	table, err := ReadIPCFile(title, bytes.NewReader(data))
	if err == nil {
		return table, nil
	}
	table, streamErr := ReadIPCStream(title, bytes.NewReader(data))
	if streamErr != nil {
		return nil, errors.Join(err, streamErr)
	}
	return table, nil
}

func emptyTable(title string, schema *arrow.Schema) (*chartable.Table, error) {
	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()
	rec := builder.NewRecord()
	defer rec.Release()
	return FromRecords(title, rec)
}

func columnValues(arrays []arrow.Array) (any, error) {
	switch arrays[0].(type) {
	case *array.Int8:
		return concat(arrays, func(a *array.Int8, i int) int8 { return a.Value(i) }), nil
	case *array.Int16:
		return concat(arrays, func(a *array.Int16, i int) int16 { return a.Value(i) }), nil
	case *array.Int32:
		return concat(arrays, func(a *array.Int32, i int) int32 { return a.Value(i) }), nil
	case *array.Int64:
		return concat(arrays, func(a *array.Int64, i int) int64 { return a.Value(i) }), nil
	case *array.Uint8:
		return concat(arrays, func(a *array.Uint8, i int) uint8 { return a.Value(i) }), nil
	case *array.Uint16:
		return concat(arrays, func(a *array.Uint16, i int) uint16 { return a.Value(i) }), nil
	case *array.Uint32:
		return concat(arrays, func(a *array.Uint32, i int) uint32 { return a.Value(i) }), nil
	case *array.Uint64:
		return concat(arrays, func(a *array.Uint64, i int) uint64 { return a.Value(i) }), nil
	case *array.Float32:
		return concat(arrays, func(a *array.Float32, i int) float32 { return a.Value(i) }), nil
	case *array.Float64:
		return concat(arrays, func(a *array.Float64, i int) float64 { return a.Value(i) }), nil
	case *array.Boolean:
		return concat(arrays, func(a *array.Boolean, i int) bool { return a.Value(i) }), nil
	case *array.String:
		return concat(arrays, func(a *array.String, i int) string { return a.Value(i) }), nil
	case *array.LargeString:
		return concat(arrays, func(a *array.LargeString, i int) string { return a.Value(i) }), nil
	case *array.Timestamp:
		return concat(arrays, func(a *array.Timestamp, i int) time.Time {
			unit := a.DataType().(*arrow.TimestampType).Unit
			return a.Value(i).ToTime(unit)
		}), nil
	case *array.Date32:
		return concat(arrays, func(a *array.Date32, i int) time.Time { return a.Value(i).ToTime() }), nil
	case *array.Date64:
		return concat(arrays, func(a *array.Date64, i int) time.Time { return a.Value(i).ToTime() }), nil
	case *array.Null:
		return make([]any, totalLen(arrays)), nil
	}
	return concat(arrays, func(a arrow.Array, i int) string { return a.ValueStr(i) }), nil
}

// concat returns the values of all arrays as []T,
// or as []*T if any array contains nulls.
func concat[A arrow.Array, T any](arrays []arrow.Array, value func(A, int) T) any {
	var (
		n        = totalLen(arrays)
		hasNulls = false
	)
	for _, arr := range arrays {
		hasNulls = hasNulls || arr.NullN() > 0
	}
	if !hasNulls {
		values := make([]T, 0, n)
		for _, arr := range arrays {
			for i := range arr.Len() {
				values = append(values, value(arr.(A), i))
			}
		}
		return values
	}
	values := make([]*T, 0, n)
	for _, arr := range arrays {
		for i := range arr.Len() {
			if arr.IsNull(i) {
				values = append(values, nil)
				continue
			}
			v := value(arr.(A), i)
			values = append(values, &v)
		}
	}
	return values
}

func totalLen(arrays []arrow.Array) (n int) {
	for _, arr := range arrays {
		n += arr.Len()
	}
	return n
}
