package arrowtable

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"
	fs "github.com/ungerik/go-fs"

	"github.com/domonda/go-chartable"
)

var testSchema = arrow.NewSchema(
	[]arrow.Field{
		{Name: "region", Type: arrow.BinaryTypes.String},
		{Name: "units", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "amount", Type: arrow.PrimitiveTypes.Float64},
		{Name: "ts", Type: arrow.FixedWidthTypes.Timestamp_ms},
		{Name: "promo", Type: arrow.FixedWidthTypes.Boolean},
	},
	nil,
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestRecord(t *testing.T, pool memory.Allocator, regions []string, withNull bool) arrow.Record {
	t.Helper()
	builder := array.NewRecordBuilder(pool, testSchema)
	defer builder.Release()

	for i, region := range regions {
		builder.Field(0).(*array.StringBuilder).Append(region)
		if withNull && i == 0 {
			builder.Field(1).(*array.Int64Builder).AppendNull()
		} else {
			builder.Field(1).(*array.Int64Builder).Append(int64(i + 1))
		}
		builder.Field(2).(*array.Float64Builder).Append(float64(i) + 0.5)
		builder.Field(3).(*array.TimestampBuilder).Append(arrow.Timestamp(testStart.Add(time.Duration(i) * time.Hour).UnixMilli()))
		builder.Field(4).(*array.BooleanBuilder).Append(i%2 == 0)
	}
	return builder.NewRecord()
}

func TestFromRecords(t *testing.T) {
	pool := memory.NewGoAllocator()
	rec := newTestRecord(t, pool, []string{"East", "West"}, false)
	defer rec.Release()

	table, err := FromRecords("sales", rec)
	require.NoError(t, err)
	require.Equal(t, "sales", table.Title())
	require.Equal(t, []string{"region", "units", "amount", "ts", "promo"}, table.Columns())

	col, _ := table.Column("region")
	require.Equal(t, []string{"East", "West"}, col.Values)
	col, _ = table.Column("units")
	require.Equal(t, []int64{1, 2}, col.Values)
	col, _ = table.Column("ts")
	require.True(t, testStart.Add(time.Hour).Equal(col.Values.([]time.Time)[1]))

	require.Equal(t, chartable.Schema{
		{Name: "region", Type: chartable.Dimension},
		{Name: "units", Type: chartable.Measure},
		{Name: "amount", Type: chartable.Measure},
		{Name: "ts", Type: chartable.Datetime},
		{Name: "promo", Type: chartable.Dimension},
	}, chartable.InferSchema(table, nil))
}

func TestFromRecordsWithNulls(t *testing.T) {
	pool := memory.NewGoAllocator()
	rec1 := newTestRecord(t, pool, []string{"East"}, false)
	defer rec1.Release()
	rec2 := newTestRecord(t, pool, []string{"West", "North"}, true)
	defer rec2.Release()

	table, err := FromRecords("", rec1, rec2)
	require.NoError(t, err)
	require.Equal(t, 3, table.NumRows())

	one, two := int64(1), int64(2)
	col, _ := table.Column("units")
	require.Equal(t, []*int64{&one, nil, &two}, col.Values)
}

func TestReadIPC(t *testing.T) {
	pool := memory.NewGoAllocator()
	rec := newTestRecord(t, pool, []string{"East", "West", "South"}, true)
	defer rec.Release()

	var file bytes.Buffer
	w, err := ipc.NewFileWriter(&file, ipc.WithSchema(testSchema), ipc.WithAllocator(pool))
	require.NoError(t, err)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())

	table, err := ReadIPCFile("file", bytes.NewReader(file.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 3, table.NumRows())

	var stream bytes.Buffer
	sw := ipc.NewWriter(&stream, ipc.WithSchema(testSchema), ipc.WithAllocator(pool))
	require.NoError(t, sw.Write(rec))
	require.NoError(t, sw.Close())

	table, err = ReadIPCStream("stream", &stream)
	require.NoError(t, err)
	col, _ := table.Column("region")
	require.Equal(t, []string{"East", "West", "South"}, col.Values)

	table, err = ReadFile(context.Background(), fs.NewMemFile("sales.arrow", file.Bytes()))
	require.NoError(t, err)
	require.Equal(t, "sales", table.Title())
}
