package sqltable

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/domonda/go-chartable"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		create table sales (
			region text not null,
			day    date not null,
			amount real,
			units  integer
		);
		insert into sales values
			('East', '2024-01-01', 10.5, 3),
			('West', '2024-01-02', null, 4),
			('East', '2024-01-03', 7.25, null);
	`)
	require.NoError(t, err)
	return db
}

func TestQuery(t *testing.T) {
	db := openTestDB(t)
	table, err := Query(context.Background(), db, `select region, day, amount, units from sales order by day`)
	require.NoError(t, err)
	require.Equal(t, []string{"region", "day", "amount", "units"}, table.Columns())
	require.Equal(t, 3, table.NumRows())

	col, _ := table.Column("region")
	require.Equal(t, []string{"East", "West", "East"}, col.Values)
	col, _ = table.Column("day")
	require.Equal(t, chartable.KindTemporal, col.Kind)
	require.True(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).Equal(col.Value(1).(time.Time)))

	amount, units := 10.5, int64(4)
	col, _ = table.Column("amount")
	require.Equal(t, &amount, col.Values.([]*float64)[0])
	require.Nil(t, col.Values.([]*float64)[1])
	col, _ = table.Column("units")
	require.Equal(t, &units, col.Values.([]*int64)[1])

	require.Equal(t, chartable.Schema{
		{Name: "region", Type: chartable.Dimension},
		{Name: "day", Type: chartable.Datetime},
		{Name: "amount", Type: chartable.Measure},
		{Name: "units", Type: chartable.Measure},
	}, chartable.InferSchema(table, nil))
}

func TestQueryError(t *testing.T) {
	db := openTestDB(t)
	_, err := Query(context.Background(), db, `select * from missing`)
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Query(ctx, db, `select * from sales`)
	require.Error(t, err)
}
