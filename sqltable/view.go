// Package sqltable reads SQL query results into chartable.Table values.
package sqltable

import (
	"context"
	"database/sql"

	"github.com/domonda/go-chartable"
)

// Query executes a query and returns the result rows as Table.
func Query(ctx context.Context, db Querier, query string, args ...any) (*chartable.Table, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return ScanRows(ctx, rows)
}

// ScanRows scans all rows into a Table and closes them.
// The column values are typed by the driver values,
// byte slices are converted to strings.
func ScanRows(ctx context.Context, rows Rows) (*chartable.Table, error) {
	view, err := ScanRowsAsView(ctx, rows)
	if err != nil {
		return nil, err
	}
	return chartable.TableFromView(view)
}

// ScanRowsAsView scans all rows into an AnyValuesView and closes them.
func ScanRowsAsView(ctx context.Context, rows Rows) (*chartable.AnyValuesView, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	view := &chartable.AnyValuesView{Cols: columns}
	for rows.Next() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		scannedValues := make([]any, len(columns))
		valueScanners := make([]any, len(columns))
		for i := range valueScanners {
			valueScanners[i] = valueScanner{&scannedValues[i]}
		}
		if err = rows.Scan(valueScanners...); err != nil {
			return nil, err
		}
		view.Rows = append(view.Rows, scannedValues)
	}
	return view, rows.Err()
}

var _ sql.Scanner = new(valueScanner)

type valueScanner struct {
	dest *any
}

// Scan implements the database/sql.Scanner interface.
func (s valueScanner) Scan(src any) error {
	if b, ok := src.([]byte); ok {
		// Bytes are only valid until the next call of rows.Next
		src = string(b)
	}
	*s.dest = src
	return nil
}
