package sqltable

import (
	"context"
	"database/sql"
)

var (
	_ Rows    = new(sql.Rows)
	_ Querier = new(sql.DB)
	_ Querier = new(sql.Tx)
	_ Querier = new(sql.Conn)
)

// Rows is the interface of sql.Rows used by ScanRows.
type Rows interface {
	Columns() ([]string, error)
	Scan(dest ...any) error
	Close() error
	Next() bool
	Err() error
}

// Querier is implemented by sql.DB, sql.Tx, and sql.Conn.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}
