package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	fs "github.com/ungerik/go-fs"

	"github.com/domonda/go-chartable"
	"github.com/domonda/go-chartable/arrowtable"
	"github.com/domonda/go-chartable/csvtable"
	"github.com/domonda/go-chartable/exceltable"
	"github.com/domonda/go-chartable/sqltable"
)

type sourceFlags struct {
	sqlite    string
	query     string
	sheet     string
	encodings []string
}

// loadSource loads a table from a SQLite query if flags.sqlite is set,
// else from a file with a supported extension.
func loadSource(ctx context.Context, file fs.FileReader, flags *sourceFlags) (*chartable.Table, error) {
	if flags.sqlite != "" {
		if flags.query == "" {
			return nil, errors.New("--query is required with --sqlite")
		}
		return querySQLite(ctx, flags.sqlite, flags.query)
	}
	if file == nil {
		return nil, errors.New("missing data file or --sqlite database")
	}
	if !file.Exists() {
		return nil, fmt.Errorf("file %s does not exist", file.Name())
	}

	switch ext := strings.ToLower(file.Ext()); ext {
	case ".csv", ".tsv", ".txt":
		var config *csvtable.FormatDetectionConfig
		if len(flags.encodings) > 0 {
			config = csvtable.NewDefaultFormatDetectionConfig()
			config.Encodings = flags.encodings
		}
		table, _, err := csvtable.ReadFile(ctx, file, config, nil)
		return table, err
	case ".xlsx", ".xlsm":
		return exceltable.ReadFile(ctx, file, flags.sheet, nil)
	case ".arrow", ".arrows", ".ipc", ".feather":
		return arrowtable.ReadFile(ctx, file)
	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
}

func querySQLite(ctx context.Context, path, query string) (table *chartable.Table, err error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()
	return sqltable.Query(ctx, db, query)
}
