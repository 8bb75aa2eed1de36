package main

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	fs "github.com/ungerik/go-fs"

	"github.com/domonda/go-chartable"
)

func TestLoadSource(t *testing.T) {
	ctx := context.Background()

	table, err := loadSource(ctx, fs.NewMemFile("sales.csv", []byte("Year;Sales\n2023;1,5\n2024;2\n")), &sourceFlags{})
	require.NoError(t, err)
	require.Equal(t, []string{"Year", "Sales"}, table.Columns())

	_, err = loadSource(ctx, fs.NewMemFile("sales.json", []byte("{}")), &sourceFlags{})
	require.Error(t, err)

	_, err = loadSource(ctx, nil, &sourceFlags{})
	require.Error(t, err)

	_, err = loadSource(ctx, nil, &sourceFlags{sqlite: "db.sqlite"})
	require.Error(t, err, "query required")
}

func TestLoadSourceSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.sqlite")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`create table sales (year integer, amount real); insert into sales values (2023, 1.5), (2024, 2)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	table, err := loadSource(context.Background(), nil, &sourceFlags{sqlite: path, query: "select * from sales"})
	require.NoError(t, err)
	require.Equal(t, chartable.Schema{
		{Name: "year", Type: chartable.Measure},
		{Name: "amount", Type: chartable.Measure},
	}, chartable.InferSchema(table, nil))
}

func TestSchemaCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, fs.File(path).WriteAll([]byte("Year,Region,Sales\n2023,East,1\n2024,West,2\n")))

	tests := []struct {
		args   []string
		output string
	}{
		{
			args:   []string{"schema", path},
			output: "Year\tmeasure\nRegion\tdimension\nSales\tmeasure\n",
		},
		{
			args:   []string{"schema", path, "--type", "Year=dimension", "-o", "yaml"},
			output: "- name: Year\n  type: dimension\n- name: Region\n  type: dimension\n- name: Sales\n  type: measure\n",
		},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetArgs(tt.args)
		require.NoError(t, cmd.Execute())
		require.Equal(t, tt.output, out.String())
	}

	cmd := newRootCmd()
	cmd.SetArgs([]string{"schema", path, "--type", "Year=category"})
	require.Error(t, cmd.Execute())
}
