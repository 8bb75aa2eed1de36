package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	fs "github.com/ungerik/go-fs"

	"github.com/domonda/go-chartable"
)

func TestLoad(t *testing.T) {
	file := fs.NewMemFile("chartable.yaml", []byte(`
addr: ":9090"
log_level: debug
duration: 2s
column_types:
  Year: dimension
chart:
  x: Year
  y:
    set: [Sales]
style:
  fontSize: 1.2em
`))
	t.Setenv("CHARTABLE_TITLE", "Sales")
	t.Setenv("CHARTABLE_STREAM_BUFFER", "4")

	cfg, err := Load(file)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Addr)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "console", cfg.LogFormat)
	require.Equal(t, "Sales", cfg.Title)
	require.Equal(t, 2*time.Second, cfg.Duration)
	require.Equal(t, 4, cfg.StreamBuffer)
	require.Equal(t, chartable.ColumnTypes{"Year": chartable.Dimension}, cfg.ColumnTypes)
	require.Equal(t, map[string]any{"x": "Year", "y": map[string]any{"set": []any{"Sales"}}}, cfg.Chart)

	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "unknown field", yaml: "port: 8080"},
		{name: "invalid column type", yaml: "column_types: {Year: category}"},
		{name: "invalid log level", yaml: "log_level: loud"},
		{name: "invalid log format", yaml: "log_format: xml"},
		{name: "invalid env duration", env: map[string]string{"CHARTABLE_DURATION": "soon"}},
		{name: "invalid env buffer", env: map[string]string{"CHARTABLE_STREAM_BUFFER": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(fs.NewMemFile("c.yaml", []byte(tt.yaml)))
			require.Error(t, err)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}
