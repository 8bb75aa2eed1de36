// Command chartable serves interactive Vizzu charts of tabular data files
// and prints their inferred column schemas.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	fs "github.com/ungerik/go-fs"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/domonda/go-chartable"
	"github.com/domonda/go-chartable/chart"
	"github.com/domonda/go-chartable/config"
	"github.com/domonda/go-chartable/htmlchart"
	"github.com/domonda/go-chartable/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "chartable",
		Short:         "Interactive Vizzu charts for tabular data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newServeCmd(), newSchemaCmd())
	return rootCmd
}

func addSourceFlags(cmd *cobra.Command, flags *sourceFlags) {
	cmd.Flags().StringVar(&flags.sqlite, "sqlite", "", "SQLite database file to query instead of a data file")
	cmd.Flags().StringVar(&flags.query, "query", "", "SQL query for --sqlite")
	cmd.Flags().StringVar(&flags.sheet, "sheet", "", "Excel sheet name, default is the first sheet")
	cmd.Flags().StringSliceVar(&flags.encodings, "encodings", nil, "CSV encodings to detect")
}

func fileArg(args []string) fs.FileReader {
	if len(args) == 0 {
		return nil
	}
	return fs.File(args[0])
}

func newServeCmd() *cobra.Command {
	var (
		flags      sourceFlags
		configFile string
		addr       string
	)
	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve an interactive chart of a CSV, Excel, or Arrow file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var file fs.FileReader
			if configFile != "" {
				file = fs.File(configFile)
			}
			cfg, err := config.Load(file)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if len(flags.encodings) == 0 {
				flags.encodings = cfg.CSVEncodings
			}
			logger, err := cfg.NewLogger()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			table, err := loadSource(ctx, fileArg(args), &flags)
			if err != nil {
				return err
			}
			c, err := chart.New(table,
				chart.WithColumnTypes(cfg.ColumnTypes),
				chart.WithConfig(cfg.Chart),
				chart.WithStyle(cfg.Style),
				chart.WithAnimation(cfg.Animation),
				chart.WithDuration(cfg.Duration),
				chart.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			c.OnClick(func(data map[string]any) {
				logger.Info("Chart clicked", zap.Any("data", data))
			})
			logger.Info("Loaded data",
				zap.String("title", table.Title()),
				zap.Int("rows", table.NumRows()),
				zap.Stringer("columns", c.Columns()),
			)

			title := table.Title()
			if title == "" || cfg.Title != config.Default().Title {
				title = cfg.Title
			}
			srv := server.New(c,
				server.WithLogger(logger),
				server.WithStreamBuffer(cfg.StreamBuffer),
				server.WithPage(htmlchart.PageOptions{Title: title, VizzuURL: cfg.VizzuURL}),
			)
			return srv.Run(ctx, cfg.Addr)
		},
	}
	addSourceFlags(cmd, &flags)
	cmd.Flags().StringVar(&configFile, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides the configuration")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	var (
		flags  sourceFlags
		types  map[string]string
		output string
	)
	cmd := &cobra.Command{
		Use:   "schema [file]",
		Short: "Print the inferred column types of a data source",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := make(chartable.ColumnTypes, len(types))
			for name, typ := range types {
				overrides[name] = chartable.ColumnType(typ)
			}
			if err := overrides.Validate(); err != nil {
				return err
			}
			table, err := loadSource(cmd.Context(), fileArg(args), &flags)
			if err != nil {
				return err
			}
			return printSchema(cmd.OutOrStdout(), chartable.InferSchema(table, overrides), output)
		},
	}
	addSourceFlags(cmd, &flags)
	cmd.Flags().StringToStringVar(&types, "type", nil, "column type overrides like Year=dimension")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json, or yaml")
	return cmd
}

func printSchema(w io.Writer, schema chartable.Schema, output string) error {
	switch strings.ToLower(output) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(schema)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(schema); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		for _, col := range schema {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", col.Name, col.Type); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", output)
	}
}
