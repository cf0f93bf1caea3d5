package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"haloscope/adapters/export"
	"haloscope/domain/halo"
	"haloscope/internal/config"
	"haloscope/internal/container"
	"haloscope/internal/histogram"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var filterText string

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "haloscope-cli",
		Short: "Query and plot the dmo and disk halo catalogs from the terminal",
		Long: `Query and plot the dmo and disk halo catalogs from the terminal.

The catalog backend is read from the environment (STORE, DATABASE_DRIVER,
DATABASE_URL, DATA_DIR), the same way the web server reads it.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&filterText, "filter", "f", "", "filter clause (default: DEFAULT_FILTER)")

	rootCmd.AddCommand(
		newColumnsCmd(),
		newCountCmd(),
		newQueryCmd(),
		newPlotCmd(),
		newSummaryCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openContainer loads the configured catalogs and resolves the filter flag
func openContainer(ctx context.Context) (*container.Container, string, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", err
	}
	c, err := container.New(cfg)
	if err != nil {
		return nil, "", err
	}
	if err := c.Init(ctx); err != nil {
		c.Close()
		return nil, "", err
	}

	text := filterText
	if text == "" {
		text = cfg.Explore.DefaultFilter
	}
	return c, text, nil
}

func newColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the columns a filter or plot can reference",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := openContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			columns, err := c.Explorer.Schema(cmd.Context())
			if err != nil {
				return err
			}
			for _, col := range columns {
				label := halo.Label(col)
				if !halo.Plottable(col) {
					label = "(not plottable)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", col, label)
			}
			return nil
		},
	}
}

func newCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Count the rows the filter selects in each catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, text, err := openContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			var parts []string
			for _, catalog := range halo.Catalogs() {
				n, err := c.Explorer.Count(cmd.Context(), catalog, text)
				if err != nil {
					return err
				}
				parts = append(parts, fmt.Sprintf("%s: %d rows", catalog.DisplayName(), n))
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, " · "))
			return nil
		},
	}
}

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query [dmo|disk]",
		Short: "Print the rows the filter selects as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := halo.ParseCatalog(args[0])
			if err != nil {
				return err
			}
			c, text, err := openContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			table, err := c.Explorer.Query(cmd.Context(), catalog, text)
			if err != nil {
				return err
			}
			return export.WriteCSV(cmd.OutOrStdout(), table)
		},
	}
}

func newPlotCmd() *cobra.Command {
	var width, height int

	cmd := &cobra.Command{
		Use:   "plot [name]",
		Short: "Draw a standard plot in the terminal",
		Long: "Draw a standard plot in the terminal.\n\nAvailable plots:\n  " +
			strings.Join(histogram.StandardPlotNames(), "\n  "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, text, err := openContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			snap, err := c.Explorer.Load(cmd.Context(), text)
			if err != nil {
				return err
			}
			plot, err := c.Explorer.StandardPlot(snap, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderLinePlot(plot, width, height))
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 80, "canvas width in columns")
	cmd.Flags().IntVar(&height, "height", 20, "canvas height in rows")

	return cmd
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Summarize the columns of the filtered catalogs",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, text, err := openContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			snap, err := c.Explorer.Load(cmd.Context(), text)
			if err != nil {
				return err
			}
			summaries, err := c.Explorer.Summary(snap)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summaries))
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var scopeName string

	cmd := &cobra.Command{
		Use:   "export [dmo|disk] [file]",
		Short: "Write a catalog to a .csv or .xlsx file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := halo.ParseCatalog(args[0])
			if err != nil {
				return err
			}
			scope, err := export.ParseScope(scopeName)
			if err != nil {
				return err
			}
			c, text, err := openContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			var table *halo.Table
			if scope == export.ScopeCatalog {
				table, err = c.Explorer.Catalog(cmd.Context(), catalog)
			} else {
				table, err = c.Explorer.Query(cmd.Context(), catalog, text)
			}
			if err != nil {
				return err
			}
			if err := export.WriteFile(args[1], table); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d %s rows to %s\n", table.Len(), catalog, args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&scopeName, "scope", "query", "rows to export: query or catalog")

	return cmd
}
