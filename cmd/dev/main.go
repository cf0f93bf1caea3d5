package main

import (
	"context"
	"fmt"
	"os"

	"haloscope/adapters/excel"
	"haloscope/adapters/sqlstore"
	"haloscope/domain/halo"
	"haloscope/internal/config"
	"haloscope/internal/migration"
	"haloscope/internal/synth"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	driver string
	dsn    string
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "haloscope-dev",
		Short: "haloscope development tools",
	}
	rootCmd.PersistentFlags().StringVar(&driver, "driver", cfg.Database.Driver, "database driver (sqlite3|postgres)")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", cfg.Database.URL, "database connection string")

	rootCmd.AddCommand(
		newMigrateCmd(),
		newResetCmd(),
		newSeedCmd(),
		newImportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openMigrated(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlstore.Open(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the dmo and disk tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openMigrated(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Printf("Schema %s applied to %s\n", migration.NewRunner().Version(), driver)
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Drop and recreate the catalog tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := sqlstore.Open(ctx, driver, dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			runner := migration.NewRunner()
			if err := runner.Reset(ctx, db); err != nil {
				return err
			}
			if err := runner.Run(ctx, db); err != nil {
				return err
			}
			fmt.Println("Catalog tables reset")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	cfg := synth.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill both catalogs with synthetic halos",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cats, err := synth.Generate(cfg)
			if err != nil {
				return err
			}

			db, err := openMigrated(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			store := sqlstore.NewHaloRepository(db)
			for _, t := range cats.Tables() {
				if err := store.Replace(ctx, t.Catalog, t); err != nil {
					return err
				}
				fmt.Printf("Seeded %s with %d rows\n", t.Catalog, t.Len())
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&cfg.Hosts, "hosts", cfg.Hosts, "number of host halos")
	cmd.Flags().IntVar(&cfg.SubhalosPerHost, "subhalos", cfg.SubhalosPerHost, "subhalos per host")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	cmd.Flags().Float64Var(&cfg.DiskRadius, "disk-radius", cfg.DiskRadius, "pericenter (kpc) inside which the disk disrupts subhalos")
	cmd.Flags().Float64Var(&cfg.DisruptionRate, "disruption-rate", cfg.DisruptionRate, "probability that an inner subhalo is disrupted")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [dmo|disk] [file]",
		Short: "Replace a catalog with the rows of a CSV or XLSX file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			catalog, err := halo.ParseCatalog(args[0])
			if err != nil {
				return err
			}
			table, err := excel.NewDataReader(args[1]).ReadTable(catalog)
			if err != nil {
				return err
			}

			db, err := openMigrated(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := sqlstore.NewHaloRepository(db).Replace(ctx, catalog, table); err != nil {
				return err
			}
			fmt.Printf("Imported %d rows into %s\n", table.Len(), catalog)
			return nil
		},
	}
}
