package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/placematch/internal/config"
	"github.com/placematch/internal/export"
	"github.com/placematch/internal/match"
	"github.com/placematch/internal/store"
	"github.com/placematch/internal/web"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Printf("WARNING: failed to load .env: %v", err)
	}

	rootCmd := &cobra.Command{
		Use:   "matcher",
		Short: "Place to building footprint matching engine",
		Long:  `Resolves point-located places to the building footprint they most plausibly belong to, combining spatial containment/proximity with fuzzy name similarity.`,
	}

	rootCmd.AddCommand(createMatchCmd())
	rootCmd.AddCommand(createServeCmd())
	rootCmd.AddCommand(createPingCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func createMatchCmd() *cobra.Command {
	var (
		placesPath    string
		buildingsPath string
		fromPostgres  bool
		csvOut        string
		sqliteOut     string
		savePostgres  bool
		label         string
		threshold     float64
		minScore      float64
		workers       int
		verbose       bool
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Run a full matching batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.MatchConfigFromEnv()
			if cmd.Flags().Changed("threshold") {
				cfg.DistanceThresholdMeters = threshold
			}
			if cmd.Flags().Changed("min-score") {
				cfg.MinAcceptanceScore = minScore
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}

			ctx := context.Background()

			var (
				places    []*match.Place
				buildings []*match.Building
				pg        *store.PostgresStore
				err       error
			)

			if fromPostgres {
				pg, err = store.NewPostgresStore("")
				if err != nil {
					return err
				}
				defer pg.Close()

				if places, err = pg.LoadPlaces(ctx); err != nil {
					return err
				}
				if buildings, err = pg.LoadBuildings(ctx); err != nil {
					return err
				}
			} else {
				if placesPath == "" || buildingsPath == "" {
					return fmt.Errorf("either --from-postgres or both --places and --buildings are required")
				}
				if places, err = store.LoadPlacesGeoJSON(placesPath); err != nil {
					return err
				}
				if buildings, err = store.LoadBuildingsGeoJSON(buildingsPath); err != nil {
					return err
				}
			}

			engine, err := match.NewEngine(cfg, buildings)
			if err != nil {
				// Configuration errors are fatal before any place is processed.
				return err
			}
			engine.SetVerbose(verbose)

			results, run, err := engine.Run(ctx, label, places)
			if err != nil {
				return err
			}
			engine.PrintSummary(run)

			if csvOut != "" {
				if err := export.WriteResultsFile(csvOut, results); err != nil {
					return err
				}
				fmt.Printf("Results written to %s\n", csvOut)
			}

			if sqliteOut != "" {
				sink, err := store.NewSQLiteSink(sqliteOut)
				if err != nil {
					return err
				}
				defer sink.Close()
				if err := sink.SaveRun(run, results); err != nil {
					return err
				}
				fmt.Printf("Results written to %s\n", sqliteOut)
			}

			if savePostgres {
				if pg == nil {
					pg, err = store.NewPostgresStore("")
					if err != nil {
						return err
					}
					defer pg.Close()
				}
				if err := pg.SaveRun(ctx, run, results); err != nil {
					return err
				}
				fmt.Printf("Results saved to Postgres (run %s)\n", run.RunID)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&placesPath, "places", "", "GeoJSON file of place points")
	cmd.Flags().StringVar(&buildingsPath, "buildings", "", "GeoJSON file of building footprints")
	cmd.Flags().BoolVar(&fromPostgres, "from-postgres", false, "Load places and buildings from Postgres")
	cmd.Flags().StringVar(&csvOut, "out", "", "Write results to this CSV file")
	cmd.Flags().StringVar(&sqliteOut, "sqlite", "", "Write results to this SQLite file")
	cmd.Flags().BoolVar(&savePostgres, "save-postgres", false, "Persist run and results to Postgres")
	cmd.Flags().StringVar(&label, "label", "manual", "Label recorded on the match run")
	cmd.Flags().Float64Var(&threshold, "threshold", 50.0, "Candidate search radius in meters")
	cmd.Flags().Float64Var(&minScore, "min-score", 0.0, "Minimum composite score to accept a match")
	cmd.Flags().IntVar(&workers, "workers", 4, "Worker pool size")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Per-place trace logging")

	return cmd
}

func createServeCmd() *cobra.Command {
	var (
		buildingsPath string
		fromPostgres  bool
		host          string
		port          int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve ad-hoc match queries over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.MatchConfigFromEnv()

			var (
				buildings []*match.Building
				err       error
			)
			if fromPostgres {
				pg, err := store.NewPostgresStore("")
				if err != nil {
					return err
				}
				buildings, err = pg.LoadBuildings(context.Background())
				pg.Close()
				if err != nil {
					return err
				}
			} else {
				if buildingsPath == "" {
					return fmt.Errorf("either --from-postgres or --buildings is required")
				}
				if buildings, err = store.LoadBuildingsGeoJSON(buildingsPath); err != nil {
					return err
				}
			}

			engine, err := match.NewEngine(cfg, buildings)
			if err != nil {
				return err
			}

			server := web.NewServer(engine, host, port)
			return server.Start()
		},
	}

	cmd.Flags().StringVar(&buildingsPath, "buildings", "", "GeoJSON file of building footprints")
	cmd.Flags().BoolVar(&fromPostgres, "from-postgres", false, "Load buildings from Postgres")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "Listen host")
	cmd.Flags().IntVar(&port, "port", 8080, "Listen port")

	return cmd
}

func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test database connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := store.NewPostgresStore("")
			if err != nil {
				return err
			}
			defer pg.Close()

			if err := pg.Ping(); err != nil {
				return err
			}
			fmt.Println("Database connection successful!")
			return nil
		},
	}
}
