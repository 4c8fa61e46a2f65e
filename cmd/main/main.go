package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"comicvault/storefront/internal/config"
	"comicvault/storefront/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Comic catalog storefront with hierarchical bundle pricing",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML, default ./config.yaml)")

	cmd.AddCommand(
		importCmd(&configPath),
		workCmd(&configPath),
		syncCmd(&configPath),
		serveCmd(&configPath),
		optionsCmd(&configPath),
		auditCmd(&configPath),
	)

	return cmd
}

func importCmd(configPath *string) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Fetch the upstream catalog and queue its pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), *configPath, func(ctx context.Context, app *container.Container) error {
				if reset {
					log.Info("🔄 Resetting import progress")
					if err := app.StateManager.Reset(ctx); err != nil {
						return err
					}
				}
				return app.Importer.ImportAll(ctx)
			})
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Start from the first page instead of resuming")
	return cmd
}

func workCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "work",
		Short: "Process queued page, retry and bundle info tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), *configPath, func(ctx context.Context, app *container.Container) error {
				return app.Importer.RunWorkers(ctx, app.Config.Upstream.MaxWorkers)
			})
		},
	}
}

func syncCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Import the catalog and run the workers in one process",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), *configPath, func(ctx context.Context, app *container.Container) error {
				return app.Run(ctx)
			})
		},
	}
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the storefront HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), *configPath, func(ctx context.Context, app *container.Container) error {
				return app.Serve(ctx)
			})
		},
	}
}

func optionsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "options <id>",
		Short: "Print the purchase options of one catalog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), *configPath, func(ctx context.Context, app *container.Container) error {
				options, err := app.Storefront.PurchaseOptions(ctx, args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, o := range options {
					marker := " "
					if o.Recommended {
						marker = "★"
					}
					fmt.Fprintf(out, "%s %-13s %-40s %10s", marker, o.Kind, o.Title, app.Engine.FormatPrice(o.Price))
					if o.SavingsLabel != "" {
						fmt.Fprintf(out, "  %s", o.SavingsLabel)
					}
					fmt.Fprintln(out)
				}
				return nil
			})
		},
	}
}

func auditCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Check the stored catalog hierarchy and bundle info snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), *configPath, func(ctx context.Context, app *container.Container) error {
				report, err := app.Storefront.Audit(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%d nodes, %d bundles, %d integrity warnings\n", report.Nodes, report.Bundles, len(report.Warnings))
				for _, w := range report.Warnings {
					fmt.Fprintf(out, "  %s: bundle %s > individual %s\n",
						w.Path, app.Engine.FormatPrice(w.BundlePrice), app.Engine.FormatPrice(w.IndividualPrice))
				}
				return nil
			})
		},
	}
}

// withContainer loads the configuration, wires the container and runs fn
// until it returns or the process is interrupted.
func withContainer(parent context.Context, configPath string, fn func(ctx context.Context, app *container.Container) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := setupLogging(cfg.Log); err != nil {
		return err
	}
	log.Info("Configuration loaded successfully")

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := container.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer app.Close()

	return fn(ctx, app)
}

func setupLogging(cfg config.LogConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
