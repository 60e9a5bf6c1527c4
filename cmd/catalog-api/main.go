package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Apurer/go-dog-finder/internal/app/catalogapi"
)

var (
	port      string
	seedCount int
)

var rootCmd = &cobra.Command{
	Use:   "catalog-api",
	Short: "Reference dog catalog service speaking the dog finder HTTP contract",
	Long: `catalog-api serves login, breeds, search, hydration and match endpoints backed by a
generated in-memory catalog, or by PostgreSQL when POSTGRES_DSN is set.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := catalogapi.LoadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = port
		}
		if cmd.Flags().Changed("seed") {
			cfg.SeedCount = seedCount
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return catalogapi.Run(ctx, cfg)
	},
}

func init() {
	rootCmd.Flags().StringVar(&port, "port", "8080", "listen port (overrides PORT)")
	rootCmd.Flags().IntVar(&seedCount, "seed", 200, "dogs to generate into an empty catalog (overrides CATALOG_SEED_COUNT)")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
