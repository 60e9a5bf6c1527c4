package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Apurer/go-dog-finder/internal/app/dogfinder"
	dogsdomain "github.com/Apurer/go-dog-finder/internal/domains/dogs/domain"
)

var (
	configPath string
	baseURL    string
	pageSize   int
)

var rootCmd = &cobra.Command{
	Use:   "dogfinder",
	Short: "Search adoptable dogs, keep favorites and get a match",
	Long: `dogfinder opens an interactive shell against the dog adoption API. Type "help" at the
prompt for commands. Settings come from --config, then FETCH_* and DOGFINDER_* variables, then flags.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
		defer stop()
		return dogfinder.Run(ctx, cfg, os.Stdin, os.Stdout)
	},
}

var (
	searchName   string
	searchEmail  string
	searchBreeds []string
	searchAgeMin int
	searchAgeMax int
	searchSort   string
	searchPages  int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Log in, print matching dogs and log out",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		req := dogfinder.SearchRequest{
			Name:   searchName,
			Email:  searchEmail,
			Breeds: searchBreeds,
			Sort:   searchSort,
			Pages:  searchPages,
		}
		if cmd.Flags().Changed("age-min") {
			req.AgeMin = dogsdomain.IntPtr(searchAgeMin)
		}
		if cmd.Flags().Changed("age-max") {
			req.AgeMax = dogsdomain.IntPtr(searchAgeMax)
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return dogfinder.RunSearch(ctx, cfg, req, cmd.OutOrStdout())
	},
}

func loadConfig(cmd *cobra.Command) (dogfinder.Config, error) {
	cfg, err := dogfinder.LoadConfig(configPath)
	if err != nil {
		return dogfinder.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = baseURL
	}
	if flags.Changed("page-size") {
		cfg.PageSize = pageSize
	}
	return cfg, cfg.Validate()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "adoption API base URL (overrides FETCH_API_BASE_URL)")
	rootCmd.PersistentFlags().IntVar(&pageSize, "page-size", dogsdomain.DefaultPageSize, "dogs per page")

	searchCmd.Flags().StringVar(&searchName, "name", "", "name to log in with")
	searchCmd.Flags().StringVar(&searchEmail, "email", "", "email to log in with")
	searchCmd.Flags().StringSliceVar(&searchBreeds, "breed", nil, "breed filter, repeatable")
	searchCmd.Flags().IntVar(&searchAgeMin, "age-min", 0, "minimum age in years")
	searchCmd.Flags().IntVar(&searchAgeMax, "age-max", 0, "maximum age in years")
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "ordering as <breed|name|age>:<asc|desc>")
	searchCmd.Flags().IntVar(&searchPages, "pages", 1, "pages to print")
	_ = searchCmd.MarkFlagRequired("name")
	_ = searchCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(searchCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
