package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recipe-shopper/internal/bootstrap"
	"recipe-shopper/internal/config"
)

var (
	// Global flags
	verbose bool
	owner   string

	cfg      *config.Config
	logger   *zap.Logger
	services *bootstrap.Services
)

var rootCmd = &cobra.Command{
	Use:   "recipe-shopper",
	Short: "Manage recipes and derive shopping lists from them",
	Long: `recipe-shopper stores recipes, scales them to the servings you cook for,
merges their ingredients into one shopping list and subtracts what is
already in the fridge.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("APP_ENV") != "production" {
			_ = godotenv.Load()
		}

		var err error
		cfg, err = config.NewFromEnv()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger, err = bootstrap.NewLogger(cfg.LogLevel, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		services, err = bootstrap.New(cmd.Context(), cfg, logger)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if services != nil {
			_ = services.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&owner, "owner", "local", "Owner of the shopping list")

	rootCmd.AddCommand(recipeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(metricsCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
