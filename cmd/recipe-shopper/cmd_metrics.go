package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"recipe-shopper/internal/metrics"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Inspect and prune activity records",
}

var metricsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show daily activity and system health",
	RunE:  metricsShow,
}

var metricsCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove old activity records",
	RunE:  metricsCleanup,
}

func init() {
	metricsShowCmd.Flags().Int("days", 7, "Number of days to show")
	metricsCleanupCmd.Flags().Int("days", 30, "Keep records for the last N days")

	metricsCmd.AddCommand(metricsShowCmd)
	metricsCmd.AddCommand(metricsCleanupCmd)
}

func metricsShow(cmd *cobra.Command, args []string) error {
	days, _ := cmd.Flags().GetInt("days")
	activity, err := services.Metrics.GetDailyActivity(cmd.Context(), days)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-10s %6s %6s %7s %7s %7s %6s\n", "DATE", "LISTS", "FRIDGE", "TOGGLES", "CLEARED", "RECIPES", "TOTAL")
	for _, d := range activity {
		fmt.Fprintf(out, "%-10s %6d %6d %7d %7d %7d %6d\n",
			d.Date, d.ListsCreated, d.FridgeChecks, d.ItemsToggled, d.ListsCleared, d.RecipesSaved, d.TotalEvents)
	}

	health := metrics.GetSysHealth(filepath.Dir(cfg.DatabasePath))
	fmt.Fprintf(out, "\nRAM: %dMB alloc / %dMB sys, goroutines: %d, data: %s\n",
		health.AllocMB, health.SysMB, health.Goroutines, health.DataDiskSize)
	return nil
}

func metricsCleanup(cmd *cobra.Command, args []string) error {
	days, _ := cmd.Flags().GetInt("days")
	affected, err := services.Metrics.Cleanup(cmd.Context(), days)
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Successfully removed %d old activity records.\n", affected)
	return nil
}
