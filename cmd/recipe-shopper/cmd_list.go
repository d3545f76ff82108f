package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"recipe-shopper/internal/app"
	"recipe-shopper/internal/shopping"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Build and work through the shopping list",
}

var listGenerateCmd = &cobra.Command{
	Use:   "generate [recipe-id[=servings]]...",
	Short: "Build a new shopping list from recipes",
	Long: `Scales each recipe to the given servings (default: the recipe's own),
merges the ingredients and replaces the current shopping list.`,
	Args: cobra.MinimumNArgs(1),
	RunE: listGenerate,
}

var listShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the shopping list",
	RunE:  listShow,
}

var listToggleCmd = &cobra.Command{
	Use:   "toggle [index]",
	Short: "Check or uncheck an item by the index shown in 'list show'",
	Args:  cobra.ExactArgs(1),
	RunE:  listToggle,
}

var listCheckCmd = &cobra.Command{
	Use:   "check [line]...",
	Short: "Subtract what is already in the fridge",
	Long: `Each argument is one "<amount> <unit> <name>" line. Items whose name
and unit match are reduced or removed.

Example:
  recipe-shopper list check "200 g Mehl" "1 l Milch"`,
	Args: cobra.MinimumNArgs(1),
	RunE: listCheck,
}

var listClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the shopping list",
	RunE:  listClear,
}

func init() {
	listShowCmd.Flags().String("sort", "none", "Sort mode: none, alphabetical or category")

	listCmd.AddCommand(listGenerateCmd)
	listCmd.AddCommand(listShowCmd)
	listCmd.AddCommand(listToggleCmd)
	listCmd.AddCommand(listCheckCmd)
	listCmd.AddCommand(listClearCmd)
}

// parsePick reads "id" or "id=servings".
func parsePick(arg string) (app.Pick, error) {
	id, servings, ok := strings.Cut(arg, "=")
	pick := app.Pick{RecipeID: id}
	if !ok {
		return pick, nil
	}
	n, err := strconv.Atoi(servings)
	if err != nil || n < 1 {
		return pick, fmt.Errorf("invalid servings in %q", arg)
	}
	pick.Servings = n
	return pick, nil
}

func listGenerate(cmd *cobra.Command, args []string) error {
	picks := make([]app.Pick, 0, len(args))
	for _, arg := range args {
		p, err := parsePick(arg)
		if err != nil {
			return err
		}
		picks = append(picks, p)
	}
	if _, err := services.App.GenerateList(cmd.Context(), owner, picks); err != nil {
		return err
	}
	return showList(cmd, shopping.SortNone)
}

func listShow(cmd *cobra.Command, args []string) error {
	s, _ := cmd.Flags().GetString("sort")
	mode, err := shopping.ParseSortMode(s)
	if err != nil {
		return err
	}
	return showList(cmd, mode)
}

func showList(cmd *cobra.Command, mode shopping.SortMode) error {
	view, err := services.App.View(cmd.Context(), owner, mode)
	if err != nil {
		return err
	}
	printView(cmd.OutOrStdout(), view)
	return nil
}

func printView(out io.Writer, view *app.View) {
	if len(view.Items) == 0 {
		fmt.Fprintln(out, "The shopping list is empty.")
		return
	}
	p := view.Progress
	fmt.Fprintf(out, "%d of %d checked (%d%%)\n", p.Checked, p.Total, p.Percentage)

	if view.Mode == shopping.SortCategory {
		for _, g := range view.Groups {
			fmt.Fprintf(out, "\n%s\n", g.Category)
			for _, it := range g.Items {
				printItem(out, it)
			}
		}
		return
	}
	fmt.Fprintln(out)
	for _, it := range view.Items {
		printItem(out, it)
	}
}

func printItem(out io.Writer, it app.ViewItem) {
	mark := " "
	if it.Checked {
		mark = "x"
	}
	fmt.Fprintf(out, "%3d [%s] %s\n", it.Index, mark, it.String())
}

func listToggle(cmd *cobra.Command, args []string) error {
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid index %q", args[0])
	}
	if _, err := services.App.ToggleItem(cmd.Context(), owner, idx, ""); err != nil {
		return err
	}
	return showList(cmd, shopping.SortNone)
}

func listCheck(cmd *cobra.Command, args []string) error {
	res, err := services.App.FridgeCheck(cmd.Context(), owner, args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Removed %d, reduced %d\n", res.Removed, res.Reduced)
	for _, line := range res.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %s\n", line)
	}
	return showList(cmd, shopping.SortNone)
}

func listClear(cmd *cobra.Command, args []string) error {
	if err := services.App.ClearList(cmd.Context(), owner); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Shopping list cleared.")
	return nil
}
