package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"recipe-shopper/internal/ingredient"
	"recipe-shopper/internal/recipe"
)

var recipeCmd = &cobra.Command{
	Use:   "recipe",
	Short: "Add, import and inspect recipes",
}

var recipeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a recipe",
	Long: `Adds a recipe. Each --ingredient is one "<amount> <unit> <name>" line.

Example:
  recipe-shopper recipe add --name Pfannkuchen --servings 2 \
    --ingredient "250 g Mehl" --ingredient "0,5 l Milch" --ingredient "3 Eier"`,
	RunE: recipeAdd,
}

var recipeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all recipes",
	RunE:  recipeList,
}

var recipeShowCmd = &cobra.Command{
	Use:   "show [recipe-id]",
	Short: "Show a recipe",
	Args:  cobra.ExactArgs(1),
	RunE:  recipeShow,
}

var recipeDeleteCmd = &cobra.Command{
	Use:   "delete [recipe-id]",
	Short: "Delete a recipe and its image",
	Args:  cobra.ExactArgs(1),
	RunE:  recipeDelete,
}

var recipeImportCmd = &cobra.Command{
	Use:   "import [url]",
	Short: "Import a recipe from a web page",
	Args:  cobra.ExactArgs(1),
	RunE:  recipeImport,
}

var recipeImageCmd = &cobra.Command{
	Use:   "image [recipe-id] [file]",
	Short: "Attach an image to a recipe",
	Args:  cobra.ExactArgs(2),
	RunE:  recipeImage,
}

var recipeUnitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List the units ingredient lines may use",
	RunE:  recipeUnits,
}

var recipeSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import recipe posts from the Ghost blog",
	RunE:  recipeSync,
}

var recipePublishCmd = &cobra.Command{
	Use:   "publish [recipe-id]",
	Short: "Post a recipe to the Ghost blog",
	Args:  cobra.ExactArgs(1),
	RunE:  recipePublish,
}

func init() {
	recipeAddCmd.Flags().String("id", "", "Update the recipe with this ID")
	recipeAddCmd.Flags().String("name", "", "Recipe name (required)")
	recipeAddCmd.Flags().Int("servings", 4, "Servings the amounts are written for")
	recipeAddCmd.Flags().StringArray("ingredient", nil, "Ingredient line, repeatable")
	recipeAddCmd.Flags().String("instructions", "", "Preparation steps")
	recipeAddCmd.MarkFlagRequired("name")

	recipeCmd.AddCommand(recipeAddCmd)
	recipeCmd.AddCommand(recipeListCmd)
	recipeCmd.AddCommand(recipeShowCmd)
	recipeCmd.AddCommand(recipeDeleteCmd)
	recipeCmd.AddCommand(recipeImportCmd)
	recipeCmd.AddCommand(recipeImageCmd)
	recipeCmd.AddCommand(recipeUnitsCmd)

	recipePublishCmd.Flags().Bool("live", false, "Publish immediately instead of saving a draft")
	recipeCmd.AddCommand(recipeSyncCmd)
	recipeCmd.AddCommand(recipePublishCmd)
}

func recipeAdd(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("id")
	name, _ := cmd.Flags().GetString("name")
	servings, _ := cmd.Flags().GetInt("servings")
	lines, _ := cmd.Flags().GetStringArray("ingredient")
	instructions, _ := cmd.Flags().GetString("instructions")

	v := services.App.Validator()
	entries := make([]ingredient.Entry, 0, len(lines))
	for i, line := range lines {
		e, err := v.ParseIngredientLine(line)
		if err != nil {
			return fmt.Errorf("ingredient %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}

	saved, err := services.App.AddRecipe(cmd.Context(), owner, recipe.Recipe{
		ID:           id,
		Name:         name,
		Servings:     servings,
		Ingredients:  entries,
		Instructions: instructions,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s)\n", saved.Name, saved.ID)
	return nil
}

func recipeList(cmd *cobra.Command, args []string) error {
	recipes, err := services.App.ListRecipes(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(recipes) == 0 {
		fmt.Fprintln(out, "No recipes yet.")
		return nil
	}
	for _, r := range recipes {
		fmt.Fprintf(out, "%s  %s (%d servings, %d ingredients)\n", r.ID, r.Name, r.Servings, len(r.Ingredients))
	}
	return nil
}

func recipeShow(cmd *cobra.Command, args []string) error {
	r, err := services.App.GetRecipe(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printRecipe(cmd, *r)
	return nil
}

func printRecipe(cmd *cobra.Command, r recipe.Recipe) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n%s\n\n", r.Name, strings.Repeat("=", len([]rune(r.Name))))
	fmt.Fprintf(out, "Servings: %d\n", r.Servings)
	if r.SourceURL != "" {
		fmt.Fprintf(out, "Source:   %s\n", r.SourceURL)
	}
	if r.Image != "" {
		fmt.Fprintf(out, "Image:    %s\n", r.Image)
	}
	fmt.Fprintln(out)
	for _, e := range r.Ingredients {
		fmt.Fprintf(out, "  - %s\n", e)
	}
	if r.Instructions != "" {
		fmt.Fprintf(out, "\n%s\n", r.Instructions)
	}
}

func recipeDelete(cmd *cobra.Command, args []string) error {
	if err := services.App.DeleteRecipe(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

func recipeImport(cmd *cobra.Command, args []string) error {
	res, err := services.App.ImportRecipe(cmd.Context(), owner, args[0])
	if err != nil {
		return err
	}
	printRecipe(cmd, res.Recipe)
	for _, line := range res.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %s\n", line)
	}
	return nil
}

func recipeImage(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	r, err := services.App.AttachImage(cmd.Context(), owner, args[0], http.DetectContentType(data), data)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stored image for %s at %s\n", r.Name, r.Image)
	return nil
}

func recipeUnits(cmd *cobra.Command, args []string) error {
	v := services.App.Validator()
	out := cmd.OutOrStdout()
	for _, u := range v.Units() {
		if u == v.DefaultUnit() {
			fmt.Fprintf(out, "%s (default)\n", u)
			continue
		}
		fmt.Fprintln(out, u)
	}
	return nil
}

func recipeSync(cmd *cobra.Command, args []string) error {
	report, err := services.App.SyncBlog(cmd.Context(), owner)
	if report != nil {
		out := cmd.OutOrStdout()
		for _, r := range report.Imported {
			fmt.Fprintf(out, "imported: %s (%s)\n", r.Name, r.ID)
		}
		for title, failure := range report.Failed {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed: %s: %v\n", title, failure)
		}
		fmt.Fprintf(out, "%d imported, %d already known, %d failed\n",
			len(report.Imported), report.Existing, len(report.Failed))
	}
	return err
}

func recipePublish(cmd *cobra.Command, args []string) error {
	live, _ := cmd.Flags().GetBool("live")
	post, err := services.App.PublishRecipe(cmd.Context(), args[0], live)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created post %s %s\n", post.ID, post.URL)
	return nil
}
