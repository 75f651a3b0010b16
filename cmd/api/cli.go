package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"forkify/internal/recipe"
	"forkify/internal/search"
)

var (
	searchPage     int
	recipeServings int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search recipes and print one page of results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeCache, err := newRecipeClient(cmd.Context())
		if err != nil {
			return err
		}
		defer closeCache()

		s := search.New(args[0])
		if err := s.GetResults(cmd.Context(), client); err != nil {
			return err
		}

		page := search.Paginate(s.Result, searchPage, cfg.ResultsPerPage)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tPUBLISHER")
		for _, r := range page.Results {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, search.LimitTitle(r.Title, search.DefaultTitleLimit), r.Publisher)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\npage %d of %d (%d results)\n", page.Page, page.Pages, page.Total)
		return nil
	},
}

var recipeCmd = &cobra.Command{
	Use:   "recipe <id>",
	Short: "Print a recipe's ingredients for a number of servings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeCache, err := newRecipeClient(cmd.Context())
		if err != nil {
			return err
		}
		defer closeCache()

		r, err := client.GetRecipe(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		r.CalcTime()
		r.CalcServings()
		if recipeServings > 0 {
			if err := r.ScaleTo(recipeServings); err != nil {
				return err
			}
		}

		fmt.Printf("%s\nby %s\n%d minutes, %d servings\n\n", r.Title, r.Author, r.Time, r.Servings)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 1, ' ', 0)
		for _, ing := range r.Ingredients {
			fmt.Fprintf(w, "%s\t%s\t%s\n", recipe.FormatCount(ing.Count), ing.Unit, ing.Ingredient)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if r.URL != "" {
			fmt.Printf("\ndirections: %s\n", r.URL)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "Results page to print")
	recipeCmd.Flags().IntVar(&recipeServings, "servings", 0, "Scale ingredients to this many servings")
	rootCmd.AddCommand(searchCmd, recipeCmd)
}
