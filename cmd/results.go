package cmd

import (
	"fmt"

	"github.com/careercompass/compass/internal/results"
	"github.com/spf13/cobra"
)

// resultsCmd prints the final results as plain text, for terminals
// where the full TUI is unwanted (CI dumps, narrow SSH sessions).
var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Print your assessment results",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.store.Close()

		if !d.sess.LoggedIn() {
			return fmt.Errorf("not signed in; run `compass login` first")
		}
		user := d.sess.User()
		if user == nil {
			return fmt.Errorf("stored session is incomplete; run `compass login` again")
		}

		summary, err := results.Load(cmd.Context(), d.client, user.ID)
		if err != nil {
			return err
		}
		if summary.Empty() {
			fmt.Println("No results yet. Finish an assessment first: compass assess")
			return nil
		}

		fmt.Println("Category scores")
		for _, row := range summary.Scores {
			fmt.Printf("  %-24s %6.1f\n", row.Category, row.Total)
		}
		if top, ok := summary.TopCategory(); ok {
			fmt.Printf("\nStrongest area: %s\n", top)
		}

		if len(summary.Careers) > 0 {
			fmt.Println("\nRecommended careers")
			for _, career := range summary.Careers {
				fmt.Printf("  %s\n", career.Name)
				for _, college := range summary.Colleges[career.ID] {
					line := college.Name
					if college.Location != "" {
						line += " (" + college.Location + ")"
					}
					fmt.Printf("    - %s\n", line)
				}
			}
		}
		return nil
	},
}
