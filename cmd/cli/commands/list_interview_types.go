package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ListInterviewTypesCmd creates the listInterviewTypes command
func ListInterviewTypesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listInterviewTypes <ward_id>",
		Short: "List the active interview types for a ward",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := app.Database.ListActiveInterviewTypes(app.Ctx, args[0])
			if err != nil {
				return err
			}

			if len(types) == 0 {
				fmt.Println("No active interview types found")
				return nil
			}

			fmt.Printf("\nActive interview types:\n\n")
			for _, t := range types {
				fmt.Printf("  %s  %s (%d min)\n", t.ID, t.Name, t.DurationMinutes)
				if t.Description != "" {
					fmt.Printf("      %s\n", t.Description)
				}
			}
			fmt.Println()

			return nil
		},
	}
}
