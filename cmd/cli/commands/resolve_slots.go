package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wardclerk/interview-scheduler/pkg/core/scheduler"
	"github.com/wardclerk/interview-scheduler/pkg/db"
)

// ResolveSlotsCmd creates the resolveSlots command
func ResolveSlotsCmd(app *AppContext) *cobra.Command {
	var daysAhead int
	var limit int

	cmd := &cobra.Command{
		Use:   "resolveSlots <ward_id> <interview_type_id>",
		Short: "Resolve and rank the available slots for an interview type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wardID, interviewTypeID := args[0], args[1]
			now := time.Now()

			slots, err := app.Resolver.Resolve(app.Ctx, wardID, interviewTypeID, now, daysAhead)
			if err != nil {
				return err
			}

			existing, err := app.Database.ListWardAppointments(app.Ctx, wardID, db.StatusScheduled, now)
			if err != nil {
				return err
			}

			ranked := scheduler.Optimize(slots, existing, now)

			fmt.Printf("\n%d slots available:\n\n", len(ranked))
			fmt.Println(scheduler.Present(ranked, limit, app.Cfg.Location()))
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().IntVar(&daysAhead, "days", 14, "Days ahead to search")
	cmd.Flags().IntVar(&limit, "limit", scheduler.DefaultPresentLimit, "Maximum slots to display")
	return cmd
}
