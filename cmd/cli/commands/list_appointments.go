package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wardclerk/interview-scheduler/pkg/db"
)

// ListAppointmentsCmd creates the listAppointments command
func ListAppointmentsCmd(app *AppContext) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "listAppointments <ward_id>",
		Short: "List a ward's upcoming appointments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appointments, err := app.Database.ListWardAppointments(app.Ctx, args[0], db.AppointmentStatus(status), time.Now())
			if err != nil {
				return err
			}

			if len(appointments) == 0 {
				fmt.Println("No upcoming appointments found")
				return nil
			}

			loc := app.Cfg.Location()
			fmt.Printf("\nUpcoming appointments:\n\n")
			for _, a := range appointments {
				fmt.Printf("  %s  %s  %s (%s)\n",
					a.ID,
					a.StartTime.In(loc).Format("Mon Jan 2 3:04 PM"),
					a.MemberName,
					a.MemberEmail)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", string(db.StatusScheduled), "Appointment status to list")
	return cmd
}
