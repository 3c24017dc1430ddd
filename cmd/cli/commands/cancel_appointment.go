package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CancelAppointmentCmd creates the cancelAppointment command
func CancelAppointmentCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancelAppointment <appointment_id>",
		Short: "Cancel a scheduled appointment, freeing its slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Database.CancelAppointment(app.Ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("✓ Appointment %s cancelled\n", args[0])
			return nil
		},
	}
}
