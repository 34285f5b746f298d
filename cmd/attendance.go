package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"eventsphere-scanner/internal/api"
	"eventsphere-scanner/internal/attendance"
	"eventsphere-scanner/internal/console"
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Show the server's attendance list for an event",
	Long: `Fetch the event from the backend and print its participants. The list
is server truth at the moment of the call, nothing is cached locally.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		eventID, _ := cmd.Flags().GetInt64("event")
		eventID = eventIDOrDefault(eventID)

		presentOnly, _ := cmd.Flags().GetBool("present")
		query, _ := cmd.Flags().GetString("search")

		tracker := attendance.NewTracker(newAPIClient(), eventID)
		snap, err := tracker.Refresh(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching event: %v\n", err)
			os.Exit(1)
		}

		var participants []api.Participant
		if presentOnly {
			participants = snap.Present()
		} else {
			participants = snap.Event.Participants
		}
		participants = console.FilterParticipants(participants, query)

		fmt.Printf("%s — %s %s\n\n", snap.Event.Name, snap.Event.Location, snap.Event.Date)

		if len(participants) == 0 {
			fmt.Println("No participants found.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSTATUS")
		for _, p := range participants {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.UserName, p.UserEmail, p.Status)
		}
		w.Flush()

		fmt.Printf("\n%d/%d present\n", snap.PresentCount(), snap.TotalCount())
	},
}

func init() {
	attendanceCmd.Flags().Int64P("event", "e", 0, "event id (defaults to EVENT_ID)")
	attendanceCmd.Flags().BoolP("present", "p", false, "only participants marked present")
	attendanceCmd.Flags().StringP("search", "q", "", "filter by name or email, accent-insensitive")

	rootCmd.AddCommand(attendanceCmd)
}
