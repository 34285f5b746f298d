package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the local scan journal",
	Long: `The journal is this station's audit trail of submission outcomes. It is
local only; the attendance list itself always comes from the server.`,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded scans for an event",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		eventID, _ := cmd.Flags().GetInt64("event")
		eventID = eventIDOrDefault(eventID)

		records, err := provider.ListScans(ctx, eventID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing scans: %v\n", err)
			os.Exit(1)
		}

		if len(records) == 0 {
			fmt.Println("No scans recorded for this event.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SCANNED AT\tPARTICIPANT\tOK\tMESSAGE\tSTATION")
		for _, rec := range records {
			ok := "no"
			if rec.Success {
				ok = "yes"
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
				rec.ScannedAt.Format("2006-01-02 15:04:05"),
				rec.ParticipantID,
				ok,
				rec.Message,
				rec.StationID,
			)
		}
		w.Flush()

		fmt.Printf("\nTotal scans: %d\n", len(records))
	},
}

var journalPruneCmd = &cobra.Command{
	Use:   "prune [--days N]",
	Short: "Remove old journal entries",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		days, _ := cmd.Flags().GetInt("days")
		olderThan := time.Now().UTC().AddDate(0, 0, -days)

		fmt.Printf("Pruning scans older than %d days (before %s)...\n",
			days, olderThan.Format("2006-01-02 15:04:05"))

		count, err := provider.PruneScans(ctx, olderThan)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error pruning scans: %v\n", err)
			os.Exit(1)
		}

		if count == 0 {
			fmt.Println("No scans to prune")
		} else {
			fmt.Printf("Successfully pruned %d scan(s)\n", count)
		}
	},
}

func init() {
	journalListCmd.Flags().Int64P("event", "e", 0, "event id (defaults to EVENT_ID)")
	journalPruneCmd.Flags().IntP("days", "d", 30, "remove scans older than this many days")

	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalPruneCmd)
	rootCmd.AddCommand(journalCmd)
}
