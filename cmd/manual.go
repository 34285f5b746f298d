package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"eventsphere-scanner/internal/attendance"
	"eventsphere-scanner/internal/code"
	"eventsphere-scanner/internal/journal"
	"eventsphere-scanner/internal/scanner"
)

var manualCmd = &cobra.Command{
	Use:   "manual <participantId:token>",
	Short: "Confirm one presence by typing the code",
	Long: `Submit a hand-typed presence code for an event. The code goes through
the same validation and server round trip as a scanned QR code.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		raw := args[0]

		eventID, _ := cmd.Flags().GetInt64("event")
		eventID = eventIDOrDefault(eventID)

		client := newAPIClient()
		submit := scanner.NewSubmitter(client)

		result := submit.SubmitManual(ctx, eventID, raw)

		participantID := int64(0)
		if parsed, err := code.Parse(raw); err == nil {
			participantID = parsed.ParticipantID
		}
		rec := journal.NewRecorder(provider, eventID, stationID())
		if err := rec.Record(ctx, participantID, result.Success, result.Message); err != nil {
			slog.Warn("Journal write failed", "error", err)
		}

		if !result.Success {
			fmt.Fprintf(os.Stderr, "✗ %s\n", result.Message)
			os.Exit(1)
		}

		fmt.Printf("✓ %s\n", result.Message)

		// Show the counts the server now reports.
		tracker := attendance.NewTracker(client, eventID)
		if snap, err := tracker.Refresh(ctx); err == nil {
			fmt.Printf("%d/%d present\n", snap.PresentCount(), snap.TotalCount())
		}
	},
}

func init() {
	manualCmd.Flags().Int64P("event", "e", 0, "event id (defaults to EVENT_ID)")
	rootCmd.AddCommand(manualCmd)
}
