package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"eventsphere-scanner/internal/console"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Serve the operator console without a camera",
	Long: `Serve the local attendance console with manual entry only. Useful at a
desk station that has no capture device; scanning stations get the same
console with the scan command's --console flag.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		eventID, _ := cmd.Flags().GetInt64("event")
		eventID = eventIDOrDefault(eventID)

		session := buildScanSession(eventID)

		// Load the first snapshot so the page opens with real counts.
		if _, err := session.Tracker().Refresh(ctx); err != nil {
			slog.Error("Failed to fetch event", "error", err)
			os.Exit(1)
		}

		srv := console.New(session)
		if err := srv.Run(cfg.Console.Listen); err != nil {
			slog.Error("Console stopped", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	consoleCmd.Flags().Int64P("event", "e", 0, "event id (defaults to EVENT_ID)")
	rootCmd.AddCommand(consoleCmd)
}
