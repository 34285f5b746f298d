package cmd

import (
	"fmt"
	"os"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"eventsphere-scanner/internal/code"
)

// Default size of the generated badge image in pixels.
const BADGE_IMAGE_SIZE = 512

var badgeCmd = &cobra.Command{
	Use:   "badge <participantId:token>",
	Short: "Render a presence code as a QR image",
	Long: `Encode a presence code into a PNG QR image, for printed fallback badges
and for exercising a scanning station without a participant's phone.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		raw := args[0]

		// Refuse to print a code a station would reject.
		if _, err := code.Parse(raw); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid presence code: %v\n", err)
			os.Exit(1)
		}

		out, _ := cmd.Flags().GetString("output")
		size, _ := cmd.Flags().GetInt("size")

		png, err := qrcode.Encode(raw, qrcode.Medium, size)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating QR code: %v\n", err)
			os.Exit(1)
		}

		if err := os.WriteFile(out, png, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving QR code: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Badge written to %s\n", out)
	},
}

func init() {
	badgeCmd.Flags().StringP("output", "o", "badge.png", "output file")
	badgeCmd.Flags().IntP("size", "s", BADGE_IMAGE_SIZE, "image size in pixels")

	rootCmd.AddCommand(badgeCmd)
}
