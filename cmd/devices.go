package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"eventsphere-scanner/internal/camera"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available capture devices",
	Run: func(cmd *cobra.Command, args []string) {
		driver := camera.NewImageDirDriver(cfg.Scan.LoopFrames, cfg.Scan.FrameDirs...)

		devices, err := driver.Devices()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing devices: %v\n", err)
			os.Exit(1)
		}

		if len(devices) == 0 {
			fmt.Println("No capture devices configured. Set SCAN.FRAME_DIRS.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "INDEX\tID\tLABEL\tFACING")
		for _, dev := range devices {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", dev.Index, dev.ID, dev.Label, dev.Facing)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
