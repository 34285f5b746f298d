package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"eventsphere-scanner/internal/api"
	"eventsphere-scanner/internal/attendance"
	"eventsphere-scanner/internal/camera"
	"eventsphere-scanner/internal/config"
	"eventsphere-scanner/internal/console"
	"eventsphere-scanner/internal/decode"
	"eventsphere-scanner/internal/journal"
	"eventsphere-scanner/internal/scanner"
	"eventsphere-scanner/internal/utils"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan QR codes and confirm presences",
	Long: `Open the camera, decode presence QR codes and submit them to the
backend. Every accepted presence refreshes the attendance counts. Runs
until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		eventID, _ := cmd.Flags().GetInt64("event")
		eventID = eventIDOrDefault(eventID)

		deviceID, _ := cmd.Flags().GetString("device")
		facing, _ := cmd.Flags().GetString("facing")
		torch, _ := cmd.Flags().GetBool("torch")
		withConsole, _ := cmd.Flags().GetBool("console")

		session := buildScanSession(eventID)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts, err := cameraStartOptions(session.Camera(), deviceID, facing)
		if err != nil {
			slog.Error("Invalid camera selection", "error", err)
			os.Exit(1)
		}

		if err := session.Start(ctx, opts); err != nil {
			slog.Error("Failed to start scanning session", "error", err)
			os.Exit(1)
		}
		defer session.Stop()

		if torch {
			if err := session.Camera().Torch(true); err != nil {
				slog.Warn("Torch unavailable", "error", err)
			}
		}

		if withConsole {
			srv := console.New(session)
			go func() {
				if err := srv.Run(cfg.Console.Listen); err != nil {
					slog.Error("Console stopped", "error", err)
				}
			}()
		}

		if snap, err := session.Tracker().Current(); err == nil {
			fmt.Printf("Scanning for %q: %d/%d present. Ctrl-C to stop.\n",
				snap.Event.Name, snap.PresentCount(), snap.TotalCount())
		}

		go printResults(ctx, session)

		<-ctx.Done()
		fmt.Println("\nStopping...")
	},
}

// buildScanSession wires camera, decoder, backend client, attendance state
// and journal into one session for the given event.
func buildScanSession(eventID int64) *scanner.Session {
	if cfg.APIToken != "" && api.TokenExpired(cfg.APIToken, time.Now()) {
		slog.Warn("API token is expired. Log in again before scanning.")
	}

	client := newAPIClient()
	tracker := attendance.NewTracker(client, eventID)

	driver := camera.NewImageDirDriver(cfg.Scan.LoopFrames, cfg.Scan.FrameDirs...)
	cam := camera.NewSession(driver)
	if err := cam.EnumerationError(); err != nil {
		slog.Warn("Camera enumeration failed, manual entry only", "error", err)
	}

	return scanner.NewSession(cam, decode.NewQRDecoder(), scanner.NewSubmitter(client), tracker, scanner.Options{
		Interval:  time.Duration(cfg.Scan.IntervalMS) * time.Millisecond,
		ResultTTL: time.Duration(cfg.Scan.ResultTTLMS) * time.Millisecond,
		Recorder:  journal.NewRecorder(provider, eventID, stationID()),
	})
}

// stationID mints the identifier recorded with every journal entry.
func stationID() string {
	id, err := utils.GenerateStationID([]byte(cfg.StationSecret))
	if err != nil {
		slog.Warn("Failed to generate station id", "error", err)
		host, _ := os.Hostname()
		return host
	}
	return id
}

func cameraStartOptions(cam *camera.Session, deviceID, facing string) (camera.StartOptions, error) {
	opts := camera.StartOptions{}

	if facing == "" {
		facing = cfg.Scan.Facing
	}
	switch facing {
	case "", string(camera.FacingEnvironment):
		opts.Facing = camera.FacingEnvironment
	case string(camera.FacingUser):
		opts.Facing = camera.FacingUser
	default:
		return opts, fmt.Errorf("unknown facing %q", facing)
	}

	if deviceID != "" {
		for _, dev := range cam.Devices() {
			if dev.ID == deviceID || dev.Label == deviceID {
				d := dev
				opts.Device = &d
				break
			}
		}
		if opts.Device == nil {
			return opts, fmt.Errorf("no such capture device %q", deviceID)
		}
	}

	cons, err := presetConstraints()
	if err != nil {
		return opts, err
	}
	opts.Constraints = cons

	return opts, nil
}

// presetConstraints resolves the configured camera preset, if any.
func presetConstraints() (*camera.Constraints, error) {
	name := cfg.Scan.Preset
	if name == "" {
		return nil, nil
	}
	if cfg.Scan.PresetFile == "" {
		return nil, errors.New("scan.preset is set but scan.preset_file is not")
	}

	presets, err := camera.LoadPresets(cfg.Scan.PresetFile)
	if err != nil {
		return nil, err
	}
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("preset %q not found in %s", name, cfg.Scan.PresetFile)
	}
	c := p.Constraints()
	return &c, nil
}

// printResults echoes each new scan result with the current counts.
func printResults(ctx context.Context, session *scanner.Session) {
	var lastAt time.Time
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, ok := session.LastResult()
			if !ok || !result.At.After(lastAt) {
				continue
			}
			lastAt = result.At

			mark := "✗"
			if result.Success {
				mark = "✓"
			}
			if snap, err := session.Tracker().Current(); err == nil {
				fmt.Printf("%s %s (%d/%d)\n", mark, result.Message, snap.PresentCount(), snap.TotalCount())
			} else {
				fmt.Printf("%s %s\n", mark, result.Message)
			}
		}
	}
}

func init() {
	scanCmd.Flags().Int64P("event", "e", 0, "event id (defaults to EVENT_ID)")
	scanCmd.Flags().StringP("device", "d", "", "capture device id or label")
	scanCmd.Flags().StringP("facing", "f", "", "camera facing preference (user, environment)")
	scanCmd.Flags().BoolP("torch", "t", false, "turn the torch on if the device supports it")
	scanCmd.Flags().BoolP("console", "c", false, fmt.Sprintf("serve the operator console (default %s)", config.Defaults()["console.listen"]))

	rootCmd.AddCommand(scanCmd)
}
