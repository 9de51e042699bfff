package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/attendance/internal/capture"
	"github.com/kozaktomas/attendance/internal/config"
	"github.com/kozaktomas/attendance/internal/gallery"
	"github.com/kozaktomas/attendance/internal/ledger"
	"github.com/kozaktomas/attendance/internal/vision"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Watch the webcam and mark attendance",
	Long: `Run ensures the attendance file exists, loads the gallery (enrolling
the images directory first if no gallery is persisted), and then scans
webcam frames until 'q' is pressed or the process is interrupted.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Float64("tolerance", 0.45, "Maximum embedding distance accepted as a match")
	runCmd.Flags().Float64("downscale", 0.25, "Frame downscale factor used for detection")
	runCmd.Flags().Int("cooldown", 5, "Seconds before the same person can be marked again")
	runCmd.Flags().Int("device", 0, "Camera device index")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.Tolerance = mustGetFloat64(cmd, "tolerance")
	}
	if cmd.Flags().Changed("downscale") {
		cfg.Downscale = mustGetFloat64(cmd, "downscale")
	}
	if cmd.Flags().Changed("cooldown") {
		cfg.CooldownSec = mustGetInt(cmd, "cooldown")
	}
	if cmd.Flags().Changed("device") {
		cfg.CameraDevice = mustGetInt(cmd, "device")
	}

	led := ledger.New(cfg.LedgerPath)
	if err := led.Ensure(); err != nil {
		return err
	}

	rec, err := vision.New(cfg.FaceModelsDir)
	if err != nil {
		return err
	}
	defer rec.Close()

	builder := gallery.NewBuilder(rec, cfg.GalleryPath())
	g, err := builder.Enroll(cfg.ImagesDir, false)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded gallery: %d embeddings for %d people.\n", g.Len(), len(g.People()))

	cam, err := capture.OpenCamera(cfg.CameraDevice)
	if err != nil {
		return err
	}
	defer cam.Close()

	window := capture.NewWindow("Attendance")
	defer window.Close()

	loop := capture.NewLoop(cam, window, rec, g, led, capture.Config{
		Tolerance: cfg.Tolerance,
		Downscale: cfg.Downscale,
		Cooldown:  cfg.Cooldown(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return loop.Run(ctx)
}
