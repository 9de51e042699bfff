package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/attendance/internal/config"
	"github.com/kozaktomas/attendance/internal/gallery"
	"github.com/kozaktomas/attendance/internal/ledger"
	"github.com/kozaktomas/attendance/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a read-only attendance report over HTTP",
	Long: `Serve exposes the attendance ledger and gallery statistics as JSON.
It never writes anything; the capture loop stays the only writer.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	led := ledger.New(cfg.LedgerPath)
	if err := led.Ensure(); err != nil {
		return err
	}

	var gal *gallery.Gallery
	if gallery.Exists(cfg.GalleryPath()) {
		gal, err = gallery.Load(cfg.GalleryPath())
		if err != nil {
			return err
		}
		fmt.Printf("Loaded gallery: %d embeddings for %d people.\n", gal.Len(), len(gal.People()))
	} else {
		fmt.Println("No gallery persisted yet; reporting an empty one.")
	}

	server := web.NewServer(host, port, led, gal)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Attendance report on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
