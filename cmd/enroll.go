package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/attendance/internal/config"
	"github.com/kozaktomas/attendance/internal/gallery"
	"github.com/kozaktomas/attendance/internal/vision"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll",
	Short: "Build the face gallery from labeled images",
	Long: `Enroll scans the images directory for files named <Label>[_suffix].<ext>
(png, jpg, jpeg), detects faces, and persists their embeddings as the match
gallery. Without --force an existing gallery is reused unchanged.`,
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().Bool("force", false, "Recompute the gallery even if one exists")
}

func runEnroll(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	force := mustGetBool(cmd, "force")

	rec, err := vision.New(cfg.FaceModelsDir)
	if err != nil {
		return err
	}
	defer rec.Close()

	builder := gallery.NewBuilder(rec, cfg.GalleryPath())
	g, err := builder.Enroll(cfg.ImagesDir, force)
	if err != nil {
		return err
	}

	fmt.Printf("Gallery ready: %d embeddings for %d people.\n", g.Len(), len(g.People()))
	return nil
}
