package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pion/camctl/pkg/capture"
)

var (
	profilePath  string
	captureCount int
	captureOut   string
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a sequence of raw frames to disk",
	Long: `Capture runs a sequence of exposures and dumps each frame as a
headerless .bin file, numbered from one, with a manifest.yaml
describing the geometry of every dump. A YAML profile sets exposure,
gain, binning, region of interest, pixel format and optional PNG, TIFF
or BMP export.`,
	Example: `  camctl capture --sim --count 5 --out ./frames
  camctl capture --profile deep-sky.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		p := capture.DefaultProfile
		if profilePath != "" {
			loaded, err := capture.LoadProfile(profilePath)
			if err != nil {
				fail("Error loading profile: %v", err)
			}
			p = *loaded
		}
		if cmd.Flags().Changed("count") {
			p.Count = captureCount
		}
		if cmd.Flags().Changed("out") {
			p.OutDir = captureOut
		}
		if err := p.Validate(); err != nil {
			fail("Error: %v", err)
		}

		kind, err := capture.ParseExportKind(p.Export)
		if err != nil {
			fail("Error: %v", err)
		}

		cam := openCamera(p.Constraints())
		defer cam.Close()

		w, err := capture.NewWriter(p.OutDir)
		if err != nil {
			fail("Error preparing output directory: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Capturing %d frame(s) at %s exposure to %s ...\n", p.Count, p.Exposure(), p.OutDir)

		manifest, err := capture.Run(ctx, cam, w, p.Count, kind)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Printf("Interrupted after %d frame(s).\n", len(manifest.Entries))
				return
			}
			fail("Error during capture: %v", err)
		}

		color.New(color.FgGreen).Printf("Captured %d frame(s).\n", len(manifest.Entries))
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().StringVar(&profilePath, "profile", "", "YAML capture profile")
	captureCmd.Flags().IntVar(&captureCount, "count", 1, "Number of frames to capture")
	captureCmd.Flags().StringVar(&captureOut, "out", ".", "Output directory")
}
