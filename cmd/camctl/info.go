package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pion/camctl/pkg/prop"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show sensor details and the negotiated readout mode",
	Example: `  camctl info --sim
  camctl info --device "1b4e28ba-2fa1-11d2-883f-0016d3cca427"`,
	Run: func(cmd *cobra.Command, args []string) {
		cam := openCamera(prop.MediaConstraints{})
		defer cam.Close()

		info := cam.Info()
		p := cam.Property()

		if jsonOutput {
			out := struct {
				Device   interface{} `json:"device"`
				Readout  prop.Video  `json:"readout"`
				Controls interface{} `json:"controls"`
			}{info, p.Video, cam.Controls()}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				fail("Error encoding JSON: %v", err)
			}
			return
		}

		bold := color.New(color.Bold)
		bold.Println(info.Label)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Device ID:\t%s\n", info.DeviceID)
		fmt.Fprintf(w, "  Model:\t%s\n", info.Model)
		if info.Serial != "" {
			fmt.Fprintf(w, "  Serial:\t%s\n", info.Serial)
		}
		fmt.Fprintf(w, "  Sensor:\t%dx%d, %d bit\n", info.Sensor.MaxWidth, info.Sensor.MaxHeight, info.Sensor.BitDepth)
		if info.Sensor.PixelSizeUM > 0 {
			fmt.Fprintf(w, "  Pixel size:\t%.2f um\n", info.Sensor.PixelSizeUM)
		}
		fmt.Fprintf(w, "  Binning modes:\t%v\n", info.Sensor.Bins)
		fmt.Fprintf(w, "  Color:\t%v\n", info.Sensor.Color)
		fmt.Fprintf(w, "  Cooled:\t%v\n", info.Sensor.Cooled)

		x, y, width, height := cam.ROI()
		fmt.Fprintf(w, "  Readout:\t%dx%d+%d+%d bin %d %s\n", width, height, x, y, p.Binning, p.FrameFormat)
		if p.ExposureTime > 0 {
			fmt.Fprintf(w, "  Exposure:\t%s\n", p.ExposureTime)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
