package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pion/camctl"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List attached cameras",
	Run: func(cmd *cobra.Command, args []string) {
		devices := camctl.EnumerateDevices()

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(devices); err != nil {
				fail("Error encoding JSON: %v", err)
			}
			return
		}

		if len(devices) == 0 {
			fmt.Println("No cameras found. Pass --sim to register the simulated camera.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tLABEL\tTYPE\tMODEL\tSENSOR\tBITS\tCOOLED")
		fmt.Fprintln(w, "--\t-----\t----\t-----\t------\t----\t------")

		for _, d := range devices {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dx%d\t%d\t%v\n",
				d.DeviceID,
				d.Label,
				d.DeviceType,
				d.Model,
				d.Sensor.MaxWidth,
				d.Sensor.MaxHeight,
				d.Sensor.BitDepth,
				d.Sensor.Cooled,
			)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
