package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pion/camctl/pkg/control"
	"github.com/pion/camctl/pkg/prop"
)

var controlsCmd = &cobra.Command{
	Use:   "controls",
	Short: "List the controls the camera exposes",
	Run: func(cmd *cobra.Command, args []string) {
		cam := openCamera(prop.MediaConstraints{})
		defer cam.Close()

		descs := cam.Controls()

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(descs); err != nil {
				fail("Error encoding JSON: %v", err)
			}
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tRANGE\tDEFAULT\tAUTO\tVALUE")
		fmt.Fprintln(w, "--\t----\t-----\t-------\t----\t-----")

		for _, d := range descs {
			value := "-"
			if v, err := cam.Control(d.ID); err == nil {
				value = v.String()
			}
			rng := fmt.Sprintf("%g..%g", d.Min, d.Max)
			if d.Type == control.TypeBool {
				rng = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%v\t%s\n",
				d.ID, d.Type, rng, d.Default, d.AutoSupported, value)
		}
		w.Flush()
	},
}

var getCmd = &cobra.Command{
	Use:   "get <control-id>",
	Short: "Read one control value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cam := openCamera(prop.MediaConstraints{})
		defer cam.Close()

		v, err := cam.Control(args[0])
		if err != nil {
			fail("Error reading %s: %v", args[0], err)
		}
		fmt.Println(v)
	},
}

var setCmd = &cobra.Command{
	Use:   "set <control-id> <value>",
	Short: "Write one control value",
	Example: `  camctl set gain 300 --sim
  camctl set cooler-on true --sim
  camctl set exposure auto --sim`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cam := openCamera(prop.MediaConstraints{})
		defer cam.Close()

		id, raw := args[0], args[1]
		desc := findControl(cam.Controls(), id)
		if desc == nil {
			fail("Error: camera has no control %q", id)
		}

		v, err := parseValue(*desc, raw)
		if err != nil {
			fail("Error: %v", err)
		}
		if err := cam.SetControl(id, v); err != nil {
			fail("Error setting %s: %v", id, err)
		}

		color.New(color.FgGreen).Printf("%s = %s\n", id, v)
	},
}

func findControl(descs []control.Desc, id string) *control.Desc {
	for i := range descs {
		if descs[i].ID == id {
			return &descs[i]
		}
	}
	return nil
}

// parseValue turns the command-line string into a typed control value.
// "auto" engages the control's automatic mode.
func parseValue(d control.Desc, raw string) (control.Value, error) {
	if raw == "auto" {
		if !d.AutoSupported {
			return control.Value{}, fmt.Errorf("%s does not support auto", d.ID)
		}
		return d.DefaultValue().WithAuto(), nil
	}

	switch d.Type {
	case control.TypeInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return control.Value{}, fmt.Errorf("%s expects an integer: %v", d.ID, err)
		}
		return control.IntValue(n), nil
	case control.TypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return control.Value{}, fmt.Errorf("%s expects a number: %v", d.ID, err)
		}
		return control.FloatValue(f), nil
	case control.TypeBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return control.Value{}, fmt.Errorf("%s expects true or false: %v", d.ID, err)
		}
		return control.BoolValue(b), nil
	}
	return control.Value{}, fmt.Errorf("unhandled control type %s", d.Type)
}

func init() {
	rootCmd.AddCommand(controlsCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
}
