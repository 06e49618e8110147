package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pion/camctl"
	"github.com/pion/camctl/pkg/driver/simcam"
	"github.com/pion/camctl/pkg/prop"
)

var (
	cfgFile    string
	jsonOutput bool
	useSim     bool
	deviceID   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "camctl",
	Short: "Control machine-vision cameras from the command line",
	Long: `Enumerate cameras, inspect and tune their controls, capture raw
frame sequences to disk, and serve a live preview over websockets.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if useSim || viper.GetBool("sim") {
			return simcam.Register()
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.camctl.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	rootCmd.PersistentFlags().BoolVar(&useSim, "sim", false, "Register the simulated camera")
	rootCmd.PersistentFlags().StringVar(&deviceID, "device", "", "Device ID (see 'camctl list'; defaults to the 'device' config key)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".camctl" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".camctl")
	}

	viper.SetEnvPrefix("camctl")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// resolveDevice prefers the --device flag, then the config file.
func resolveDevice() string {
	if deviceID != "" {
		return deviceID
	}
	return viper.GetString("device")
}

// openCamera opens the selected device, or the best match when no
// device was named.
func openCamera(extra prop.MediaConstraints) *camctl.Camera {
	if id := resolveDevice(); id != "" {
		extra.DeviceID = prop.StringExact(id)
	}

	cam, err := camctl.OpenCamera(extra)
	if err != nil {
		fail("Error opening camera: %v", err)
	}
	return cam
}

func fail(format string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
