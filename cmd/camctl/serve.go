package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pion/camctl/internal/web"
	"github.com/pion/camctl/pkg/prop"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Stream a live preview over websockets",
	Long: `Serve starts the camera and pushes PNG-encoded frames to every
websocket client on /frames, with session events on /status.`,
	Example: `  camctl serve --sim --addr :8080`,
	Run: func(cmd *cobra.Command, args []string) {
		cam := openCamera(prop.MediaConstraints{})
		defer cam.Close()

		if err := cam.Start(); err != nil {
			fail("Error starting stream: %v", err)
		}
		defer cam.Stop()

		addr := serveAddr
		if !cmd.Flags().Changed("addr") {
			if v := viper.GetString("addr"); v != "" {
				addr = v
			}
		}

		srv := web.NewServer(cam)
		srv.Status().Broadcast("info", fmt.Sprintf("streaming %s", cam.Info().Label))

		if err := srv.ListenAndServe(addr); err != nil {
			fail("Error serving preview: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
}
