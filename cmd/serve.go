package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabclean/internal/server"
)

var srvAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the cleaning pipeline over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		addr := c.ListenAddr
		if srvAddr != "" {
			addr = srvAddr
		}
		s := server.New(server.Config{
			Pipeline:       c.PipelineOptions(),
			Defaults:       c.DefaultParams(),
			MaxUploadBytes: c.MaxUploadBytes(),
			ExportFileName: c.ExportFileName,
		}, logger)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return s.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", "", "listen address (default from config, :8080)")
}
