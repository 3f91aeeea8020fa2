package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dnsco/potential/buildinfo"
	"github.com/dnsco/potential/server"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the activities server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []server.Option
			if addr != "" {
				opts = append(opts, server.WithListenAddr(addr))
			}

			srv, err := server.New(configPath, opts...)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			props := buildinfo.Get()
			srv.Logger().Info("potential server started",
				"version", props.Version,
				"build_time", props.BuildTime,
				"git_commit", props.GitCommit,
				"config_path", configPath,
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to server config file")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}
