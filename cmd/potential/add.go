package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dnsco/potential/clients/activityclient"
	"github.com/dnsco/potential/logging"
)

func newAddCmd() *cobra.Command {
	var flags clientFlags

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create an activity",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Logging.ToLoggingConfig())
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			client := activityclient.New(cfg.Endpoint,
				activityclient.WithTimeout(cfg.Timeout),
				activityclient.WithLogger(logger.Logger),
			)
			activity, err := client.Create(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", activity.Name)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
