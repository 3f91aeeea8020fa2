package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/dnsco/potential/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "potential",
		Short:        "Fetch and serve workout activities",
		SilenceUsage: true,
	}

	root.AddCommand(
		newFetchCmd(),
		newAddCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return root
}

func execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// clientFlags are shared by the commands that talk to an activities endpoint.
type clientFlags struct {
	configPath string
	endpoint   string
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVar(&f.endpoint, "endpoint", "", "Activities endpoint (overrides config)")
}

// load reads the config file if one was given and applies flag overrides.
func (f *clientFlags) load() (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		cfg, err = config.LoadConfig(f.configPath)
		if err != nil {
			return cfg, err
		}
	}
	if f.endpoint != "" {
		cfg.Endpoint = f.endpoint
		if err := cfg.Validate(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}
