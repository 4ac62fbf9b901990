package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "faceid",
		Short: "Face identity claims, oracle publication and contest scoring",
		Long: `faceid enrolls face embeddings as issuer credentials, publishes
feature-vector commitments to the oracle contract and scores contest
participants against the contest reference vector.

Configuration is layered: defaults, the YAML file given by --config or
FACEID_CONFIG, then FACEID_* environment variables.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				return os.Setenv("FACEID_CONFIG", configPath)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newContestCmd(),
		newClaimsCmd(),
		newAuditCmd(),
	)
	return root
}
