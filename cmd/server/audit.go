package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit trail",
	}
	cmd.AddCommand(newAuditRecentCmd())
	return cmd
}

func newAuditRecentCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Print the most recent audit events, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.openDB(ctx); err != nil {
				return err
			}

			events, err := a.auditPublisher().Recent(ctx, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range events {
				keys := make([]string, 0, len(e.Detail))
				for k := range e.Detail {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				pairs := make([]string, 0, len(keys))
				for _, k := range keys {
					pairs = append(pairs, k+"="+e.Detail[k])
				}
				fmt.Fprintf(out, "%s  %-26s %-12s %s  %s\n",
					e.Timestamp.UTC().Format(time.RFC3339),
					e.Action,
					e.Action.Category(),
					e.Subject,
					strings.Join(pairs, " "),
				)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of events to print")
	return cmd
}
