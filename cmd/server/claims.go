package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"faceid/internal/claims/metrics"
	"faceid/pkg/vector"
)

func newClaimsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claims",
		Short: "Inspect identity claims",
	}
	cmd.AddCommand(newClaimsPendingCmd(), newClaimsCompareCmd())
	return cmd
}

type pendingClaim struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	PublicKey string `json:"public_key"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func newClaimsPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List claims whose credential was never confirmed by the issuer",
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
			svc, err := a.claimsService(metrics.New())
			if err != nil {
				return err
			}

			claims, err := svc.Pending(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, c := range claims {
				if err := enc.Encode(pendingClaim{
					ID:        c.ID.String(),
					UserID:    c.UserID,
					PublicKey: c.PublicKey,
					CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
					UpdatedAt: c.UpdatedAt.UTC().Format(time.RFC3339),
				}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newClaimsCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <image-1> <image-2>",
		Short: "Extract two faces and report whether they resolve to the same identity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()
			ext := a.extractorClient()

			var vecs [2]vector.Continuous
			for i, path := range args {
				img, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read image: %w", err)
				}
				res, err := ext.Extract(ctx, img)
				if err != nil {
					return err
				}
				v, ok := res.Vector()
				if !ok {
					return fmt.Errorf("%s: %s", path, res.Status())
				}
				vecs[i] = v
			}

			d, err := vector.SquaredDistance(vecs[0], vecs[1])
			if err != nil {
				return err
			}
			same, err := vector.IsSameIdentity(vecs[0], vecs[1])
			if err != nil {
				return err
			}
			dd, err := vector.DiscreteSquaredDistance(vector.Discretize(vecs[0]), vector.Discretize(vecs[1]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "squared distance:          %.6f\n", d)
			fmt.Fprintf(out, "same identity:             %t\n", same)
			fmt.Fprintf(out, "discrete squared distance: %d\n", dd)
			fmt.Fprintf(out, "similarity:                %.2f%%\n",
				vector.SimilarityPercent(dd, vector.DefaultMinDistance, vector.DefaultMaxDistance))
			return nil
		},
	}
}
