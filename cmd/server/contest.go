package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	contestmetrics "faceid/internal/contest/metrics"
	contestservice "faceid/internal/contest/service"
	"faceid/internal/extractor"
	oraclemetrics "faceid/internal/oracle/metrics"
	"faceid/pkg/vector"
)

func newContestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contest",
		Short: "Administer contests on the ledger",
	}
	cmd.AddCommand(newContestCreateCmd(), newContestFinalizeCmd(), newContestStandingsCmd())
	return cmd
}

func newContestCreateCmd() *cobra.Command {
	var (
		duration  time.Duration
		vectorArg string
		imagePath string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a contest scored against a reference vector",
		Long: `Open a contest. The reference vector is either given directly with
--vector (128 comma-separated integers in 0..254, a JSON array, or @file
holding either form) or extracted from a face with --image.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (vectorArg == "") == (imagePath == "") {
				return errors.New("exactly one of --vector or --image is required")
			}
			ctx := cmd.Context()
			a, svc, err := contestApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			var ref vector.Discrete
			if vectorArg != "" {
				ref, err = parseDiscreteArg(vectorArg)
			} else {
				ref, err = referenceFromImage(ctx, a.extractorClient(), imagePath)
			}
			if err != nil {
				return err
			}

			id, err := svc.Create(ctx, ref, duration)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "contest", id, "created")
			return nil
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", 24*time.Hour, "how long registration stays open")
	cmd.Flags().StringVar(&vectorArg, "vector", "", "reference vector")
	cmd.Flags().StringVar(&imagePath, "image", "", "image to extract the reference vector from")
	return cmd
}

func newContestFinalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finalize",
		Short: "Close the latest contest so the ledger records its winner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, svc, err := contestApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			id, err := svc.Finalize(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "contest", id, "finalized")
			return nil
		},
	}
}

func newContestStandingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standings",
		Short: "Print the scored participants of the latest contest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, svc, err := contestApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			st, err := svc.ChooseWinner(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "contest %d, started %s, duration %s\n", st.ContestID, st.StartTime.Format(time.RFC3339), st.Duration)
			for _, p := range st.Participants {
				fmt.Fprintf(out, "  %-24s %s  distance=%-6d %6.2f%%\n", p.Name, p.Hash, p.Distance, p.Percentage)
			}
			if st.Winner != nil {
				fmt.Fprintf(out, "winner: %s (%s)\n", st.Winner.Name, st.Winner.ImageHash)
			}
			return nil
		},
	}
}

func contestApp(ctx context.Context) (*app, *contestservice.Service, error) {
	a, err := loadApp(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := a.openDB(ctx); err != nil {
		a.close()
		return nil, nil, err
	}
	if err := a.dialLedger(ctx); err != nil {
		a.close()
		return nil, nil, err
	}
	oracle, err := a.oracleService(oraclemetrics.New())
	if err != nil {
		a.close()
		return nil, nil, err
	}
	svc, err := a.contestService(oracle, contestmetrics.New())
	if err != nil {
		a.close()
		return nil, nil, err
	}
	return a, svc, nil
}

// parseDiscreteArg accepts "1,2,3", "[1,2,3]" or "@path" holding either.
func parseDiscreteArg(arg string) (vector.Discrete, error) {
	if path, ok := strings.CutPrefix(arg, "@"); ok {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read vector file: %w", err)
		}
		arg = string(raw)
	}
	arg = strings.TrimSpace(arg)

	var ints []int
	if strings.HasPrefix(arg, "[") {
		if err := json.Unmarshal([]byte(arg), &ints); err != nil {
			return nil, fmt.Errorf("parse vector: %w", err)
		}
	} else {
		for _, part := range strings.Split(arg, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("parse vector component %q: %w", part, err)
			}
			ints = append(ints, n)
		}
	}
	return vector.ParseDiscrete(ints)
}

func referenceFromImage(ctx context.Context, ext *extractor.Client, path string) (vector.Discrete, error) {
	img, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	res, err := ext.ExtractDiscrete(ctx, img)
	if err != nil {
		return nil, err
	}
	v, ok := res.Vector()
	if !ok {
		return nil, fmt.Errorf("extract reference from %s: %s", path, res.Status())
	}
	return v, nil
}
