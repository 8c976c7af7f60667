package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spigell/resume-screener/internal/store"
	"go.uber.org/zap"
)

var batchesCmd = &cobra.Command{
	Use:   "batches [BATCH_ID]",
	Short: "List stored screening batches, or the potentials of one batch, as JSON",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		p := newPipeline()

		path, _ := cmd.Flags().GetString("store")
		if path == "" {
			path = p.config.Store.Path
		}
		if path == "" {
			p.logger.Fatal("listing batches", zap.Error(errors.New("store path is not configured")))
		}

		s, err := store.Open(path, p.logger)
		if err != nil {
			p.logger.Fatal("opening store", zap.Error(err))
		}
		defer s.Close()

		batchID := ""
		if len(args) == 1 {
			batchID = args[0]
		}

		out, err := listStored(ctx, s, batchID)
		if err != nil {
			p.logger.Fatal("listing batches", zap.Error(err), zap.String("batch_id", batchID))
		}

		if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
			p.logger.Fatal("writing batches", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(batchesCmd)

	batchesCmd.Flags().String("store", "", "sqlite file written by screen --store. Defaults to store.path")
}

// listStored returns every batch when batchID is empty, the potentials of
// that batch otherwise.
func listStored(ctx context.Context, s *store.Store, batchID string) (any, error) {
	if batchID == "" {
		batches, err := s.Batches(ctx)
		if batches == nil {
			batches = []store.Batch{}
		}
		return batches, err
	}

	potentials, err := s.ListPotentials(ctx, batchID)
	if potentials == nil {
		potentials = []store.Potential{}
	}
	return potentials, err
}
