package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/spigell/resume-screener/internal/export"
	"github.com/spigell/resume-screener/internal/filtering"
	"github.com/spigell/resume-screener/internal/matching"
	"github.com/spigell/resume-screener/internal/screening"
	"github.com/spigell/resume-screener/internal/store"
	"go.uber.org/zap"
)

var screenCmd = &cobra.Command{
	Use:   "screen [FOLDER]",
	Short: "Screen every resume of a folder against the configured filters",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		folder := ""
		if len(args) == 1 {
			folder = args[0]
		}
		screen(cmd, folder)
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringSlice("skills", nil, "required skills, at least one must match")
	screenCmd.Flags().Float64("min-experience", 0, "minimum years of experience")
	screenCmd.Flags().Float64("max-experience", 0, "maximum years of experience, 0 means unbounded")
	screenCmd.Flags().StringSlice("locations", nil, "accepted locations")

	screenCmd.Flags().IntP("workers", "w", 0, "documents processed in parallel")
	screenCmd.Flags().Float64("minimum-score", 0, "drop candidates scoring below this value")
	screenCmd.Flags().StringP("exclude-file", "e", "", "special file with candidates to exclude. Default is unset.")
	screenCmd.Flags().StringSlice("disable", nil, "filtering steps to skip (duplicates, exclude_file)")
	screenCmd.Flags().String("export", "", "write potentials to this xlsx file")
	screenCmd.Flags().String("store", "", "persist the batch into this sqlite file")
	screenCmd.Flags().Bool("dump", false, "dump potentials to a temporary json file")
	screenCmd.Flags().Bool("append-to-exclude-file", false, "append potentials to the exclude file so later runs skip them")

	viper.BindPFlag("screening.workers", screenCmd.Flags().Lookup("workers"))
	viper.BindPFlag("screening.minimum-score", screenCmd.Flags().Lookup("minimum-score"))
	viper.BindPFlag("screening.exclude-file", screenCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("screening.disable", screenCmd.Flags().Lookup("disable"))
	viper.BindPFlag("export.path", screenCmd.Flags().Lookup("export"))
	viper.BindPFlag("store.path", screenCmd.Flags().Lookup("store"))
}

func screen(cmd *cobra.Command, folder string) {
	ctx := context.Background()

	p := newPipeline()
	cfg := p.config.Screening

	if folder == "" {
		folder = cfg.Folder
	}

	filters, err := screeningFilters(cmd)
	if err != nil {
		p.logger.Fatal("reading filters", zap.Error(err))
	}

	steps := filtering.Default()
	for _, name := range cfg.Disable {
		// minimum_score assigns the scores, so it always runs.
		if name == "minimum_score" {
			p.logger.Warn("ignoring request to disable filter", zap.String("name", name))
			continue
		}
		filtering.DisableByName(steps, name, "disabled by configuration")
	}
	for _, status := range filtering.Describe(steps) {
		p.logger.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	runner := screening.New(p.logger, p.parser, p.extractor,
		screening.WithWorkers(cfg.Workers),
		screening.WithMinTextLength(cfg.MinTextLength),
		screening.WithSteps(steps),
	)

	p.logger.Info("starting the resume-screener", zap.String("version", version), zap.String("folder", folder))

	summary, err := runner.Run(ctx, folder, &filtering.Config{
		Criteria:     filters,
		ExcludeFile:  cfg.ExcludeFile,
		MinimumScore: cfg.MinimumScore,
	})
	if err != nil {
		p.logger.Fatal("screening failed", zap.Error(err))
	}

	potentials := summary.Candidates
	if potentials.Len() == 0 {
		p.logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
	}

	if path := p.config.Store.Path; path != "" {
		if err := storeBatch(ctx, path, summary, filters, p.logger); err != nil {
			p.logger.Fatal("storing batch", zap.Error(err))
		}
	}

	if path := p.config.Export.Path; path != "" {
		if err := export.New(p.logger).WriteFile(path, potentials); err != nil {
			p.logger.Fatal("exporting potentials", zap.Error(err))
		}
	}

	if dump, _ := cmd.Flags().GetBool("dump"); dump {
		filename, err := potentials.DumpToTmpFile()
		if err != nil {
			p.logger.Fatal("dump results to file", zap.Error(err))
		}
		p.logger.Info("dumping result to file", zap.String("filename", filename))
	}

	if appendExcluded, _ := cmd.Flags().GetBool("append-to-exclude-file"); appendExcluded {
		if err := appendToExcludeFile(cfg.ExcludeFile, summary); err != nil {
			p.logger.Fatal("appending to exclude file", zap.Error(err))
		}
		p.logger.Info("appended to exclude file", zap.String("filename", cfg.ExcludeFile), zap.Int("count", potentials.Len()))
	}

	if err := writeJSON(cmd.OutOrStdout(), potentials.ReportByLocation()); err != nil {
		p.logger.Fatal("writing report", zap.Error(err))
	}
}

// screeningFilters decodes the filters section of the config and applies
// the filter flags given on the command line on top of it.
func screeningFilters(cmd *cobra.Command) (matching.MatchFilters, error) {
	filters, err := matching.DecodeFilters(viper.GetStringMap("filters"))
	if err != nil {
		return filters, err
	}

	flags := cmd.Flags()
	if flags.Changed("skills") {
		filters.Skills, _ = flags.GetStringSlice("skills")
	}
	if flags.Changed("min-experience") {
		filters.MinExperience, _ = flags.GetFloat64("min-experience")
	}
	if flags.Changed("max-experience") {
		ceiling, _ := flags.GetFloat64("max-experience")
		filters.MaxExperience = &ceiling
	}
	if flags.Changed("locations") {
		filters.Locations, _ = flags.GetStringSlice("locations")
	}

	return filters, filters.Validate()
}

func storeBatch(ctx context.Context, path string, summary *screening.Summary, filters matching.MatchFilters, lg *zap.Logger) error {
	s, err := store.Open(path, lg)
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.SaveBatch(ctx, summary, filters)
	return err
}

func appendToExcludeFile(path string, summary *screening.Summary) error {
	if path == "" {
		return errors.New("exclude file is not configured")
	}

	excluded, err := filtering.ExcludedFromFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		excluded = &filtering.ExcludedCandidates{}
	case err != nil:
		return err
	}

	excluded.Append(summary.Candidates.ToExcluded(fmt.Sprintf("screened in batch %s", summary.BatchID)))

	return excluded.ToFile(path)
}
