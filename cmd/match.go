package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/spigell/resume-screener/internal/document"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/matching"
	"go.uber.org/zap"
)

var matchCmd = &cobra.Command{
	Use:   "match FILE",
	Short: "Match a resume against a job profile and print the report as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		match(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().String("job", "", "a job profile file (yaml or json)")
	matchCmd.MarkFlagRequired("job")
}

func match(cmd *cobra.Command, path string) {
	ctx := context.Background()

	p := newPipeline()
	log := logger.WithFields(p.logger, logger.StringFields(logger.StringField{Key: logger.FieldFile, Value: path})...)

	jobFile, _ := cmd.Flags().GetString("job")
	job, err := loadJob(jobFile)
	if err != nil {
		log.Fatal("loading job profile", zap.String("job", jobFile), zap.Error(err))
	}

	parsed, extracted, err := p.parseAndExtract(path)
	if err != nil {
		log.Fatal("parsing document", zap.String("kind", document.KindOf(err)), zap.Error(err))
	}

	report := p.matcher().GenerateMatchReport(ctx, extracted.Profile, job, parsed.Text)
	report.Warnings = append(report.Warnings, extracted.Warnings...)

	log.Info("candidate matched",
		zap.String("name", extracted.Profile.Name),
		zap.String("job", job.Title),
		zap.Float64("overall_score", report.OverallScore),
		zap.String("tier", string(report.Tier)),
	)

	if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
		log.Fatal("writing report", zap.Error(err))
	}
}

// loadJob reads a job profile from a yaml or json file.
func loadJob(path string) (matching.JobProfile, error) {
	if path == "" {
		return matching.JobProfile{}, errors.New("job file is required")
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return matching.JobProfile{}, err
	}

	return matching.DecodeJob(v.AllSettings())
}
