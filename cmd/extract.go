package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spigell/resume-screener/internal/document"
	"github.com/spigell/resume-screener/internal/extraction"
	"github.com/spigell/resume-screener/internal/logger"
	"go.uber.org/zap"
)

type extractOutput struct {
	File          string              `json:"file"`
	Profile       *extraction.Profile `json:"profile"`
	Warnings      []string            `json:"warnings,omitempty"`
	ParseWarnings []string            `json:"parse_warnings,omitempty"`
}

var extractCmd = &cobra.Command{
	Use:   "extract FILE",
	Short: "Print the candidate profile extracted from a resume as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		extract(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().Bool("candidates", false, "log every ranked name candidate")
}

func extract(cmd *cobra.Command, path string) {
	p := newPipeline()
	log := logger.WithFields(p.logger, logger.StringFields(logger.StringField{Key: logger.FieldFile, Value: path})...)

	parsed, extracted, err := p.parseAndExtract(path)
	if err != nil {
		log.Fatal("parsing document", zap.String("kind", document.KindOf(err)), zap.Error(err))
	}

	if show, _ := cmd.Flags().GetBool("candidates"); show {
		for _, c := range p.extractor.NameCandidates(parsed.Text, filepath.Base(path), nil) {
			log.Info("name candidate",
				zap.String("name", c.Name),
				zap.Int("confidence", c.Confidence),
				zap.String("source", c.Source),
			)
		}
	}

	out := extractOutput{
		File:          path,
		Profile:       extracted.Profile,
		Warnings:      extracted.Warnings,
		ParseWarnings: parsed.Warnings,
	}
	if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
		log.Fatal("writing profile", zap.Error(err))
	}
}
