package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spigell/resume-screener/internal/document"
	"github.com/spigell/resume-screener/internal/logger"
	"go.uber.org/zap"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Print the sanitized text of a resume",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parse(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func parse(cmd *cobra.Command, path string) {
	p := newPipeline()
	log := logger.WithFields(p.logger, logger.StringFields(logger.StringField{Key: logger.FieldFile, Value: path})...)

	res, err := p.parser.ParseFile(path)
	if err != nil {
		log.Fatal("parsing document", zap.String("kind", document.KindOf(err)), zap.Error(err))
	}

	for _, w := range res.Warnings {
		log.Warn("document parsed with warning", zap.String("warning", w))
	}

	log.Info("document parsed",
		zap.String(logger.FieldFormat, res.Format),
		zap.Int("pages", res.Pages),
		zap.Int("characters", len([]rune(res.Text))),
	)

	fmt.Fprintln(cmd.OutOrStdout(), res.Text)
}
