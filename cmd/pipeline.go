package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/ai/gemini"
	"github.com/spigell/resume-screener/internal/ai/ner"
	"github.com/spigell/resume-screener/internal/document"
	"github.com/spigell/resume-screener/internal/extraction"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/matching"
	"github.com/spigell/resume-screener/internal/secrets"
	"go.uber.org/zap"
)

const geminiProvider = "gemini"

// pipeline bundles the components every command is built from.
type pipeline struct {
	config    *Config
	logger    *zap.Logger
	services  *ai.Services
	parser    *document.Parser
	extractor *extraction.Extractor
}

func newPipeline() *pipeline {
	lg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		lg.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	lg.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	services := newServices(config.AI, lg)

	extractorOpts := []extraction.Option{}
	if r := services.EntityRecognizer(); r != nil {
		extractorOpts = append(extractorOpts, extraction.WithEntityRecognizer(r))
	}
	if config.Extraction.CorrectedMonthSpan {
		extractorOpts = append(extractorOpts, extraction.WithCorrectedMonthSpan())
	}

	return &pipeline{
		config:    config,
		logger:    lg,
		services:  services,
		parser:    document.New(lg, document.WithMaxFileSize(config.Parser.MaxFileSize)),
		extractor: extraction.New(lg, extractorOpts...),
	}
}

func (p *pipeline) matcher() *matching.Matcher {
	var opts []matching.Option
	if e := p.services.Embedder(); e != nil {
		opts = append(opts, matching.WithEmbedder(e))
	}
	return matching.New(p.logger, opts...)
}

// parseAndExtract reads a single resume and builds its profile.
func (p *pipeline) parseAndExtract(path string) (*document.Result, *extraction.Result, error) {
	parsed, err := p.parser.ParseFile(path)
	if err != nil {
		return nil, nil, err
	}

	return parsed, p.extractor.Extract(parsed.Text, filepath.Base(path)), nil
}

func newServices(cfg *AIConfig, lg *zap.Logger) *ai.Services {
	var opts []ai.ServicesOption

	if cfg.NER {
		opts = append(opts, ai.WithRecognizerFactory(func() (ai.EntityRecognizer, error) {
			return ner.New()
		}))
	}

	if emb := cfg.Embeddings; emb.Enabled {
		opts = append(opts, ai.WithEmbedderFactory(func(ctx context.Context) (ai.Embedder, error) {
			apiKey, err := secrets.Load(secrets.Source{
				Name:  "gemini api key",
				Value: emb.APIKey,
				File:  emb.APIKeyFile,
				Env:   envAPIKey,
			})
			if err != nil {
				return nil, fmt.Errorf("%w (set ai.embeddings.api-key-file or %s)", err, envAPIKeyFile)
			}

			embLogger := logger.WithFields(lg, logger.AIFields(geminiProvider, emb.Model)...)
			e, err := gemini.NewEmbedder(ctx, apiKey, emb.Model, emb.MaxRetries, embLogger)
			if err != nil {
				return nil, err
			}
			embLogger.Debug("embedder created", zap.String("resolved_model", e.Model()), zap.Int("max_retries", emb.MaxRetries))
			return e, nil
		}))
	}

	return ai.NewServices(lg, opts...)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
