package cmd

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/spigell/resume-screener/internal/document"
	"github.com/spigell/resume-screener/internal/screening"
)

const (
	app = "resume-screener"

	envAPIKey     = "GEMINI_API_KEY"
	envAPIKeyFile = "GEMINI_API_KEY_FILE"
)

type Config struct {
	Parser     *ParserConfig     `mapstructure:"parser"`
	Extraction *ExtractionConfig `mapstructure:"extraction"`
	Screening  *ScreeningConfig  `mapstructure:"screening"`
	Store      *StoreConfig      `mapstructure:"store"`
	Export     *ExportConfig     `mapstructure:"export"`
	AI         *AIConfig         `mapstructure:"ai"`
}

type ParserConfig struct {
	MaxFileSize int64 `mapstructure:"max-file-size"`
}

type ExtractionConfig struct {
	CorrectedMonthSpan bool `mapstructure:"corrected-month-span"`
}

type ScreeningConfig struct {
	Folder        string   `mapstructure:"folder"`
	Workers       int      `mapstructure:"workers"`
	MinimumScore  float64  `mapstructure:"minimum-score"`
	ExcludeFile   string   `mapstructure:"exclude-file"`
	MinTextLength int      `mapstructure:"min-text-length"`
	Disable       []string `mapstructure:"disable"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type ExportConfig struct {
	Path string `mapstructure:"path"`
}

type AIConfig struct {
	NER        bool              `mapstructure:"ner"`
	Embeddings *EmbeddingsConfig `mapstructure:"embeddings"`
}

type EmbeddingsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	MaxRetries int    `mapstructure:"max-retries"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-screener parses resumes, extracts candidate profiles and matches them against filters or a job",
		Long: `resume-screener parses resumes, extracts candidate profiles and matches them against filters or a job.

Supported formats are .pdf, .docx, .doc and .txt. Binary (pre-2007) .doc files
are converted with the external wvText tool from the wv package, which must be
on PATH. Without it such files fail with an unsupported format error.`,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.embeddings.api-key-file", envAPIKeyFile); err != nil {
		log.Fatalf("binding %s environment variable: %v", envAPIKeyFile, err)
	}

	viper.SetDefault("parser.max-file-size", document.DefaultMaxFileSize)
	viper.SetDefault("screening.folder", "./resumes")
	viper.SetDefault("screening.workers", screening.DefaultWorkers)
	viper.SetDefault("screening.min-text-length", screening.DefaultMinTextLength)
	viper.SetDefault("ai.ner", true)
	viper.SetDefault("ai.embeddings.model", "text-embedding-004")
	viper.SetDefault("ai.embeddings.max-retries", 3)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-screener.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// A missing .env is fine, a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Every command works without a config file, but we can't proceed if
	// the given one is parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Parser == nil {
		config.Parser = &ParserConfig{}
	}
	if config.Extraction == nil {
		config.Extraction = &ExtractionConfig{}
	}
	if config.Screening == nil {
		config.Screening = &ScreeningConfig{}
	}
	if config.Store == nil {
		config.Store = &StoreConfig{}
	}
	if config.Export == nil {
		config.Export = &ExportConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Embeddings == nil {
		config.AI.Embeddings = &EmbeddingsConfig{}
	}

	return config, nil
}
