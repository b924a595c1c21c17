package cmd

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talent-discovery/internal/ai/gemini"
	"github.com/spigell/talent-discovery/internal/ai/groq"
	"github.com/spigell/talent-discovery/internal/api"
	"github.com/spigell/talent-discovery/internal/logger"
	"github.com/spigell/talent-discovery/internal/scorer"
	"github.com/spigell/talent-discovery/internal/store"
)

const (
	app = "talent-discovery"

	envGroqKey   = "GROQ_API_KEY"
	envGeminiKey = "GEMINI_API_KEY"
	envStorePath = "TALENT_DISCOVERY_STORE_PATH"
)

type Config struct {
	Server api.Config   `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	AI     AIConfig     `mapstructure:"ai"`
	Search SearchConfig `mapstructure:"search"`
}

type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type AIConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Provider     string        `mapstructure:"provider"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	Groq         GroqConfig    `mapstructure:"groq"`
	Gemini       GeminiConfig  `mapstructure:"gemini"`
}

type GroqConfig struct {
	APIKey      string  `mapstructure:"api-key"`
	APIKeyFile  string  `mapstructure:"api-key-file"`
	BaseURL     string  `mapstructure:"base-url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type SearchConfig struct {
	Vocabulary *scorer.Vocabulary `mapstructure:"vocabulary"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "talent-discovery stores user profiles and searches them with free-text queries",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults(viper.GetViper())

	if err := bindEnv(viper.GetViper()); err != nil {
		log.Fatalf("binding environment variables: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talent-discovery.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", api.DefaultAddr)
	v.SetDefault("server.cors-origins", api.DefaultCORSOrigins)
	v.SetDefault("server.read-timeout", "15s")
	v.SetDefault("server.write-timeout", "60s")

	v.SetDefault("store.backend", store.BackendJSON)
	v.SetDefault("store.path", "data/profiles.json")

	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.provider", providerGroq)
	v.SetDefault("ai.timeout", "30s")
	v.SetDefault("ai.max-log-length", 200)
	v.SetDefault("ai.groq.base-url", groq.DefaultBaseURL)
	v.SetDefault("ai.groq.model", groq.DefaultModel)
	v.SetDefault("ai.groq.temperature", 0.1)
	v.SetDefault("ai.gemini.model", gemini.DefaultModel)
}

func bindEnv(v *viper.Viper) error {
	return errors.Join(
		v.BindEnv("ai.groq.api-key", envGroqKey),
		v.BindEnv("ai.gemini.api-key", envGeminiKey),
		v.BindEnv("store.path", envStorePath),
	)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		// An explicitly requested config must be readable.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &config, nil
}

// setup builds the logger and reads the configuration for a subcommand.
func setup() (*zap.Logger, *Config, error) {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, nil, err
	}

	if used := viper.ConfigFileUsed(); used != "" {
		l.Debug("config loaded", zap.String("file", used))
	}

	return l, config, nil
}
