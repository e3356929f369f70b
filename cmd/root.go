package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "hh-matcher"
)

type Config struct {
	Search    *SearchConfig `mapstructure:"search"`
	TokenFile string        `mapstructure:"token-file"`
	Apply     *ApplyConfig  `mapstructure:"apply"`
	AI        *AIConfig     `mapstructure:"ai"`
	Server    *ServerConfig `mapstructure:"server"`
	Database  *DBConfig     `mapstructure:"database"`
}

type SearchConfig struct {
	Text string `mapstructure:"text"`
}

type ApplyConfig struct {
	MinScore  float64 `mapstructure:"min-score"`
	MaxPerDay int     `mapstructure:"max-per-day"`
	Stub      bool    `mapstructure:"stub"`
}

type AIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Gemini  *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hh-matcher ranks hh.ru vacancies against a resume and applies to the best of them",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("token-file", "HH_TOKEN_FILE"); err != nil {
		log.Fatalf("binding HH_TOKEN_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hh-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The serve and run commands need a config. Version does not, so a
	// missing file is only fatal when one was named explicitly.
	if err := viper.ReadInConfig(); err != nil {
		if cfgFile != "" {
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

	return config, nil
}
