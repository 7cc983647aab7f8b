package main

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sematree/sematree"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func init() {
	pflag.Int("dimensions", sematree.DefaultDimensions, "Embedding dimension")
	pflag.Int64("seed", sematree.DefaultSeed, "Embedder seed")
	pflag.Int("leaf-size", 1, "Maximum items per KD-tree leaf")
	pflag.String("sematree-host", "0.0.0.0:8080", "Host and port for the HTTP server")
	pflag.String("auth-secret", "", "Secret enabling bearer-token auth on the API")
	pflag.String("llm-server", "http://localhost:8000/v1", "Base URL of an OpenAI-compatible completion server")
	pflag.String("llm-model", "local-model", "Model name for completion requests")
	pflag.String("results-folder", "results", "Folder for benchmark CSV output")
	pflag.String("config", "", "Path to the configuration file")

	f := pflag.CommandLine
	normalizeFunc := f.GetNormalizeFunc()
	f.SetNormalizeFunc(func(fs *pflag.FlagSet, name string) pflag.NormalizedName {
		result := normalizeFunc(fs, name)
		name = strings.ReplaceAll(string(result), "-", "_")
		return pflag.NormalizedName(name)
	})
}

// LoadConfig layers defaults, an optional YAML config file, environment
// variables and command-line flags into the library configuration. A .env
// file, when present, supplies the LLM key without putting it on the command
// line.
func LoadConfig() error {
	_ = godotenv.Load()

	defaults := sematree.DefaultConfig()
	viper.SetDefault("dimensions", defaults.Dimensions)
	viper.SetDefault("seed", defaults.Seed)
	viper.SetDefault("leaf_size", defaults.LeafSize)
	viper.SetDefault("sematree_host", defaults.SematreeHost)
	viper.SetDefault("llm_server", defaults.LLMServer)
	viper.SetDefault("llm_model", defaults.LLMModel)
	// The key has no flag; registering it lets SEMATREE_LLM_KEY from the
	// environment (or a .env file) reach Unmarshal.
	viper.SetDefault("llm_key", defaults.LLMKey)
	viper.SetDefault("results_folder", defaults.ResultsFolder)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return err
	}

	viper.SetEnvPrefix("sematree")
	viper.AutomaticEnv()

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("sematree.conf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc")
	}

	if err := viper.ReadInConfig(); err != nil {
		if configFile != "" {
			return fmt.Errorf("read config %s: %w", configFile, err)
		}
		// No config file is fine; defaults, env and flags carry it.
	}

	var cfg sematree.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unable to decode configuration: %w", err)
	}

	sematree.Configure(cfg)
	return nil
}
