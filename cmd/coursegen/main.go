// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the coursegen CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/maborak/ai-course-generator/internal/secrets"
	"github.com/maborak/ai-course-generator/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

var log = logrus.New()

// rootCmd is the base command for the coursegen CLI.
var rootCmd = &cobra.Command{
	Use:   "coursegen",
	Short: "Generate multi-chapter course documents with AI engines",
	Long: `coursegen drives a completion engine (OpenAI, Ollama or Anthropic)
through a full document generation run: it plans chapter titles, generates
each chapter in order with validation and corrective retries, assembles the
document, and produces markdown, html, epub and pdf artifacts.

Conversion uses pandoc and weasyprint; run "coursegen check" to verify the
toolchain before generating.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			log.SetLevel(logrus.DebugLevel)
		}
		log.SetOutput(os.Stderr)

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			log.Debugf("loaded secrets: %v", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./coursegen.yaml or ~/.config/coursegen/coursegen.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("coursegen")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "coursegen"))
		}
	}

	viper.SetEnvPrefix("COURSEGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("openai.model", "gpt-4o")
	viper.SetDefault("openai.max_tokens", 4096)
	viper.SetDefault("openai.temperature", 0.7)
	viper.SetDefault("ollama.host", "http://localhost:11434")
	viper.SetDefault("ollama.model", "llama3.2")
	viper.SetDefault("ollama.max_tokens", 4096)
	viper.SetDefault("ollama.temperature", 0.7)
	viper.SetDefault("anthropic.model", "claude-3-5-haiku-20241022")
	viper.SetDefault("anthropic.max_tokens", 4096)
	viper.SetDefault("anthropic.temperature", 0.7)
	viper.SetDefault("output.dir", "output")
	viper.SetDefault("output.themes_dir", "themes")
	viper.SetDefault("ledger_path", filepath.Join("output", "runs.db"))
	viper.SetDefault("generation.title_retries", 2)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the full configuration from viper and the loaded
// secrets. Secrets only fill keys nothing else set.
func loadConfig() types.Config {
	cfg := types.Config{
		OpenAI:       engineSettings("openai"),
		Ollama:       engineSettings("ollama"),
		Anthropic:    engineSettings("anthropic"),
		PromptsDir:   viper.GetString("prompts_dir"),
		LedgerPath:   viper.GetString("ledger_path"),
		TitleRetries: viper.GetInt("generation.title_retries"),
	}
	cfg.Output.Dir = viper.GetString("output.dir")
	cfg.Output.ThemesDir = viper.GetString("output.themes_dir")
	secrets.Apply(loadedSecrets, &cfg)
	return cfg
}

func engineSettings(prefix string) types.AIConfig {
	return types.AIConfig{
		Model:               viper.GetString(prefix + ".model"),
		APIKey:              viper.GetString(prefix + ".api_key"),
		Host:                viper.GetString(prefix + ".host"),
		MaxTokens:           viper.GetInt(prefix + ".max_tokens"),
		Temperature:         float32(viper.GetFloat64(prefix + ".temperature")),
		MaxRetries:          viper.GetInt(prefix + ".max_retries"),
		CostPromptPer1K:     viper.GetFloat64(prefix + ".cost_prompt_per_1k"),
		CostCompletionPer1K: viper.GetFloat64(prefix + ".cost_completion_per_1k"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
