// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the gpt-simple-generator CLI.
// Subcommands generate articles, grow and list idea pools, produce design
// plans and look up references.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/adivvvv/gpt-simple-generator/internal/logging"
	"github.com/adivvvv/gpt-simple-generator/internal/metrics"
	"github.com/adivvvv/gpt-simple-generator/internal/secrets"
	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Startup state shared by subcommands. Set in PersistentPreRunE.
var (
	cfg         types.Config
	logger      = zap.NewNop()
	stopMetrics context.CancelFunc = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "gpt-simple-generator",
	Short: "Generate SEO articles and idea pools with structured model output",
	Long: `gpt-simple-generator drives a generative API to produce long-form,
citation-grounded articles, to grow per-language pools of article ideas,
and to synthesise site design plans.

Configuration comes from gpt-simple-generator.yaml, GPTGEN_* environment
variables and credential files in .secrets/.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		stopMetrics()
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./gpt-simple-generator.yaml or ~/.config/gpt-simple-generator/config.yaml)")
	pf.String("secrets-dir", ".secrets", "directory of credential files")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("metrics-addr", "", "serve prometheus metrics on this address during the run")

	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("metrics.addr", pf.Lookup("metrics-addr"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("gpt-simple-generator")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gpt-simple-generator"))
		}
	}

	viper.SetEnvPrefix("GPTGEN")
	viper.SetEnvKeyReplacer(envKeyReplacer())
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// envKeyReplacer maps nested keys such as ai.api_key to GPTGEN_AI_API_KEY.
func envKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

func setup(cmd *cobra.Command, args []string) error {
	secretsDir, _ := cmd.Flags().GetString("secrets-dir")
	s, err := secrets.Load(secretsDir, nil)
	if err != nil {
		return err
	}

	cfg, err = loadConfig(viper.GetViper(), s)
	if err != nil {
		return err
	}

	logger, err = logging.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return &types.ConfigurationError{Setting: "log", Reason: "invalid logger settings", Err: err}
	}

	if len(s) > 0 {
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		logger.Debug("loaded secrets", zap.Strings("keys", keys))
	}

	if addr := viper.GetString("metrics.addr"); addr != "" {
		ctx, cancel := context.WithCancel(context.Background())
		stopMetrics = cancel
		metrics.Serve(ctx, addr, logger)
	}
	return nil
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch types.Categorize(err) {
	case types.CategoryValidation:
		return 2
	case types.CategoryConfiguration:
		return 3
	default:
		return 1
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var ve *types.ValidationError
		if errors.As(err, &ve) {
			fmt.Fprintf(os.Stderr, "invalid input: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}
