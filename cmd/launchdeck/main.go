package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"launchdeck/cmd/launchdeck/app"
	"launchdeck/internal/api"
	"launchdeck/internal/config"
)

// Version is stamped by the build.
var Version = "dev"

var (
	// Global flags
	flagConfigPath string
	flagAPIURL     string
	flagVerbose    bool
	flagTimeout    time.Duration

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "launchdeck",
	Short: "launchdeck - terminal client for the pricing and portfolio backend",
	Long: `launchdeck is an interactive terminal client for the pricing backend:
a Config Library editor (global settings, market economics, per-market
channel metrics) and a SKU portfolio grid with financial detail.

All scoring and financial projection is computed server-side; launchdeck
fetches, edits, and saves.

Run without arguments to start the interactive interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive run owns the terminal and logs to files instead.
		if cmd.Use == "launchdeck" && cmd.CalledAs() == "launchdeck" {
			return nil
		}
		zcfg := zap.NewProductionConfig()
		if flagVerbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		return app.Run(cfg, path)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the launchdeck version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("launchdeck %s\n", Version)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe backend reachability",
	Long:  `Fetches the settings document to verify the backend is reachable before entering the interactive interface.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.GetAPITimeout())
		defer cancel()

		start := time.Now()
		n, err := client.Ping(ctx)
		if err != nil {
			logger.Error("backend unreachable", zap.String("url", client.BaseURL()), zap.Error(err))
			return fmt.Errorf("backend at %s is unreachable: %w", client.BaseURL(), err)
		}
		logger.Info("backend reachable",
			zap.String("url", client.BaseURL()),
			zap.Int("settings", n),
			zap.Duration("rtt", time.Since(start)))
		fmt.Printf("backend %s: OK (%d settings, %v)\n",
			client.BaseURL(), n, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the launchdeck configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		}
		cfg := config.DefaultConfig()
		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Prints the configuration after file loading and environment overrides, as YAML. The API token is redacted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		shown := *cfg
		if shown.API.Token != "" {
			shown.API.Token = "<redacted>"
		}
		data, err := yaml.Marshal(&shown)
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}
		fmt.Printf("# %s\n%s", path, data)
		return nil
	},
}

func configPath() string {
	if flagConfigPath != "" {
		return flagConfigPath
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the config file and applies the command-line overrides
// on top of the file and environment.
func loadConfig() (*config.Config, string, error) {
	path := configPath()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	if flagAPIURL != "" {
		cfg.API.BaseURL = flagAPIURL
	}
	if flagTimeout > 0 {
		cfg.API.Timeout = flagTimeout.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, path, nil
}

func newClient(cfg *config.Config) *api.Client {
	return api.New(api.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.GetAPITimeout(),
	})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file (default: the launchdeck dot-directory)")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging for subcommands")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "API timeout (overrides config)")

	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(versionCmd, statusCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
