// Package cmd implements the command-line interface for newscrawl.
// It provides the root command and subcommands for running the crawl
// engine, the enrichment pass, and the periodic scheduler.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	crawlcmd "github.com/finscope/newscrawl/cmd/crawl"
	enrichcmd "github.com/finscope/newscrawl/cmd/enrich"
	schedulercmd "github.com/finscope/newscrawl/cmd/scheduler"
	sourcescmd "github.com/finscope/newscrawl/cmd/sources"
	"github.com/finscope/newscrawl/internal/fetcher"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	// rootCmd represents the root command for the newscrawl CLI.
	rootCmd = &cobra.Command{
		Use:   "newscrawl",
		Short: "Incremental multi-source news harvester",
		Long: `newscrawl walks press outlets backward in time, day by day,
ingesting new articles until each source catches up to its frontier
(incremental mode) or a floor date is reached (gap-filling mode).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// .env first so environment variables are visible to viper.
	_ = godotenv.Load()

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

// init initializes the root command and its subcommands.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("newscrawl version %s\n", "1.0.0")
		},
	})

	rootCmd.AddCommand(crawlcmd.Command())
	rootCmd.AddCommand(sourcescmd.Command())
	rootCmd.AddCommand(enrichcmd.Command())
	rootCmd.AddCommand(schedulercmd.Command())
}

// initConfig reads in the config file and environment variables.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Config file is optional: defaults plus environment cover a bare run.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config file not found: %v (using defaults)\n", err)
	}

	if err := bindEnvVars(); err != nil {
		return err
	}

	// Parse flags early so --debug reaches the logger configuration.
	_ = rootCmd.ParseFlags(os.Args[1:])
	if debug {
		viper.Set("logger.level", "debug")
	}

	return nil
}

// bindEnvVars maps environment variables to config keys.
func bindEnvVars() error {
	bindings := map[string][]string{
		"logger.level":          {"LOG_LEVEL"},
		"logger.encoding":       {"LOG_FORMAT"},
		"database.host":         {"DB_HOST"},
		"database.port":         {"DB_PORT"},
		"database.user":         {"DB_USER"},
		"database.password":     {"DB_PASS", "DB_PASSWORD"},
		"database.dbname":       {"DB_NAME"},
		"sink.backend":          {"SINK_BACKEND"},
		"sink.csv_path":         {"SINK_CSV_PATH"},
		"enrich.classifier_url": {"CLASSIFIER_URL"},
		"enrich.scorer_url":     {"SCORER_URL"},
	}

	for key, envs := range bindings {
		if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	viper.SetDefault("app", map[string]any{
		"name":        "newscrawl",
		"environment": "production",
		"debug":       false,
	})

	viper.SetDefault("logger", map[string]any{
		"level":       "info",
		"encoding":    "console",
		"development": false,
	})

	viper.SetDefault("crawler", map[string]any{
		"user_agent":      fetcher.DefaultUserAgent,
		"request_timeout": "30s",
		"delay":           "300ms",
		"sources_file":    "sources.yml",
	})

	viper.SetDefault("database", map[string]any{
		"host":    "127.0.0.1",
		"port":    "5432",
		"user":    "news_db",
		"dbname":  "news",
		"sslmode": "disable",
	})

	viper.SetDefault("sink", map[string]any{
		"backend":  "csv",
		"csv_path": "news_db.csv",
	})

	viper.SetDefault("enrich", map[string]any{
		"batch_size":        32,
		"request_timeout":   "60s",
		"target_industries": []string{"자동차", "건설", "헬스케어"},
	})

	viper.SetDefault("scheduler", map[string]any{
		"cron": "0 * * * *",
	})
}
