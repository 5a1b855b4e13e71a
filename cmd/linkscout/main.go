package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/linkscout/linkscout/internal/config"
	"github.com/linkscout/linkscout/internal/server"
	"github.com/linkscout/linkscout/pkg/extractor"
	"github.com/linkscout/linkscout/pkg/fetcher"
	"github.com/linkscout/linkscout/pkg/reporter"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "linkscout",
	Short: "LinkScout - External link extraction for blogs and news sites",
	Long: `LinkScout crawls a seed page, classifies its article links, then
visits each article and reports the external links it points at,
deduplicated and aggregated per domain.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the extraction HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		ext := buildExtractor(cfg, logger)
		srv := server.New(ext, cfg.Server, logger)
		return srv.Start()
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract [URL]",
	Short: "Run one extraction and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		summary, _ := cmd.Flags().GetBool("summary")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		excluded, _ := cmd.Flags().GetStringSlice("exclude-domains")
		if len(excluded) == 0 {
			excluded = cfg.Export.ExcludedDomains
		}

		ext := buildExtractor(cfg, logger)
		result, err := ext.Extract(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}

		var out string
		if summary {
			r := reporter.New(excluded)
			out, err = r.Generate(result, format)
			if err != nil {
				return err
			}
		} else {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal result: %w", err)
			}
			out = string(data)
		}

		if output != "" {
			if err := os.WriteFile(output, []byte(out), 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			logger.Info("result saved", "path", output)
			return nil
		}
		fmt.Println(out)
		return nil
	},
}

func setup(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           parseLevel(cfg.Logging.Level),
	})
	if cfg.Logging.Format == "json" {
		logger.SetFormatter(log.JSONFormatter)
	}
	return cfg, logger, nil
}

func parseLevel(level string) log.Level {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return parsed
}

func buildExtractor(cfg *config.Config, logger *log.Logger) *extractor.Extractor {
	client := fetcher.NewClient(
		fetcher.WithUserAgent(cfg.Crawler.UserAgent),
		fetcher.WithRateLimit(cfg.Crawler.RequestsPerSecond),
		fetcher.WithLogger(logger),
	)
	return extractor.New(client, cfg.Crawler, logger)
}

func init() {
	extractCmd.Flags().Bool("summary", false, "Print the per-domain summary instead of the full result")
	extractCmd.Flags().String("format", "json", "Summary format (json, csv)")
	extractCmd.Flags().String("output", "", "Output file for the result")
	extractCmd.Flags().StringSlice("exclude-domains", nil, "Domains to drop from the summary")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(extractCmd)

	rootCmd.PersistentFlags().String("config", "", "Config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
