package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/romangod6/sitemap-explorer/internal/export"
	"github.com/romangod6/sitemap-explorer/internal/extractor"
	"github.com/romangod6/sitemap-explorer/internal/models"
	"github.com/spf13/cobra"
)

func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract URL",
		Short: "Fetch a sitemap and export its URLs as CSV",
		Long: `Fetch the sitemap at URL, extract every <loc> entry and write them as a
CSV file with a single "URL" column. With --keyword only URLs containing
the keyword (case-insensitive) are written.`,
		Args: cobra.ExactArgs(1),
		RunE: runExtract,
	}

	cmd.Flags().StringP("keyword", "k", "", "Only keep URLs containing this keyword")
	cmd.Flags().StringP("output", "o", "", "Write the CSV to this file instead of stdout")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := cliLogger(cmd, cfg)

	keyword, _ := cmd.Flags().GetString("keyword")
	output, _ := cmd.Flags().GetString("output")

	collector := extractor.NewCollector(&extractor.CollectorConfig{
		UserAgent:   cfg.Fetcher.UserAgent,
		Timeout:     cfg.Fetcher.Timeout,
		MaxBodySize: cfg.Fetcher.MaxBodySize,
	}, logger)

	sitemapURL := strings.TrimSpace(args[0])
	session := models.NewSession()
	extraction, err := extractor.NewExtractor(collector, logger).Extract(cmd.Context(), sitemapURL)
	if err != nil {
		session = session.WithFailure(sitemapURL, extractor.StageOf(err), err)
		logger.LogError("Extraction stopped at %s: %v", session.Stage, err)
		return errors.New(extractor.Message(err))
	}
	session = session.WithExtraction(extraction)

	fmt.Fprintf(cmd.ErrOrStderr(), "Successfully extracted %d URLs!\n", len(session.Results))

	view := extractor.FilterByKeyword(session.Results, keyword)
	if keyword != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d URLs match %q\n", len(view), len(session.Results), keyword)
	}

	return writeCSV(cmd, output, view)
}

func writeCSV(cmd *cobra.Command, output string, urls models.URLList) error {
	out, err := openOutput(cmd, output)
	if err != nil {
		return err
	}

	if err := export.WriteCSV(out, export.NewTable(urls)); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	if output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d URLs to %s\n", len(urls), output)
	}
	return nil
}
