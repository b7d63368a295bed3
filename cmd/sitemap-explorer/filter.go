package main

import (
	"fmt"
	"os"

	"github.com/romangod6/sitemap-explorer/internal/export"
	"github.com/romangod6/sitemap-explorer/internal/extractor"
	"github.com/spf13/cobra"
)

func NewFilterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter CSV_FILE",
		Short: "Filter a previously exported CSV by keyword",
		Args:  cobra.ExactArgs(1),
		RunE:  runFilter,
	}

	cmd.Flags().StringP("keyword", "k", "", "Only keep URLs containing this keyword")
	cmd.Flags().StringP("output", "o", "", "Write the CSV to this file instead of stdout")
	_ = cmd.MarkFlagRequired("keyword")

	return cmd
}

func runFilter(cmd *cobra.Command, args []string) error {
	keyword, _ := cmd.Flags().GetString("keyword")
	output, _ := cmd.Flags().GetString("output")

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()

	urls, err := export.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	view := extractor.FilterByKeyword(urls, keyword)
	fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d URLs match %q\n", len(view), len(urls), keyword)

	return writeCSV(cmd, output, view)
}
