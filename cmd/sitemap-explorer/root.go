package main

import (
	"fmt"
	"io"
	"os"

	"github.com/romangod6/sitemap-explorer/config"
	"github.com/romangod6/sitemap-explorer/internal/utils"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the sitemap-explorer root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitemap-explorer",
		Short: "Extract, filter and export the URLs listed in an XML sitemap",
		Long: `sitemap-explorer fetches a single XML sitemap, lists the <loc> URLs it
contains and exports them as a one-column CSV. Sitemap index files are
listed as-is; the sitemaps they point to are not fetched.`,
		Version:       currentBuild().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to a config file (default ./config.yaml or ./config/config.yaml)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewFilterCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// cliLogger logs to stderr so stdout stays clean for CSV output. Without
// --verbose only errors are shown.
func cliLogger(cmd *cobra.Command, cfg *config.Config) *utils.Logger {
	level := "error"
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = cfg.Log.Level
	}
	return utils.NewLoggerWithWriter(cmd.ErrOrStderr(), level, nil)
}

// openOutput returns stdout when path is empty.
func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
