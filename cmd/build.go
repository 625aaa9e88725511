package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cabouelw/codewise.ai-sub000/internal/history"
	"github.com/cabouelw/codewise.ai-sub000/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Writes sitemap.xml and rss.xml into the output directory",
	Long: `The build command reads Markdown files from the content directory and the
tool catalog, builds the aggregate index, and writes sitemap.xml and rss.xml
into the configured output directory (default './public/'). Missing inputs
produce empty collections; failing to write an output file is fatal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd.Context(), time.Now())
	},
}

func runBuild(ctx context.Context, now time.Time) error {
	logger.Info("building feeds",
		"siteURL", appConfig.SiteURL,
		"contentDir", appConfig.ContentDir,
		"toolsFile", appConfig.ToolsFile,
		"outputDir", appConfig.OutputDir)

	res, err := runPipeline(now)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	if err := pipeline.WriteFiles(res, appConfig.OutputDir, appConfig.Channel(), now); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	logger.Info("feeds written",
		"posts", len(res.Posts),
		"tools", len(res.Tools),
		"urls", len(res.Entries),
		"sitemap", filepath.Join(appConfig.OutputDir, pipeline.SitemapFile),
		"rss", filepath.Join(appConfig.OutputDir, pipeline.RSSFile))

	if appConfig.HistoryDB != "" {
		if err := recordHistory(ctx, res, now); err != nil {
			logger.Warn("could not record build history", "path", appConfig.HistoryDB, "error", err)
		}
	}
	return nil
}

func recordHistory(ctx context.Context, res *pipeline.Result, now time.Time) error {
	store, err := history.NewSQLite(appConfig.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	added, removed, err := history.Record(ctx, store, appConfig.SiteURL, now, res.URLs())
	if err != nil {
		return err
	}
	for _, u := range added {
		logger.Debug("url added", "url", u)
	}
	for _, u := range removed {
		logger.Info("url removed since last build", "url", u)
	}
	logger.Info("build recorded", "added", len(added), "removed", len(removed))
	return nil
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
