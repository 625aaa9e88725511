package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cabouelw/codewise.ai-sub000/internal/pipeline"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validates the written sitemap.xml and rss.xml",
	Long: `The check command re-parses the documents in the output directory. It fails
when either document does not parse, when the sitemap is unsorted or holds a
duplicate URL, or when an RSS item links to a page missing from the sitemap.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := pipeline.Check(appConfig.OutputDir)
		if report != nil {
			for _, p := range report.Problems {
				logger.Error("check", "problem", p)
			}
			logger.Info("checked outputs", "outputDir", appConfig.OutputDir, "items", report.Items, "urls", report.URLs)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
