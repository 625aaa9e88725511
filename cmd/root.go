package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cabouelw/codewise.ai-sub000/internal/config"
	"github.com/cabouelw/codewise.ai-sub000/internal/content"
	"github.com/cabouelw/codewise.ai-sub000/internal/pipeline"

	"github.com/spf13/viper"
)

var cfgFile string
var appConfig config.Config
var logger *slog.Logger

var rootCmd = &cobra.Command{
	Use:   "codewise",
	Short: "CodeWise AI feed generator",
	Long: `codewise reads the blog content store and the tool catalog, builds the
aggregate index, and emits sitemap.xml and rss.xml. The same pipeline backs
the build command and the request-time server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

func initializeConfig(_ *cobra.Command) error {
	v := viper.New()

	v.SetDefault("siteURL", config.DefaultSiteURL)
	v.SetDefault("siteTitle", "CodeWise AI")
	v.SetDefault("siteDescription", "Guides, tutorials and tools for building with AI.")
	v.SetDefault("siteLanguage", "en-us")
	v.SetDefault("contentDir", "content/blog")
	v.SetDefault("toolsFile", "data/tools.json")
	v.SetDefault("outputDir", "public")
	v.SetDefault("pagesFile", "")
	v.SetDefault("historyDB", "")
	v.SetDefault("logLevel", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("CODEWISE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// The deployment sets SITE_URL without a prefix.
	if err := v.BindEnv("siteURL", "SITE_URL", "CODEWISE_SITEURL"); err != nil {
		return fmt.Errorf("failed to bind SITE_URL: %w", err)
	}

	configUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configUsed = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := appConfig.Validate(); err != nil {
		return err
	}

	logger = newLogger(appConfig.LogLevel)
	if configUsed != "" {
		logger.Debug("using config file", "path", configUsed)
	} else {
		logger.Debug("no config file found, using defaults and environment")
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// pipelineOptions builds the pipeline inputs from the loaded config. today
// is taken once per run.
func pipelineOptions(now time.Time) (pipeline.Options, error) {
	pages, err := config.LoadPages(appConfig.PagesFile)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		ContentDir: appConfig.ContentDir,
		ToolsFile:  appConfig.ToolsFile,
		SiteURL:    appConfig.SiteURL,
		Pages:      pages,
		Today:      content.Today(now),
		Logger:     logger,
	}, nil
}

// runPipeline executes one full pipeline pass at now.
func runPipeline(now time.Time) (*pipeline.Result, error) {
	opts, err := pipelineOptions(now)
	if err != nil {
		return nil, err
	}
	return pipeline.Run(opts)
}
