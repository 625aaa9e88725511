package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/cabouelw/codewise.ai-sub000/internal/httpserver"
	"github.com/cabouelw/codewise.ai-sub000/internal/pipeline"
)

const rebuildDebounce = 500 * time.Millisecond

var serverPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the feeds at request time and rebuilds on change",
	Long: `The serve command performs an initial build, then starts an HTTP server.
/rss.xml and /sitemap.xml are generated on every request from the current
content store. The content directory, tool catalog and page table are watched
and the files in the output directory are rebuilt when they change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("performing initial build")
		if err := runBuild(ctx, time.Now()); err != nil {
			return fmt.Errorf("initial build failed: %w", err)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create file watcher: %w", err)
		}
		defer watcher.Close()

		addWatches(watcher)
		rb := &rebuilder{run: func() error { return runBuild(ctx, time.Now()) }}
		go watchAndRebuild(ctx, watcher, rb)

		gin.SetMode(gin.ReleaseMode)
		srv := httpserver.New(func() (*pipeline.Result, error) {
			return runPipeline(time.Now())
		}, appConfig.Channel(), time.Now, logger)
		router := httpserver.NewRouter(srv)
		router.NoRoute(gin.WrapH(http.FileServer(http.Dir(appConfig.OutputDir))))

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", serverPort),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()

		logger.Info("serving", "addr", "http://localhost"+server.Addr, "outputDir", appConfig.OutputDir)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		logger.Info("server stopped")
		return nil
	},
}

// watchedRoots are the inputs whose changes trigger a rebuild.
func watchedRoots() []string {
	roots := []string{appConfig.ContentDir, filepath.Dir(appConfig.ToolsFile)}
	if appConfig.PagesFile != "" {
		roots = append(roots, filepath.Dir(appConfig.PagesFile))
	}
	return roots
}

func addWatches(watcher *fsnotify.Watcher) {
	for _, root := range watchedRoots() {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			logger.Warn("directory not found, not watching", "path", root)
			continue
		}
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				logger.Warn("error walking directory", "path", path, "error", err)
				return nil
			}
			if d.IsDir() {
				if inOutputDir(path) {
					return filepath.SkipDir
				}
				if err := watcher.Add(path); err != nil {
					logger.Warn("failed to watch directory", "path", path, "error", err)
				}
			}
			return nil
		})
		if err != nil {
			logger.Warn("error setting up watches", "path", root, "error", err)
		}
	}
}

// rebuilder serializes builds so two debounced rebuilds never write the
// output files at the same time.
type rebuilder struct {
	mu  sync.Mutex
	run func() error
}

func (r *rebuilder) rebuild() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run()
}

func watchAndRebuild(ctx context.Context, watcher *fsnotify.Watcher, rb *rebuilder) {
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if inOutputDir(event.Name) {
				continue
			}
			logger.Debug("change detected", "path", event.Name, "op", event.Op.String())

			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
				}
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(rebuildDebounce, func() {
				logger.Info("rebuilding feeds after change")
				if err := rb.rebuild(); err != nil {
					logger.Error("rebuild failed", "error", err)
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// inOutputDir reports whether path lies inside the output directory, whose
// writes come from the rebuild itself.
func inOutputDir(path string) bool {
	out, err := filepath.Abs(appConfig.OutputDir)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(out, abs)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func isDir(path string) bool {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fileInfo.IsDir()
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 3000, "Port to serve on")
	rootCmd.AddCommand(serveCmd)
}
