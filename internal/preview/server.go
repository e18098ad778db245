// Package preview runs the local development server: it serves the built
// site, watches the content trees and rebuilds on change, and exposes a
// rendered-document API plus Prometheus metrics.
//
// The preview server serves already-built static files; it is not the
// production server.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/foliopress/internal/assetcache"
	"git.home.luguber.info/inful/foliopress/internal/baseurl"
	"git.home.luguber.info/inful/foliopress/internal/build"
	"git.home.luguber.info/inful/foliopress/internal/config"
	"git.home.luguber.info/inful/foliopress/internal/render"
)

// debounceWindow coalesces bursts of filesystem events into one rebuild.
const debounceWindow = 300 * time.Millisecond

// Server is the preview HTTP server plus its watch/rebuild machinery.
type Server struct {
	cfg     *config.Config
	engine  *render.Engine
	docs    *assetcache.Cache[string, string]
	metrics *metrics
	webRoot string
	rebuild chan string
}

// NewServer builds a preview server for cfg. The web root is the common
// parent of the content and output directories (the deployable tree).
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg:     cfg,
		engine:  render.New(baseurl.New(cfg.Site.BaseURL)),
		metrics: newMetrics(),
		webRoot: filepath.Dir(cfg.Content.OutputDir),
		rebuild: make(chan string, 1),
	}
	s.docs = assetcache.New(func(path string) (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	})
	return s
}

// Run builds once, then serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.runBuild("startup"); err != nil {
		return err
	}

	watcher, err := s.startWatcher()
	if err != nil {
		slog.Warn("Content watching disabled", "error", err)
	} else {
		defer watcher.Close()
	}

	scheduler, err := s.startScheduler()
	if err != nil {
		slog.Warn("Scheduled rebuilds disabled", "error", err)
	} else if scheduler != nil {
		defer func() { _ = scheduler.Shutdown() }()
	}

	go s.rebuildLoop(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Preview.Port),
		Handler:           s.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Preview server listening", "addr", srv.Addr, "webRoot", s.webRoot)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/api/render/", s.handleRender)
	mux.Handle("/", http.FileServer(http.Dir(s.webRoot)))
	return s.countRequests(mux)
}

// handleRender renders one markdown document below the web root and
// returns the HTML+TOC contract as JSON. Raw documents are cached; content
// changes invalidate the cache via the rebuild loop.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/api/render/")
	if rel == "" || !strings.HasSuffix(rel, ".md") {
		http.Error(w, "markdown document path required", http.StatusBadRequest)
		return
	}

	path := filepath.Join(s.webRoot, filepath.FromSlash(rel))
	if !strings.HasPrefix(path, filepath.Clean(s.webRoot)+string(os.PathSeparator)) {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	doc, err := s.docs.Get(path)
	if err != nil {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}

	strip := r.URL.Query().Get("stripTitle") == "true"
	result := s.engine.Render(doc, strip)
	s.metrics.renderTotal.Inc()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(result)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.requestsTotal.WithLabelValues(fmt.Sprintf("%d", rec.status)).Inc()
	})
}

// startWatcher watches the content and devlog trees recursively.
func (s *Server) startWatcher() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	roots := []string{s.cfg.Content.Dir, s.cfg.Content.DevlogsDir}
	for _, root := range roots {
		if err := addRecursive(watcher, root); err != nil {
			slog.Warn("Not watching tree", "root", root, "error", err)
		}
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				// New directories need their own watch.
				if event.Op.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = addRecursive(watcher, event.Name)
					}
				}
				s.requestRebuild("watch")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("Watcher error", "error", err)
			}
		}
	}()
	return watcher, nil
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

// startScheduler sets up the optional interval rebuild. Returns a nil
// scheduler when no interval is configured.
func (s *Server) startScheduler() (gocron.Scheduler, error) {
	if s.cfg.Preview.RebuildInterval == "" {
		return nil, nil
	}
	interval, err := time.ParseDuration(s.cfg.Preview.RebuildInterval)
	if err != nil {
		return nil, fmt.Errorf("parse preview.rebuild_interval: %w", err)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.requestRebuild("schedule") }),
	)
	if err != nil {
		return nil, err
	}
	scheduler.Start()
	slog.Info("Scheduled rebuilds enabled", "interval", interval)
	return scheduler, nil
}

// requestRebuild queues a rebuild; an already-pending request absorbs it.
func (s *Server) requestRebuild(trigger string) {
	select {
	case s.rebuild <- trigger:
	default:
	}
}

func (s *Server) rebuildLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case trigger := <-s.rebuild:
			// Let the burst of events settle before rebuilding.
			time.Sleep(debounceWindow)
			drainTriggers(s.rebuild)
			if err := s.runBuild(trigger); err != nil {
				slog.Error("Rebuild failed", "trigger", trigger, "error", err)
			}
		}
	}
}

func drainTriggers(ch chan string) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

func (s *Server) runBuild(trigger string) error {
	result, err := build.Run(s.cfg)
	if err != nil {
		s.metrics.rebuildsTotal.WithLabelValues(trigger, "error").Inc()
		return err
	}
	s.metrics.rebuildsTotal.WithLabelValues(trigger, "ok").Inc()
	s.metrics.buildDuration.Observe(result.Duration.Seconds())
	// Source documents may have changed; rendered output must not be stale.
	s.docs.Reset()
	return nil
}
