// Package build runs the full preprocessing pipeline: discovery of both
// collections, JSON emission, the file-metadata index and the build
// manifest.
package build

import (
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/foliopress/internal/baseurl"
	"git.home.luguber.info/inful/foliopress/internal/config"
	"git.home.luguber.info/inful/foliopress/internal/content"
	"git.home.luguber.info/inful/foliopress/internal/staticdata"
)

// Result summarizes one pipeline run.
type Result struct {
	Manifest staticdata.Manifest
	Blogs    []content.Item
	Projects []content.Item
	Files    int
	Duration time.Duration
}

// Run executes the whole pipeline against cfg. Per-item failures are
// logged and skipped inside discovery; Run fails only on unusable roots or
// unwritable output.
func Run(cfg *config.Config) (Result, error) {
	start := time.Now()

	blogs, err := Discover(cfg, content.KindArticle)
	if err != nil {
		return Result{}, err
	}
	projects, err := Discover(cfg, content.KindShowcase)
	if err != nil {
		return Result{}, err
	}

	emitter := &staticdata.Emitter{OutputDir: cfg.Content.OutputDir}
	if _, err := emitter.WriteCollection(content.KindArticle, blogs); err != nil {
		return Result{}, fmt.Errorf("emit blogs: %w", err)
	}
	if _, err := emitter.WriteCollection(content.KindShowcase, projects); err != nil {
		return Result{}, fmt.Errorf("emit projects: %w", err)
	}

	files, err := emitter.WriteFileMetadata([]staticdata.MetadataTree{
		{Dir: cfg.Content.Dir, Prefix: filepath.Base(cfg.Content.Dir)},
		{Dir: cfg.Content.DevlogsDir, Prefix: filepath.Base(cfg.Content.DevlogsDir)},
	})
	if err != nil {
		return Result{}, fmt.Errorf("emit file metadata: %w", err)
	}

	manifest, err := emitter.WriteManifest(map[string]int{
		content.KindArticle.Collection():  len(blogs),
		content.KindShowcase.Collection(): len(projects),
	})
	if err != nil {
		return Result{}, fmt.Errorf("emit manifest: %w", err)
	}

	result := Result{
		Manifest: manifest,
		Blogs:    blogs,
		Projects: projects,
		Files:    files,
		Duration: time.Since(start),
	}
	slog.Info("Build completed",
		"buildId", manifest.BuildID,
		"blogs", len(blogs),
		"projects", len(projects),
		"files", files,
		"duration", result.Duration,
	)
	return result, nil
}

// Discover runs content discovery for one collection without emitting.
func Discover(cfg *config.Config, kind content.Kind) ([]content.Item, error) {
	scanner := &content.Scanner{
		Resolver:     baseurl.New(cfg.Site.BaseURL),
		WebRoot:      path.Join(filepath.Base(cfg.Content.Dir), kind.Collection()),
		DefaultCover: collectionConfig(cfg, kind).DefaultCover,
	}
	return scanner.Discover(filepath.Join(cfg.Content.Dir, kind.Collection()), kind)
}

func collectionConfig(cfg *config.Config, kind content.Kind) config.CollectionConfig {
	if kind == content.KindShowcase {
		return cfg.Content.Projects
	}
	return cfg.Content.Blogs
}
