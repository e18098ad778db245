package content

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"git.home.luguber.info/inful/foliopress/internal/baseurl"
	"git.home.luguber.info/inful/foliopress/internal/frontmatter"
)

// CoverDefaultSentinel in frontmatter requests the collection default cover.
const CoverDefaultSentinel = "default"

var assetExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
	".webp": true,
}

// Scanner walks one collection root and produces normalized items.
type Scanner struct {
	Resolver *baseurl.Resolver
	// WebRoot is the public-relative location of the collection root, e.g.
	// "content/blogs"; contentPath and assetPaths are expressed under it.
	WebRoot string
	// DefaultCover is the collection default cover image, as authored in
	// the site config (resolved through Resolver on use).
	DefaultCover string
	// Now supplies the fallback date for items without createTime;
	// defaults to time.Now.
	Now func() time.Time
}

// Discover lists the immediate subdirectories of root, normalizes every
// folder directly containing the entry document, and returns the items
// sorted by date descending.
//
// A missing root or a malformed item is logged and skipped, never fatal.
func (s *Scanner) Discover(root string, kind Kind) ([]Item, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("Content directory not found", "root", root, "kind", kind)
			return []Item{}, nil
		}
		return nil, fmt.Errorf("read content directory %s: %w", root, err)
	}

	items := make([]Item, 0, len(entries))
	seen := map[string]int{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		item, ok := s.processFolder(root, entry.Name(), kind)
		if !ok {
			continue
		}
		item.ID = disambiguate(item.ID, seen)
		item.Link = s.Resolver.Resolve(path.Join(kind.Collection(), item.ID))
		items = append(items, item)
	}

	sortByDateDesc(items)
	return items, nil
}

// processFolder normalizes one item folder. ok is false when the folder is
// not an item (no entry document) or could not be read.
func (s *Scanner) processFolder(root, folder string, kind Kind) (Item, bool) {
	dir := filepath.Join(root, folder)
	entryPath := filepath.Join(dir, EntryDocument)

	info, err := os.Stat(entryPath)
	if err != nil || info.IsDir() {
		// Folders without an entry document are not items.
		return Item{}, false
	}

	raw, err := os.ReadFile(entryPath)
	if err != nil {
		slog.Error("Skipping unreadable content item", "path", entryPath, "error", err)
		return Item{}, false
	}

	meta, _ := frontmatter.ParseMeta(string(raw))

	title := meta.Title
	if title == "" {
		title = strings.ReplaceAll(folder, "-", " ")
	}
	id := Slugify(meta.Title)
	if id == "" {
		id = Slugify(folder)
	}

	date := meta.CreateTime
	if date == "" {
		date = s.now().UTC().Format(time.RFC3339)
	}
	category := meta.Category
	if category == "" {
		category = "General"
	}

	item := Item{
		ID:          id,
		Title:       title,
		Date:        date,
		Category:    category,
		Description: meta.Description,
		Tags:        meta.Tags,
		ContentPath: s.Resolver.Resolve(path.Join(s.WebRoot, folder, EntryDocument)),
		Image:       s.resolveCover(meta.CoverImage),
	}

	if kind == KindShowcase {
		item.AssetPaths = s.collectAssets(dir, folder)
	}
	return item, true
}

// resolveCover maps an absent or sentinel cover value to the collection
// default. Only local image paths go through the resolver; external URLs,
// inline SVG and icon-font classes are not paths and stay verbatim.
func (s *Scanner) resolveCover(cover string) string {
	if cover == "" || cover == CoverDefaultSentinel {
		return s.Resolver.Resolve(s.DefaultCover)
	}
	if ClassifyAsset(cover) != ClassLocalImage {
		return cover
	}
	return s.Resolver.Resolve(cover)
}

// collectAssets recursively gathers image files under the item folder,
// preserving the relative sub-path, in deterministic lexical order.
func (s *Scanner) collectAssets(dir, folder string) []string {
	assets := []string{}
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if !assetExtensions[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return nil
		}
		assets = append(assets, s.Resolver.Resolve(path.Join(s.WebRoot, folder, filepath.ToSlash(rel))))
		return nil
	})
	return assets
}

func (s *Scanner) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// disambiguate suffixes repeated slugs within one discovery run so two
// titles normalizing identically cannot silently share a link.
func disambiguate(id string, seen map[string]int) string {
	count, dup := seen[id]
	if !dup {
		seen[id] = 0
		return id
	}
	seen[id] = count + 1
	slog.Warn("Duplicate content slug, adding suffix", "slug", id, "suffix", count+1)
	return fmt.Sprintf("%s-%d", id, count+1)
}

// sortByDateDesc orders items newest first. Dates that do not parse as
// RFC 3339 sort oldest; the sort is stable so equal dates keep folder order.
func sortByDateDesc(items []Item) {
	parse := func(s string) time.Time {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}
		}
		return t
	}
	sort.SliceStable(items, func(i, j int) bool {
		return parse(items[i].Date).After(parse(items[j].Date))
	})
}
