package content

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/foliopress/internal/baseurl"
)

func newTestScanner() *Scanner {
	return &Scanner{
		Resolver:     baseurl.New("/my-portfolio/"),
		WebRoot:      "content/blogs",
		DefaultCover: "default_cover.jpg",
		Now:          func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func writeItem(t *testing.T, root, folder, doc string) {
	t.Helper()
	dir := filepath.Join(root, folder)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, EntryDocument), []byte(doc), 0o644))
}

func TestDiscoverBasic(t *testing.T) {
	root := t.TempDir()
	writeItem(t, root, "hello-world", "---\ntitle: \"Hello World\"\ncreateTime: \"2025-01-01T00:00:00Z\"\ntags: [intro]\n---\n# Hello\nSome text\n")

	s := newTestScanner()
	items, err := s.Discover(root, KindArticle)
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "hello-world", item.ID)
	assert.Equal(t, "Hello World", item.Title)
	assert.Equal(t, "2025-01-01T00:00:00Z", item.Date)
	assert.Equal(t, "General", item.Category)
	assert.Equal(t, []string{"intro"}, item.Tags)
	assert.Equal(t, "/my-portfolio/blogs/hello-world", item.Link)
	assert.Equal(t, "/my-portfolio/content/blogs/hello-world/index.md", item.ContentPath)
	assert.Equal(t, "/my-portfolio/default_cover.jpg", item.Image)
	assert.Empty(t, item.AssetPaths)
}

func TestDiscoverSortsByDateDescending(t *testing.T) {
	root := t.TempDir()
	writeItem(t, root, "a", "---\ntitle: A\ncreateTime: \"2024-01-01T00:00:00Z\"\n---\nx")
	writeItem(t, root, "b", "---\ntitle: B\ncreateTime: \"2025-06-01T00:00:00Z\"\n---\nx")
	writeItem(t, root, "c", "---\ntitle: C\ncreateTime: \"2023-12-31T00:00:00Z\"\n---\nx")

	items, err := newTestScanner().Discover(root, KindArticle)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "2025-06-01T00:00:00Z", items[0].Date)
	assert.Equal(t, "2024-01-01T00:00:00Z", items[1].Date)
	assert.Equal(t, "2023-12-31T00:00:00Z", items[2].Date)
}

func TestDiscoverSkipsFoldersWithoutEntryDocument(t *testing.T) {
	root := t.TempDir()
	writeItem(t, root, "valid", "---\ntitle: Valid\n---\nx")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "no-entry", "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.md"), []byte("x"), 0o644))

	items, err := newTestScanner().Discover(root, KindArticle)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "valid", items[0].ID)
}

func TestDiscoverMissingRoot(t *testing.T) {
	items, err := newTestScanner().Discover(filepath.Join(t.TempDir(), "absent"), KindArticle)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDiscoverMalformedFrontmatterYieldsDefaults(t *testing.T) {
	root := t.TempDir()
	// Unterminated frontmatter: treated as body, item built from defaults.
	writeItem(t, root, "broken-post", "---\ntitle: Broken\nno closing delimiter")

	items, err := newTestScanner().Discover(root, KindArticle)
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "broken-post", item.ID)
	assert.Equal(t, "broken post", item.Title)
	assert.Equal(t, "General", item.Category)
	assert.Equal(t, "2025-06-01T12:00:00Z", item.Date)
	assert.Equal(t, []string{}, item.Tags)
}

func TestDiscoverShowcaseAssets(t *testing.T) {
	root := t.TempDir()
	writeItem(t, root, "proj", "---\ntitle: Proj\ncoverImage: ./shot.png\n---\nx")
	dir := filepath.Join(root, "proj")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shot.png"), []byte("png"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "gallery"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gallery", "b.webp"), []byte("webp"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("txt"), 0o644))

	s := newTestScanner()
	s.WebRoot = "content/projects"
	items, err := s.Discover(root, KindShowcase)
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "/my-portfolio/shot.png", item.Image)
	assert.Equal(t, []string{
		"/my-portfolio/content/projects/proj/gallery/b.webp",
		"/my-portfolio/content/projects/proj/shot.png",
	}, item.AssetPaths)
}

func TestDiscoverShowcaseWithoutAssets(t *testing.T) {
	root := t.TempDir()
	writeItem(t, root, "bare", "---\ntitle: Bare\n---\nx")

	s := newTestScanner()
	s.WebRoot = "content/projects"
	items, err := s.Discover(root, KindShowcase)
	require.NoError(t, err)
	require.Len(t, items, 1)

	// The list stays non-nil so the emitted JSON keeps the assetPaths key.
	require.NotNil(t, items[0].AssetPaths)
	assert.Empty(t, items[0].AssetPaths)
}

func TestDiscoverCoverSentinel(t *testing.T) {
	root := t.TempDir()
	writeItem(t, root, "p1", "---\ntitle: One\ncoverImage: default\n---\nx")

	items, err := newTestScanner().Discover(root, KindArticle)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "/my-portfolio/default_cover.jpg", items[0].Image)
}

func TestDiscoverDuplicateSlugs(t *testing.T) {
	root := t.TempDir()
	writeItem(t, root, "post-one", "---\ntitle: \"Same Title\"\ncreateTime: \"2025-01-02T00:00:00Z\"\n---\nx")
	writeItem(t, root, "post-two", "---\ntitle: \"Same Title!\"\ncreateTime: \"2025-01-01T00:00:00Z\"\n---\nx")

	items, err := newTestScanner().Discover(root, KindArticle)
	require.NoError(t, err)
	require.Len(t, items, 2)

	ids := []string{items[0].ID, items[1].ID}
	assert.ElementsMatch(t, []string{"same-title", "same-title-1"}, ids)
	assert.NotEqual(t, items[0].Link, items[1].Link)
}

func TestDiscoverInvalidKind(t *testing.T) {
	_, err := newTestScanner().Discover(t.TempDir(), Kind("bogus"))
	assert.Error(t, err)
}
