// Package content discovers per-item bundles on disk and normalizes them
// into the records the static data artifacts are built from.
package content

import "errors"

// ErrInvalidKind is returned when a collection name is not blogs or projects.
var ErrInvalidKind = errors.New("content: invalid collection kind")

// Kind selects a content collection.
type Kind string

const (
	// KindArticle is a blog post: entry document plus optional cover.
	KindArticle Kind = "blogs"
	// KindShowcase is a project: like an article, but additionally carries
	// the list of image assets discovered alongside the entry document.
	KindShowcase Kind = "projects"
)

// IsValid reports whether k names a known collection.
func (k Kind) IsValid() bool { return k == KindArticle || k == KindShowcase }

// Collection returns the collection name used in links and artifact names.
func (k Kind) Collection() string { return string(k) }

// EntryDocument is the single markdown file that makes a folder a content item.
const EntryDocument = "index.md"

// Item is one normalized content record, as emitted to the collection JSON.
//
// All path-valued fields are site-base-relative; consumers rely on the
// emitted order (date descending) and never re-sort.
//
// AssetPaths is nil for articles (key absent in JSON) and always non-nil
// for showcase items, so a project with no assets still emits
// "assetPaths": [] rather than dropping the key consumers index into.
type Item struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	Link        string   `json:"link"`
	Tags        []string `json:"tags"`
	ContentPath string   `json:"contentPath"`
	AssetPaths  []string `json:"assetPaths,omitzero"`
}
