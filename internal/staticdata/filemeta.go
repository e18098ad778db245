package staticdata

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileMetadata snapshots filesystem timestamps for one markdown document.
//
// The deployed artifact is static, so consumers cannot stat files
// themselves; the build step records the timestamps for them. Go has no
// portable birth time, so created mirrors the modification time.
type FileMetadata struct {
	Path         string `json:"path"`
	LastModified string `json:"lastModified"`
	Created      string `json:"created"`
}

// MetadataTree names one directory tree to index and the public-relative
// prefix its entries are recorded under (e.g. "devlogs", "content").
type MetadataTree struct {
	Dir    string
	Prefix string
}

// WriteFileMetadata walks the given trees for markdown files and writes the
// path → timestamps index.
func (e *Emitter) WriteFileMetadata(trees []MetadataTree) (int, error) {
	index := map[string]FileMetadata{}

	for _, tree := range trees {
		if _, err := os.Stat(tree.Dir); os.IsNotExist(err) {
			slog.Warn("Metadata tree not found, skipping", "dir", tree.Dir)
			continue
		}
		collectTree(tree, index)
	}

	if err := e.writeJSON(FileMetadataName, index); err != nil {
		return 0, err
	}
	slog.Info("Wrote file metadata index", "files", len(index))
	return len(index), nil
}

func collectTree(tree MetadataTree, index map[string]FileMetadata) {
	_ = filepath.WalkDir(tree.Dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("Skipping unreadable path in metadata walk", "path", p, "error", err)
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			slog.Warn("Stat failed in metadata walk", "path", p, "error", err)
			return nil
		}

		rel, err := filepath.Rel(tree.Dir, p)
		if err != nil {
			return nil
		}
		key := filepath.ToSlash(rel)
		if tree.Prefix != "" {
			key = tree.Prefix + "/" + key
		}

		mod := info.ModTime().UTC().Format(time.RFC3339)
		index[key] = FileMetadata{
			Path:         key,
			LastModified: mod,
			Created:      mod,
		}
		return nil
	})
}
