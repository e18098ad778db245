// Package devlog creates daily-log skeleton documents.
package devlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Log type file names; the render engine routes links to these documents.
const (
	ChangeLogFile    = "change-log.md"
	DeveloperLogFile = "developer-log.md"
)

const changeLogTemplate = `# Change Log - {{displayDate}}

## Summary
Brief overview of today's development work.

## Changes Made

### 1. Feature/Fix Title
Description of the change made.

## Benefits

- **User Experience**: How changes improve the user experience
- **Developer Experience**: Improvements for development workflow

## Next Steps
1. **Immediate**: What needs to be done next
2. **Short-term**: Near-future development priorities
`

const developerLogTemplate = `# Developer Log - {{displayDate}}

## Today's Focus
What was worked on today.

## Notes

## Blockers

## Tomorrow
`

// Create writes the two daily-log skeletons for the given day under
// root/<YYYY-MM-DD>/. Existing files are never overwritten; the returned
// paths list only the files actually created.
func Create(root string, day time.Time) ([]string, error) {
	dateStr := day.Format("2006-01-02")
	displayDate := day.Format("January 2, 2006")

	dir := filepath.Join(root, dateStr)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create devlog directory %s: %w", dir, err)
	}

	templates := map[string]string{
		ChangeLogFile:    changeLogTemplate,
		DeveloperLogFile: developerLogTemplate,
	}

	created := []string{}
	for _, name := range []string{ChangeLogFile, DeveloperLogFile} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}

		body := templates[name]
		body = strings.ReplaceAll(body, "{{displayDate}}", displayDate)
		body = strings.ReplaceAll(body, "{{dateStr}}", dateStr)

		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return created, fmt.Errorf("write devlog %s: %w", path, err)
		}
		created = append(created, path)
	}
	return created, nil
}
