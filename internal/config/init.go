package config

import (
	"fmt"
	"os"
)

const starterConfig = `# FolioPress site configuration
site:
  title: My Portfolio
  description: Personal portfolio and blog
  base_url: /my-portfolio/

content:
  dir: public/content
  devlogs_dir: public/devlogs
  output_dir: public/data
  blogs:
    default_cover: default_cover.jpg
    default_header_background: background/default_blog.png
  projects:
    default_cover: default_cover.jpg
    default_header_background: background/default_proj.jpg

preview:
  port: 1316
  # rebuild_interval: 5m
`

// WriteStarter writes the starter configuration file. Existing files are
// preserved unless force is set.
func WriteStarter(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
