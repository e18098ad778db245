// Package baseurl normalizes content-relative paths against the configured
// site base prefix.
//
// Every URL that ends up in emitted JSON or rendered HTML goes through a
// Resolver, so the rest of the pipeline never has to reason about `./`,
// `../` or bare absolute paths.
package baseurl

import "strings"

// schemes that mark a path as external and therefore untouched.
var externalPrefixes = []string{
	"http://",
	"https://",
	"//",
}

// passthrough prefixes that are neither local paths nor fetchable resources.
var passthroughPrefixes = []string{
	"#",
	"mailto:",
	"tel:",
	"data:",
}

// Resolver rewrites local paths to live under a single base prefix.
//
// All assets are served from one flat public root, so leading `../` segments
// carry no information and are stripped rather than resolved.
type Resolver struct {
	prefix string
}

// New returns a Resolver for the given base prefix. The prefix is normalized
// to always end with exactly one slash; an empty prefix means the site root.
func New(basePrefix string) *Resolver {
	p := basePrefix
	if p == "" {
		p = "/"
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return &Resolver{prefix: p}
}

// Prefix returns the normalized base prefix, always slash-terminated.
func (r *Resolver) Prefix() string { return r.prefix }

// Resolve rewrites p to a site-base-relative URL.
//
// Empty input resolves to empty output. External URLs, fragment/mailto/tel
// links and paths already under the base prefix are returned unchanged, so
// Resolve is idempotent: Resolve(Resolve(p)) == Resolve(p).
func (r *Resolver) Resolve(p string) string {
	if p == "" {
		return ""
	}
	if IsExternal(p) {
		return p
	}
	for _, pre := range passthroughPrefixes {
		if strings.HasPrefix(p, pre) {
			return p
		}
	}
	if strings.HasPrefix(p, r.prefix) {
		return p
	}

	clean := strings.TrimPrefix(p, "./")
	for strings.HasPrefix(clean, "../") {
		clean = strings.TrimPrefix(clean, "../")
	}
	clean = strings.TrimPrefix(clean, "/")

	return r.prefix + clean
}

// IsExternal reports whether p points at a resource outside the site.
func IsExternal(p string) bool {
	for _, pre := range externalPrefixes {
		if strings.HasPrefix(p, pre) {
			return true
		}
	}
	return false
}
