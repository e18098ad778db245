// Package render converts a raw markdown document into HTML plus a table of
// contents.
//
// The pipeline is: frontmatter parse, template-variable substitution,
// goldmark conversion with custom renderers (headings, fenced code, links,
// images) and custom extensions (math, mark), optional leading-title
// stripping, and a final URL-rewriting post-pass over the generated HTML.
//
// Render performs no I/O and never fails: any panic inside the pipeline is
// converted into a safe fallback document.
package render

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/foliopress/internal/baseurl"
	"git.home.luguber.info/inful/foliopress/internal/frontmatter"
)

// TocItem is one heading record extracted during rendering.
type TocItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Level int    `json:"level"`
}

// Result is the render output contract. CreateTime passes through from
// frontmatter unmodified; consumers format it for display themselves.
type Result struct {
	HTML       string    `json:"html"`
	Toc        []TocItem `json:"toc"`
	CreateTime string    `json:"createTime,omitempty"`
}

// fallbackHTML replaces the whole document when the pipeline panics.
const fallbackHTML = "<p>Error parsing markdown content</p>"

// Engine renders documents against one base-URL resolver. It is stateless
// across calls; per-render state (TOC, heading-id de-duplication) is created
// fresh for every Render invocation.
type Engine struct {
	resolver *baseurl.Resolver
	math     MathRenderer
}

// Option configures an Engine.
type Option func(*Engine)

// WithMathRenderer replaces the default restricted math renderer.
func WithMathRenderer(m MathRenderer) Option {
	return func(e *Engine) { e.math = m }
}

// New returns a render engine rooted at the given resolver.
func New(res *baseurl.Resolver, opts ...Option) *Engine {
	e := &Engine{
		resolver: res,
		math:     NewRestrictedMathRenderer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render converts a raw document (frontmatter included) into HTML and TOC.
//
// When stripLeadingTitle is set and the document opens with a level-1
// heading, that heading is removed from both the HTML and the TOC; page
// chrome that displays the title separately uses this.
func (e *Engine) Render(document string, stripLeadingTitle bool) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Markdown render panicked, returning fallback document", "panic", r)
			result = Result{HTML: fallbackHTML, Toc: []TocItem{}}
		}
	}()

	meta, body := frontmatter.ParseMeta(document)
	body = substituteVars(body, meta)

	state := newRenderState()
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Footnote,
			extension.DefinitionList,
			extension.TaskList,
			extension.Linkify,
			extension.Typographer,
			newMarkExtension(),
			newMathExtension(e.math),
		),
		goldmark.WithParserOptions(parser.WithAttribute()),
		goldmark.WithRendererOptions(
			htmlrenderer.WithHardWraps(),
			htmlrenderer.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(newContentRenderer(e.resolver, state), 100),
			),
		),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(body), &buf); err != nil {
		slog.Error("Markdown conversion failed, returning fallback document", "error", err)
		return Result{HTML: fallbackHTML, Toc: []TocItem{}}
	}

	htmlOut := buf.String()
	toc := state.toc

	if stripLeadingTitle && len(toc) > 0 && toc[0].Level == 1 {
		toc = toc[1:]
		htmlOut = stripFirstH1(htmlOut)
	}

	htmlOut = rewriteLocalURLs(htmlOut, e.resolver)

	return Result{HTML: htmlOut, Toc: toc, CreateTime: meta.CreateTime}
}

// RenderFile reads a document from disk and renders it. The read is the
// only failure mode; rendering itself always yields a Result.
func (e *Engine) RenderFile(path string, stripLeadingTitle bool) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read document %s: %w", path, err)
	}
	return e.Render(string(data), stripLeadingTitle), nil
}

// renderState is the per-invocation TOC and heading-id collision map. It
// must never be shared across Render calls.
type renderState struct {
	toc  []TocItem
	seen map[string]int
}

func newRenderState() *renderState {
	return &renderState{toc: []TocItem{}, seen: map[string]int{}}
}

// uniqueID disambiguates repeated heading slugs within one render: the
// first occurrence keeps the bare id, repeats get -1, -2, ...
func (s *renderState) uniqueID(base string) string {
	count, dup := s.seen[base]
	if !dup {
		s.seen[base] = 0
		return base
	}
	s.seen[base] = count + 1
	return base + "-" + strconv.Itoa(count+1)
}

var firstH1 = regexp.MustCompile(`(?s)<h1\b[^>]*>.*?</h1>\n?`)

// stripFirstH1 removes the first level-1 heading element from html.
func stripFirstH1(html string) string {
	loc := firstH1.FindStringIndex(html)
	if loc == nil {
		return html
	}
	return html[:loc[0]] + html[loc[1]:]
}

// substituteVars replaces {{key}} placeholders with frontmatter values.
//
// Runs before markdown tokenization so substituted values participate in
// markdown syntax. The createTime key is excluded: consumers format the
// timestamp themselves, raw substitution would bypass that.
func substituteVars(body string, meta frontmatter.Meta) string {
	vars := map[string]string{}
	if meta.Title != "" {
		vars[frontmatter.KeyTitle] = meta.Title
	}
	if meta.Description != "" {
		vars[frontmatter.KeyDescription] = meta.Description
	}
	if meta.Category != "" {
		vars[frontmatter.KeyCategory] = meta.Category
	}
	if meta.CoverImage != "" {
		vars[frontmatter.KeyCoverImage] = meta.CoverImage
	}
	if len(meta.Tags) > 0 {
		vars[frontmatter.KeyTags] = strings.Join(meta.Tags, ",")
	}
	for k, v := range meta.Extra {
		vars[k] = v
	}

	for key, value := range vars {
		body = strings.ReplaceAll(body, "{{"+key+"}}", value)
	}
	return body
}
