package render

import (
	"regexp"
	"strconv"
	"strings"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/foliopress/internal/baseurl"
	"git.home.luguber.info/inful/foliopress/internal/content"
)

// devlogLink matches internal daily-log document links that get rewritten
// into application routes.
var devlogLink = regexp.MustCompile(`^\./devlogs/(\d{4}-\d{2}-\d{2})/(change-log|developer-log)\.md$`)

// contentRenderer overrides goldmark's default rendering of headings,
// fenced code blocks, images and links.
type contentRenderer struct {
	resolver *baseurl.Resolver
	state    *renderState
}

func newContentRenderer(res *baseurl.Resolver, state *renderState) renderer.NodeRenderer {
	return &contentRenderer{resolver: res, state: state}
}

func (r *contentRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(gast.KindHeading, r.renderHeading)
	reg.Register(gast.KindFencedCodeBlock, r.renderFencedCode)
	reg.Register(gast.KindImage, r.renderImage)
	reg.Register(gast.KindLink, r.renderLink)
}

// renderHeading emits the heading tag with a slugified, de-duplicated id
// attribute and records the heading in the TOC in document order.
func (r *contentRenderer) renderHeading(w util.BufWriter, source []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	n := node.(*gast.Heading)
	if !entering {
		_, _ = w.WriteString("</h" + strconv.Itoa(n.Level) + ">\n")
		return gast.WalkContinue, nil
	}

	title := plainText(n, source)
	id := r.state.uniqueID(content.Slugify(title))
	r.state.toc = append(r.state.toc, TocItem{ID: id, Title: title, Level: n.Level})

	_, _ = w.WriteString("<h" + strconv.Itoa(n.Level) + ` id="` + escapeAttr(id) + `">`)
	return gast.WalkContinue, nil
}

// renderImage rewrites the source through the resolver and adds the
// lazy-loading hint. Children are skipped; the alt text is extracted here.
func (r *contentRenderer) renderImage(w util.BufWriter, source []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	if !entering {
		return gast.WalkContinue, nil
	}
	n := node.(*gast.Image)

	src := r.resolver.Resolve(string(n.Destination))
	_, _ = w.WriteString(`<img src="` + escapeAttr(src) + `" alt="` + escapeAttr(plainText(n, source)) + `"`)
	if n.Title != nil {
		_, _ = w.WriteString(` title="` + escapeAttr(string(n.Title)) + `"`)
	}
	_, _ = w.WriteString(` loading="lazy">`)
	return gast.WalkSkipChildren, nil
}

// renderLink rewrites daily-log document links into application routes;
// every other destination passes through untouched at this stage (the HTML
// post-pass handles general local-path rewriting).
func (r *contentRenderer) renderLink(w util.BufWriter, source []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</a>")
		return gast.WalkContinue, nil
	}
	n := node.(*gast.Link)

	href := string(n.Destination)
	if m := devlogLink.FindStringSubmatch(href); m != nil {
		href = r.resolver.Prefix() + "devlogs/" + m[1] + "/" + m[2]
	}

	_, _ = w.WriteString(`<a href="` + escapeAttr(href) + `"`)
	if n.Title != nil {
		_, _ = w.WriteString(` title="` + escapeAttr(string(n.Title)) + `"`)
	}
	_, _ = w.WriteString(">")
	return gast.WalkContinue, nil
}

// plainText concatenates the literal text runs under n, dropping formatting
// and link markup but keeping their text.
func plainText(n gast.Node, source []byte) string {
	var sb strings.Builder
	_ = gast.Walk(n, func(child gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *gast.Text:
			sb.Write(t.Segment.Value(source))
		case *gast.String:
			sb.Write(t.Value)
		}
		return gast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeAttr(s string) string { return attrEscaper.Replace(s) }
