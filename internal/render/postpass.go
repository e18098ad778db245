package render

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/foliopress/internal/baseurl"
)

var cssURL = regexp.MustCompile(`url\(\s*['"]?([^'")]+?)['"]?\s*\)`)

// rewriteLocalURLs scans rendered HTML and resolves local paths in anchor
// href attributes and in url(...) values inside inline style attributes.
//
// The structured renderers never see raw HTML embedded in markdown source;
// this pass catches the paths they introduce. Tokens that need no rewrite
// are passed through byte-for-byte.
func rewriteLocalURLs(in string, res *baseurl.Resolver) string {
	z := html.NewTokenizer(strings.NewReader(in))
	var out strings.Builder
	out.Grow(len(in))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() == io.EOF {
				return out.String()
			}
			// Tokenizer failure: leave the document untouched.
			return in
		}

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			out.Write(z.Raw())
			continue
		}

		raw := append([]byte(nil), z.Raw()...)
		token := z.Token()
		changed := false
		for i, attr := range token.Attr {
			switch {
			case token.Data == "a" && attr.Key == "href":
				if resolved := res.Resolve(attr.Val); resolved != attr.Val {
					token.Attr[i].Val = resolved
					changed = true
				}
			case attr.Key == "style" && strings.Contains(attr.Val, "url("):
				if rewritten := rewriteStyleURLs(attr.Val, res); rewritten != attr.Val {
					token.Attr[i].Val = rewritten
					changed = true
				}
			}
		}

		if changed {
			out.WriteString(token.String())
		} else {
			out.Write(raw)
		}
	}
}

// rewriteStyleURLs resolves every url(...) value inside one style string.
func rewriteStyleURLs(style string, res *baseurl.Resolver) string {
	return cssURL.ReplaceAllStringFunc(style, func(match string) string {
		m := cssURL.FindStringSubmatch(match)
		if m == nil {
			return match
		}
		return `url("` + res.Resolve(m[1]) + `")`
	})
}
