package render

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"
)

// languageAliases maps fence info strings to canonical grammar names.
var languageAliases = map[string]string{
	"js":     "javascript",
	"ts":     "typescript",
	"jsx":    "jsx",
	"tsx":    "tsx",
	"css":    "css",
	"json":   "json",
	"bash":   "bash",
	"shell":  "bash",
	"sh":     "bash",
	"md":     "markdown",
	"yaml":   "yaml",
	"yml":    "yaml",
	"html":   "markup",
	"xml":    "markup",
	"py":     "python",
	"c++":    "cpp",
	"sql":    "sql",
	"rust":   "rust",
	"rs":     "rust",
	"go":     "go",
	"golang": "go",
	"latex":  "latex",
	"tex":    "latex",
}

// chromaNames maps canonical grammar names to chroma lexer names where the
// two disagree.
var chromaNames = map[string]string{
	"markup": "html",
}

const highlightStyle = "github"

// renderFencedCode emits a highlighted code block wrapped in the container
// markup the UI's toggle/copy controls attach to. Unknown languages and
// highlighter failures fall back to escaped plain text.
func (r *contentRenderer) renderFencedCode(w util.BufWriter, source []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	if !entering {
		return gast.WalkContinue, nil
	}
	n := node.(*gast.FencedCodeBlock)

	declared := ""
	if lang := n.Language(source); lang != nil {
		declared = string(lang)
	}

	canonical := "text"
	if declared != "" {
		canonical = strings.ToLower(declared)
		if mapped, ok := languageAliases[canonical]; ok {
			canonical = mapped
		}
	}
	display := declared
	if display == "" {
		display = "text"
	}

	var code bytes.Buffer
	for i := 0; i < n.Lines().Len(); i++ {
		line := n.Lines().At(i)
		code.Write(line.Value(source))
	}

	body, class := highlight(code.String(), canonical)

	_, _ = w.WriteString(`<div class="code-block-container">`)
	_, _ = w.WriteString(`<div class="code-block-banner">`)
	_, _ = w.WriteString(`<div class="code-block-controls">`)
	_, _ = w.WriteString(`<button class="code-block-toggle" title="Toggle code block"><span class="toggle-icon">&#9660;</span></button>`)
	_, _ = w.WriteString(`<span class="code-block-language">` + escapeAttr(display) + `</span>`)
	_, _ = w.WriteString(`</div>`)
	_, _ = w.WriteString(`<button class="code-block-copy" title="Copy"><span class="copy-icon">&#128196;</span></button>`)
	_, _ = w.WriteString(`</div>`)
	_, _ = w.WriteString(`<pre class="language-` + class + ` code-block-content"><code class="language-` + class + `">`)
	_, _ = w.WriteString(body)
	_, _ = w.WriteString("</code></pre></div>\n")

	return gast.WalkSkipChildren, nil
}

// highlight returns the inner markup for a code block and the language
// class to advertise. A nil lexer or a tokenizer error degrades to escaped
// plain text under the "text" class.
func highlight(code, canonical string) (body, class string) {
	name := canonical
	if mapped, ok := chromaNames[canonical]; ok {
		name = mapped
	}

	lexer := lexers.Get(name)
	if lexer == nil || canonical == "text" {
		return escapeAttr(code), "text"
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return escapeAttr(code), "text"
	}

	formatter := chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.PreventSurroundingPre(true),
	)
	var buf bytes.Buffer
	if err := formatter.Format(&buf, styles.Get(highlightStyle), iterator); err != nil {
		return escapeAttr(code), "text"
	}
	return buf.String(), canonical
}
