package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// MathRenderer turns TeX source into HTML. The input is already escaped for
// the five XML-significant characters; implementations must treat it as
// untrusted document content and render in a restricted mode.
type MathRenderer interface {
	Render(tex string, display bool) (string, error)
}

// restrictedMathRenderer is the default MathRenderer. It enforces input
// bounds and a forbidden-command list, then emits the escaped TeX wrapped
// in client-side typesetting delimiters; no macro expansion happens server
// side, so expansion bounds hold trivially.
type restrictedMathRenderer struct {
	maxInline int
	maxBlock  int
}

// NewRestrictedMathRenderer returns the default restricted math renderer.
func NewRestrictedMathRenderer() MathRenderer {
	return &restrictedMathRenderer{maxInline: 1000, maxBlock: 10000}
}

// Commands that reach outside the formula (remote resources, file access,
// macro definition) are rejected outright.
var forbiddenMathCommands = []string{
	`\url`, `\href`, `\includegraphics`,
	`\input`, `\include`, `\write`, `\openin`, `\openout`,
	`\def`, `\newcommand`, `\renewcommand`, `\catcode`, `\csname`,
}

func (r *restrictedMathRenderer) Render(tex string, display bool) (string, error) {
	limit := r.maxInline
	if display {
		limit = r.maxBlock
	}
	if len(tex) > limit {
		return "", fmt.Errorf("math input exceeds %d bytes", limit)
	}
	for _, cmd := range forbiddenMathCommands {
		if strings.Contains(tex, cmd) {
			return "", fmt.Errorf("forbidden math command %s", cmd)
		}
	}
	if !bracesBalanced(tex) {
		return "", errors.New("unbalanced braces in math input")
	}
	if display {
		return `\[` + tex + `\]`, nil
	}
	return `\(` + tex + `\)`, nil
}

// bracesBalanced checks TeX group braces, ignoring escaped \{ and \}.
// Unbalanced groups would fail client-side typesetting anyway; rejecting
// them here surfaces the error fragment instead of broken output.
func bracesBalanced(tex string) bool {
	depth := 0
	for i := 0; i < len(tex); i++ {
		switch tex[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// --- AST nodes ---

// InlineMath is a $...$ span.
type InlineMath struct {
	gast.BaseInline
	Value []byte
}

// KindInlineMath is the node kind of InlineMath.
var KindInlineMath = gast.NewNodeKind("InlineMath")

func (n *InlineMath) Kind() gast.NodeKind { return KindInlineMath }

func (n *InlineMath) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}

// BlockMath is a $$...$$ block. Single-line blocks carry their content in
// Value; multi-line blocks carry it in Lines.
type BlockMath struct {
	gast.BaseBlock
	Value  []byte
	closed bool
}

// KindBlockMath is the node kind of BlockMath.
var KindBlockMath = gast.NewNodeKind("BlockMath")

func (n *BlockMath) Kind() gast.NodeKind { return KindBlockMath }

// IsRaw reports that block content is not parsed as inline markdown.
func (n *BlockMath) IsRaw() bool { return true }

func (n *BlockMath) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}

// --- parsers ---

// inlineMathParser recognizes $...$ on a single line. A backslash escapes
// the following character; without a closing $ the text is left alone.
type inlineMathParser struct{}

func (p *inlineMathParser) Trigger() []byte { return []byte{'$'} }

func (p *inlineMathParser) Parse(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	line, _ := block.PeekLine()
	if len(line) < 2 || line[0] != '$' {
		return nil
	}
	if line[1] == '$' {
		// $$ is block syntax; not an inline span.
		return nil
	}

	end := -1
	for i := 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '$':
			end = i
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 || end == 1 {
		return nil
	}

	value := make([]byte, end-1)
	copy(value, line[1:end])
	block.Advance(end + 1)
	return &InlineMath{Value: value}
}

// blockMathParser recognizes $$ blocks: single-line `$$content$$`, or a
// multi-line block terminated by a lone $$ line.
type blockMathParser struct{}

func (p *blockMathParser) Trigger() []byte { return []byte{'$'} }

func (p *blockMathParser) Open(parent gast.Node, reader text.Reader, pc parser.Context) (gast.Node, parser.State) {
	line, _ := reader.PeekLine()
	trimmed := bytes.TrimSpace(line)
	if !bytes.HasPrefix(trimmed, []byte("$$")) {
		return nil, parser.NoChildren
	}

	rest := bytes.TrimSpace(trimmed[2:])
	if len(rest) >= 2 && bytes.HasSuffix(rest, []byte("$$")) {
		// Single line: $$content$$
		value := bytes.TrimSpace(rest[:len(rest)-2])
		advanceLine(reader, line)
		return &BlockMath{Value: value, closed: true}, parser.NoChildren
	}

	node := &BlockMath{}
	if len(rest) > 0 {
		node.Value = append(node.Value, rest...)
		node.Value = append(node.Value, '\n')
	}
	advanceLine(reader, line)
	return node, parser.NoChildren
}

// advanceLine consumes the current line up to (not including) its newline;
// the block parser framework advances past the newline itself.
func advanceLine(reader text.Reader, line []byte) {
	adv := len(line)
	if adv > 0 && line[adv-1] == '\n' {
		adv--
	}
	reader.Advance(adv)
}

func (p *blockMathParser) Continue(node gast.Node, reader text.Reader, pc parser.Context) parser.State {
	n := node.(*BlockMath)
	if n.closed {
		return parser.Close
	}

	line, _ := reader.PeekLine()
	if bytes.Equal(bytes.TrimSpace(line), []byte("$$")) {
		advanceLine(reader, line)
		n.closed = true
		return parser.Close
	}

	n.Value = append(n.Value, line...)
	return parser.Continue | parser.NoChildren
}

func (p *blockMathParser) Close(node gast.Node, reader text.Reader, pc parser.Context) {
	n := node.(*BlockMath)
	n.Value = bytes.TrimSpace(n.Value)
}

func (p *blockMathParser) CanInterruptParagraph() bool { return true }

func (p *blockMathParser) CanAcceptIndentedLine() bool { return false }

// --- renderer ---

type mathHTMLRenderer struct {
	math MathRenderer
}

func (r *mathHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindInlineMath, r.renderInline)
	reg.Register(KindBlockMath, r.renderBlock)
}

func (r *mathHTMLRenderer) renderInline(w util.BufWriter, source []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	if !entering {
		return gast.WalkContinue, nil
	}
	n := node.(*InlineMath)

	escaped := escapeAttr(string(n.Value))
	rendered, err := r.render(escaped, false)
	if err != nil {
		_, _ = w.WriteString(`<span class="math-error" title="Math rendering error">` + escaped + `</span>`)
		return gast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<span class="math math-inline">` + rendered + `</span>`)
	return gast.WalkContinue, nil
}

func (r *mathHTMLRenderer) renderBlock(w util.BufWriter, source []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	if !entering {
		return gast.WalkContinue, nil
	}
	n := node.(*BlockMath)

	escaped := escapeAttr(string(n.Value))
	rendered, err := r.render(escaped, true)
	if err != nil {
		_, _ = w.WriteString(`<div class="math-error" title="Math rendering error"><pre>` + escaped + "</pre></div>\n")
		return gast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<div class="math math-display">` + rendered + "</div>\n")
	return gast.WalkContinue, nil
}

// render guards the MathRenderer: a panicking implementation degrades to
// the error fragment instead of taking the whole document down.
func (r *mathHTMLRenderer) render(escaped string, display bool) (rendered string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.New("math renderer panicked")
		}
	}()
	return r.math.Render(escaped, display)
}

// --- extension ---

type mathExtension struct {
	math MathRenderer
}

func newMathExtension(m MathRenderer) goldmark.Extender {
	return &mathExtension{math: m}
}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(util.Prioritized(&inlineMathParser{}, 502)),
		parser.WithBlockParsers(util.Prioritized(&blockMathParser{}, 650)),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(&mathHTMLRenderer{math: e.math}, 500)),
	)
}
