package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderInlineMath(t *testing.T) {
	result := newTestEngine().Render("Euler: $e^{i\\pi} + 1 = 0$ holds\n", false)

	assert.Contains(t, result.HTML, `<span class="math math-inline">\(e^{i\pi} + 1 = 0\)</span>`)
}

func TestRenderInlineMathWithoutClosingDollar(t *testing.T) {
	result := newTestEngine().Render("Costs $5 and change\n", false)

	assert.NotContains(t, result.HTML, "math-inline")
	assert.Contains(t, result.HTML, "Costs $5 and change")
}

func TestRenderBlockMathSingleLine(t *testing.T) {
	result := newTestEngine().Render("$$x^2 + y^2 = z^2$$\n", false)

	assert.Contains(t, result.HTML, `<div class="math math-display">\[x^2 + y^2 = z^2\]</div>`)
}

func TestRenderBlockMathMultiLine(t *testing.T) {
	doc := "$$\n\\sum_{i=1}^{n} i\n= \\frac{n(n+1)}{2}\n$$\n\nafter\n"

	result := newTestEngine().Render(doc, false)

	assert.Contains(t, result.HTML, `math math-display`)
	assert.Contains(t, result.HTML, `\sum_{i=1}^{n} i`)
	assert.Contains(t, result.HTML, "after")
}

func TestRenderMathEscapesXMLCharacters(t *testing.T) {
	result := newTestEngine().Render("$a < b$\n", false)

	assert.Contains(t, result.HTML, `\(a &lt; b\)`)
	assert.NotContains(t, result.HTML, "<b$")
}

func TestRenderMathErrorDegrades(t *testing.T) {
	result := newTestEngine().Render("$$ \\invalidmacro{ $$\n\n# Still Here\n", false)

	assert.Contains(t, result.HTML, `math-error`)
	assert.Contains(t, result.HTML, `\invalidmacro{`)
	// The rest of the document still renders.
	require.Len(t, result.Toc, 1)
	assert.Equal(t, "still-here", result.Toc[0].ID)
}

func TestRenderMathForbiddenCommand(t *testing.T) {
	result := newTestEngine().Render(`$\url{http://evil.example}$`+"\n", false)

	assert.Contains(t, result.HTML, "math-error")
	assert.NotContains(t, result.HTML, "math-inline")
}

func TestRestrictedMathRendererBounds(t *testing.T) {
	r := NewRestrictedMathRenderer()

	_, err := r.Render(string(make([]byte, 2000)), false)
	assert.Error(t, err)

	out, err := r.Render("x", true)
	require.NoError(t, err)
	assert.Equal(t, `\[x\]`, out)
}

func TestBracesBalanced(t *testing.T) {
	tests := []struct {
		tex      string
		balanced bool
	}{
		{"x^{2}", true},
		{`\frac{a}{b}`, true},
		{`\invalidmacro{`, false},
		{"}{", false},
		{`\{`, true},
		{`a \} b`, true},
		{"", true},
	}
	for _, tt := range tests {
		if got := bracesBalanced(tt.tex); got != tt.balanced {
			t.Errorf("bracesBalanced(%q) = %v, want %v", tt.tex, got, tt.balanced)
		}
	}
}
