// Package frontmatter splits documents into a metadata block and a Markdown
// body, and parses the block with a deliberately small, eval-free parser.
//
// Frontmatter comes from user-authored files and is treated as untrusted
// data. The parser understands the simplified `key: value` dialect the
// content pipeline needs (scalars, quoted strings, flow lists, booleans,
// numbers) and nothing more.
package frontmatter

import (
	"bytes"
	"strconv"
	"strings"
)

// Split separates `---` delimited frontmatter from the Markdown body.
//
// If the document does not start with a frontmatter delimiter, or the block
// is never closed, had is false and body is the full input. Split never
// fails; a malformed block is simply body text.
func Split(content []byte) (meta []byte, body []byte, had bool) {
	nl := detectNewline(content)

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		// Empty block: `---\n---\n...`
		return []byte{}, rest[len(open):], true
	}

	closeSeq := []byte(nl + "---" + nl)
	if idx := bytes.Index(rest, closeSeq); idx >= 0 {
		return rest[:idx], rest[idx+len(closeSeq):], true
	}

	// Closing delimiter at end of input without trailing newline.
	closeEnd := []byte(nl + "---")
	if bytes.HasSuffix(rest, closeEnd) {
		return rest[:len(rest)-len(closeEnd)], []byte{}, true
	}

	return nil, content, false
}

// Parse splits the document and decodes the metadata block.
//
// Values are decoded per line: quotes stripped, `[a, b]` becomes []string,
// bare true/false become bool, fully numeric values become float64, and
// everything else stays a string. Lines without a colon, blank lines and
// `#` comments are skipped. Parse never fails.
func Parse(document string) (map[string]any, string) {
	meta, body, had := Split([]byte(document))
	if !had {
		return map[string]any{}, document
	}
	return parseBlock(string(meta)), string(body)
}

func parseBlock(block string) map[string]any {
	fields := map[string]any{}
	for _, line := range strings.Split(block, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		colon := strings.Index(trimmed, ":")
		if colon < 0 {
			continue
		}

		key := strings.TrimSpace(trimmed[:colon])
		if key == "" {
			continue
		}
		fields[key] = parseValue(strings.TrimSpace(trimmed[colon+1:]))
	}
	return fields
}

func parseValue(raw string) any {
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		return parseList(raw[1 : len(raw)-1])
	}

	value := unquote(raw)

	switch value {
	case "true":
		return true
	case "false":
		return false
	}

	if value != "" {
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			return n
		}
	}

	return value
}

func parseList(inner string) []string {
	items := []string{}
	if strings.TrimSpace(inner) == "" {
		return items
	}
	for _, part := range strings.Split(inner, ",") {
		item := unquote(strings.TrimSpace(part))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// unquote strips one matching pair of surrounding double or single quotes.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}

func detectNewline(content []byte) string {
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			return "\r\n"
		}
		if content[i] == '\n' {
			return "\n"
		}
	}
	return "\n"
}
