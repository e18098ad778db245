package frontmatter

import (
	"fmt"
	"strconv"
)

// Recognized metadata keys.
const (
	KeyTitle       = "title"
	KeyCreateTime  = "createTime"
	KeyDescription = "description"
	KeyCategory    = "category"
	KeyCoverImage  = "coverImage"
	KeyTags        = "tags"
)

// Meta is the typed view of a document's frontmatter.
//
// Unknown scalar keys are preserved in Extra so template substitution can
// still reach them; downstream code never shape-sniffs the raw map.
type Meta struct {
	Title       string
	CreateTime  string
	Description string
	Category    string
	CoverImage  string
	Tags        []string
	Extra       map[string]string
}

// MetaFromMap normalizes a parsed frontmatter map into a Meta record.
//
// tags declared as a single scalar become a one-element list; non-string
// scalars are stringified.
func MetaFromMap(fields map[string]any) Meta {
	m := Meta{
		Tags:  []string{},
		Extra: map[string]string{},
	}

	for key, value := range fields {
		switch key {
		case KeyTitle:
			m.Title = stringify(value)
		case KeyCreateTime:
			m.CreateTime = stringify(value)
		case KeyDescription:
			m.Description = stringify(value)
		case KeyCategory:
			m.Category = stringify(value)
		case KeyCoverImage:
			m.CoverImage = stringify(value)
		case KeyTags:
			m.Tags = normalizeTags(value)
		default:
			m.Extra[key] = stringify(value)
		}
	}
	return m
}

// ParseMeta is the common Parse + MetaFromMap path.
func ParseMeta(document string) (Meta, string) {
	fields, body := Parse(document)
	return MetaFromMap(fields), body
}

func normalizeTags(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case nil:
		return []string{}
	default:
		s := stringify(v)
		if s == "" {
			return []string{}
		}
		return []string{s}
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
