package content

import "strings"

// AssetClass is the closed set of shapes a cover or icon reference can take.
type AssetClass int

const (
	// ClassExternal is a full URL served from elsewhere.
	ClassExternal AssetClass = iota
	// ClassLocalImage is a path to an image under the site root.
	ClassLocalImage
	// ClassInlineSVG is literal SVG markup embedded in the value.
	ClassInlineSVG
	// ClassIconFont is a bare icon-font class name, no path separators.
	ClassIconFont
)

// ClassifyAsset decides how an asset reference should be treated. Only
// ClassLocalImage values go through the path resolver; the other shapes are
// not filesystem paths and must be passed on verbatim.
func ClassifyAsset(ref string) AssetClass {
	trimmed := strings.TrimSpace(ref)
	switch {
	case strings.HasPrefix(trimmed, "<svg"):
		return ClassInlineSVG
	case strings.HasPrefix(trimmed, "http://"),
		strings.HasPrefix(trimmed, "https://"),
		strings.HasPrefix(trimmed, "//"):
		return ClassExternal
	case !strings.ContainsAny(trimmed, "/."):
		return ClassIconFont
	default:
		return ClassLocalImage
	}
}
