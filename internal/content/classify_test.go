package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAsset(t *testing.T) {
	tests := []struct {
		ref  string
		want AssetClass
	}{
		{"https://cdn.example.com/pic.png", ClassExternal},
		{"//cdn.example.com/pic.png", ClassExternal},
		{"<svg viewBox=\"0 0 16 16\"></svg>", ClassInlineSVG},
		{"  <svg></svg>", ClassInlineSVG},
		{"fa-github", ClassIconFont},
		{"./cover.png", ClassLocalImage},
		{"images/cover.png", ClassLocalImage},
		{"cover.png", ClassLocalImage},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyAsset(tt.ref), "ref %q", tt.ref)
	}
}
