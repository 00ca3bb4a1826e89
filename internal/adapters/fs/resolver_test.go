package fs_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitepipe/internal/adapters/fs"
	"go.trai.ch/sitepipe/internal/core/domain"
)

func TestResolver_ResolveInputs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/index.html":                "i",
		"src/about/index.html":          "a",
		"src/assets/css/main.scss":      "m",
		"src/assets/css/_partial.scss":  "p",
		"src/assets/js/vendor/lib.js":   "l",
		"src/assets/js/app.js":          "a",
		"src/assets/images/logo.png":    "png",
		"src/assets/images/icons/x.svg": "svg",
	})

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "recursive html",
			patterns: []string{"src/**/*.html"},
			want:     []string{"src/about/index.html", "src/index.html"},
		},
		{
			name:     "exclusion",
			patterns: []string{"src/assets/css/*.scss", "!**/_*.scss"},
			want:     []string{"src/assets/css/main.scss"},
		},
		{
			name:     "overlapping patterns dedupe",
			patterns: []string{"src/assets/js/**/*.js", "src/assets/js/app.js"},
			want:     []string{"src/assets/js/app.js", "src/assets/js/vendor/lib.js"},
		},
		{
			name:     "brace alternatives",
			patterns: []string{"src/assets/images/**/*.{png,svg}"},
			want:     []string{"src/assets/images/icons/x.svg", "src/assets/images/logo.png"},
		},
		{
			name:     "no matches",
			patterns: []string{"src/**/*.md"},
			want:     []string{},
		},
	}

	resolver := fs.NewResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.ResolveInputs(tt.patterns, root)
			require.NoError(t, err)
			for _, p := range got {
				assert.True(t, filepath.IsAbs(p), "expected absolute path, got %s", p)
			}
			assert.Equal(t, tt.want, relPaths(t, root, got))
		})
	}
}

func TestResolver_ResolveInputs_BadPattern(t *testing.T) {
	_, err := fs.NewResolver().ResolveInputs([]string{"src/[.html"}, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrInputResolutionFailed.Error())
}

func TestResolver_ResolveInputs_MissingRoot(t *testing.T) {
	got, err := fs.NewResolver().ResolveInputs([]string{"**/*.js"}, filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, got)
}
