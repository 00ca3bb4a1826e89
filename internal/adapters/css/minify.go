package css

import (
	"strings"

	"github.com/tdewolff/minify/v2"
	cssmin "github.com/tdewolff/minify/v2/css"
	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/sitepipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.StyleMinifier = (*Minifier)(nil)

const mediaType = "text/css"

// Minifier implements ports.StyleMinifier with tdewolff/minify.
type Minifier struct {
	modern *minify.M
	legacy *minify.M
}

// NewMinifier creates a Minifier.
func NewMinifier() *Minifier {
	modern := minify.New()
	modern.Add(mediaType, &cssmin.Minifier{})
	legacy := minify.New()
	legacy.Add(mediaType, &cssmin.Minifier{KeepCSS2: true})
	return &Minifier{modern: modern, legacy: legacy}
}

// MinifyCSS minifies css. Compatibility floors of ie9 and older keep CSS2
// syntax; anything else allows modern shorthands.
func (m *Minifier) MinifyCSS(css []byte, compatibility string) ([]byte, error) {
	mm := m.modern
	if legacyFloor(compatibility) {
		mm = m.legacy
	}

	out, err := mm.Bytes(mediaType, css)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrSourceSyntax.Error())
	}
	return out, nil
}

func legacyFloor(compatibility string) bool {
	switch strings.ToLower(strings.TrimSpace(compatibility)) {
	case "ie7", "ie8", "ie9":
		return true
	default:
		return false
	}
}
