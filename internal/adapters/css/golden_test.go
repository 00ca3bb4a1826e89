package css_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitepipe/internal/adapters/css"
)

func TestPurgeThenMinify_Golden(t *testing.T) {
	tokens := tokensFrom(t, `<body><div class="card" id="hero"><a href="/">home</a></div></body>`)
	src := []byte(".card{color:red}\n.unused{color:blue}\n#hero{margin:0}\n#nope{margin:1px}\ntable{border:0}\na{color:green}\n")

	purged, err := css.NewPurger().Purge(src, tokens, nil)
	require.NoError(t, err)

	minified, err := css.NewMinifier().MinifyCSS(purged, "")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "purged", purged)
	g.Assert(t, "minified", minified)
}
