package css_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitepipe/internal/adapters/css"
)

func tokensFrom(t *testing.T, contents ...string) map[string]struct{} {
	t.Helper()
	p := css.NewPurger()
	tokens := make(map[string]struct{})
	for _, c := range contents {
		p.Extract([]byte(c), tokens)
	}
	return tokens
}

func TestPurger_Extract(t *testing.T) {
	tokens := tokensFrom(t,
		`<div class="card md:flex w-1/2" id="hero"><p>hi</p></div>`,
		"el.classList.add('is-open'); toggle(`hidden`)",
	)

	for _, want := range []string{"div", "card", "md:flex", "w-1/2", "hero", "p", "is-open", "hidden", "classList", "add"} {
		assert.Contains(t, tokens, want)
	}
	assert.NotContains(t, tokens, "md:")
}

func TestPurger_Purge(t *testing.T) {
	tokens := tokensFrom(t, `<body><div class="card md:flex" id="hero"><a href="#">x</a></div></body>`)

	tests := []struct {
		name     string
		css      string
		safelist []string
		kept     []string
		dropped  []string
	}{
		{
			name:    "classes ids and tags",
			css:     ".card{color:red}.unused{color:blue}#hero{margin:0}#nope{margin:1px}a{color:green}table{border:0}",
			kept:    []string{".card", "#hero", "a{"},
			dropped: []string{".unused", "#nope", "table"},
		},
		{
			name:    "selector list keeps used members",
			css:     ".card, .ghost { padding: 1px }",
			kept:    []string{".card{"},
			dropped: []string{".ghost"},
		},
		{
			name:    "compound selector needs every part",
			css:     "div.card{top:0}div.ghost{top:1px}.card .ghost{top:2px}",
			kept:    []string{"div.card"},
			dropped: []string{"ghost"},
		},
		{
			name: "pseudo classes attributes and universal are ignored",
			css:  "a:hover{color:red}.card::before{content:''}[data-x]{top:0}*{box-sizing:border-box}:root{--c:1}.card:not(.ghost){top:0}",
			kept: []string{"a:hover", ".card::before", "[data-x]", "*{", ":root", ".card:not(.ghost)"},
		},
		{
			name:    "escaped utility classes",
			css:     `.md\:flex{display:flex}.lg\:flex{display:flex}`,
			kept:    []string{`.md\:flex`},
			dropped: []string{`.lg\:flex`},
		},
		{
			name:    "media queries purge recursively and drop when empty",
			css:     "@media (min-width: 640px){.card{top:0}.ghost{top:1px}}@media print{.ghost{display:none}}",
			kept:    []string{"@media", "640px", ".card"},
			dropped: []string{"print", ".ghost"},
		},
		{
			name: "keyframes and font-face are kept",
			css:  "@keyframes spin{from{transform:rotate(0)}to{transform:rotate(360deg)}}@font-face{font-family:Inter;src:url(inter.woff2)}",
			kept: []string{"@keyframes spin", "from{", "to{", "@font-face", "font-family:Inter"},
		},
		{
			name:     "safelist names and patterns",
			css:      ".ghost{top:0}.js-toggle{top:1px}.js-menu{top:2px}.other{top:3px}",
			safelist: []string{"ghost", "/^js-/"},
			kept:     []string{".ghost", ".js-toggle", ".js-menu"},
			dropped:  []string{".other"},
		},
		{
			name: "non-grouping at-rules are kept",
			css:  "@import url(base.css);@charset \"utf-8\";",
			kept: []string{"@import", "@charset"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := css.NewPurger().Purge([]byte(tt.css), tokens, tt.safelist)
			require.NoError(t, err)
			for _, k := range tt.kept {
				assert.Contains(t, string(out), k)
			}
			for _, d := range tt.dropped {
				assert.NotContains(t, string(out), d)
			}
		})
	}
}

func TestPurger_Purge_BadSafelistPattern(t *testing.T) {
	_, err := css.NewPurger().Purge([]byte(".a{}"), nil, []string{"/([/"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestMinifier_MinifyCSS(t *testing.T) {
	m := css.NewMinifier()
	src := []byte(".card {\n  color: #ff0000;\n  margin: 0px 0px 0px 0px;\n}\n")

	out, err := m.MinifyCSS(src, "ie8")
	require.NoError(t, err)
	assert.Less(t, len(out), len(src))
	assert.Contains(t, string(out), ".card{")
	assert.NotContains(t, string(out), "\n")

	modern, err := m.MinifyCSS(src, "")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(modern), len(out))
}
