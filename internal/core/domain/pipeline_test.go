package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitepipe/internal/core/domain"
)

func TestPipeline_Graph(t *testing.T) {
	p := domain.NewPipeline("build", domain.TargetProduction).
		Then(domain.NewTask(domain.ActionClean, domain.TargetProduction, nil, "public")).
		Then(
			domain.NewTask(domain.ActionStyles, domain.TargetProduction, []string{"src/**/*.scss"}, "public/assets/css/main.css"),
			domain.NewTask(domain.ActionScripts, domain.TargetProduction, []string{"src/**/*.js"}, "public/assets/js/scripts.js"),
		)

	g, err := p.Graph()
	require.NoError(t, err)

	assert.Equal(t, "build", g.Name())
	assert.Equal(t, "clean", g.Entry().String())
	assert.Equal(t, []string{"clean", "styles", "scripts"}, p.TaskNames())

	styles, ok := g.GetTask(domain.NewInternedString("styles"))
	require.True(t, ok)
	assert.Equal(t, []string{"clean"}, domain.Strings(styles.Dependencies))
	assert.Equal(t, domain.KindTransform, styles.Kind)

	clean, ok := g.GetTask(domain.NewInternedString("clean"))
	require.True(t, ok)
	assert.Equal(t, domain.KindSideEffect, clean.Kind)
	assert.Empty(t, clean.Dependencies)
}

func TestPipeline_GraphStagesChain(t *testing.T) {
	p := domain.NewPipeline("html", domain.TargetDevelopment).
		Then(domain.NewTask(domain.ActionHTML, domain.TargetDevelopment, nil, "dist")).
		Then(domain.NewTask(domain.ActionStyles, domain.TargetDevelopment, nil, "dist"))

	g, err := p.Graph()
	require.NoError(t, err)

	styles, _ := g.GetTask(domain.NewInternedString("styles"))
	assert.Equal(t, []string{"html"}, domain.Strings(styles.Dependencies))

	var order []string
	for tk := range g.Walk() {
		order = append(order, tk.Name.String())
	}
	assert.Equal(t, []string{"html", "styles"}, order)
}

func TestPipeline_GraphErrors(t *testing.T) {
	dev := domain.TargetDevelopment
	tests := []struct {
		name        string
		pipeline    *domain.Pipeline
		errContains string
	}{
		{
			name:        "no stages",
			pipeline:    domain.NewPipeline("empty", dev),
			errContains: "pipeline has no tasks",
		},
		{
			name: "wide first stage",
			pipeline: domain.NewPipeline("wide", dev).Then(
				domain.NewTask(domain.ActionHTML, dev, nil, ""),
				domain.NewTask(domain.ActionStyles, dev, nil, ""),
			),
			errContains: "exactly one entry",
		},
		{
			name: "empty later stage",
			pipeline: domain.NewPipeline("gap", dev).
				Then(domain.NewTask(domain.ActionClean, dev, nil, "")).
				Then(),
			errContains: "stage has no tasks",
		},
		{
			name: "duplicate task",
			pipeline: domain.NewPipeline("dup", dev).
				Then(domain.NewTask(domain.ActionStyles, dev, nil, "")).
				Then(domain.NewTask(domain.ActionStyles, dev, nil, "")),
			errContains: "task already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.pipeline.Graph()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestBinding_Matches(t *testing.T) {
	b := domain.NewBinding("styles", []string{"src/**/*.scss", "tailwind.config.js"}, nil)

	assert.True(t, b.Matches("src/scss/main.scss"))
	assert.True(t, b.Matches("src/main.scss"))
	assert.True(t, b.Matches("tailwind.config.js"))
	assert.False(t, b.Matches("src/js/app.js"))
	assert.False(t, b.Matches("other/tailwind.config.js"))
}

func TestParseTargetAndAction(t *testing.T) {
	target, err := domain.ParseTarget("production")
	require.NoError(t, err)
	assert.True(t, target.Optimize())
	assert.False(t, domain.TargetDevelopment.Optimize())

	_, err = domain.ParseTarget("staging")
	require.ErrorContains(t, err, "unknown build target")

	action, err := domain.ParseAction("images")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionImages, action)

	_, err = domain.ParseAction("fonts")
	require.ErrorContains(t, err, "unknown task action")
}

func TestConfig_Paths(t *testing.T) {
	cfg := &domain.Config{
		Root:    "/site",
		Source:  "src",
		Outputs: map[domain.Target]string{domain.TargetProduction: "build"},
	}

	assert.Equal(t, "/site/dist", cfg.OutputRoot(domain.TargetDevelopment))
	assert.Equal(t, "/site/build", cfg.OutputRoot(domain.TargetProduction))
	assert.Equal(t, "/site/src", cfg.SourceRoot())
	assert.Equal(t, "/abs/x", cfg.Abs("/abs/x"))
	assert.Equal(t, "src/scss/main.scss", cfg.Rel("/site/src/scss/main.scss"))
	assert.Equal(t, "/site/build/assets/css/main.css", domain.StylesOutput(cfg.OutputRoot(domain.TargetProduction)))
}

func TestSourceError(t *testing.T) {
	err := &domain.SourceError{File: "src/assets/js/a.js", Line: 3, Column: 7, Text: "Expected \";\""}
	assert.Equal(t, `src/assets/js/a.js:3:7: Expected ";"`, err.Error())
	assert.ErrorIs(t, err, domain.ErrSourceSyntax)

	assert.Equal(t, "main.scss: bad", (&domain.SourceError{File: "main.scss", Text: "bad"}).Error())
}
