package steps_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitepipe/internal/adapters/esbuild"
	"go.trai.ch/sitepipe/internal/adapters/fs"
	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/sitepipe/internal/core/ports/mocks"
	"go.trai.ch/sitepipe/internal/engine/steps"
	"go.uber.org/mock/gomock"
)

type stepMocks struct {
	compiler       *mocks.MockStyleCompiler
	prefixer       *mocks.MockPrefixer
	purger         *mocks.MockPurger
	styleMinifier  *mocks.MockStyleMinifier
	scriptMinifier *mocks.MockScriptMinifier
	images         *mocks.MockImageOptimizer
	commands       *mocks.MockCommandRunner
	logger         *mocks.MockLogger
}

// setupProject writes files below a temporary root and returns a config with
// the conventional layout plus a runner backed by mocks and the real resolver.
func setupProject(t *testing.T, files map[string]string) (*domain.Config, *steps.Runner, stepMocks) {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	cfg := &domain.Config{
		Root:   root,
		Source: "src",
		Outputs: map[domain.Target]string{
			domain.TargetDevelopment: "dist",
			domain.TargetProduction:  "public",
		},
		Styles: domain.StylesConfig{
			Browsers:      []string{"last 99 versions"},
			Compatibility: "ie8",
			Purge:         domain.PurgeConfig{Content: []string{"src/**/*.html"}},
		},
		Images: domain.ImagesConfig{Base: "src/assets/images", JPEGQuality: 75, Concurrency: 2},
	}

	ctrl := gomock.NewController(t)
	m := stepMocks{
		compiler:       mocks.NewMockStyleCompiler(ctrl),
		prefixer:       mocks.NewMockPrefixer(ctrl),
		purger:         mocks.NewMockPurger(ctrl),
		styleMinifier:  mocks.NewMockStyleMinifier(ctrl),
		scriptMinifier: mocks.NewMockScriptMinifier(ctrl),
		images:         mocks.NewMockImageOptimizer(ctrl),
		commands:       mocks.NewMockCommandRunner(ctrl),
		logger:         mocks.NewMockLogger(ctrl),
	}

	runner := steps.NewRunner(cfg, steps.Deps{
		Resolver:       fs.NewResolver(),
		Compiler:       m.compiler,
		Prefixer:       m.prefixer,
		Purger:         m.purger,
		StyleMinifier:  m.styleMinifier,
		ScriptMinifier: m.scriptMinifier,
		Images:         m.images,
		Commands:       m.commands,
		Logger:         m.logger,
	})
	return cfg, runner, m
}

func readOutput(t *testing.T, cfg *domain.Config, rel string) string {
	t.Helper()
	data, err := os.ReadFile(cfg.Abs(rel))
	require.NoError(t, err)
	return string(data)
}

// passthrough makes the prefixer return its input unchanged.
func passthrough(m stepMocks) {
	m.prefixer.EXPECT().Prefix(gomock.Any(), gomock.Any()).DoAndReturn(
		func(css []byte, _ []string) ([]byte, error) { return css, nil },
	).AnyTimes()
}

func TestExecute_UnknownAction(t *testing.T) {
	_, runner, _ := setupProject(t, nil)
	task := domain.NewTask("deploy", domain.TargetDevelopment, nil, "dist")

	err := runner.Execute(context.Background(), &task, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrUnknownAction.Error())
}

func TestExecute_Cancelled(t *testing.T) {
	_, runner, _ := setupProject(t, nil)
	task := domain.NewTask(domain.ActionHTML, domain.TargetDevelopment, []string{"src/**/*.html"}, "dist")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, runner.Execute(ctx, &task, io.Discard), context.Canceled)
}

func TestClean(t *testing.T) {
	cfg, runner, _ := setupProject(t, map[string]string{
		"dist/index.html":       "old",
		"dist/assets/css/a.css": "old",
		"src/index.html":        "<p>keep</p>",
	})
	task := domain.NewTask(domain.ActionClean, domain.TargetDevelopment, nil, "dist")

	var logs bytes.Buffer
	require.NoError(t, runner.Execute(context.Background(), &task, &logs))

	assert.NoDirExists(t, cfg.Abs("dist"))
	assert.FileExists(t, cfg.Abs("src/index.html"))
	assert.Contains(t, logs.String(), "removed dist")

	// A missing output root is not an error.
	require.NoError(t, runner.Execute(context.Background(), &task, io.Discard))
}

func TestClean_RefusesProtectedPaths(t *testing.T) {
	for _, output := range []string{".", "src", "src/assets"} {
		t.Run(output, func(t *testing.T) {
			cfg, runner, _ := setupProject(t, map[string]string{"src/index.html": "x"})
			task := domain.NewTask(domain.ActionClean, domain.TargetDevelopment, nil, output)

			err := runner.Execute(context.Background(), &task, io.Discard)
			require.Error(t, err)
			assert.Contains(t, err.Error(), domain.ErrConfig.Error())
			assert.FileExists(t, cfg.Abs("src/index.html"))
		})
	}
}

func TestHTML_MirrorsSourceTree(t *testing.T) {
	cfg, runner, _ := setupProject(t, map[string]string{
		"src/index.html":      "<h1>Home</h1>",
		"src/blog/post.html":  "<h1>Post</h1>",
		"src/assets/app.scss": "body {}",
	})
	task := domain.NewTask(domain.ActionHTML, domain.TargetDevelopment, []string{"src/**/*.html"}, "dist")

	var logs bytes.Buffer
	require.NoError(t, runner.Execute(context.Background(), &task, &logs))

	assert.Equal(t, "<h1>Home</h1>", readOutput(t, cfg, "dist/index.html"))
	assert.Equal(t, "<h1>Post</h1>", readOutput(t, cfg, "dist/blog/post.html"))
	assert.NoFileExists(t, cfg.Abs("dist/assets/app.scss"))
	assert.Contains(t, logs.String(), "copied 2 page(s)")
}

func TestStyles_Development(t *testing.T) {
	cfg, runner, m := setupProject(t, map[string]string{
		"src/b.scss":        "b",
		"src/a.scss":        "a",
		"src/_partial.scss": "p",
	})
	task := domain.NewTask(domain.ActionStyles, domain.TargetDevelopment, []string{"src/**/*.scss"}, "dist/assets/css/main.css")

	gomock.InOrder(
		m.compiler.EXPECT().Compile(gomock.Any(), cfg.Abs("src/a.scss"), []string{cfg.SourceRoot()}).Return([]byte(".a{}"), nil),
		m.compiler.EXPECT().Compile(gomock.Any(), cfg.Abs("src/b.scss"), gomock.Any()).Return([]byte(".b{}\n"), nil),
	)
	m.prefixer.EXPECT().Prefix([]byte(".a{}\n.b{}\n"), cfg.Styles.Browsers).Return([]byte(".a{}\n.b{}\n/*prefixed*/"), nil)

	var logs bytes.Buffer
	require.NoError(t, runner.Execute(context.Background(), &task, &logs))

	assert.Equal(t, ".a{}\n.b{}\n/*prefixed*/", readOutput(t, cfg, "dist/assets/css/main.css"))
	assert.Contains(t, logs.String(), "wrote dist/assets/css/main.css")
}

func TestStyles_CompileErrorNamesFile(t *testing.T) {
	cfg, runner, m := setupProject(t, map[string]string{"src/main.scss": "body {"})
	task := domain.NewTask(domain.ActionStyles, domain.TargetDevelopment, []string{"src/**/*.scss"}, "dist/assets/css/main.css")

	m.compiler.EXPECT().Compile(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, &domain.SourceError{
		File: cfg.Abs("src/main.scss"), Line: 1, Text: "expected \"}\"",
	})

	err := runner.Execute(context.Background(), &task, io.Discard)
	require.Error(t, err)

	var se *domain.SourceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Line)
	assert.NoFileExists(t, cfg.Abs("dist/assets/css/main.css"))
}

func TestStyles_CommandPlugin(t *testing.T) {
	cfg, runner, m := setupProject(t, map[string]string{
		"src/main.scss":      "x",
		"tailwind.config.js": "module.exports = {}",
	})
	cfg.Styles.Plugins = []domain.PluginConfig{
		{
			Name:    "tailwind",
			Kind:    domain.PluginCommand,
			Command: []string{"tailwindcss", "-i", "{input}", "-o", "{output}", "-c", "{config}"},
			Config:  "tailwind.config.js",
			When:    "tailwind.config.js",
		},
		{Name: "missing", Kind: domain.PluginCommand, Command: []string{"never"}, When: "nope.js"},
		{Name: "autoprefixer", Kind: domain.PluginPrefix},
	}
	task := domain.NewTask(domain.ActionStyles, domain.TargetDevelopment, []string{"src/**/*.scss"}, "dist/assets/css/main.css")

	m.compiler.EXPECT().Compile(gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte("@tailwind base;"), nil)
	m.commands.EXPECT().Run(gomock.Any(), gomock.Any(), cfg.Root, gomock.Any()).DoAndReturn(
		func(_ context.Context, argv []string, _ string, logs io.Writer) error {
			require.Len(t, argv, 7)
			assert.Equal(t, "tailwindcss", argv[0])
			assert.Equal(t, cfg.Abs("tailwind.config.js"), argv[6])

			in, err := os.ReadFile(argv[2])
			require.NoError(t, err)
			assert.Equal(t, "@tailwind base;", string(in))

			_, _ = io.WriteString(logs, "Done in 12ms.\n")
			return os.WriteFile(argv[4], []byte(".utility{}"), 0o600)
		},
	)
	passthrough(m)

	var logs bytes.Buffer
	require.NoError(t, runner.Execute(context.Background(), &task, &logs))

	assert.Equal(t, ".utility{}\n", readOutput(t, cfg, "dist/assets/css/main.css"))
	assert.Contains(t, logs.String(), "Done in 12ms.")
}

func TestStyles_PluginFailure(t *testing.T) {
	cfg, runner, m := setupProject(t, map[string]string{"src/main.scss": "x"})
	cfg.Styles.Plugins = []domain.PluginConfig{{Name: "tailwind", Kind: domain.PluginCommand, Command: []string{"tailwindcss"}}}
	task := domain.NewTask(domain.ActionStyles, domain.TargetDevelopment, []string{"src/**/*.scss"}, "dist/assets/css/main.css")

	m.compiler.EXPECT().Compile(gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte("x"), nil)
	m.commands.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("exit status 1"))

	err := runner.Execute(context.Background(), &task, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrPluginFailed.Error())
}

func TestStyles_InvalidPlugins(t *testing.T) {
	tests := []struct {
		name   string
		plugin domain.PluginConfig
		want   string
	}{
		{
			name:   "unknown kind",
			plugin: domain.PluginConfig{Name: "postcss", Kind: "postcss"},
			want:   domain.ErrUnknownPluginKind.Error(),
		},
		{
			name:   "command without argv",
			plugin: domain.PluginConfig{Name: "tailwind", Kind: domain.PluginCommand},
			want:   domain.ErrConfig.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, runner, _ := setupProject(t, map[string]string{"src/main.scss": "x"})
			cfg.Styles.Plugins = []domain.PluginConfig{tt.plugin}
			task := domain.NewTask(domain.ActionStyles, domain.TargetDevelopment, []string{"src/**/*.scss"}, "dist/assets/css/main.css")

			err := runner.Execute(context.Background(), &task, io.Discard)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStyles_ProductionPurgesAndMinifies(t *testing.T) {
	cfg, runner, m := setupProject(t, map[string]string{
		"src/main.scss":  "x",
		"src/index.html": `<div class="card"></div>`,
	})
	cfg.Styles.Purge.Safelist = []string{"active"}
	task := domain.NewTask(domain.ActionStyles, domain.TargetProduction, []string{"src/**/*.scss"}, "public/assets/css/main.css")

	m.compiler.EXPECT().Compile(gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte(".card{}.unused{}"), nil)
	passthrough(m)
	m.purger.EXPECT().Extract([]byte(`<div class="card"></div>`), gomock.Any()).Do(
		func(_ []byte, tokens map[string]struct{}) { tokens["card"] = struct{}{} },
	)
	m.purger.EXPECT().Purge(gomock.Any(), map[string]struct{}{"card": {}}, []string{"active"}).Return([]byte(".card{}\n"), nil)
	m.styleMinifier.EXPECT().MinifyCSS([]byte(".card{}\n"), "ie8").Return([]byte(".card{}"), nil)

	require.NoError(t, runner.Execute(context.Background(), &task, io.Discard))
	assert.Equal(t, ".card{}", readOutput(t, cfg, "public/assets/css/main.css"))
}

func TestScripts_Development(t *testing.T) {
	cfg, runner, _ := setupProject(t, map[string]string{
		"src/assets/js/b.js":     "var b = 2;",
		"src/assets/js/a.js":     "var a = 1;",
		"src/assets/js/lib/c.js": "var c = 3;",
	})
	task := domain.NewTask(domain.ActionScripts, domain.TargetDevelopment, []string{"src/assets/js/**/*.js"}, "dist/assets/js/scripts.js")

	require.NoError(t, runner.Execute(context.Background(), &task, io.Discard))
	assert.Equal(t, "var a = 1;\nvar b = 2;\nvar c = 3;", readOutput(t, cfg, "dist/assets/js/scripts.js"))
}

func TestScripts_BundleAcrossTargets(t *testing.T) {
	cfg, _, _ := setupProject(t, map[string]string{
		"src/assets/js/a.js": "function greet(name) {\n  console.log(\"alpha-marker\", name);\n}\ngreet(\"a\");\n",
		"src/assets/js/b.js": "var counter = 0;\nconsole.log(\"beta-marker\", counter + 1);\n",
	})
	runner := steps.NewRunner(cfg, steps.Deps{
		Resolver:       fs.NewResolver(),
		ScriptMinifier: esbuild.NewTransformer(),
	})
	patterns := []string{"src/assets/js/**/*.js"}
	dev := domain.NewTask(domain.ActionScripts, domain.TargetDevelopment, patterns, "dist/assets/js/scripts.js")
	prod := domain.NewTask(domain.ActionScripts, domain.TargetProduction, patterns, "public/assets/js/scripts.js")

	require.NoError(t, runner.Execute(context.Background(), &dev, io.Discard))
	first := readOutput(t, cfg, "dist/assets/js/scripts.js")
	require.NoError(t, runner.Execute(context.Background(), &dev, io.Discard))
	assert.Equal(t, first, readOutput(t, cfg, "dist/assets/js/scripts.js"))

	alpha := strings.Index(first, "alpha-marker")
	beta := strings.Index(first, "beta-marker")
	require.GreaterOrEqual(t, alpha, 0)
	assert.Greater(t, beta, alpha)

	require.NoError(t, runner.Execute(context.Background(), &prod, io.Discard))
	minified := readOutput(t, cfg, "public/assets/js/scripts.js")
	require.NotEmpty(t, minified)
	assert.LessOrEqual(t, len(minified), len(first))

	alpha = strings.Index(minified, "alpha-marker")
	beta = strings.Index(minified, "beta-marker")
	require.GreaterOrEqual(t, alpha, 0)
	assert.Greater(t, beta, alpha)
}

func TestScripts_NoInputsWritesEmptyBundle(t *testing.T) {
	cfg, runner, _ := setupProject(t, nil)
	task := domain.NewTask(domain.ActionScripts, domain.TargetProduction, []string{"src/assets/js/**/*.js"}, "public/assets/js/scripts.js")

	require.NoError(t, runner.Execute(context.Background(), &task, io.Discard))
	assert.Empty(t, readOutput(t, cfg, "public/assets/js/scripts.js"))
}

func TestScripts_ProductionErrorPointsAtSourceFile(t *testing.T) {
	_, runner, m := setupProject(t, map[string]string{
		"src/assets/js/a.js": "var a = 1;\nvar b = 2;",
		"src/assets/js/b.js": "ok();\nbroken(;",
	})
	task := domain.NewTask(domain.ActionScripts, domain.TargetProduction, []string{"src/assets/js/**/*.js"}, "public/assets/js/scripts.js")

	m.scriptMinifier.EXPECT().MinifyJS(gomock.Any(), domain.ScriptsArtifact).Return(nil, &domain.SourceError{
		File: domain.ScriptsArtifact, Line: 4, Column: 8, Text: `Unexpected ";"`,
	})

	err := runner.Execute(context.Background(), &task, io.Discard)
	require.Error(t, err)

	var se *domain.SourceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "src/assets/js/b.js", se.File)
	assert.Equal(t, 2, se.Line)
	assert.Equal(t, 8, se.Column)
	require.ErrorIs(t, err, domain.ErrSourceSyntax)
}

func TestImages_DevelopmentCopies(t *testing.T) {
	cfg, runner, _ := setupProject(t, map[string]string{
		"src/assets/images/logo.png":    "png-bytes",
		"src/assets/images/icons/a.svg": "<svg/>",
	})
	task := domain.NewTask(domain.ActionImages, domain.TargetDevelopment, []string{"src/assets/images/**/*"}, "dist/assets/images")

	require.NoError(t, runner.Execute(context.Background(), &task, io.Discard))
	assert.Equal(t, "png-bytes", readOutput(t, cfg, "dist/assets/images/logo.png"))
	assert.Equal(t, "<svg/>", readOutput(t, cfg, "dist/assets/images/icons/a.svg"))
}

func TestImages_Production(t *testing.T) {
	cfg, runner, m := setupProject(t, map[string]string{
		"src/assets/images/big.jpg":    "0123456789",
		"src/assets/images/tiny.png":   "01",
		"src/assets/images/broken.gif": "garbage",
	})
	task := domain.NewTask(domain.ActionImages, domain.TargetProduction, []string{"src/assets/images/**/*"}, "public/assets/images")

	m.images.EXPECT().Optimize(cfg.Abs("src/assets/images/big.jpg"), gomock.Any(), 75).Return([]byte("01234"), nil)
	m.images.EXPECT().Optimize(cfg.Abs("src/assets/images/tiny.png"), gomock.Any(), 75).Return([]byte("0123"), nil)
	m.images.EXPECT().Optimize(cfg.Abs("src/assets/images/broken.gif"), gomock.Any(), 75).Return(nil, errors.New("gif: bad header"))
	m.logger.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.True(t, strings.Contains(msg, "src/assets/images/broken.gif"), msg)
	})

	var logs bytes.Buffer
	require.NoError(t, runner.Execute(context.Background(), &task, &logs))

	assert.Equal(t, "01234", readOutput(t, cfg, "public/assets/images/big.jpg"))
	assert.Equal(t, "01", readOutput(t, cfg, "public/assets/images/tiny.png"))
	assert.Equal(t, "garbage", readOutput(t, cfg, "public/assets/images/broken.gif"))
	assert.Contains(t, logs.String(), "processed 3 image(s), saved 5 B")
}
