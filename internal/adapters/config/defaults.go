package config

import (
	"path"
	"time"

	"go.trai.ch/sitepipe/internal/core/domain"
)

// Conventional defaults.
const (
	DefaultHost          = "localhost"
	DefaultCompatibility = "ie8"
	DefaultJPEGQuality   = 75
	DefaultDebounce      = 100 * time.Millisecond
)

// DefaultBrowsers is the vendor prefix matrix.
var DefaultBrowsers = []string{"last 99 versions"}

// DefaultPlugins runs the utility framework CLI when its config file exists,
// then vendor prefixing.
func DefaultPlugins() []domain.PluginConfig {
	return []domain.PluginConfig{
		{
			Name:    "tailwind",
			Kind:    domain.PluginCommand,
			Command: []string{"tailwindcss", "-i", "{input}", "-o", "{output}", "-c", "{config}"},
			Config:  domain.UtilityConfigFile,
			When:    domain.UtilityConfigFile,
		},
		{Name: "autoprefixer", Kind: domain.PluginPrefix},
	}
}

// Defaults returns the configuration used when no sitepipe.yaml exists.
func Defaults(root string) *domain.Config {
	cfg, _ := build(root, &Sitefile{})
	return cfg
}

// build applies defaults to s and converts it to a domain.Config.
func build(root string, s *Sitefile) (*domain.Config, error) {
	source := or(s.Source, domain.DefaultSourceDir)

	cfg := &domain.Config{
		Root:   root,
		Source: source,
		Outputs: map[domain.Target]string{
			domain.TargetDevelopment: or(s.Output.Development, domain.DefaultDevOutputDir),
			domain.TargetProduction:  or(s.Output.Production, domain.DefaultProdOutputDir),
		},
		Preview: domain.PreviewConfig{
			Host: or(s.Preview.Host, DefaultHost),
			Port: domain.DefaultPreviewPort,
		},
		HTML: domain.HTMLConfig{
			Patterns: orSlice(s.HTML.Patterns, []string{"**/*.html"}),
		},
		Styles: domain.StylesConfig{
			Patterns:      orSlice(s.Styles.Patterns, []string{"**/*.scss"}),
			IncludePaths:  s.Styles.IncludePaths,
			Browsers:      orSlice(s.Styles.Browsers, DefaultBrowsers),
			Compatibility: or(s.Styles.Compatibility, DefaultCompatibility),
			Purge: domain.PurgeConfig{
				Content:  orSlice(s.Styles.Purge.Content, []string{path.Join(source, "**/*.html"), path.Join(source, "**/*.js")}),
				Safelist: s.Styles.Purge.Safelist,
			},
		},
		Scripts: domain.ScriptsConfig{
			Patterns: orSlice(s.Scripts.Patterns, []string{domain.JSDir + "/**/*.js"}),
		},
		Images: domain.ImagesConfig{
			Patterns:    orSlice(s.Images.Patterns, []string{domain.ImagesDir + "/**/*"}),
			Base:        or(s.Images.Base, path.Join(source, domain.ImagesDir)),
			JPEGQuality: DefaultJPEGQuality,
			Concurrency: s.Images.Concurrency,
		},
		Watch: domain.WatchConfig{
			Debounce: DefaultDebounce,
			Ignore:   s.Watch.Ignore,
		},
	}

	if s.Preview.Port != nil {
		cfg.Preview.Port = *s.Preview.Port
	}
	if s.Images.JPEGQuality != 0 {
		cfg.Images.JPEGQuality = s.Images.JPEGQuality
	}

	if s.Styles.Plugins == nil {
		cfg.Styles.Plugins = DefaultPlugins()
	} else {
		cfg.Styles.Plugins = make([]domain.PluginConfig, 0, len(s.Styles.Plugins))
		for _, p := range s.Styles.Plugins {
			cfg.Styles.Plugins = append(cfg.Styles.Plugins, domain.PluginConfig{
				Name:    p.Name,
				Kind:    domain.PluginKind(p.Kind),
				Command: p.Command,
				Config:  p.Config,
				When:    p.When,
			})
		}
	}

	if s.Watch.Debounce != "" {
		d, err := time.ParseDuration(s.Watch.Debounce)
		if err != nil {
			return nil, invalid("watch.debounce", s.Watch.Debounce)
		}
		cfg.Watch.Debounce = d
	}

	return cfg, nil
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// orSlice keeps an explicitly empty list so tasks can be disabled.
func orSlice(v, def []string) []string {
	if v == nil {
		return append([]string(nil), def...)
	}
	return v
}
