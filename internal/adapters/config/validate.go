package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/zerr"
)

func invalid(field string, value any) error {
	err := zerr.With(domain.ErrConfig, "field", field)
	return zerr.With(err, "value", fmt.Sprint(value))
}

// validate checks the resolved configuration.
func validate(cfg *domain.Config) error {
	src := cfg.SourceRoot()
	if src == filepath.Clean(cfg.Root) {
		return invalid("source", cfg.Source)
	}

	seen := make(map[string]domain.Target)
	for _, target := range []domain.Target{domain.TargetDevelopment, domain.TargetProduction} {
		out := cfg.OutputRoot(target)
		field := "output." + target.String()
		if out == filepath.Clean(cfg.Root) || within(out, src) || within(src, out) {
			return invalid(field, cfg.Outputs[target])
		}
		if other, dup := seen[out]; dup {
			return zerr.With(invalid(field, cfg.Outputs[target]), "conflicts_with", "output."+other.String())
		}
		seen[out] = target
	}

	if cfg.Preview.Port < 0 || cfg.Preview.Port > 65535 {
		return invalid("preview.port", cfg.Preview.Port)
	}

	patterns := []struct {
		field string
		list  []string
	}{
		{"html.patterns", cfg.HTML.Patterns},
		{"styles.patterns", cfg.Styles.Patterns},
		{"styles.purge.content", cfg.Styles.Purge.Content},
		{"scripts.patterns", cfg.Scripts.Patterns},
		{"images.patterns", cfg.Images.Patterns},
		{"watch.ignore", cfg.Watch.Ignore},
	}
	for _, set := range patterns {
		for _, p := range set.list {
			if len(p) > 0 && p[0] == '!' {
				p = p[1:]
			}
			if !doublestar.ValidatePattern(p) {
				return invalid(set.field, p)
			}
		}
	}

	for i, p := range cfg.Styles.Plugins {
		field := fmt.Sprintf("styles.plugins[%d]", i)
		if p.Name == "" {
			return invalid(field+".name", p.Name)
		}
		switch p.Kind {
		case domain.PluginCommand:
			if len(p.Command) == 0 {
				return zerr.With(invalid(field+".command", ""), "plugin", p.Name)
			}
		case domain.PluginPrefix:
		default:
			err := zerr.With(domain.ErrUnknownPluginKind, "plugin", p.Name)
			return zerr.With(err, "kind", string(p.Kind))
		}
	}

	if q := cfg.Images.JPEGQuality; q < 1 || q > 100 {
		return invalid("images.jpegQuality", q)
	}
	if cfg.Images.Concurrency < 0 {
		return invalid("images.concurrency", cfg.Images.Concurrency)
	}
	if cfg.Watch.Debounce < 0 {
		return invalid("watch.debounce", cfg.Watch.Debounce)
	}
	return nil
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
