// Package pipeline declares the development and production task graphs and
// the watch bindings of a development session.
package pipeline

import (
	"path"
	"strings"

	"go.trai.ch/sitepipe/internal/core/domain"
)

// Build returns the full pipeline for target: clean, then every asset task
// concurrently.
func Build(cfg *domain.Config, target domain.Target) *domain.Pipeline {
	return domain.NewPipeline(target.String(), target).
		Then(cleanTask(cfg, target)).
		Then(
			stylesTask(cfg, target),
			scriptsTask(cfg, target),
			imagesTask(cfg, target),
			htmlTask(cfg, target),
		)
}

// Development is Build for the development target.
func Development(cfg *domain.Config) *domain.Pipeline {
	return Build(cfg, domain.TargetDevelopment)
}

// Production is Build for the production target.
func Production(cfg *domain.Config) *domain.Pipeline {
	return Build(cfg, domain.TargetProduction)
}

// Clean returns a pipeline that only removes the output root of target.
func Clean(cfg *domain.Config, target domain.Target) *domain.Pipeline {
	return domain.NewPipeline("clean-"+target.String(), target).Then(cleanTask(cfg, target))
}

// DevBindings returns the watch bindings of a development session. Page
// changes rebuild styles too because purge content and utility classes are
// read from the markup.
func DevBindings(cfg *domain.Config) []domain.Binding {
	dev := domain.TargetDevelopment

	styleWatch := stylePluginFiles(cfg)
	styleWatch = append(styleWatch, sourceGlobs(cfg, cfg.Styles.Patterns)...)

	return []domain.Binding{
		domain.NewBinding("html", sourceGlobs(cfg, cfg.HTML.Patterns),
			domain.NewPipeline("html", dev).Then(htmlTask(cfg, dev)).Then(stylesTask(cfg, dev))),
		domain.NewBinding("styles", styleWatch,
			domain.NewPipeline("styles", dev).Then(stylesTask(cfg, dev))),
		domain.NewBinding("scripts", sourceGlobs(cfg, cfg.Scripts.Patterns),
			domain.NewPipeline("scripts", dev).Then(scriptsTask(cfg, dev))),
		domain.NewBinding("images", sourceGlobs(cfg, cfg.Images.Patterns),
			domain.NewPipeline("images", dev).Then(imagesTask(cfg, dev))),
	}
}

func outputDir(cfg *domain.Config, target domain.Target) string {
	return cfg.Rel(cfg.OutputRoot(target))
}

func cleanTask(cfg *domain.Config, target domain.Target) domain.Task {
	return domain.NewTask(domain.ActionClean, target, nil, outputDir(cfg, target))
}

func htmlTask(cfg *domain.Config, target domain.Target) domain.Task {
	return domain.NewTask(domain.ActionHTML, target, sourceGlobs(cfg, cfg.HTML.Patterns), outputDir(cfg, target))
}

func stylesTask(cfg *domain.Config, target domain.Target) domain.Task {
	out := path.Join(outputDir(cfg, target), domain.CSSDir, domain.StylesArtifact)
	return domain.NewTask(domain.ActionStyles, target, sourceGlobs(cfg, cfg.Styles.Patterns), out)
}

func scriptsTask(cfg *domain.Config, target domain.Target) domain.Task {
	out := path.Join(outputDir(cfg, target), domain.JSDir, domain.ScriptsArtifact)
	return domain.NewTask(domain.ActionScripts, target, sourceGlobs(cfg, cfg.Scripts.Patterns), out)
}

func imagesTask(cfg *domain.Config, target domain.Target) domain.Task {
	out := path.Join(outputDir(cfg, target), domain.ImagesDir)
	return domain.NewTask(domain.ActionImages, target, sourceGlobs(cfg, cfg.Images.Patterns), out)
}

// sourceGlobs turns source-relative patterns into root-relative ones,
// keeping the exclusion prefix in front.
func sourceGlobs(cfg *domain.Config, patterns []string) []string {
	src := cfg.Rel(cfg.SourceRoot())
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		prefix := ""
		if strings.HasPrefix(p, "!") {
			prefix, p = "!", p[1:]
		}
		out = append(out, prefix+path.Join(src, p))
	}
	return out
}

// stylePluginFiles lists the root-relative files command plugins depend on.
func stylePluginFiles(cfg *domain.Config) []string {
	var files []string
	seen := make(map[string]bool)
	for _, p := range cfg.Styles.Plugins {
		if p.Kind != domain.PluginCommand {
			continue
		}
		for _, f := range []string{p.Config, p.When} {
			if f == "" {
				continue
			}
			f = cfg.Rel(cfg.Abs(f))
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files
}
