package steps

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/zerr"
)

// Placeholders substituted in command plugin arguments.
const (
	InputPlaceholder  = "{input}"
	OutputPlaceholder = "{output}"
	ConfigPlaceholder = "{config}"
)

// styles compiles every non-partial stylesheet, runs the plugin chain on each,
// bundles the results and prefixes the bundle. Production purges unused rules
// and minifies.
func (r *Runner) styles(ctx context.Context, task *domain.Task, logs io.Writer) error {
	files, err := r.resolve(task)
	if err != nil {
		return err
	}

	plugins, err := r.activePlugins()
	if err != nil {
		return err
	}

	includes := []string{r.cfg.SourceRoot()}
	for _, p := range r.cfg.Styles.IncludePaths {
		includes = append(includes, r.cfg.Abs(p))
	}

	var bundle bytes.Buffer
	for _, file := range files {
		if strings.HasPrefix(filepath.Base(file), "_") {
			continue
		}

		css, err := r.deps.Compiler.Compile(ctx, file, includes)
		if err != nil {
			return zerr.With(err, "file", r.cfg.Rel(file))
		}

		for _, p := range plugins {
			if css, err = r.runPlugin(ctx, p, css, logs); err != nil {
				return zerr.With(err, "file", r.cfg.Rel(file))
			}
		}

		bundle.Write(css)
		if len(css) > 0 && css[len(css)-1] != '\n' {
			bundle.WriteByte('\n')
		}
	}

	out, err := r.deps.Prefixer.Prefix(bundle.Bytes(), r.cfg.Styles.Browsers)
	if err != nil {
		return err
	}

	if task.Target.Optimize() {
		if out, err = r.optimizeStyles(out); err != nil {
			return err
		}
	}

	dest := r.cfg.Abs(task.Output.String())
	if err := writeFile(dest, out); err != nil {
		return err
	}
	logWrite(logs, r.cfg, dest, len(out))
	return nil
}

// activePlugins validates the plugin chain and drops command plugins whose
// "when" file does not exist.
func (r *Runner) activePlugins() ([]domain.PluginConfig, error) {
	active := make([]domain.PluginConfig, 0, len(r.cfg.Styles.Plugins))
	for _, p := range r.cfg.Styles.Plugins {
		switch p.Kind {
		case domain.PluginCommand:
			if len(p.Command) == 0 {
				err := zerr.With(domain.ErrConfig, "plugin", p.Name)
				return nil, zerr.With(err, "field", "command")
			}
			if p.When != "" {
				if _, err := os.Stat(r.cfg.Abs(p.When)); err != nil {
					continue
				}
			}
		case domain.PluginPrefix:
		default:
			err := zerr.With(domain.ErrUnknownPluginKind, "plugin", p.Name)
			return nil, zerr.With(err, "kind", string(p.Kind))
		}
		active = append(active, p)
	}
	return active, nil
}

func (r *Runner) runPlugin(ctx context.Context, p domain.PluginConfig, css []byte, logs io.Writer) ([]byte, error) {
	if p.Kind == domain.PluginPrefix {
		return r.deps.Prefixer.Prefix(css, r.cfg.Styles.Browsers)
	}

	dir, err := os.MkdirTemp("", "sitepipe-plugin-")
	if err != nil {
		return nil, ioError(err, os.TempDir())
	}
	defer os.RemoveAll(dir) //nolint:errcheck // best effort temp cleanup

	input := filepath.Join(dir, "input.css")
	output := filepath.Join(dir, "output.css")
	if err := writeFile(input, css); err != nil {
		return nil, err
	}

	config := ""
	if p.Config != "" {
		config = r.cfg.Abs(p.Config)
	}
	replacer := strings.NewReplacer(InputPlaceholder, input, OutputPlaceholder, output, ConfigPlaceholder, config)
	argv := make([]string, len(p.Command))
	for i, arg := range p.Command {
		argv[i] = replacer.Replace(arg)
	}

	if err := r.deps.Commands.Run(ctx, argv, r.cfg.Root, logs); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrPluginFailed.Error()), "plugin", p.Name)
	}

	out, err := os.ReadFile(output) //nolint:gosec // temp file created above
	if err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrPluginFailed.Error()), "plugin", p.Name)
		return nil, zerr.With(err, "reason", "no output written")
	}
	return out, nil
}

// optimizeStyles purges rules unused by the configured content files, then minifies.
func (r *Runner) optimizeStyles(css []byte) ([]byte, error) {
	content, err := r.deps.Resolver.ResolveInputs(r.cfg.Styles.Purge.Content, r.cfg.Root)
	if err != nil {
		return nil, zerr.With(err, "field", "purge.content")
	}

	tokens := make(map[string]struct{})
	for _, file := range content {
		data, err := readFile(file)
		if err != nil {
			return nil, err
		}
		r.deps.Purger.Extract(data, tokens)
	}

	purged, err := r.deps.Purger.Purge(css, tokens, r.cfg.Styles.Purge.Safelist)
	if err != nil {
		return nil, err
	}
	return r.deps.StyleMinifier.MinifyCSS(purged, r.cfg.Styles.Compatibility)
}
