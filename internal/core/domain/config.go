package domain

import (
	"path/filepath"
	"time"
)

// PluginKind selects how a style plugin transforms CSS.
type PluginKind string

const (
	// PluginCommand pipes CSS through an external program such as the utility framework CLI.
	PluginCommand PluginKind = "command"
	// PluginPrefix adds vendor prefixes for the configured browser matrix.
	PluginPrefix PluginKind = "prefix"
)

// Config is the resolved project configuration.
// All relative paths are relative to Root; glob patterns use forward slashes.
type Config struct {
	Root    string
	Source  string
	Outputs map[Target]string
	Preview PreviewConfig
	HTML    HTMLConfig
	Styles  StylesConfig
	Scripts ScriptsConfig
	Images  ImagesConfig
	Watch   WatchConfig
}

// PreviewConfig configures the development preview server.
type PreviewConfig struct {
	Host string
	Port int
}

// HTMLConfig configures the HTML copy task.
type HTMLConfig struct {
	Patterns []string
}

// StylesConfig configures the style build task.
type StylesConfig struct {
	Patterns      []string
	IncludePaths  []string
	Plugins       []PluginConfig
	Browsers      []string
	Purge         PurgeConfig
	Compatibility string
}

// PluginConfig describes one entry of the ordered style plugin chain.
type PluginConfig struct {
	Name    string
	Kind    PluginKind
	Command []string
	Config  string
	When    string
}

// PurgeConfig configures unused-rule removal for production styles.
type PurgeConfig struct {
	Content  []string
	Safelist []string
}

// ScriptsConfig configures the script build task.
type ScriptsConfig struct {
	Patterns []string
}

// ImagesConfig configures the image build task.
type ImagesConfig struct {
	Patterns    []string
	Base        string
	JPEGQuality int
	Concurrency int
}

// WatchConfig configures the development watcher.
type WatchConfig struct {
	Debounce time.Duration
	Ignore   []string
}

// OutputRoot returns the absolute output root for target.
func (c *Config) OutputRoot(target Target) string {
	dir, ok := c.Outputs[target]
	if !ok {
		switch target {
		case TargetProduction:
			dir = DefaultProdOutputDir
		default:
			dir = DefaultDevOutputDir
		}
	}
	return c.Abs(dir)
}

// Abs resolves a root-relative path.
func (c *Config) Abs(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(c.Root, filepath.FromSlash(rel))
}

// SourceRoot returns the absolute source directory.
func (c *Config) SourceRoot() string {
	return c.Abs(c.Source)
}

// Rel converts an absolute path into a slash-separated root-relative path.
// Paths outside the root are returned cleaned but unchanged.
func (c *Config) Rel(abs string) string {
	rel, err := filepath.Rel(c.Root, abs)
	if err != nil {
		return filepath.ToSlash(filepath.Clean(abs))
	}
	return filepath.ToSlash(rel)
}
