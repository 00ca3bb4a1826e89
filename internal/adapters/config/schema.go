package config

// Sitefile represents the structure of the sitepipe.yaml configuration file.
// Every field is optional; unset fields take the conventional defaults.
type Sitefile struct {
	Source  string     `yaml:"source"`
	Output  OutputDTO  `yaml:"output"`
	Preview PreviewDTO `yaml:"preview"`
	HTML    HTMLDTO    `yaml:"html"`
	Styles  StylesDTO  `yaml:"styles"`
	Scripts ScriptsDTO `yaml:"scripts"`
	Images  ImagesDTO  `yaml:"images"`
	Watch   WatchDTO   `yaml:"watch"`
}

// OutputDTO names the output root of each target.
type OutputDTO struct {
	Development string `yaml:"development"`
	Production  string `yaml:"production"`
}

// PreviewDTO configures the preview server.
type PreviewDTO struct {
	Host string `yaml:"host"`
	Port *int   `yaml:"port"`
}

// HTMLDTO configures page copying.
type HTMLDTO struct {
	Patterns []string `yaml:"patterns"`
}

// StylesDTO configures the style build.
type StylesDTO struct {
	Patterns      []string    `yaml:"patterns"`
	IncludePaths  []string    `yaml:"includePaths"`
	Plugins       []PluginDTO `yaml:"plugins"`
	Browsers      []string    `yaml:"browsers"`
	Purge         PurgeDTO    `yaml:"purge"`
	Compatibility string      `yaml:"compatibility"`
}

// PluginDTO represents one entry of the style plugin chain.
type PluginDTO struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"`
	Command []string `yaml:"command"`
	Config  string   `yaml:"config"`
	When    string   `yaml:"when"`
}

// PurgeDTO configures unused-rule removal.
type PurgeDTO struct {
	Content  []string `yaml:"content"`
	Safelist []string `yaml:"safelist"`
}

// ScriptsDTO configures the script build.
type ScriptsDTO struct {
	Patterns []string `yaml:"patterns"`
}

// ImagesDTO configures the image build.
type ImagesDTO struct {
	Patterns    []string `yaml:"patterns"`
	Base        string   `yaml:"base"`
	JPEGQuality int      `yaml:"jpegQuality"`
	Concurrency int      `yaml:"concurrency"`
}

// WatchDTO configures the development watcher.
type WatchDTO struct {
	Debounce string   `yaml:"debounce"`
	Ignore   []string `yaml:"ignore"`
}
