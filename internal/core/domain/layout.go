package domain

import "path/filepath"

const (
	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "sitepipe.yaml"

	// EnvFileName is the optional dotenv file read before the configuration.
	EnvFileName = ".env"

	// DefaultSourceDir is the input root.
	DefaultSourceDir = "src"

	// DefaultDevOutputDir is the development output root served by the preview.
	DefaultDevOutputDir = "dist"

	// DefaultProdOutputDir is the production output root.
	DefaultProdOutputDir = "public"

	// CSSDir is the stylesheet directory below an output root.
	CSSDir = "assets/css"

	// JSDir is the script directory below an output root.
	JSDir = "assets/js"

	// ImagesDir is the image directory below both the source and output roots.
	ImagesDir = "assets/images"

	// StylesArtifact is the bundled stylesheet name.
	StylesArtifact = "main.css"

	// ScriptsArtifact is the bundled script name.
	ScriptsArtifact = "scripts.js"

	// UtilityConfigFile is the utility-CSS framework configuration file.
	UtilityConfigFile = "tailwind.config.js"

	// DefaultPreviewPort is the port the development preview listens on.
	DefaultPreviewPort = 9050

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// StylesOutput returns the bundled stylesheet path below outputRoot.
func StylesOutput(outputRoot string) string {
	return filepath.Join(outputRoot, CSSDir, StylesArtifact)
}

// ScriptsOutput returns the bundled script path below outputRoot.
func ScriptsOutput(outputRoot string) string {
	return filepath.Join(outputRoot, JSDir, ScriptsArtifact)
}

// ImagesOutput returns the image directory below outputRoot.
func ImagesOutput(outputRoot string) string {
	return filepath.Join(outputRoot, ImagesDir)
}
