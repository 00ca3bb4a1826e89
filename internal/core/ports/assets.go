package ports

import "context"

//go:generate mockgen -source=assets.go -destination=mocks/mock_assets.go -package=mocks

// StyleCompiler compiles a stylesheet source file to CSS.
type StyleCompiler interface {
	// Compile reads path and returns plain CSS. Syntax errors are reported as
	// *domain.SourceError.
	Compile(ctx context.Context, path string, includePaths []string) ([]byte, error)
}

// Prefixer adds vendor prefixes for a browser support matrix.
type Prefixer interface {
	Prefix(css []byte, browsers []string) ([]byte, error)
}

// Purger removes CSS rules whose selectors reference tokens absent from content.
type Purger interface {
	// Extract collects selector candidate tokens from a content file.
	Extract(content []byte, tokens map[string]struct{})
	// Purge drops unused rules. Selectors matching a safelist entry always survive.
	Purge(css []byte, tokens map[string]struct{}, safelist []string) ([]byte, error)
}

// StyleMinifier minifies CSS down to a compatibility floor.
type StyleMinifier interface {
	MinifyCSS(css []byte, compatibility string) ([]byte, error)
}

// ScriptMinifier minifies JavaScript. Syntax errors are reported as
// *domain.SourceError positioned within src.
type ScriptMinifier interface {
	MinifyJS(src []byte, sourcefile string) ([]byte, error)
}

// ImageOptimizer recompresses a single image. Codec failures wrap domain.ErrCodec.
type ImageOptimizer interface {
	Optimize(name string, data []byte, quality int) ([]byte, error)
}
