// Package esbuild adapts the esbuild transform API for vendor prefixing and
// script minification.
package esbuild

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/sitepipe/internal/core/ports"
)

var (
	_ ports.Prefixer       = (*Transformer)(nil)
	_ ports.ScriptMinifier = (*Transformer)(nil)
)

// Transformer implements ports.Prefixer and ports.ScriptMinifier.
type Transformer struct{}

// NewTransformer creates a new Transformer.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// Prefix lowers and vendor-prefixes css for the browser matrix.
func (t *Transformer) Prefix(css []byte, browsers []string) ([]byte, error) {
	if len(css) == 0 {
		return css, nil
	}

	result := api.Transform(string(css), api.TransformOptions{
		Loader:     api.LoaderCSS,
		Engines:    Engines(browsers),
		Sourcefile: domain.StylesArtifact,
		LogLevel:   api.LogLevelSilent,
	})
	if err := firstError(result.Errors, domain.StylesArtifact); err != nil {
		return nil, err
	}
	return result.Code, nil
}

// MinifyJS minifies whitespace, identifiers and syntax of src.
func (t *Transformer) MinifyJS(src []byte, sourcefile string) ([]byte, error) {
	result := api.Transform(string(src), api.TransformOptions{
		Loader:            api.LoaderJS,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Sourcefile:        sourcefile,
		LogLevel:          api.LogLevelSilent,
	})
	if err := firstError(result.Errors, sourcefile); err != nil {
		return nil, err
	}
	return result.Code, nil
}

// firstError reports the first esbuild message as a positioned source error.
// esbuild lines are 1-based and columns 0-based.
func firstError(msgs []api.Message, file string) error {
	if len(msgs) == 0 {
		return nil
	}

	msg := msgs[0]
	se := &domain.SourceError{File: file, Text: msg.Text}
	if loc := msg.Location; loc != nil {
		if loc.File != "" {
			se.File = loc.File
		}
		se.Line = loc.Line
		se.Column = loc.Column + 1
	}
	if len(msgs) > 1 {
		se.Text = fmt.Sprintf("%s (and %d more)", se.Text, len(msgs)-1)
	}
	return se
}

// wideMatrix approximates "last 99 versions": the oldest engines esbuild knows.
var wideMatrix = []api.Engine{
	{Name: api.EngineChrome, Version: "4"},
	{Name: api.EngineEdge, Version: "12"},
	{Name: api.EngineFirefox, Version: "2"},
	{Name: api.EngineIE, Version: "9"},
	{Name: api.EngineIOS, Version: "3.2"},
	{Name: api.EngineOpera, Version: "10"},
	{Name: api.EngineSafari, Version: "3.1"},
}

var engineNames = map[string]api.EngineName{
	"chrome":  api.EngineChrome,
	"edge":    api.EngineEdge,
	"firefox": api.EngineFirefox,
	"ff":      api.EngineFirefox,
	"ie":      api.EngineIE,
	"ios":     api.EngineIOS,
	"ios_saf": api.EngineIOS,
	"opera":   api.EngineOpera,
	"safari":  api.EngineSafari,
}

// Engines converts browserslist-style entries ("chrome 58", "ie 11") into
// esbuild engines. Queries esbuild cannot express, such as "last 99 versions"
// or "defaults", select the widest matrix. An empty list does the same.
func Engines(browsers []string) []api.Engine {
	var engines []api.Engine
	seen := make(map[api.EngineName]bool)

	for _, entry := range browsers {
		name, version, ok := strings.Cut(strings.ToLower(strings.TrimSpace(entry)), " ")
		engine, known := engineNames[name]
		version = strings.TrimPrefix(strings.TrimSpace(version), ">=")
		version = strings.TrimSpace(version)
		if !ok || !known || version == "" || !isVersion(version) {
			return wideMatrix
		}
		if seen[engine] {
			continue
		}
		seen[engine] = true
		engines = append(engines, api.Engine{Name: engine, Version: version})
	}

	if len(engines) == 0 {
		return wideMatrix
	}
	return engines
}

func isVersion(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}
