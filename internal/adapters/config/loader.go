// Package config provides the configuration loader for sitepipe.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/sitepipe/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment overrides. Process variables win over the .env file, which wins
// over sitepipe.yaml.
const (
	PortEnv   = "SITEPIPE_PORT"
	SourceEnv = "SITEPIPE_SOURCE"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using sitepipe.yaml and an optional .env file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration from the given working directory.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	root, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	var site Sitefile
	path := filepath.Join(root, domain.ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // path is the project config file
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	default:
		if err := decode(data, &site); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
		}
	}

	env, err := l.environment(root)
	if err != nil {
		return nil, err
	}
	if v, ok := env[SourceEnv]; ok && v != "" {
		site.Source = v
	}
	if v, ok := env[PortEnv]; ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, invalid(PortEnv, v)
		}
		site.Preview.Port = &port
	}

	cfg, err := build(root, &site)
	if err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}

	if !knownCompatibility(cfg.Styles.Compatibility) {
		l.Logger.Warn(fmt.Sprintf("unknown compatibility floor %q, minifying for modern browsers", cfg.Styles.Compatibility))
	}
	return cfg, nil
}

// decode parses YAML, rejecting unknown keys. An empty file is valid.
func decode(data []byte, site *Sitefile) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(site); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// environment merges the .env file under the process environment.
func (l *Loader) environment(root string) (map[string]string, error) {
	env := make(map[string]string)

	path := filepath.Join(root, domain.EnvFileName)
	values, err := godotenv.Read(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	default:
		for k, v := range values {
			env[k] = v
		}
	}

	for _, key := range []string{PortEnv, SourceEnv} {
		if v := os.Getenv(key); v != "" {
			env[key] = v
		}
	}
	return env, nil
}

func knownCompatibility(floor string) bool {
	switch floor {
	case "", "ie7", "ie8", "ie9", "ie10", "ie11", "*":
		return true
	default:
		return false
	}
}
