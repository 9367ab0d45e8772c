package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load reads one config file. The format follows the extension; unknown keys
// are rejected.
func Load(path string) (File, error) {
	var f File
	path = strings.TrimSpace(path)
	if path == "" {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	if err := Decode(data, filepath.Ext(path), &f); err != nil {
		return f, fmt.Errorf("parse %s: %w", path, err)
	}
	return f, nil
}

// Decode parses data in the format named by ext (".yaml", ".yml", ".toml"
// or ".json").
func Decode(data []byte, ext string, dst *File) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(dst); err != nil {
			return err
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	default:
		return fmt.Errorf("unsupported config extension: %q", ext)
	}
	return nil
}

// Options controls Resolve.
type Options struct {
	// StartDir is where the upward search begins.
	StartDir string
	// Explicit is a --config path; when empty BRACKETS_CONFIG is used.
	Explicit string
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
	// Flags is applied last.
	Flags File
}

// Resolve layers defaults, the discovered file, the environment and flags,
// then validates the result.
func Resolve(opts Options) (Settings, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	explicit := opts.Explicit
	if strings.TrimSpace(explicit) == "" {
		explicit = getenv("BRACKETS_CONFIG")
	}

	path, origin, err := Find(opts.StartDir, explicit, getenv("XDG_CONFIG_HOME"), getenv("HOME"))
	if err != nil {
		return Settings{}, err
	}
	fileLayer, err := Load(path)
	if err != nil {
		return Settings{}, err
	}
	envLayer, err := FromEnv(getenv)
	if err != nil {
		return Settings{}, err
	}

	out := Merge(Defaults(), fileLayer, envLayer, opts.Flags)
	out.Source = path
	out.Origin = origin
	if err := Validate(&out); err != nil {
		if path != "" {
			return out, fmt.Errorf("%s: %w", path, err)
		}
		return out, err
	}
	return out, nil
}
