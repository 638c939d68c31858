// Package config loads plot options from TOML, YAML or JSON files.
//
// The decoder is chosen by extension (.toml, .yaml, .yml, .json). Unknown
// keys are rejected in every format so a typo never silently falls back to a
// default.
//
//	# plot.toml
//	backend = "gonum"
//	formats = ["svg", "png"]
//	upper_tail = 0.999
//
//	[dist]
//	family = "gamma"
//	[dist.params]
//	alpha = 3.0
//	beta = 0.5
package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/densitywalk/pkg/errors"
	"github.com/matzehuels/densitywalk/pkg/pipeline"
)

// Format names a config file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidConfig, "unknown config extension %q (use .toml, .yaml, .yml or .json)", filepath.Ext(path))
	}
}

// Load reads and decodes the config file at path. The returned options are
// not yet validated; callers merge flags first and then run
// ValidateAndSetDefaults.
func Load(path string) (pipeline.Options, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return pipeline.Options{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	opts, err := Decode(data, format)
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return opts, nil
}

// Decode parses data in the given format.
func Decode(data []byte, format Format) (pipeline.Options, error) {
	var opts pipeline.Options
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&opts)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidConfig, err, "toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return opts, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&opts); err != nil && !stderrors.Is(err, io.EOF) {
			return opts, errors.Wrap(errors.ErrCodeInvalidConfig, err, "yaml")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&opts); err != nil && !stderrors.Is(err, io.EOF) {
			return opts, errors.Wrap(errors.ErrCodeInvalidConfig, err, "json")
		}
	default:
		return opts, errors.New(errors.ErrCodeInvalidConfig, "unknown config format %q", format)
	}
	return opts, nil
}
