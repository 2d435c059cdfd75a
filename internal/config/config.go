// Package config loads jsonfmt settings from a config file. The decoder is
// chosen by file extension.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/magiconair/properties"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/amterp/jsonfmt"
)

var (
	ErrConfigFile    = fmt.Errorf("config file error (%w)", jsonfmt.Err)
	ErrUnknownFormat = fmt.Errorf("unknown config format (%w)", ErrConfigFile)
	ErrInvalidValue  = fmt.Errorf("invalid config value (%w)", ErrConfigFile)
)

// Color modes accepted by the color setting.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// File holds the settings found in a config file. Nil fields were not set.
type File struct {
	Indent  *int    `json:"indent" yaml:"indent" toml:"indent"`
	Depth   *int    `json:"depth" yaml:"depth" toml:"depth"`
	Color   *string `json:"color" yaml:"color" toml:"color"`
	Verbose *int    `json:"verbose" yaml:"verbose" toml:"verbose"`
}

type decoder func([]byte, *File) error

var decoderByExtension = map[string]decoder{
	"json":       decodeJSON,
	"properties": decodeProperties,
	"toml":       decodeTOML,
	"yaml":       decodeYAML,
	"yml":        decodeYAML,
}

// Extensions returns all supported config file extensions, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(decoderByExtension))
	for ext := range decoderByExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Load reads and decodes the config file at path.
func Load(path string) (*File, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")

	if _, found := decoderByExtension[ext]; !found {
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	f, err := Parse(ext, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Parse decodes data written in the format named by ext.
func Parse(ext string, data []byte) (*File, error) {
	dec, found := decoderByExtension[ext]
	if !found {
		return nil, fmt.Errorf("%s: %w", ext, ErrUnknownFormat)
	}

	f := &File{}

	err := dec(data, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigFile, err)
	}

	err = f.validate()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func (f *File) validate() error {
	if f.Indent != nil && *f.Indent < 0 {
		return fmt.Errorf("indent %d: %w", *f.Indent, ErrInvalidValue)
	}

	if f.Depth != nil && *f.Depth < 1 {
		return fmt.Errorf("depth %d: %w", *f.Depth, ErrInvalidValue)
	}

	if f.Verbose != nil && *f.Verbose < 0 {
		return fmt.Errorf("verbose %d: %w", *f.Verbose, ErrInvalidValue)
	}

	if f.Color != nil {
		switch *f.Color {
		case ColorAuto, ColorAlways, ColorNever:
		default:
			return fmt.Errorf("color %q: %w", *f.Color, ErrInvalidValue)
		}
	}

	return nil
}

// Apply overlays the settings present in f onto cfg.
func (f *File) Apply(cfg *jsonfmt.Config) {
	if f.Indent != nil {
		cfg.IndentWidth = *f.Indent
	}

	if f.Depth != nil {
		cfg.MaxDepth = *f.Depth
	}
}

func decodeJSON(data []byte, f *File) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(f)
}

func decodeTOML(data []byte, f *File) error {
	return toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(f)
}

func decodeYAML(data []byte, f *File) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(f)
	if err == io.EOF {
		// Empty document
		return nil
	}

	return err
}

func decodeProperties(data []byte, f *File) error {
	p, err := properties.Load(data, properties.UTF8)
	if err != nil {
		return err
	}

	for _, key := range p.Keys() {
		value, _ := p.Get(key)

		switch key {
		case "indent":
			f.Indent, err = atoi(key, value)
		case "depth":
			f.Depth, err = atoi(key, value)
		case "verbose":
			f.Verbose, err = atoi(key, value)
		case "color":
			f.Color = &value
		default:
			return fmt.Errorf("unknown key %q", key)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func atoi(key, value string) (*int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &n, nil
}
