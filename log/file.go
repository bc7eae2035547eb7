package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
)

// FileConfig is the on-disk form of a [Config]. Unset fields leave the
// corresponding [Config] value alone.
type FileConfig struct {
	Color       *bool  `json:"color,omitempty"        jsonschema:"color log levels when writing to a terminal"    toml:"color"        yaml:"color,omitempty"`
	BackupCount *int   `json:"backup_count,omitempty" jsonschema:"number of rotated log files to keep, 0 keeps all" toml:"backup_count" yaml:"backup_count,omitempty"`
	Level       string `json:"level,omitempty"        jsonschema:"log level name, e.g. INFO or DEBUG"             toml:"level"        yaml:"level,omitempty"`
	File        string `json:"file,omitempty"         jsonschema:"log file path; empty logs to the console"       toml:"file"         yaml:"file,omitempty"`
	DateFormat  string `json:"datefmt,omitempty"      jsonschema:"timestamp layout in Go reference time"          toml:"datefmt"      yaml:"datefmt,omitempty"`
	Rotation    string `json:"rotation,omitempty"     jsonschema:"log file rotation interval"                      toml:"rotation"     yaml:"rotation,omitempty"`
}

// LoadConfigFile reads a [FileConfig] from path. Files ending in ".toml" are
// parsed as TOML; anything else is parsed as YAML.
func LoadConfigFile(path string) (*FileConfig, error) {
	b, err := os.ReadFile(path) //nolint:gosec // Config path is caller-provided.
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadConfig, err)
	}

	fc := &FileConfig{}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(b, fc)
	} else {
		err = yaml.Unmarshal(b, fc)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadConfig, path, err)
	}

	return fc, nil
}

// ApplyFile copies the values set in fc onto c, skipping any whose flag was
// explicitly set on flags. A nil flags applies every set value.
func (c *Config) ApplyFile(fc *FileConfig, flags *pflag.FlagSet) {
	changed := func(name string) bool {
		return flags != nil && flags.Changed(name)
	}

	setString := func(name, v string, dst *string) {
		if v != "" && !changed(name) {
			*dst = v
		}
	}

	setString(c.Flags.Level, fc.Level, &c.Level)
	setString(c.Flags.File, fc.File, &c.File)
	setString(c.Flags.DateFormat, fc.DateFormat, &c.DateFormat)
	setString(c.Flags.Rotation, fc.Rotation, &c.Rotation)

	if fc.Color != nil && !changed(c.Flags.Color) {
		c.Color = *fc.Color
	}

	if fc.BackupCount != nil && !changed(c.Flags.BackupCount) {
		c.BackupCount = *fc.BackupCount
	}
}

// ConfigSchema returns the JSON Schema describing [FileConfig] documents.
func ConfigSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[FileConfig](nil)
	if err != nil {
		return nil, fmt.Errorf("generate config schema: %w", err)
	}

	schema.Title = "devlog logging configuration"

	if prop, ok := schema.Properties["level"]; ok {
		prop.Enum = toAny(GetAllLevelStrings())
	}

	if prop, ok := schema.Properties["rotation"]; ok {
		prop.Enum = toAny(GetAllRotationStrings())
	}

	return schema, nil
}

func toAny(ss []string) []any {
	out := make([]any, 0, len(ss))
	for _, s := range ss {
		out = append(out, s)
	}

	return out
}
