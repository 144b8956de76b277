package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/mesh2ww/pkg/vtk"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "MESH2WW_CONFIG"

// FileConfig is the user config file. All fields are pointers so we can
// distinguish "not set" from zero values. Only global options live here; the
// per-tally de-tuning defaults are fixed.
type FileConfig struct {
	Output     *string `yaml:"output" toml:"output"`
	Trim       *bool   `yaml:"trim" toml:"trim"`
	Report     *string `yaml:"report" toml:"report"`
	VTK        *bool   `yaml:"vtk" toml:"vtk"`
	Format     *string `yaml:"format" toml:"format"`
	Compressor *string `yaml:"compressor" toml:"compressor"`
	Endian     *string `yaml:"endian" toml:"endian"`
	Resolution *int    `yaml:"resolution" toml:"resolution"`
	LogFormat  *string `yaml:"log_format" toml:"log_format"`
	Workers    *int    `yaml:"workers" toml:"workers"`
}

// ConfigHome returns $XDG_CONFIG_HOME or its ~/.config fallback.
func ConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// ConfigPath returns the config file to load: $MESH2WW_CONFIG if set, else the
// first of config.yaml, config.yml and config.toml that exists under
// ConfigHome()/mesh2ww. It returns "" when there is nothing to load.
func ConfigPath() string {
	if v := os.Getenv(EnvConfigPath); v != "" {
		return v
	}
	dir := filepath.Join(ConfigHome(), "mesh2ww")
	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadFile reads a YAML or TOML config file, chosen by extension. A missing
// file is not an error.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Apply overlays the file values on base. Invalid values are reported and
// leave the base value in place.
func (f FileConfig) Apply(base GlobalConfig) (GlobalConfig, []error) {
	var errs []error
	out := base

	if f.Output != nil && *f.Output != "" {
		out.Output.Path = *f.Output
	}
	if f.Trim != nil {
		out.Output.Trim = *f.Trim
	}
	if f.Report != nil {
		out.Report = *f.Report
	}
	if f.VTK != nil {
		out.Plot.Enabled = *f.VTK
	}
	if f.Format != nil {
		if v, err := vtk.ParseFormat(*f.Format); err != nil {
			errs = append(errs, invalid(FlagFormat, *f.Format))
		} else {
			out.Plot.Format = v
		}
	}
	if f.Compressor != nil {
		if v, err := vtk.ParseCompressor(*f.Compressor); err != nil {
			errs = append(errs, invalid(FlagCompressor, *f.Compressor))
		} else {
			out.Plot.Compressor = v
		}
	}
	if f.Endian != nil {
		if v, err := vtk.ParseByteOrder(*f.Endian); err != nil {
			errs = append(errs, invalid(FlagEndian, *f.Endian))
		} else {
			out.Plot.ByteOrder = v
		}
	}
	if f.Resolution != nil {
		if *f.Resolution < 1 || *f.Resolution > 255 {
			errs = append(errs, invalid(FlagResolution, strconv.Itoa(*f.Resolution)))
		} else {
			out.Plot.Resolution = uint8(*f.Resolution)
		}
	}
	if f.LogFormat != nil {
		if v, err := ParseLogFormat(*f.LogFormat); err != nil {
			errs = append(errs, invalid(FlagLogFormat, *f.LogFormat))
		} else {
			out.LogFormat = v
		}
	}
	if f.Workers != nil {
		if *f.Workers < 1 {
			errs = append(errs, invalid(FlagWorkers, strconv.Itoa(*f.Workers)))
		} else {
			out.Workers = *f.Workers
		}
	}
	return out, errs
}
