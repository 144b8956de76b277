package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/samcharles93/mesh2ww/pkg/vtk"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	want := Defaults()
	want.Output.Path = "global.ww"
	want.Output.Trim = true
	want.Plot.Enabled = true
	want.Plot.Format = vtk.FormatLegacyBinary
	want.Plot.Compressor = vtk.CompressorZLib
	want.Plot.ByteOrder = vtk.LittleEndian
	want.Plot.Resolution = 3
	want.LogFormat = "json"
	want.Workers = 4

	tests := []struct {
		name    string
		content string
	}{
		{"config.yaml", `
output: global.ww
trim: true
vtk: true
format: legacy-binary
compressor: zlib
endian: little-endian
resolution: 3
log_format: json
workers: 4
`},
		{"config.toml", `
output = "global.ww"
trim = true
vtk = true
format = "legacy-binary"
compressor = "zlib"
endian = "little-endian"
resolution = 3
log_format = "json"
workers = 4
`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadFile(writeFile(t, tc.name, tc.content))
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}
			got, errs := cfg.Apply(Defaults())
			if len(errs) != 0 {
				t.Fatalf("Apply errors: %v", errs)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("GlobalConfig mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadFileMissingAndEmpty(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "nope.yaml")} {
		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile(%q): %v", path, err)
		}
		if diff := cmp.Diff(FileConfig{}, cfg); diff != "" {
			t.Errorf("expected empty config:\n%s", diff)
		}
	}
}

func TestLoadFileDecodeError(t *testing.T) {
	if _, err := LoadFile(writeFile(t, "bad.yaml", "output: [unclosed")); err == nil {
		t.Error("expected YAML error")
	}
	if _, err := LoadFile(writeFile(t, "bad.toml", "output = ")); err == nil {
		t.Error("expected TOML error")
	}
}

func TestApplyInvalidValues(t *testing.T) {
	cfg, err := LoadFile(writeFile(t, "config.yaml", `
format: vtkhdf
compressor: gzip
endian: middle
resolution: 0
log_format: xml
workers: -2
`))
	if err != nil {
		t.Fatal(err)
	}
	got, errs := cfg.Apply(Defaults())
	if len(errs) != 6 {
		t.Fatalf("got %d errors, want 6: %v", len(errs), errs)
	}
	for _, err := range errs {
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("%v is not ErrInvalidValue", err)
		}
	}
	if diff := cmp.Diff(Defaults(), got); diff != "" {
		t.Errorf("invalid values changed the config:\n%s", diff)
	}
}

func TestConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv(EnvConfigPath, "")

	if got := ConfigPath(); got != "" {
		t.Errorf("ConfigPath = %q, want empty", got)
	}

	dir := filepath.Join(home, "mesh2ww")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	toml := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(toml, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if got := ConfigPath(); got != toml {
		t.Errorf("ConfigPath = %q, want %q", got, toml)
	}

	t.Setenv(EnvConfigPath, "/etc/mesh2ww.yaml")
	if got := ConfigPath(); got != "/etc/mesh2ww.yaml" {
		t.Errorf("ConfigPath = %q, want env override", got)
	}
}
