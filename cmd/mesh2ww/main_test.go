package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcharles93/mesh2ww/internal/pipeline"
)

const rectTallies = `
 Mesh Tally Number         4
 neutron   mesh tally.

 Tally bin boundaries:
    X direction:     0.00     1.00     2.00
    Y direction:     0.00     1.00
    Z direction:     0.00     1.00
    Energy bin boundaries:  0.00E+00  1.00E+00  2.00E+01

   Energy         X         Y         Z     Result     Rel Error
   1.000E+00     0.500     0.500     0.500 1.00000E-01 1.00000E-01
   1.000E+00     1.500     0.500     0.500 2.00000E-01 2.00000E-01
   2.000E+01     0.500     0.500     0.500 3.00000E-01 3.00000E-01
   2.000E+01     1.500     0.500     0.500 4.00000E-01 4.00000E-01
   Total         0.500     0.500     0.500 4.00000E-01 1.00000E-01
   Total         1.500     0.500     0.500 6.00000E-01 2.00000E-01

 Mesh Tally Number        34
 electron  mesh tally.

 Tally bin boundaries:
    X direction:     0.00     1.00     2.00
    Y direction:     0.00     1.00
    Z direction:     0.00     1.00
    Energy bin boundaries:  0.00E+00  1.00E+02

   Energy         X         Y         Z     Result     Rel Error
   1.000E+02     0.500     0.500     0.500 5.00000E-01 1.00000E-01
   1.000E+02     1.500     0.500     0.500 1.00000E+00 1.00000E-01

 Mesh Tally Number        14
 photon    mesh tally.

 Tally bin boundaries:
 Cylinder origin at   0.00E+00  0.00E+00  0.00E+00, axis in  0.00E+00  0.00E+00  1.00E+00 direction
    R direction:      0.00E+00  1.00E+00
    Z direction:      0.00E+00  1.00E+01
    Theta direction (revolutions):  0.000  1.000
    Energy bin boundaries:  0.00E+00  1.00E+36

   Energy         R         Z         Th    Result     Rel Error
   1.000E+36     0.500     5.000     0.500 1.00000E-02 5.00000E-02
`

// setup writes the meshtal fixture into a fresh working directory and points
// the config file at a path that does not exist.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("MESH2WW_CONFIG", filepath.Join(dir, "no-config.yaml"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meshtal"), []byte(rectTallies), 0o644))
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append([]string{"mesh2ww"}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func headerFields(t *testing.T, path string) ([]string, []string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	require.Greater(t, len(lines), 2)
	return strings.Fields(lines[0])[:4], strings.Fields(lines[1])
}

func TestRunMultiParticlePadded(t *testing.T) {
	dir := setup(t)
	_, _, err := execute(t, "meshtal", "4", "+", "meshtal", "34", "-p", "0.5")
	require.NoError(t, err)

	first, second := headerFields(t, filepath.Join(dir, "wwinp"))
	assert.Equal(t, []string{"1", "1", "3", "10"}, first)
	assert.Equal(t, []string{"2", "0", "1"}, second)
}

func TestRunTrim(t *testing.T) {
	dir := setup(t)
	_, _, err := execute(t, "meshtal", "34", "-o", "ww_trim", "+", "meshtal", "4", "--trim")
	require.NoError(t, err)

	first, second := headerFields(t, filepath.Join(dir, "ww_trim"))
	assert.Equal(t, []string{"1", "1", "2", "10"}, first)
	assert.Equal(t, []string{"2", "1"}, second)
}

func TestRunSkipsBadSets(t *testing.T) {
	dir := setup(t)
	_, stderr, err := execute(t,
		"missing.msht", "4",
		"+", "meshtal", "4", "--bogus",
		"+", "meshtal", "34",
		"+", "meshtal", "4", "--format", "nonsense")
	require.NoError(t, err)

	assert.Contains(t, stderr, "skipping argument set")
	assert.Contains(t, stderr, "ignoring global option")
	first, _ := headerFields(t, filepath.Join(dir, "wwinp"))
	assert.Equal(t, "3", first[2])
}

func TestRunConflictFallsBack(t *testing.T) {
	setup(t)
	_, stderr, err := execute(t, "meshtal", "4", "-p", "0.5", "0.6", "--total")
	require.NoError(t, err)
	assert.Contains(t, stderr, "cannot be used with totals")
}

func TestRunGroupMismatch(t *testing.T) {
	setup(t)
	_, stderr, err := execute(t, "meshtal", "4", "-p", "0.5", "0.6", "0.7")
	assert.ErrorIs(t, err, pipeline.ErrNoValidTallies)
	assert.Contains(t, stderr, "skipping tally")
}

func TestRunNoValidTallies(t *testing.T) {
	dir := setup(t)

	_, _, err := execute(t, "missing.msht", "4")
	assert.ErrorIs(t, err, pipeline.ErrNoValidTallies)

	_, _, err = execute(t, "meshtal", "99")
	assert.ErrorIs(t, err, pipeline.ErrNoValidTallies)

	_, _, err = execute(t)
	assert.ErrorIs(t, err, pipeline.ErrNoValidTallies)

	assert.NoFileExists(t, filepath.Join(dir, "wwinp"))
}

func TestRunOutputWriteErrors(t *testing.T) {
	dir := setup(t)

	_, _, err := execute(t, "meshtal", "4", "-o", filepath.Join(dir, "missing", "wwinp"))
	assert.ErrorIs(t, err, pipeline.ErrOutputWrite)

	// A cylindrical and a rectangular mesh cannot share a file.
	_, _, err = execute(t, "meshtal", "4", "+", "meshtal", "14")
	assert.ErrorIs(t, err, pipeline.ErrOutputWrite)
}

func TestRunVTKAndReport(t *testing.T) {
	dir := setup(t)
	_, _, err := execute(t, "meshtal", "4", "--vtk", "--compressor", "zlib",
		"+", "meshtal", "34", "--report", "report.json", "-q")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "ww_neutron.vtr"))
	assert.FileExists(t, filepath.Join(dir, "ww_electron.vtr"))

	data, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)
	var rep struct {
		Sets      int      `json:"argument_sets"`
		Particles []string `json:"particles"`
		Bytes     int64    `json:"output_bytes"`
		Tallies   []struct {
			Status string `json:"status"`
			Plot   string `json:"plot"`
		} `json:"tallies"`
	}
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.Equal(t, 2, rep.Sets)
	assert.Equal(t, []string{"neutron", "electron"}, rep.Particles)
	assert.Positive(t, rep.Bytes)
	require.Len(t, rep.Tallies, 2)
	assert.Equal(t, "collected", rep.Tallies[0].Status)
	assert.Equal(t, "ww_neutron.vtr", rep.Tallies[0].Plot)
}

func TestRunConfigFile(t *testing.T) {
	dir := setup(t)
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("output = \"from_config\"\nworkers = 2\n"), 0o644))
	t.Setenv("MESH2WW_CONFIG", cfg)

	_, _, err := execute(t, "meshtal", "4", "+", "meshtal", "34")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "from_config"))

	_, _, err = execute(t, "meshtal", "4", "-o", "from_flag")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "from_flag"))
}

func TestHelpAndVersion(t *testing.T) {
	setup(t)

	stdout, _, err := execute(t, "meshtal", "4", "-h")
	require.NoError(t, err)
	assert.Contains(t, stdout, "mesh2ww <meshtal> <number> [options] [+]")
	assert.Contains(t, stdout, "See --help for detail and examples")
	assert.NotContains(t, stdout, "Typical examples")

	stdout, _, err = execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Typical examples")
	assert.Contains(t, stdout, "--power")

	stdout, _, err = execute(t, "--version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "mesh2ww "))

	assert.NoFileExists(t, "wwinp")
}

func TestShowProgress(t *testing.T) {
	tests := []struct {
		verbosity int
		quiet     bool
		want      bool
	}{
		{0, false, true},
		{1, false, true},
		{2, false, false},
		{0, true, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, showProgress(tc.verbosity, tc.quiet), "verbosity=%d quiet=%v", tc.verbosity, tc.quiet)
	}
}
