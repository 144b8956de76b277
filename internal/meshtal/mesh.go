// Package meshtal reads MCNP mesh tally results from column-format meshtal
// files.
package meshtal

import (
	"errors"

	"github.com/samcharles93/mesh2ww/pkg/particle"
	"github.com/samcharles93/mesh2ww/pkg/wwinp"
)

var (
	ErrTallyNotFound     = errors.New("mesh tally not found")
	ErrUnsupportedFormat = errors.New("unsupported meshtal format")
	ErrMalformed         = errors.New("malformed meshtal")
)

// Voxel is one mesh cell result.
type Voxel struct {
	Result float64
	Error  float64
}

// Mesh is a single mesh tally.
//
// I, J and K are the x, y and z boundaries of a rectangular mesh, or r, z and
// theta (in revolutions) of a cylindrical one. Energies and Times hold the bin
// boundaries as printed; Times is empty for tallies without time bins.
//
// Voxels is indexed [e][t][k][j][i] with i fastest. When a tally has more than
// one energy (or time) bin the "Total" rows form an extra trailing group.
type Mesh struct {
	ID       uint32
	Particle particle.Particle
	Geometry wwinp.Geometry

	Origin [3]float64
	Axis   [3]float64
	Vec    [3]float64

	I []float64
	J []float64
	K []float64

	Energies []float64
	Times    []float64

	Voxels []Voxel
}

// Dims returns the number of voxels along each axis.
func (m *Mesh) Dims() (ni, nj, nk int) {
	return max(len(m.I)-1, 0), max(len(m.J)-1, 0), max(len(m.K)-1, 0)
}

// Size returns the number of spatial voxels.
func (m *Mesh) Size() int {
	ni, nj, nk := m.Dims()
	return ni * nj * nk
}

// EnergyBins returns the number of energy bins, not counting the total.
func (m *Mesh) EnergyBins() int { return max(len(m.Energies)-1, 1) }

// TimeBins returns the number of time bins, not counting the total. An
// untimed tally has one.
func (m *Mesh) TimeBins() int { return max(len(m.Times)-1, 1) }

// EnergyGroups returns the number of energy groups including the total.
func (m *Mesh) EnergyGroups() int { return withTotal(m.EnergyBins()) }

// TimeGroups returns the number of time groups including the total.
func (m *Mesh) TimeGroups() int { return withTotal(m.TimeBins()) }

func withTotal(n int) int {
	if n > 1 {
		return n + 1
	}
	return n
}

// Index returns the position of voxel (i, j, k) in group (e, t).
func (m *Mesh) Index(e, t, i, j, k int) int {
	ni, nj, nk := m.Dims()
	return (((e*m.TimeGroups()+t)*nk+k)*nj+j)*ni + i
}

// Group returns the voxels of energy group e and time group t.
func (m *Mesh) Group(e, t int) []Voxel {
	n := m.Size()
	start := (e*m.TimeGroups() + t) * n
	return m.Voxels[start : start+n]
}

// Total returns the voxels summed over all energy and time bins. For a tally
// with a single bin that is the bin itself.
func (m *Mesh) Total() []Voxel {
	return m.Group(m.EnergyGroups()-1, m.TimeGroups()-1)
}

// EnergyBounds returns the upper bound of every energy bin.
func (m *Mesh) EnergyBounds() []float64 { return upper(m.Energies) }

// TimeBounds returns the upper bound of every time bin, nil when untimed.
func (m *Mesh) TimeBounds() []float64 { return upper(m.Times) }

func upper(bounds []float64) []float64 {
	if len(bounds) < 2 {
		return nil
	}
	return append([]float64(nil), bounds[1:]...)
}
