// Package wwgen generates weight windows from mesh tally results with the
// MAGIC method.
package wwgen

import (
	"errors"
	"fmt"
	"math"

	"github.com/samcharles93/mesh2ww/internal/meshtal"
	"github.com/samcharles93/mesh2ww/pkg/wwinp"
)

var (
	// ErrGroupMismatch is returned when per-group vectors do not match the
	// number of energy/time groups in the mesh.
	ErrGroupMismatch = errors.New("vector length does not match mesh groups")
	ErrInvalidMesh   = errors.New("invalid mesh")
)

// Generator implements the MAGIC method. The zero value is ready to use.
type Generator struct{}

// Simple applies one de-tuning power and error limit to every group. With
// totals only the summed group is used and the result has a single group.
func (Generator) Simple(m *meshtal.Mesh, power, errLimit float64, totals bool) (*wwinp.WeightWindow, error) {
	if err := check(m); err != nil {
		return nil, err
	}
	if !totals {
		return generate(m, []float64{power}, []float64{errLimit})
	}

	w := window(m)
	w.Energies = []float64{m.Energies[len(m.Energies)-1]}
	w.Weights = magic(m.Total(), power, errLimit)
	return w, nil
}

// Advanced applies a power and error limit per group. Groups are ordered with
// energy outermost then time, totals excluded. A vector of length one applies
// to every group.
func (Generator) Advanced(m *meshtal.Mesh, powers, errLimits []float64) (*wwinp.WeightWindow, error) {
	if err := check(m); err != nil {
		return nil, err
	}
	n := m.EnergyBins() * m.TimeBins()
	for _, v := range []struct {
		name string
		vals []float64
	}{{"power", powers}, {"error", errLimits}} {
		if len(v.vals) != 1 && len(v.vals) != n {
			return nil, fmt.Errorf("%w: %d %s values for %d groups", ErrGroupMismatch, len(v.vals), v.name, n)
		}
	}
	return generate(m, powers, errLimits)
}

func generate(m *meshtal.Mesh, powers, errLimits []float64) (*wwinp.WeightWindow, error) {
	w := window(m)
	w.Energies = m.EnergyBounds()
	w.Times = m.TimeBounds()
	w.Weights = make([]float64, 0, m.EnergyBins()*m.TimeBins()*m.Size())

	g := 0
	for e := range m.EnergyBins() {
		for t := range m.TimeBins() {
			w.Weights = append(w.Weights, magic(m.Group(e, t), pick(powers, g), pick(errLimits, g))...)
			g++
		}
	}
	return w, nil
}

func pick(vals []float64, g int) float64 {
	if len(vals) == 1 {
		return vals[0]
	}
	return vals[g]
}

// magic returns w = (0.5 * flux / max flux)^power per voxel. Voxels with no
// flux or a relative error above errLimit are analogue (zero).
func magic(voxels []meshtal.Voxel, power, errLimit float64) []float64 {
	peak := 0.0
	for _, v := range voxels {
		peak = max(peak, v.Result)
	}
	out := make([]float64, len(voxels))
	if peak <= 0 {
		return out
	}
	for i, v := range voxels {
		if v.Result <= 0 || v.Error > errLimit {
			continue
		}
		out[i] = math.Pow(0.5*v.Result/peak, power)
	}
	return out
}

func window(m *meshtal.Mesh) *wwinp.WeightWindow {
	return &wwinp.WeightWindow{
		Particle: m.Particle,
		Geometry: m.Geometry,
		Origin:   m.Origin,
		Axis:     m.Axis,
		Vec:      m.Vec,
		I:        append([]float64(nil), m.I...),
		J:        append([]float64(nil), m.J...),
		K:        append([]float64(nil), m.K...),
	}
}

func check(m *meshtal.Mesh) error {
	if m == nil {
		return fmt.Errorf("%w: nil mesh", ErrInvalidMesh)
	}
	if m.Size() == 0 || len(m.Energies) < 2 {
		return fmt.Errorf("%w: tally %d has no bins", ErrInvalidMesh, m.ID)
	}
	if want := m.EnergyGroups() * m.TimeGroups() * m.Size(); len(m.Voxels) != want {
		return fmt.Errorf("%w: tally %d has %d voxels, want %d", ErrInvalidMesh, m.ID, len(m.Voxels), want)
	}
	return nil
}
