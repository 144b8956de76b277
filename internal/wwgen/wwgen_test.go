package wwgen

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcharles93/mesh2ww/internal/meshtal"
	"github.com/samcharles93/mesh2ww/pkg/particle"
	"github.com/samcharles93/mesh2ww/pkg/wwinp"
)

// threeGroups is a two-voxel mesh with three energy bins plus totals.
func threeGroups() *meshtal.Mesh {
	return &meshtal.Mesh{
		ID:       4,
		Particle: particle.Neutron,
		Geometry: wwinp.Rectangular,
		I:        []float64{0, 1, 2},
		J:        []float64{0, 1},
		K:        []float64{0, 1},
		Energies: []float64{0, 1, 10, 20},
		Voxels: []meshtal.Voxel{
			{Result: 1, Error: 0.1}, {Result: 0.5, Error: 0.1},
			{Result: 2, Error: 0.1}, {Result: 2, Error: 0.9},
			{Result: 4, Error: 0.1}, {Result: 0, Error: 0},
			{Result: 8, Error: 0.05}, {Result: 2, Error: 0.2},
		},
	}
}

func TestSimple(t *testing.T) {
	var g Generator
	w, err := g.Simple(threeGroups(), 1, 0.5, false)
	require.NoError(t, err)
	require.NoError(t, w.Validate())

	assert.Equal(t, particle.Neutron, w.Particle)
	assert.Equal(t, []float64{1, 10, 20}, w.Energies)
	assert.Nil(t, w.Times)
	assert.Equal(t, []float64{
		0.5, 0.25,
		0.5, 0, // error above limit
		0.5, 0, // no flux
	}, w.Weights)
}

func TestSimpleTotals(t *testing.T) {
	var g Generator
	w, err := g.Simple(threeGroups(), 0.5, 1, true)
	require.NoError(t, err)

	assert.Equal(t, 1, w.Groups())
	assert.Equal(t, []float64{20}, w.Energies)
	assert.InDelta(t, math.Sqrt(0.5), w.Weights[0], 1e-12)
	assert.InDelta(t, math.Sqrt(0.125), w.Weights[1], 1e-12)
}

func TestSimpleSingleBinTotals(t *testing.T) {
	m := &meshtal.Mesh{
		Particle: particle.Photon,
		Geometry: wwinp.Rectangular,
		I:        []float64{0, 1},
		J:        []float64{0, 1},
		K:        []float64{0, 1},
		Energies: []float64{0, 100},
		Voxels:   []meshtal.Voxel{{Result: 3, Error: 0.1}},
	}
	var g Generator
	withTotals, err := g.Simple(m, 0.7, 1, true)
	require.NoError(t, err)
	without, err := g.Simple(m, 0.7, 1, false)
	require.NoError(t, err)
	assert.Equal(t, without, withTotals)
}

func TestAdvancedPerGroup(t *testing.T) {
	var g Generator
	w, err := g.Advanced(threeGroups(), []float64{1, 2, 1}, []float64{1, 1, 0.01})
	require.NoError(t, err)

	assert.Equal(t, []float64{
		0.5, 0.25,
		0.25, 0.25,
		0, 0,
	}, w.Weights)
}

func TestAdvancedBroadcast(t *testing.T) {
	var g Generator
	adv, err := g.Advanced(threeGroups(), []float64{0.7}, []float64{0.5})
	require.NoError(t, err)
	simple, err := g.Simple(threeGroups(), 0.7, 0.5, false)
	require.NoError(t, err)
	assert.Equal(t, simple, adv)
}

func TestAdvancedMismatch(t *testing.T) {
	var g Generator
	_, err := g.Advanced(threeGroups(), []float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrGroupMismatch)
	_, err = g.Advanced(threeGroups(), []float64{1}, []float64{1, 1, 1, 1})
	assert.ErrorIs(t, err, ErrGroupMismatch)
}

func TestTimedGroupsOrder(t *testing.T) {
	m := &meshtal.Mesh{
		Particle: particle.Neutron,
		Geometry: wwinp.Rectangular,
		I:        []float64{0, 1},
		J:        []float64{0, 1},
		K:        []float64{0, 1},
		Energies: []float64{0, 1, 2},
		Times:    []float64{0, 5, 10},
		// e0t0 e0t1 e0T e1t0 e1t1 e1T Te0 Tt1 TT
		Voxels: []meshtal.Voxel{
			{Result: 1}, {Result: 1}, {Result: 1},
			{Result: 1}, {Result: 1}, {Result: 1},
			{Result: 1}, {Result: 1}, {Result: 1},
		},
	}
	var g Generator
	w, err := g.Advanced(m, []float64{1, 1, 1, 1}, []float64{1, 1, 1, 0.5})
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 10}, w.Times)
	assert.Equal(t, []float64{0.5, 0.5, 0.5, 0.5}, w.Weights)

	_, err = g.Advanced(m, []float64{1, 1, 1}, []float64{1})
	assert.ErrorIs(t, err, ErrGroupMismatch)
}

func TestInvalidMesh(t *testing.T) {
	var g Generator
	_, err := g.Simple(nil, 1, 1, false)
	assert.ErrorIs(t, err, ErrInvalidMesh)

	m := threeGroups()
	m.Voxels = m.Voxels[:3]
	_, err = g.Advanced(m, []float64{1}, []float64{1})
	assert.ErrorIs(t, err, ErrInvalidMesh)
}

func TestGeometryIsCopied(t *testing.T) {
	m := threeGroups()
	var g Generator
	w, err := g.Simple(m, 1, 1, false)
	require.NoError(t, err)
	w.I[0] = -1
	assert.Equal(t, 0.0, m.I[0])
}
