// Package wwinp models MCNP mesh-based weight windows and writes them in the
// WWINP/WWOUT text format.
package wwinp

import (
	"fmt"
	"slices"

	"github.com/samcharles93/mesh2ww/pkg/particle"
)

// Geometry is the WWINP mesh type (nwg).
type Geometry int

const (
	Rectangular Geometry = 1
	Cylindrical Geometry = 2
)

func (g Geometry) String() string {
	switch g {
	case Rectangular:
		return "rectangular"
	case Cylindrical:
		return "cylindrical"
	default:
		return fmt.Sprintf("geometry(%d)", int(g))
	}
}

// WeightWindow is one particle's mesh-based weight window set.
//
// For rectangular meshes I, J and K are the x, y and z fine-mesh boundaries.
// For cylindrical meshes they are r, z (relative to Origin along Axis) and
// theta in revolutions.
//
// Weights are ordered with energy outermost, then time, then k, j and i, so
// i varies fastest. A weight of zero means analogue transport.
type WeightWindow struct {
	Particle particle.Particle
	Geometry Geometry

	Origin [3]float64
	Axis   [3]float64
	Vec    [3]float64

	I []float64
	J []float64
	K []float64

	// Energies and Times are upper group bounds. Times is nil when the mesh
	// has no time dependence.
	Energies []float64
	Times    []float64

	Weights []float64
}

// Dims returns the number of fine voxels along each axis.
func (w *WeightWindow) Dims() (ni, nj, nk int) {
	return max(len(w.I)-1, 0), max(len(w.J)-1, 0), max(len(w.K)-1, 0)
}

// Voxels returns the number of spatial voxels.
func (w *WeightWindow) Voxels() int {
	ni, nj, nk := w.Dims()
	return ni * nj * nk
}

// NE returns the number of energy groups.
func (w *WeightWindow) NE() int { return len(w.Energies) }

// NT returns the number of time groups, 1 when there are no time bins.
func (w *WeightWindow) NT() int { return max(len(w.Times), 1) }

// Groups returns the number of energy/time groups.
func (w *WeightWindow) Groups() int { return w.NE() * w.NT() }

// Index returns the position of voxel (i, j, k) in group (e, t).
func (w *WeightWindow) Index(e, t, i, j, k int) int {
	ni, nj, nk := w.Dims()
	return (((e*w.NT()+t)*nk+k)*nj+j)*ni + i
}

// Group returns the weights of a single energy/time group.
func (w *WeightWindow) Group(e, t int) []float64 {
	n := w.Voxels()
	start := (e*w.NT() + t) * n
	return w.Weights[start : start+n]
}

// Validate checks that the shape of the weight window is consistent.
func (w *WeightWindow) Validate() error {
	if !w.Particle.Valid() {
		return fmt.Errorf("%w: unknown particle id %d", ErrInvalid, w.Particle)
	}
	if w.Geometry != Rectangular && w.Geometry != Cylindrical {
		return fmt.Errorf("%w: %s", ErrInvalid, w.Geometry)
	}
	if w.Voxels() == 0 {
		return fmt.Errorf("%w: empty mesh", ErrInvalid)
	}
	if w.NE() == 0 {
		return fmt.Errorf("%w: no energy groups", ErrInvalid)
	}
	if want := w.Groups() * w.Voxels(); len(w.Weights) != want {
		return fmt.Errorf("%w: %d weights, want %d", ErrInvalid, len(w.Weights), want)
	}
	return nil
}

// Scale multiplies every weight by factor in place.
func (w *WeightWindow) Scale(factor float64) {
	for i := range w.Weights {
		w.Weights[i] *= factor
	}
}

// NonAnaloguePercentage returns the share of weights that are non-zero.
func (w *WeightWindow) NonAnaloguePercentage() float64 {
	if len(w.Weights) == 0 {
		return 0
	}
	n := 0
	for _, v := range w.Weights {
		if v > 0 {
			n++
		}
	}
	return 100 * float64(n) / float64(len(w.Weights))
}

// SameGeometry reports whether two weight windows are defined on the same mesh.
func (w *WeightWindow) SameGeometry(o *WeightWindow) bool {
	return w.Geometry == o.Geometry &&
		w.Origin == o.Origin &&
		w.Axis == o.Axis &&
		w.Vec == o.Vec &&
		slices.Equal(w.I, o.I) &&
		slices.Equal(w.J, o.J) &&
		slices.Equal(w.K, o.K)
}
