package vtk

import (
	"fmt"
	"math"
	"strconv"

	"github.com/samcharles93/mesh2ww/pkg/wwinp"
)

// VTK cell types.
const (
	cellHexahedron = 12
	cellWedge      = 13
)

// dataArray is one named cell array.
type dataArray struct {
	name   string
	values []float64
}

// rectilinear is a rectangular mesh described by its axis coordinates.
type rectilinear struct {
	x, y, z []float64
	cells   []dataArray
}

// unstructured is an explicit mesh of hexahedra and wedges.
type unstructured struct {
	points       [][3]float64
	connectivity []int64
	offsets      []int64
	types        []uint8
	cells        []dataArray
}

func (u *unstructured) addCell(typ uint8, pts ...[3]float64) {
	for _, p := range pts {
		u.connectivity = append(u.connectivity, int64(len(u.points)))
		u.points = append(u.points, p)
	}
	u.offsets = append(u.offsets, int64(len(u.connectivity)))
	u.types = append(u.types, typ)
}

// groupName labels a cell array by its energy (and time) upper bound.
func groupName(w *wwinp.WeightWindow, e, t int) string {
	name := "energy_" + strconv.FormatFloat(w.Energies[e], 'e', 2, 64)
	if len(w.Times) > 0 {
		name += "_time_" + strconv.FormatFloat(w.Times[t], 'e', 2, 64)
	}
	return name
}

func groups(w *wwinp.WeightWindow) []dataArray {
	out := make([]dataArray, 0, w.Groups())
	for e := range w.NE() {
		for t := range w.NT() {
			out = append(out, dataArray{name: groupName(w, e, t), values: w.Group(e, t)})
		}
	}
	return out
}

func newRectilinear(w *wwinp.WeightWindow) *rectilinear {
	return &rectilinear{x: w.I, y: w.J, z: w.K, cells: groups(w)}
}

// newCylinder approximates each r/z/theta voxel with straight-edged cells,
// splitting every theta bin into resolution segments. Voxels touching the
// axis become wedges.
func newCylinder(w *wwinp.WeightWindow, resolution int) (*unstructured, error) {
	resolution = max(resolution, 1)
	basis, err := cylinderBasis(w.Axis, w.Vec)
	if err != nil {
		return nil, err
	}
	ni, nj, nk := w.Dims()
	point := func(r, z, rev float64) [3]float64 {
		return basis.point(w.Origin, r, z, rev)
	}

	u := &unstructured{}
	var index []int // source voxel of every cell, in cell order
	for k := range nk {
		step := (w.K[k+1] - w.K[k]) / float64(resolution)
		for s := range resolution {
			th0 := w.K[k] + float64(s)*step
			th1 := th0 + step
			for j := range nj {
				z0, z1 := w.J[j], w.J[j+1]
				for i := range ni {
					r0, r1 := w.I[i], w.I[i+1]
					if r0 == 0 {
						u.addCell(cellWedge,
							point(0, z0, th0), point(r1, z0, th0), point(r1, z0, th1),
							point(0, z1, th0), point(r1, z1, th0), point(r1, z1, th1))
					} else {
						u.addCell(cellHexahedron,
							point(r0, z0, th0), point(r1, z0, th0), point(r1, z0, th1), point(r0, z0, th1),
							point(r0, z1, th0), point(r1, z1, th0), point(r1, z1, th1), point(r0, z1, th1))
					}
					index = append(index, (k*nj+j)*ni+i)
				}
			}
		}
	}

	for _, g := range groups(w) {
		vals := make([]float64, len(index))
		for c, v := range index {
			vals[c] = g.values[v]
		}
		u.cells = append(u.cells, dataArray{name: g.name, values: vals})
	}
	return u, nil
}

type basis struct {
	axis, u, v [3]float64
}

// cylinderBasis returns an orthonormal frame with the cylinder axis and the
// theta=0 direction taken from vec.
func cylinderBasis(axis, vec [3]float64) (basis, error) {
	a, ok := unit(axis)
	if !ok {
		return basis{}, fmt.Errorf("vtk: cylinder axis has zero length")
	}
	d := dot(vec, a)
	u, ok := unit([3]float64{vec[0] - d*a[0], vec[1] - d*a[1], vec[2] - d*a[2]})
	if !ok {
		u, _ = unit(perpendicular(a))
	}
	return basis{axis: a, u: u, v: cross(a, u)}, nil
}

func (b basis) point(origin [3]float64, r, z, rev float64) [3]float64 {
	th := 2 * math.Pi * rev
	c, s := r*math.Cos(th), r*math.Sin(th)
	var p [3]float64
	for n := range 3 {
		p[n] = origin[n] + c*b.u[n] + s*b.v[n] + z*b.axis[n]
	}
	return p
}

func dot(a, b [3]float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
}

func unit(a [3]float64) ([3]float64, bool) {
	n := math.Sqrt(dot(a, a))
	if n == 0 {
		return a, false
	}
	return [3]float64{a[0] / n, a[1] / n, a[2] / n}, true
}

// perpendicular returns any vector not parallel to a.
func perpendicular(a [3]float64) [3]float64 {
	if math.Abs(a[0]) < 0.9 {
		return cross(a, [3]float64{1, 0, 0})
	}
	return cross(a, [3]float64{0, 1, 0})
}
