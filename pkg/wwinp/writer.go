package wwinp

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"time"

	"github.com/samcharles93/mesh2ww/pkg/particle"
)

const (
	valuesPerLine = 6
	intsPerLine   = 7

	// untimed is the single time bound written for particles without time
	// bins when another particle in the file is time dependent.
	untimed = 1.0e36
)

// File is a multi-particle WWINP file.
type File struct {
	// ProbID is written at the end of the first line, typically a timestamp.
	ProbID string
	// Pad lists every particle id up to the highest one present in the
	// header, with zero groups for the unused ones. Without padding only the
	// particles present are listed.
	Pad bool

	windows []*WeightWindow
}

// NewFile collects weight windows into a file, ordered by particle id. All
// windows must share the same mesh and have distinct particle types.
func NewFile(windows []*WeightWindow, pad bool) (*File, error) {
	if len(windows) == 0 {
		return nil, ErrNoWindows
	}
	sorted := slices.Clone(windows)
	slices.SortStableFunc(sorted, func(a, b *WeightWindow) int {
		return cmp.Compare(a.Particle, b.Particle)
	})
	for i, w := range sorted {
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", w.Particle, err)
		}
		if i == 0 {
			continue
		}
		if w.Particle == sorted[i-1].Particle {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, w.Particle)
		}
		if !w.SameGeometry(sorted[0]) {
			return nil, fmt.Errorf("%w: %s and %s", ErrGeometryMismatch, sorted[0].Particle, w.Particle)
		}
	}
	return &File{
		ProbID:  time.Now().Format("01/02/06 15:04:05"),
		Pad:     pad,
		windows: sorted,
	}, nil
}

// Windows returns the weight windows in file order.
func (f *File) Windows() []*WeightWindow { return f.windows }

// slots returns the header entries: one per particle id when padding,
// otherwise one per window. Unused slots are nil.
func (f *File) slots() []*WeightWindow {
	if !f.Pad {
		return f.windows
	}
	last := f.windows[len(f.windows)-1].Particle
	slots := make([]*WeightWindow, last)
	for _, w := range f.windows {
		slots[w.Particle-1] = w
	}
	return slots
}

func (f *File) timeDependent() bool {
	return slices.ContainsFunc(f.windows, func(w *WeightWindow) bool { return len(w.Times) > 0 })
}

// WriteTo writes the file in WWINP format.
func (f *File) WriteTo(dst io.Writer) (int64, error) {
	cw := &countingWriter{w: dst}
	bw := bufio.NewWriter(cw)
	fw := &fmtWriter{w: bw}

	slots := f.slots()
	mesh := f.windows[0]
	timed := f.timeDependent()

	iv := 1
	if timed {
		iv = 2
	}
	nr := 10
	if mesh.Geometry == Cylindrical {
		nr = 16
	}

	// Block 1: header
	fw.printf("%10d%10d%10d%10d%20s%s\n", 1, iv, len(slots), nr, "", f.ProbID)
	if timed {
		fw.ints(mapSlots(slots, func(w *WeightWindow) int {
			if len(w.Times) == 0 {
				return 1
			}
			return len(w.Times)
		}))
	}
	fw.ints(mapSlots(slots, func(w *WeightWindow) int { return w.NE() }))

	ni, nj, nk := mesh.Dims()
	origin := mesh.Origin
	if mesh.Geometry == Rectangular {
		origin = [3]float64{mesh.I[0], mesh.J[0], mesh.K[0]}
	}
	fw.values(float64(ni), float64(nj), float64(nk), origin[0], origin[1], origin[2])
	if mesh.Geometry == Cylindrical {
		top := axisPoint(mesh.Origin, mesh.Axis, mesh.J[len(mesh.J)-1])
		rad := axisPoint(mesh.Origin, mesh.Vec, mesh.I[len(mesh.I)-1])
		fw.values(float64(ni), float64(nj), float64(nk), top[0], top[1], top[2])
		fw.values(rad[0], rad[1], rad[2], float64(mesh.Geometry))
	} else {
		fw.values(float64(ni), float64(nj), float64(nk), float64(mesh.Geometry))
	}

	// Block 2: one coarse mesh per fine voxel
	for _, bounds := range [][]float64{mesh.I, mesh.J, mesh.K} {
		fw.values(coarse(bounds)...)
	}

	// Block 3: bins and weights per particle
	for _, w := range slots {
		if w == nil {
			continue
		}
		if timed {
			times := w.Times
			if len(times) == 0 {
				times = []float64{untimed}
			}
			fw.values(times...)
		}
		fw.values(w.Energies...)
		for e := range w.NE() {
			for t := range w.NT() {
				fw.values(w.Group(e, t)...)
			}
		}
	}

	if fw.err != nil {
		return cw.n, fw.err
	}
	if err := bw.Flush(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// WriteMultiParticle writes all weight windows to a single WWINP file at path.
// pad keeps zero entries for unused particle ids in the header.
func WriteMultiParticle(path string, windows []*WeightWindow, pad bool) (int64, error) {
	file, err := NewFile(windows, pad)
	if err != nil {
		return 0, err
	}
	out, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := file.WriteTo(out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return n, err
}

// Slots lists the particle ids in header order; zero marks a padded entry.
func (f *File) Slots() []particle.Particle {
	slots := f.slots()
	out := make([]particle.Particle, len(slots))
	for i, w := range slots {
		if w != nil {
			out[i] = w.Particle
		}
	}
	return out
}

func mapSlots(slots []*WeightWindow, fn func(*WeightWindow) int) []int {
	out := make([]int, len(slots))
	for i, w := range slots {
		if w != nil {
			out[i] = fn(w)
		}
	}
	return out
}

// coarse expands fine boundaries into "x0 (q p s)..." with one fine mesh per
// coarse mesh and no ratio.
func coarse(bounds []float64) []float64 {
	out := make([]float64, 0, 1+3*(len(bounds)-1))
	out = append(out, bounds[0])
	for _, b := range bounds[1:] {
		out = append(out, 1, b, 1)
	}
	return out
}

func axisPoint(origin, dir [3]float64, length float64) [3]float64 {
	norm := math.Sqrt(dir[0]*dir[0] + dir[1]*dir[1] + dir[2]*dir[2])
	if norm == 0 {
		return origin
	}
	s := length / norm
	return [3]float64{origin[0] + dir[0]*s, origin[1] + dir[1]*s, origin[2] + dir[2]*s}
}

// fmtWriter keeps the first error so the layout code can stay linear.
type fmtWriter struct {
	w   io.Writer
	err error
}

func (f *fmtWriter) printf(format string, args ...any) {
	if f.err != nil {
		return
	}
	_, f.err = fmt.Fprintf(f.w, format, args...)
}

// values writes reals in 1p6e13.5 layout, starting a new line.
func (f *fmtWriter) values(vals ...float64) {
	for i, v := range vals {
		f.printf("%13.5E", v)
		if (i+1)%valuesPerLine == 0 || i == len(vals)-1 {
			f.printf("\n")
		}
	}
}

// ints writes integers in 7i10 layout, starting a new line.
func (f *fmtWriter) ints(vals []int) {
	for i, v := range vals {
		f.printf("%10d", v)
		if (i+1)%intsPerLine == 0 || i == len(vals)-1 {
			f.printf("\n")
		}
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
