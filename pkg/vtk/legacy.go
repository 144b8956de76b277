package vtk

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
)

// legacyWriter writes the classic .vtk format. Binary sections are always big
// endian, as the legacy format requires.
type legacyWriter struct {
	w      *bufio.Writer
	binary bool
	err    error
}

func newLegacyWriter(w io.Writer, title string, binaryData bool) *legacyWriter {
	l := &legacyWriter{w: bufio.NewWriter(w), binary: binaryData}
	l.printf("# vtk DataFile Version 3.0\n%s\n", title)
	if binaryData {
		l.printf("BINARY\n")
	} else {
		l.printf("ASCII\n")
	}
	return l
}

func (l *legacyWriter) printf(format string, args ...any) {
	if l.err != nil {
		return
	}
	_, l.err = fmt.Fprintf(l.w, format, args...)
}

func (l *legacyWriter) floats(vals []float64, perLine int) {
	if l.binary {
		l.raw(vals)
		return
	}
	for i, v := range vals {
		sep := " "
		if (i+1)%perLine == 0 || i == len(vals)-1 {
			sep = "\n"
		}
		l.printf("%s%s", strconv.FormatFloat(v, 'g', -1, 64), sep)
	}
}

func (l *legacyWriter) raw(values any) {
	if l.err != nil {
		return
	}
	if l.err = binary.Write(l.w, binary.BigEndian, values); l.err != nil {
		return
	}
	l.printf("\n")
}

func (l *legacyWriter) cellData(n int, cells []dataArray) {
	if len(cells) == 0 {
		return
	}
	l.printf("CELL_DATA %d\n", n)
	for _, c := range cells {
		l.printf("SCALARS %s double 1\nLOOKUP_TABLE default\n", c.name)
		l.floats(c.values, 6)
	}
}

func (l *legacyWriter) finish() error {
	if l.err != nil {
		return l.err
	}
	return l.w.Flush()
}

func writeLegacyRectilinear(w io.Writer, title string, g *rectilinear, binaryData bool) error {
	l := newLegacyWriter(w, title, binaryData)
	l.printf("DATASET RECTILINEAR_GRID\nDIMENSIONS %d %d %d\n", len(g.x), len(g.y), len(g.z))
	for _, axis := range []struct {
		name   string
		coords []float64
	}{{"X", g.x}, {"Y", g.y}, {"Z", g.z}} {
		l.printf("%s_COORDINATES %d double\n", axis.name, len(axis.coords))
		l.floats(axis.coords, 6)
	}
	l.cellData((len(g.x)-1)*(len(g.y)-1)*(len(g.z)-1), g.cells)
	return l.finish()
}

func writeLegacyUnstructured(w io.Writer, title string, g *unstructured, binaryData bool) error {
	l := newLegacyWriter(w, title, binaryData)
	l.printf("DATASET UNSTRUCTURED_GRID\nPOINTS %d double\n", len(g.points))
	flat := make([]float64, 0, 3*len(g.points))
	for _, p := range g.points {
		flat = append(flat, p[0], p[1], p[2])
	}
	l.floats(flat, 3)

	// CELLS lists "npts id id ..." per cell.
	cells := make([]int32, 0, len(g.connectivity)+len(g.types))
	start := int64(0)
	for _, end := range g.offsets {
		cells = append(cells, int32(end-start))
		for _, id := range g.connectivity[start:end] {
			cells = append(cells, int32(id))
		}
		start = end
	}
	l.printf("CELLS %d %d\n", len(g.types), len(cells))
	if binaryData {
		l.raw(cells)
	} else {
		start = 0
		for _, end := range g.offsets {
			l.printf("%d", end-start)
			for _, id := range g.connectivity[start:end] {
				l.printf(" %d", id)
			}
			l.printf("\n")
			start = end
		}
	}

	l.printf("CELL_TYPES %d\n", len(g.types))
	if binaryData {
		types := make([]int32, len(g.types))
		for i, t := range g.types {
			types[i] = int32(t)
		}
		l.raw(types)
	} else {
		for _, t := range g.types {
			l.printf("%d\n", t)
		}
	}
	l.cellData(len(g.types), g.cells)
	return l.finish()
}
