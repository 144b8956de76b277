package vtk

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

type xmlWriter struct {
	w     *bufio.Writer
	opts  Options
	err   error
	depth int
}

func newXMLWriter(w io.Writer, opts Options) *xmlWriter {
	return &xmlWriter{w: bufio.NewWriter(w), opts: opts}
}

func (x *xmlWriter) line(format string, args ...any) {
	if x.err != nil {
		return
	}
	for range x.depth {
		if _, x.err = x.w.WriteString("  "); x.err != nil {
			return
		}
	}
	_, x.err = fmt.Fprintf(x.w, format+"\n", args...)
}

func (x *xmlWriter) open(format string, args ...any) {
	x.line(format, args...)
	x.depth++
}

func (x *xmlWriter) close(tag string) {
	x.depth--
	x.line("</%s>", tag)
}

func (x *xmlWriter) header(typ string) {
	x.line(`<?xml version="1.0"?>`)
	compressor := ""
	if name := x.opts.Compressor.xmlName(); name != "" {
		compressor = fmt.Sprintf(` compressor="%s"`, name)
	}
	x.open(`<VTKFile type="%s" version="1.0" byte_order="%s" header_type="UInt64"%s>`,
		typ, x.opts.ByteOrder.xmlName(), compressor)
}

// array writes a DataArray with binary inline data. values is a slice of a
// fixed-size numeric type.
func (x *xmlWriter) array(typ, name string, components int, values any) {
	if x.err != nil {
		return
	}
	var raw bytes.Buffer
	if x.err = binary.Write(&raw, x.opts.ByteOrder.order(), values); x.err != nil {
		return
	}
	payload, err := encodeBinary(raw.Bytes(), x.opts.Compressor, x.opts.ByteOrder.order())
	if err != nil {
		x.err = err
		return
	}
	attrs := fmt.Sprintf(`type="%s"`, typ)
	if name != "" {
		attrs += fmt.Sprintf(` Name="%s"`, name)
	}
	if components > 1 {
		attrs += fmt.Sprintf(` NumberOfComponents="%d"`, components)
	}
	x.line(`<DataArray %s format="binary">%s</DataArray>`, attrs, payload)
}

func (x *xmlWriter) cellData(cells []dataArray) {
	if len(cells) == 0 {
		x.line("<CellData/>")
		return
	}
	x.open(`<CellData Scalars="%s">`, cells[0].name)
	for _, c := range cells {
		x.array("Float64", c.name, 1, c.values)
	}
	x.close("CellData")
}

func (x *xmlWriter) finish() error {
	x.close("VTKFile")
	if x.err != nil {
		return x.err
	}
	return x.w.Flush()
}

func writeXMLRectilinear(w io.Writer, g *rectilinear, opts Options) error {
	x := newXMLWriter(w, opts)
	extent := fmt.Sprintf("0 %d 0 %d 0 %d", len(g.x)-1, len(g.y)-1, len(g.z)-1)

	x.header("RectilinearGrid")
	x.open(`<RectilinearGrid WholeExtent="%s">`, extent)
	x.open(`<Piece Extent="%s">`, extent)
	x.cellData(g.cells)
	x.open("<Coordinates>")
	x.array("Float64", "x", 1, g.x)
	x.array("Float64", "y", 1, g.y)
	x.array("Float64", "z", 1, g.z)
	x.close("Coordinates")
	x.close("Piece")
	x.close("RectilinearGrid")
	return x.finish()
}

func writeXMLUnstructured(w io.Writer, g *unstructured, opts Options) error {
	x := newXMLWriter(w, opts)

	x.header("UnstructuredGrid")
	x.open("<UnstructuredGrid>")
	x.open(`<Piece NumberOfPoints="%d" NumberOfCells="%d">`, len(g.points), len(g.types))
	x.cellData(g.cells)
	x.open("<Points>")
	x.array("Float64", "Points", 3, g.points)
	x.close("Points")
	x.open("<Cells>")
	x.array("Int64", "connectivity", 1, g.connectivity)
	x.array("Int64", "offsets", 1, g.offsets)
	x.array("UInt8", "types", 1, g.types)
	x.close("Cells")
	x.close("Piece")
	x.close("UnstructuredGrid")
	return x.finish()
}
