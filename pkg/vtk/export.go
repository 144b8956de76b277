package vtk

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samcharles93/mesh2ww/pkg/wwinp"
)

// Extension returns the file extension for a weight window in the given
// format: .vtr for rectangular XML, .vtu for cylindrical XML, .vtk for legacy.
func Extension(w *wwinp.WeightWindow, f Format) string {
	if f != FormatXML {
		return "vtk"
	}
	switch w.Geometry {
	case wwinp.Rectangular:
		return "vtr"
	case wwinp.Cylindrical:
		return "vtu"
	}
	return "vtk"
}

// FileName returns the lower-case "ww_<particle>.<ext>" name used for plots.
func FileName(w *wwinp.WeightWindow, f Format) string {
	return strings.ToLower(fmt.Sprintf("ww_%s.%s", w.Particle, Extension(w, f)))
}

// Write serialises w to dst.
func Write(dst io.Writer, w *wwinp.WeightWindow, opts Options) error {
	if err := w.Validate(); err != nil {
		return err
	}
	title := "ww_" + w.Particle.String()

	switch w.Geometry {
	case wwinp.Rectangular:
		g := newRectilinear(w)
		if opts.Format == FormatXML {
			return writeXMLRectilinear(dst, g, opts)
		}
		return writeLegacyRectilinear(dst, title, g, opts.Format == FormatLegacyBinary)
	case wwinp.Cylindrical:
		g, err := newCylinder(w, int(opts.Resolution))
		if err != nil {
			return err
		}
		if opts.Format == FormatXML {
			return writeXMLUnstructured(dst, g, opts)
		}
		return writeLegacyUnstructured(dst, title, g, opts.Format == FormatLegacyBinary)
	}
	return fmt.Errorf("vtk: unsupported geometry %s", w.Geometry)
}

// Export writes w to FileName(w) in opts.Dir and returns the path written.
func Export(w *wwinp.WeightWindow, opts Options) (string, error) {
	path := filepath.Join(opts.Dir, FileName(w, opts.Format))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	err = Write(f, w, opts)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
