package pipeline

import (
	"github.com/samcharles93/mesh2ww/internal/config"
	"github.com/samcharles93/mesh2ww/pkg/vtk"
	"github.com/samcharles93/mesh2ww/pkg/wwinp"
)

// VTKExporter writes plots with the vtk package.
type VTKExporter struct {
	// Dir is the output directory, the working directory when empty.
	Dir string
}

func (e VTKExporter) Export(w *wwinp.WeightWindow, plot config.PlotConfig) (string, error) {
	opts := plot.Options()
	opts.Dir = e.Dir
	return vtk.Export(w, opts)
}
