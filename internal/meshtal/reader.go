package meshtal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/samcharles93/mesh2ww/internal/logger"
	"github.com/samcharles93/mesh2ww/pkg/particle"
	"github.com/samcharles93/mesh2ww/pkg/wwinp"
)

const (
	maxLine       = 16 << 20
	cancelEvery   = 1 << 12
	progressEvery = 250_000
)

// Reader loads mesh tallies from meshtal files.
type Reader struct {
	// Progress logs the number of rows read at info level while parsing
	// large tallies.
	Progress bool
}

// Read loads tally id from the meshtal file at path.
func (r *Reader) Read(ctx context.Context, path string, id uint32) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := r.Parse(ctx, f, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse reads tally id from src.
func (r *Reader) Parse(ctx context.Context, src io.Reader, id uint32) (*Mesh, error) {
	p := &parser{
		ctx:      ctx,
		sc:       bufio.NewScanner(src),
		progress: r.Progress,
		log:      logger.FromContext(ctx),
	}
	p.sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	if err := p.seek(id); err != nil {
		return nil, err
	}
	m := &Mesh{ID: id}
	cols, err := p.header(m)
	if err != nil {
		return nil, err
	}
	if err := p.rows(m, cols); err != nil {
		return nil, err
	}
	return m, nil
}

type parser struct {
	ctx      context.Context
	sc       *bufio.Scanner
	line     int
	progress bool
	log      logger.Logger
}

func (p *parser) next() (string, bool, error) {
	if p.line%cancelEvery == 0 {
		if err := p.ctx.Err(); err != nil {
			return "", false, err
		}
	}
	if !p.sc.Scan() {
		return "", false, p.sc.Err()
	}
	p.line++
	return p.sc.Text(), true, nil
}

func (p *parser) malformed(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformed, p.line, fmt.Sprintf(format, args...))
}

// tallyNumber reports the id of a "Mesh Tally Number <id>" line.
func tallyNumber(line string) (uint64, bool) {
	f := strings.Fields(line)
	if len(f) != 4 || f[0] != "Mesh" || f[1] != "Tally" || f[2] != "Number" {
		return 0, false
	}
	n, err := strconv.ParseUint(f[3], 10, 32)
	return n, err == nil
}

func (p *parser) seek(id uint32) error {
	for {
		line, ok, err := p.next()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %d", ErrTallyNotFound, id)
		}
		if n, ok := tallyNumber(line); ok && n == uint64(id) {
			return nil
		}
	}
}

// columns locates the fields of a data row.
type columns struct {
	energy bool
	timed  bool
	coord  int // first of three coordinate fields
	result int
	relErr int
}

// header reads everything between the tally number and the column header.
func (p *parser) header(m *Mesh) (columns, error) {
	var (
		current *[]float64
		axes    = map[string]*[]float64{}
	)
	for {
		line, ok, err := p.next()
		if err != nil {
			return columns{}, err
		}
		if !ok {
			return columns{}, p.malformed("missing column header")
		}
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		// Free text such as the tally comment precedes the particle line.
		if !m.Particle.Valid() && !strings.HasSuffix(lower, "mesh tally.") {
			if _, ok := tallyNumber(trimmed); ok {
				return columns{}, p.malformed("tally has no results")
			}
			continue
		}

		switch {
		case trimmed == "":
			current = nil
		case strings.Contains(lower, "tally results:") || strings.HasPrefix(lower, "energy bin:") || strings.HasPrefix(lower, "time bin:"):
			return columns{}, fmt.Errorf("%w: matrix output", ErrUnsupportedFormat)
		case isColumnHeader(trimmed):
			if err := p.finishHeader(m, axes); err != nil {
				return columns{}, err
			}
			return p.columns(m, trimmed)
		case strings.HasSuffix(lower, "mesh tally."):
			name := strings.TrimSpace(strings.TrimSuffix(lower, "mesh tally."))
			name = strings.TrimPrefix(name, "this is a ")
			pt, ok := particle.Parse(name)
			if !ok {
				return columns{}, p.malformed("unknown particle %q", name)
			}
			m.Particle = pt
			current = nil
		case strings.Contains(lower, "origin at"):
			before, after, _ := strings.Cut(lower[strings.Index(lower, "origin at")+len("origin at"):], "axis in")
			origin, axis := floats(before), floats(after)
			if len(origin) != 3 || len(axis) != 3 {
				return columns{}, p.malformed("cylinder origin and axis need three components")
			}
			copy(m.Origin[:], origin)
			copy(m.Axis[:], axis)
			current = nil
		case strings.HasPrefix(lower, "vec") || strings.Contains(lower, "vec direction"):
			vec := floats(lower)
			if len(vec) != 3 {
				return columns{}, p.malformed("cylinder VEC needs three components")
			}
			copy(m.Vec[:], vec)
			current = nil
		case strings.Contains(lower, "bin boundaries:"), strings.Contains(lower, "direction"):
			key, rest, found := strings.Cut(lower, ":")
			if !found {
				current = nil
				continue
			}
			kf := strings.Fields(key)
			if len(kf) == 0 {
				current = nil
				continue
			}
			name := kf[0]
			switch name {
			case "energy":
				current = &m.Energies
			case "time":
				current = &m.Times
			default:
				list := axes[name]
				if list == nil {
					list = new([]float64)
					axes[name] = list
				}
				current = list
			}
			*current = append(*current, floats(rest)...)
		default:
			vals := floats(trimmed)
			if current != nil && len(vals) > 0 && len(vals) == len(strings.Fields(trimmed)) {
				*current = append(*current, vals...)
				continue
			}
			if _, ok := tallyNumber(trimmed); ok {
				return columns{}, p.malformed("tally has no results")
			}
			current = nil
		}
	}
}

// isColumnHeader reports whether line names the data columns.
func isColumnHeader(line string) bool {
	if !strings.Contains(line, "Result") || !strings.Contains(line, "Rel") {
		return false
	}
	switch strings.ToLower(strings.Fields(line)[0]) {
	case "energy", "time", "cell", "x", "r":
		return true
	}
	return false
}

func (p *parser) finishHeader(m *Mesh, axes map[string]*[]float64) error {
	get := func(name string) []float64 {
		if l := axes[name]; l != nil {
			return *l
		}
		return nil
	}
	if r := get("r"); r != nil {
		m.Geometry = wwinp.Cylindrical
		m.I, m.J, m.K = r, get("z"), get("theta")
		if m.Axis == ([3]float64{}) {
			m.Axis = [3]float64{0, 0, 1}
		}
		if m.Vec == ([3]float64{}) {
			m.Vec = defaultVec(m.Axis)
		}
	} else {
		m.Geometry = wwinp.Rectangular
		m.I, m.J, m.K = get("x"), get("y"), get("z")
	}

	if !m.Particle.Valid() {
		return p.malformed("missing particle type")
	}
	for n, b := range [][]float64{m.I, m.J, m.K} {
		if len(b) < 2 {
			return p.malformed("axis %d needs at least two boundaries", n+1)
		}
	}
	if len(m.Energies) < 2 {
		return p.malformed("missing energy bin boundaries")
	}
	if len(m.Times) == 1 {
		return p.malformed("time bins need at least two boundaries")
	}
	return nil
}

// defaultVec picks the theta=0 direction when the tally does not print one.
func defaultVec(axis [3]float64) [3]float64 {
	n := math.Sqrt(axis[0]*axis[0] + axis[1]*axis[1] + axis[2]*axis[2])
	if n > 0 && math.Abs(axis[0])/n > 0.9 {
		return [3]float64{0, 1, 0}
	}
	return [3]float64{1, 0, 0}
}

func (p *parser) columns(m *Mesh, header string) (columns, error) {
	if strings.Contains(header, "Cell") {
		return columns{}, fmt.Errorf("%w: cell-under-voxel output", ErrUnsupportedFormat)
	}
	f := strings.Fields(header)
	var c columns
	if len(f) > 0 && f[0] == "Energy" {
		c.energy = true
		c.coord++
	}
	if len(f) > c.coord && f[c.coord] == "Time" {
		c.timed = true
		c.coord++
	}
	if c.timed != (len(m.Times) > 0) {
		return columns{}, p.malformed("time column does not match time bins")
	}
	c.result = c.coord + 3
	c.relErr = c.coord + 4
	return c, nil
}

func (p *parser) rows(m *Mesh, c columns) error {
	ni, nj, nk := m.Dims()
	ne, nt := m.EnergyGroups(), m.TimeGroups()
	m.Voxels = make([]Voxel, ne*nt*m.Size())
	seen := make([]bool, len(m.Voxels))
	n := 0

	for {
		line, ok, err := p.next()
		if err != nil {
			return err
		}
		f := strings.Fields(line)
		if !ok || (len(f) == 0 && n > 0) {
			break
		}
		if len(f) == 0 {
			continue
		}
		if len(f) < c.relErr+1 {
			return p.malformed("expected at least %d columns, got %d", c.relErr+1, len(f))
		}

		e, t := 0, 0
		if c.energy {
			if e, err = binIndex(f[0], m.Energies, ne); err != nil {
				return p.malformed("energy: %v", err)
			}
		}
		if c.timed {
			if t, err = binIndex(f[c.coord-1], m.Times, nt); err != nil {
				return p.malformed("time: %v", err)
			}
		}
		var pos [3]float64
		var vox Voxel
		for a := range 3 {
			if pos[a], err = strconv.ParseFloat(f[c.coord+a], 64); err != nil {
				return p.malformed("coordinate %q", f[c.coord+a])
			}
		}
		if vox.Result, err = strconv.ParseFloat(f[c.result], 64); err != nil {
			return p.malformed("result %q", f[c.result])
		}
		if vox.Error, err = strconv.ParseFloat(f[c.relErr], 64); err != nil {
			return p.malformed("relative error %q", f[c.relErr])
		}

		i, j, k := locate(m.I, pos[0], ni), locate(m.J, pos[1], nj), locate(m.K, pos[2], nk)
		idx := m.Index(e, t, i, j, k)
		if seen[idx] {
			return p.malformed("duplicate row for voxel %d,%d,%d", i, j, k)
		}
		seen[idx] = true
		m.Voxels[idx] = vox
		n++

		if p.progress && n%progressEvery == 0 {
			p.log.Info("reading mesh", "tally", m.ID, "rows", humanize.Comma(int64(n)))
		}
	}

	if n != len(m.Voxels) {
		return p.malformed("expected %d rows, read %d", len(m.Voxels), n)
	}
	return nil
}

// binIndex maps an energy or time column value to its group. Values are the
// printed upper bound of the bin, "Total" is the trailing group.
func binIndex(field string, bounds []float64, groups int) (int, error) {
	bins := len(bounds) - 1
	if strings.EqualFold(field, "total") {
		if groups == bins {
			return 0, fmt.Errorf("unexpected Total row")
		}
		return bins, nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid bin %q", field)
	}
	best, diff := 0, math.Inf(1)
	for b := range bins {
		u := bounds[b+1]
		d := math.Abs(u-v) / math.Max(math.Max(math.Abs(u), math.Abs(v)), 1e-300)
		if d < diff {
			best, diff = b, d
		}
	}
	return best, nil
}

// locate returns the bin of bounds containing the voxel centre c.
func locate(bounds []float64, c float64, n int) int {
	i := sort.SearchFloat64s(bounds, c) - 1
	return min(max(i, 0), n-1)
}

// floats returns every numeric field of s, ignoring the rest.
func floats(s string) []float64 {
	var out []float64
	for _, f := range strings.Fields(s) {
		f = strings.Trim(f, ",()")
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}
