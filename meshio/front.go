package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/mesh2d/polygon"
)

// tokens splits input into whitespace separated words.
type tokens struct {
	sc   *bufio.Scanner
	read int
}

func (t *tokens) next() (string, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: unexpected end of input after %d tokens", ErrFormat, t.read)
	}
	t.read++
	return t.sc.Text(), nil
}

func (t *tokens) int() (int, error) {
	s, err := t.next()
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: token %d: %v", ErrFormat, t.read, err)
	}
	return i, nil
}

func (t *tokens) float() (float64, error) {
	s, err := t.next()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: token %d: %v", ErrFormat, t.read, err)
	}
	return f, nil
}

// ReadFront reads boundary loops from a front file. The file starts with the
// number of loops; every loop is given by its number of points followed by
// one "x y bc_type" line per point. The last point of a loop closes it and
// is always dropped, so a loop needs at least 4 points. The first loop becomes the outer
// loop of the domain, all others are holes. Knots of loop k get surface id k.
// The domain is neither validated nor normalized.
func ReadFront(r io.Reader) (*polygon.Domain, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	t := &tokens{sc: sc}
	nfronts, err := t.int()
	if err != nil {
		return nil, err
	}
	if nfronts < 1 {
		return nil, fmt.Errorf("%w: %d fronts", ErrFormat, nfronts)
	}
	loops := make([]*polygon.Polygon, 0, nfronts)
	for k := 0; k < nfronts; k++ {
		npts, err := t.int()
		if err != nil {
			return nil, fmt.Errorf("front %d: %w", k, err)
		}
		if npts < 4 {
			return nil, fmt.Errorf("%w: front %d has %d points", ErrFormat, k, npts)
		}
		pts := make([]mesh2d.Pair, 0, npts)
		types := make([]int, 0, npts)
		for j := 0; j < npts; j++ {
			x, err := t.float()
			if err != nil {
				return nil, fmt.Errorf("front %d: %w", k, err)
			}
			y, err := t.float()
			if err != nil {
				return nil, fmt.Errorf("front %d: %w", k, err)
			}
			typ, err := t.int()
			if err != nil {
				return nil, fmt.Errorf("front %d: %w", k, err)
			}
			pts = append(pts, mesh2d.P(x, y))
			types = append(types, typ)
		}
		if last := pts[npts-1]; !last.Equal(pts[0]) {
			tracer().Infof("front %d: closing point %v differs from first point %v", k, last, pts[0])
		}
		pts, types = pts[:npts-1], types[:npts-1]
		pg := polygon.NullPolygon()
		for j, p := range pts {
			pg.Boundary(mesh2d.BC{Type: types[j], Surface: k}).Knot(p)
		}
		loops = append(loops, pg.Cycle())
		tracer().Debugf("read front %d of %d points", k, len(pts))
	}
	return polygon.NewDomain(loops[0], loops[1:]...), nil
}
