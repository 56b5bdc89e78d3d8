package mesh

import (
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/quadmorph/internal/surface"
)

// minRows is the smallest row band worth handing to its own goroutine.
const minRows = 32

type Stats struct {
	Builds   int64
	Releases int64
}

// Live is the number of geometries built but not yet released.
func (s Stats) Live() int64 { return s.Builds - s.Releases }

type Pool struct {
	pool     sync.Pool
	builds   atomic.Int64
	releases atomic.Int64
}

func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() interface{} {
				return &Geometry{}
			},
		},
	}
}

// Build samples fn on a segU x segV grid. Non-positive segment counts are
// raised to 1.
func (p *Pool) Build(fn surface.Func, t float64, segU, segV int) *Geometry {
	segU, segV = max(segU, 1), max(segV, 1)

	g := p.pool.Get().(*Geometry)
	g.resize(segU, segV)

	rows := segV + 1
	workers := runtime.GOMAXPROCS(0)
	if rows/minRows < workers {
		workers = rows / minRows
	}
	if workers <= 1 {
		g.sample(fn, t, 0, rows)
	} else {
		chunk := (rows + workers - 1) / workers
		var eg errgroup.Group
		for start := 0; start < rows; start += chunk {
			start, end := start, min(start+chunk, rows)
			eg.Go(func() error {
				g.sample(fn, t, start, end)
				return nil
			})
		}
		_ = eg.Wait()
	}

	g.index()
	g.computeNormals()
	g.computeBounds()
	p.builds.Add(1)
	return g
}

// Release recycles g. Nil is ignored; g must not be used afterwards.
func (p *Pool) Release(g *Geometry) {
	if g == nil {
		return
	}
	p.releases.Add(1)
	p.pool.Put(g)
}

func (p *Pool) Stats() Stats {
	return Stats{Builds: p.builds.Load(), Releases: p.releases.Load()}
}
