package index

import (
	"math"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// binning partitions a bounded region into numbered bins of object ids
type binning interface {
	name() string
	numBins() int
	bin(i int) []int32
	// measure is the bin's volume over the region's non-flat axes
	measure(i int) float64
	// locate returns the bin containing p, clamped into the region
	locate(p core.Vec3) int
	// walk visits the bins ray crosses between parameters t0 and t1,
	// nearest first, until yield returns false
	walk(ray core.Segment, t0, t1 float64, yield func(bin int) bool) bool
}

// grid is a uniform binning with n[axis] equal bins per axis
type grid struct {
	bounds core.AABB
	n      [3]int
	cell   [3]float64 // bin size per axis, 0 for a flat axis
	bins   [][]int32
}

func newGrid(bounds core.AABB, n [3]int, boxes []core.AABB, ids []int32) *grid {
	g := &grid{bounds: bounds}
	size := bounds.Size()
	for a := 0; a < 3; a++ {
		extent := size.Component(a)
		if extent <= 0 || n[a] < 1 {
			g.n[a] = 1
			continue
		}
		g.n[a] = n[a]
		g.cell[a] = extent / float64(n[a])
	}
	g.bins = make([][]int32, g.n[0]*g.n[1]*g.n[2])
	for _, id := range ids {
		box := boxes[id]
		lo := [3]int{g.coord(0, box.Min.X), g.coord(1, box.Min.Y), g.coord(2, box.Min.Z)}
		hi := [3]int{g.coord(0, box.Max.X), g.coord(1, box.Max.Y), g.coord(2, box.Max.Z)}
		for k := lo[2]; k <= hi[2]; k++ {
			for j := lo[1]; j <= hi[1]; j++ {
				for i := lo[0]; i <= hi[0]; i++ {
					b := g.index(i, j, k)
					g.bins[b] = append(g.bins[b], id)
				}
			}
		}
	}
	return g
}

func (g *grid) name() string      { return "uniform" }
func (g *grid) numBins() int      { return len(g.bins) }
func (g *grid) bin(i int) []int32 { return g.bins[i] }

func (g *grid) measure(int) float64 {
	m := 1.0
	for a := 0; a < 3; a++ {
		if g.cell[a] > 0 {
			m *= g.cell[a]
		}
	}
	return m
}

func (g *grid) index(i, j, k int) int {
	return (k*g.n[1]+j)*g.n[0] + i
}

// coord maps a coordinate to its bin along axis, clamped to [0, n-1]
func (g *grid) coord(axis int, v float64) int {
	if g.cell[axis] <= 0 {
		return 0
	}
	c := int(math.Floor((v - g.bounds.Min.Component(axis)) / g.cell[axis]))
	return max(0, min(g.n[axis]-1, c))
}

func (g *grid) locate(p core.Vec3) int {
	return g.index(g.coord(0, p.X), g.coord(1, p.Y), g.coord(2, p.Z))
}

// walk steps from bin to bin along the ray, always crossing the nearest
// bin boundary next
func (g *grid) walk(ray core.Segment, t0, t1 float64, yield func(bin int) bool) bool {
	if len(g.bins) == 0 {
		return true
	}
	start := ray.PointAt(t0)
	dir := ray.Direction()
	var cell, step [3]int
	var tMax, tDelta [3]float64
	for a := 0; a < 3; a++ {
		cell[a] = g.coord(a, start.Component(a))
		d := dir.Component(a)
		if g.cell[a] <= 0 || d == 0 {
			tMax[a] = math.Inf(1)
			continue
		}
		lo := g.bounds.Min.Component(a)
		var boundary float64
		if d > 0 {
			step[a] = 1
			boundary = lo + float64(cell[a]+1)*g.cell[a]
		} else {
			step[a] = -1
			boundary = lo + float64(cell[a])*g.cell[a]
		}
		tMax[a] = (boundary - ray.P1.Component(a)) / d
		tDelta[a] = g.cell[a] / math.Abs(d)
	}
	for {
		if !yield(g.index(cell[0], cell[1], cell[2])) {
			return false
		}
		a := 0
		if tMax[1] < tMax[a] {
			a = 1
		}
		if tMax[2] < tMax[a] {
			a = 2
		}
		if math.IsInf(tMax[a], 1) || tMax[a] > t1 {
			return true
		}
		cell[a] += step[a]
		if cell[a] < 0 || cell[a] >= g.n[a] {
			return true
		}
		tMax[a] += tDelta[a]
	}
}
