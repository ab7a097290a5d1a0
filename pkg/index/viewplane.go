package index

import (
	"log/slog"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-scanline-raytracer/pkg/camera"
	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
)

// ViewPlaneOptions tune view-plane index construction
type ViewPlaneOptions struct {
	XBins, YBins   int // uniform grid resolution
	TargetLeafBins int
	LeafThreshold  int
	Logger         *slog.Logger
}

// ViewPlaneOptionsFor sizes the uniform grid to roughly one bin per 8
// samples across, capped at 500 bins per axis
func ViewPlaneOptionsFor(samplesX, samplesY int) ViewPlaneOptions {
	bins := func(samples int) int {
		return max(1, min(500, int(math.Ceil(float64(samples)/8))))
	}
	return ViewPlaneOptions{
		XBins:          bins(samplesX),
		YBins:          bins(samplesY),
		TargetLeafBins: 125000,
		LeafThreshold:  8,
	}
}

// Candidate is an object listed in a view-plane bin with the depth of the
// nearest point of its camera box
type Candidate struct {
	Object    geometry.Raytraceable
	NearDepth float64
}

// ViewPlaneIndex bins objects by their projection onto the camera's view
// plane. The eye ray through a view-plane point can only hit the
// candidates of that point's bin.
type ViewPlaneIndex struct {
	rect  core.Rect2D
	bins  binning
	lists [][]Candidate
	stats BinStatistics
}

type projected struct {
	boxes []core.AABB // flat boxes on the z=0 plane
	ids   []int32
	depth []float64
}

// projectOntoViewPlane maps each object to the view-plane rectangle its
// camera box projects to, clipped to the view plane. Objects projecting
// outside the view plane are left out.
func projectOntoViewPlane(objects []geometry.Raytraceable, cam *camera.Camera) projected {
	vv := cam.ViewVolume()
	vpr := vv.ViewPlaneRect()
	vpz := vv.ViewPlaneZ()
	p := projected{boxes: make([]core.AABB, len(objects)), depth: make([]float64, len(objects))}
	for i, o := range objects {
		rect := vpr
		if o.IsBounded() {
			box := o.BoundingBox(geometry.FrameCamera, cam)
			p.depth[i] = max(0, -box.Max.Z)
			rect = projectBox(box, vpz, vpr)
		}
		rect = rect.Intersect(vpr)
		if rect.IsEmpty() {
			continue
		}
		p.boxes[i] = core.NewAABB(core.NewVec3(rect.Min.X, rect.Min.Y, 0), core.NewVec3(rect.Max.X, rect.Max.Y, 0))
		p.ids = append(p.ids, int32(i))
	}
	return p
}

// projectBox projects the corners of a camera-space box through the eye
// onto the plane z=vpz. A box reaching the eye plane may cover any part of
// the view plane.
func projectBox(box core.AABB, vpz float64, vpr core.Rect2D) core.Rect2D {
	if box.Min.Z >= 0 {
		return core.EmptyRect2D()
	}
	if box.Max.Z >= 0 {
		return vpr
	}
	rect := core.EmptyRect2D()
	for _, v := range box.Vertices() {
		s := vpz / v.Z
		rect = rect.ExpandToContain(core.NewVec2(v.X*s, v.Y*s))
	}
	return rect
}

// NewViewPlaneIndex builds a uniform and an adaptive XY view-plane index
// and keeps the cheaper one
func NewViewPlaneIndex(objects []geometry.Raytraceable, cam *camera.Camera, opts ViewPlaneOptions) *ViewPlaneIndex {
	p := projectOntoViewPlane(objects, cam)
	bounds := viewPlaneBounds(cam)

	var uniform, adaptive binning
	var g errgroup.Group
	g.Go(func() error {
		uniform = newGrid(bounds, [3]int{opts.XBins, opts.YBins, 1}, p.boxes, p.ids)
		return nil
	})
	g.Go(func() error {
		adaptive = newTree(bounds, p.boxes, p.ids, treeParams{
			leafThreshold: opts.LeafThreshold,
			maxDepth:      depthForBins(opts.TargetLeafBins),
			xyOnly:        true,
		})
		return nil
	})
	_ = g.Wait()

	us, as := computeStatistics(uniform, 0), computeStatistics(adaptive, 0)
	chosen, stats, rejected := uniform, us, as
	if as.cheaperThan(us) {
		chosen, stats, rejected = adaptive, as, us
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("view plane index built",
		"objects", len(objects),
		"projected", len(p.ids),
		"chosen", stats.String(),
		"rejected", rejected.String())
	return newViewPlaneIndex(objects, cam, p, chosen, stats)
}

// NewUniformViewPlaneIndex builds only the uniform view-plane grid
func NewUniformViewPlaneIndex(objects []geometry.Raytraceable, cam *camera.Camera, opts ViewPlaneOptions) *ViewPlaneIndex {
	p := projectOntoViewPlane(objects, cam)
	g := newGrid(viewPlaneBounds(cam), [3]int{opts.XBins, opts.YBins, 1}, p.boxes, p.ids)
	return newViewPlaneIndex(objects, cam, p, g, computeStatistics(g, 0))
}

// NewAdaptiveViewPlaneIndex builds only the adaptive view-plane tree
func NewAdaptiveViewPlaneIndex(objects []geometry.Raytraceable, cam *camera.Camera, opts ViewPlaneOptions) *ViewPlaneIndex {
	p := projectOntoViewPlane(objects, cam)
	t := newTree(viewPlaneBounds(cam), p.boxes, p.ids, treeParams{
		leafThreshold: opts.LeafThreshold,
		maxDepth:      depthForBins(opts.TargetLeafBins),
		xyOnly:        true,
	})
	return newViewPlaneIndex(objects, cam, p, t, computeStatistics(t, 0))
}

func viewPlaneBounds(cam *camera.Camera) core.AABB {
	vpr := cam.ViewVolume().ViewPlaneRect()
	return core.NewAABB(core.NewVec3(vpr.Min.X, vpr.Min.Y, 0), core.NewVec3(vpr.Max.X, vpr.Max.Y, 0))
}

func newViewPlaneIndex(objects []geometry.Raytraceable, cam *camera.Camera, p projected, b binning, stats BinStatistics) *ViewPlaneIndex {
	idx := &ViewPlaneIndex{
		rect:  cam.ViewVolume().ViewPlaneRect(),
		bins:  b,
		lists: make([][]Candidate, b.numBins()),
		stats: stats,
	}
	for i := range idx.lists {
		ids := b.bin(i)
		if len(ids) == 0 {
			continue
		}
		list := make([]Candidate, len(ids))
		for j, id := range ids {
			list[j] = Candidate{Object: objects[id], NearDepth: p.depth[id]}
		}
		slices.SortStableFunc(list, func(a, b Candidate) int {
			switch {
			case a.NearDepth < b.NearDepth:
				return -1
			case a.NearDepth > b.NearDepth:
				return 1
			}
			return 0
		})
		idx.lists[i] = list
	}
	return idx
}

// Objects returns the candidates for the view-plane point (x, y) by
// increasing near depth, or nil outside the view plane
func (idx *ViewPlaneIndex) Objects(x, y float64) []Candidate {
	if !idx.rect.Contains(core.NewVec2(x, y)) {
		return nil
	}
	b := idx.bins.locate(core.NewVec3(x, y, 0))
	if b < 0 {
		return nil
	}
	return idx.lists[b]
}

// Statistics describes the chosen binning
func (idx *ViewPlaneIndex) Statistics() BinStatistics { return idx.stats }

// Strategy names the chosen binning
func (idx *ViewPlaneIndex) Strategy() string { return idx.bins.name() }
