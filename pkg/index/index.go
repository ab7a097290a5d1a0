// Package index partitions the raytraceable objects of a camera-space scene
// snapshot into bins so that a ray only meets the objects along its path.
package index

import (
	"iter"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-scanline-raytracer/pkg/camera"
	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
)

// Options tune index construction
type Options struct {
	GridBins       [3]int // bins per axis of the uniform grid
	TargetLeafBins int    // leaf budget of the adaptive tree
	LeafThreshold  int    // adaptive leaves hold at most this many objects when possible
	Logger         *slog.Logger
}

// DefaultOptions returns the standard 50x50x50 grid and 125000-bin tree
func DefaultOptions() Options {
	return Options{
		GridBins:       [3]int{50, 50, 50},
		TargetLeafBins: 125000,
		LeafThreshold:  8,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Index answers ray queries over a fixed snapshot of objects. It is valid
// only while the scene and camera stay unchanged and is safe for concurrent
// queries, each with its own Query.
type Index struct {
	cam       *camera.Camera
	objects   []geometry.Raytraceable
	unbounded []int32
	bounds    core.AABB
	bins      binning
	stats     BinStatistics
}

type snapshot struct {
	objects   []geometry.Raytraceable
	boxes     []core.AABB
	bounded   []int32
	unbounded []int32
	bounds    core.AABB
}

func takeSnapshot(objects []geometry.Raytraceable, cam *camera.Camera) snapshot {
	s := snapshot{objects: objects, boxes: make([]core.AABB, len(objects)), bounds: core.EmptyAABB()}
	for i, o := range objects {
		if !o.IsBounded() {
			s.unbounded = append(s.unbounded, int32(i))
			continue
		}
		s.boxes[i] = o.BoundingBox(geometry.FrameCamera, cam)
		s.bounded = append(s.bounded, int32(i))
		s.bounds = s.bounds.Union(s.boxes[i])
	}
	return s
}

// New builds a uniform grid and an adaptive tree over the objects' camera
// boxes and keeps whichever has the cheaper bin statistics
func New(objects []geometry.Raytraceable, cam *camera.Camera, opts Options) *Index {
	s := takeSnapshot(objects, cam)

	var uniform, adaptive *Index
	var g errgroup.Group
	g.Go(func() error {
		uniform = s.index(cam, newGrid(s.bounds, opts.GridBins, s.boxes, s.bounded))
		return nil
	})
	g.Go(func() error {
		adaptive = s.index(cam, newTree(s.bounds, s.boxes, s.bounded, treeParams{
			leafThreshold: opts.LeafThreshold,
			maxDepth:      depthForBins(opts.TargetLeafBins),
		}))
		return nil
	})
	_ = g.Wait()

	chosen, other := uniform, adaptive
	if adaptive.stats.cheaperThan(uniform.stats) {
		chosen, other = adaptive, uniform
	}
	opts.logger().Debug("spatial index built",
		"objects", len(objects),
		"chosen", chosen.stats.String(),
		"rejected", other.stats.String())
	return chosen
}

// NewUniform builds only the uniform grid
func NewUniform(objects []geometry.Raytraceable, cam *camera.Camera, opts Options) *Index {
	s := takeSnapshot(objects, cam)
	return s.index(cam, newGrid(s.bounds, opts.GridBins, s.boxes, s.bounded))
}

// NewAdaptive builds only the adaptive tree
func NewAdaptive(objects []geometry.Raytraceable, cam *camera.Camera, opts Options) *Index {
	s := takeSnapshot(objects, cam)
	return s.index(cam, newTree(s.bounds, s.boxes, s.bounded, treeParams{
		leafThreshold: opts.LeafThreshold,
		maxDepth:      depthForBins(opts.TargetLeafBins),
	}))
}

func (s snapshot) index(cam *camera.Camera, b binning) *Index {
	return &Index{
		cam:       cam,
		objects:   s.objects,
		unbounded: s.unbounded,
		bounds:    s.bounds,
		bins:      b,
		stats:     computeStatistics(b, len(s.unbounded)),
	}
}

// Statistics describes the chosen binning
func (idx *Index) Statistics() BinStatistics { return idx.stats }

// Strategy names the chosen binning
func (idx *Index) Strategy() string { return idx.bins.name() }

// Bounds is the union of the indexed objects' camera boxes
func (idx *Index) Bounds() core.AABB { return idx.bounds }

// Len is the number of indexed objects
func (idx *Index) Len() int { return len(idx.objects) }

// Objects yields each object whose bins ray crosses, once, in roughly
// front-to-back order. Unbounded objects come first.
func (idx *Index) Objects(ray core.Segment, q *Query) iter.Seq[geometry.Raytraceable] {
	return func(yield func(geometry.Raytraceable) bool) {
		q.begin(len(idx.objects))
		for _, id := range idx.unbounded {
			if !yield(idx.objects[id]) {
				return
			}
		}
		t0, t1, ok := idx.bounds.Clip(ray)
		if !ok {
			return
		}
		idx.bins.walk(ray, t0, t1, func(b int) bool {
			for _, id := range idx.bins.bin(b) {
				if q.visit(id) && !yield(idx.objects[id]) {
					return false
				}
			}
			return true
		})
	}
}

// LightRayIntersections yields every unshaded hit of ray, in no particular order
func (idx *Index) LightRayIntersections(ray core.Segment, q *Query) iter.Seq[geometry.SurfacePoint] {
	return func(yield func(geometry.SurfacePoint) bool) {
		for obj := range idx.Objects(ray, q) {
			q.hits = obj.IntersectLightRay(ray, idx.cam, q.hits[:0])
			for _, h := range q.hits {
				if !yield(h) {
					return
				}
			}
		}
	}
}

// EyeRayIntersections yields every hit of ray, shaded by lighting when non-nil
func (idx *Index) EyeRayIntersections(ray core.Segment, lighting geometry.Lighting, q *Query) iter.Seq[geometry.SurfacePoint] {
	return func(yield func(geometry.SurfacePoint) bool) {
		for obj := range idx.Objects(ray, q) {
			q.hits = obj.IntersectEyeRay(ray, idx.cam, lighting, q.hits[:0])
			for _, h := range q.hits {
				if !yield(h) {
					return
				}
			}
		}
	}
}

// Query holds the reusable buffers of one querying goroutine. A Query must
// not be used by two iterations at once.
type Query struct {
	stamps []uint32
	epoch  uint32
	hits   []geometry.SurfacePoint
}

// NewQuery creates an empty query buffer
func NewQuery() *Query {
	return &Query{}
}

// begin starts a new visited set for n objects
func (q *Query) begin(n int) {
	if len(q.stamps) < n {
		q.stamps = make([]uint32, n)
		q.epoch = 0
	}
	q.epoch++
	if q.epoch == 0 {
		clear(q.stamps)
		q.epoch = 1
	}
}

// visit marks id and reports whether it was unvisited
func (q *Query) visit(id int32) bool {
	if q.stamps[id] == q.epoch {
		return false
	}
	q.stamps[id] = q.epoch
	return true
}
