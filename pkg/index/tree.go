package index

import (
	"math"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// tree is an adaptive binning that halves a region along its longest axis
// until a bin holds few enough objects. Objects straddling a split are
// kept on both sides.
type tree struct {
	root   *treeNode
	leaves []*treeNode
	xyOnly bool
	flat   [3]bool
}

type treeNode struct {
	box      core.AABB
	axis     int
	split    float64
	children [2]*treeNode
	objects  []int32
	leaf     int // index into tree.leaves, -1 for inner nodes
}

type treeParams struct {
	leafThreshold int
	maxDepth      int
	xyOnly        bool
}

// depthForBins is the depth at which a full binary tree has targetBins leaves
func depthForBins(targetBins int) int {
	if targetBins <= 1 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(targetBins))))
}

func newTree(bounds core.AABB, boxes []core.AABB, ids []int32, params treeParams) *tree {
	t := &tree{xyOnly: params.xyOnly}
	size := bounds.Size()
	for a := 0; a < 3; a++ {
		t.flat[a] = size.Component(a) <= 0
	}
	if !bounds.IsValid() {
		return t
	}
	t.root = t.build(bounds, boxes, ids, 0, params)
	return t
}

func (t *tree) splitAxis(box core.AABB) int {
	size := box.Size()
	if t.xyOnly {
		if size.Y > size.X {
			return 1
		}
		return 0
	}
	return box.LongestAxis()
}

func (t *tree) build(box core.AABB, boxes []core.AABB, ids []int32, depth int, params treeParams) *treeNode {
	node := &treeNode{box: box, leaf: -1}
	if len(ids) <= params.leafThreshold || depth >= params.maxDepth {
		return t.makeLeaf(node, ids)
	}
	axis := t.splitAxis(box)
	lo, hi := box.Min.Component(axis), box.Max.Component(axis)
	if hi <= lo {
		return t.makeLeaf(node, ids)
	}
	split := (lo + hi) / 2

	var left, right []int32
	for _, id := range ids {
		if boxes[id].Min.Component(axis) <= split {
			left = append(left, id)
		}
		if boxes[id].Max.Component(axis) >= split {
			right = append(right, id)
		}
	}
	// every object spans the split; halving further cannot help
	if len(left) == len(ids) && len(right) == len(ids) {
		return t.makeLeaf(node, ids)
	}

	node.axis = axis
	node.split = split
	leftBox, rightBox := box, box
	leftBox.Max = leftBox.Max.WithComponent(axis, split)
	rightBox.Min = rightBox.Min.WithComponent(axis, split)
	node.children[0] = t.build(leftBox, boxes, left, depth+1, params)
	node.children[1] = t.build(rightBox, boxes, right, depth+1, params)
	return node
}

func (t *tree) makeLeaf(node *treeNode, ids []int32) *treeNode {
	node.objects = ids
	node.leaf = len(t.leaves)
	t.leaves = append(t.leaves, node)
	return node
}

func (t *tree) name() string {
	if t.xyOnly {
		return "adaptive-xy"
	}
	return "adaptive"
}

func (t *tree) numBins() int      { return len(t.leaves) }
func (t *tree) bin(i int) []int32 { return t.leaves[i].objects }

func (t *tree) measure(i int) float64 {
	size := t.leaves[i].box.Size()
	m := 1.0
	for a := 0; a < 3; a++ {
		if !t.flat[a] {
			m *= size.Component(a)
		}
	}
	return m
}

func (t *tree) locate(p core.Vec3) int {
	if t.root == nil {
		return -1
	}
	n := t.root
	for n.leaf < 0 {
		if p.Component(n.axis) <= n.split {
			n = n.children[0]
		} else {
			n = n.children[1]
		}
	}
	return n.leaf
}

func (t *tree) walk(ray core.Segment, t0, t1 float64, yield func(bin int) bool) bool {
	if t.root == nil {
		return true
	}
	return t.walkNode(t.root, ray, ray.Direction(), t0, t1, yield)
}

// walkNode visits the near child over [t0, tSplit] before the far child
// over [tSplit, t1]
func (t *tree) walkNode(n *treeNode, ray core.Segment, dir core.Vec3, t0, t1 float64, yield func(bin int) bool) bool {
	if n.leaf >= 0 {
		return yield(n.leaf)
	}
	o := ray.P1.Component(n.axis)
	d := dir.Component(n.axis)
	start := o + t0*d
	near, far := 0, 1
	if start > n.split || (start == n.split && d > 0) {
		near, far = 1, 0
	}
	if d == 0 {
		return t.walkNode(n.children[near], ray, dir, t0, t1, yield)
	}
	tSplit := (n.split - o) / d
	if tSplit <= t0 || tSplit > t1 {
		return t.walkNode(n.children[near], ray, dir, t0, t1, yield)
	}
	if !t.walkNode(n.children[near], ray, dir, t0, tSplit, yield) {
		return false
	}
	return t.walkNode(n.children[far], ray, dir, tSplit, t1, yield)
}
