package geometry

// Walk visits every object in the trees rooted at roots, parents before children
func Walk(roots []Object, visit func(Object)) {
	for _, o := range roots {
		visit(o)
		if c, ok := o.(*Composite); ok {
			Walk(c.children, visit)
		}
	}
}

// LeafObjects collects the raytraceable objects that are not composites
func LeafObjects(roots []Object) []Raytraceable {
	var leaves []Raytraceable
	Walk(roots, func(o Object) {
		if _, ok := o.(*Composite); ok {
			return
		}
		if rt, ok := o.(Raytraceable); ok {
			leaves = append(leaves, rt)
		}
	})
	return leaves
}
