package seating

import "sort"

// disjointSet is a union-find over string ids. The representative of a set is
// always its smallest id, so roots are stable across runs.
type disjointSet struct {
	parent map[string]string
}

func newDisjointSet() *disjointSet {
	return &disjointSet{parent: make(map[string]string)}
}

// find returns the representative of id. Ids never passed to union are their
// own representative.
func (d *disjointSet) find(id string) string {
	p, ok := d.parent[id]
	if !ok || p == id {
		return id
	}
	root := d.find(p)
	d.parent[id] = root
	return root
}

func (d *disjointSet) union(a, b string) {
	if _, ok := d.parent[a]; !ok {
		d.parent[a] = a
	}
	if _, ok := d.parent[b]; !ok {
		d.parent[b] = b
	}
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return
	}
	if rb < ra {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
}

// elements returns every id passed to union, sorted.
func (d *disjointSet) elements() []string {
	out := make([]string, 0, len(d.parent))
	for id := range d.parent {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
