package seating

import (
	"sort"

	"github.com/arnavshah/seating-api-go/pkg/models"
)

// unit is a together-group moved as one super-guest during search
type unit struct {
	members  []int // guest indices, ascending
	fixed    int   // table index, -1 when free
	internal int   // score between the members themselves
}

// problem is the arena the search works on. Confirmed guests and tables are
// addressed by index, and index order is id order.
type problem struct {
	guests   []models.Guest
	guestIdx map[string]int
	tables   []models.Table
	tableIdx map[string]int
	weight   []map[int]int // symmetric, zero strengths omitted

	units  []unit
	unitOf []int   // guest -> unit
	apart  [][]int // guest -> guests it must not share a table with

	constraints []models.Constraint
	ignored     int
}

func newProblem(r *roster, weights map[pair]int, constraints []models.Constraint) *problem {
	p := &problem{
		guestIdx:    make(map[string]int),
		tableIdx:    make(map[string]int),
		constraints: constraints,
	}

	for _, g := range r.guests {
		if g.Confirmed() {
			p.guests = append(p.guests, g)
		} else {
			p.ignored++
		}
	}
	sort.Slice(p.guests, func(i, j int) bool { return p.guests[i].ID < p.guests[j].ID })
	for i, g := range p.guests {
		p.guestIdx[g.ID] = i
	}

	for _, t := range r.tables {
		p.tables = append(p.tables, t)
	}
	sort.Slice(p.tables, func(i, j int) bool { return p.tables[i].ID < p.tables[j].ID })
	for i, t := range p.tables {
		p.tableIdx[t.ID] = i
	}

	p.weight = make([]map[int]int, len(p.guests))
	for i := range p.weight {
		p.weight[i] = make(map[int]int)
	}
	for k, w := range weights {
		a, b := p.guestIdx[k.a], p.guestIdx[k.b]
		p.weight[a][b] = w
		p.weight[b][a] = w
	}

	d := newDisjointSet()
	for _, c := range constraints {
		if c.Kind == models.MustSitTogether {
			d.union(c.GuestA, c.GuestB)
		}
	}
	byRoot := make(map[string]int)
	p.unitOf = make([]int, len(p.guests))
	for i, g := range p.guests {
		root := d.find(g.ID)
		u, ok := byRoot[root]
		if !ok {
			u = len(p.units)
			byRoot[root] = u
			p.units = append(p.units, unit{fixed: -1})
		}
		p.units[u].members = append(p.units[u].members, i)
		p.unitOf[i] = u
	}

	for u := range p.units {
		ms := p.units[u].members
		for i, g := range ms {
			for _, h := range ms[i+1:] {
				p.units[u].internal += p.weight[g][h]
			}
		}
	}

	p.apart = make([][]int, len(p.guests))
	for _, c := range constraints {
		switch c.Kind {
		case models.MustNotSitTogether:
			a, b := p.guestIdx[c.GuestA], p.guestIdx[c.GuestB]
			p.apart[a] = append(p.apart[a], b)
			p.apart[b] = append(p.apart[b], a)
		case models.FixedTable:
			p.units[p.unitOf[p.guestIdx[c.GuestA]]].fixed = p.tableIdx[c.TableID]
		}
	}

	return p
}

func (p *problem) size(u int) int {
	return len(p.units[u].members)
}

func (p *problem) capacity(t int) int {
	return p.tables[t].Capacity
}

func (p *problem) totalCapacity() int {
	total := 0
	for _, t := range p.tables {
		total += t.Capacity
	}
	return total
}

// existingTable returns the table every member of u currently sits at, or -1
// when the members are unseated, split, or point at a table that no longer exists.
func (p *problem) existingTable(u int) int {
	table := ""
	for i, g := range p.units[u].members {
		id := p.guests[g].TableID
		if id == "" || (i > 0 && id != table) {
			return -1
		}
		table = id
	}
	t, ok := p.tableIdx[table]
	if !ok {
		return -1
	}
	return t
}
