package seating

import (
	"fmt"
	"sort"

	"github.com/arnavshah/seating-api-go/pkg/models"
)

// Conflict kinds reported by the validator
const (
	ConflictTogetherApart     = "together-and-apart"
	ConflictFixedMultiple     = "fixed-multiple-tables"
	ConflictApartSameTable    = "apart-fixed-same-table"
	ConflictGroupTooLarge     = "group-too-large"
	ConflictFixedOverCapacity = "fixed-over-capacity"
)

// Validation is the outcome of checking a constraint set. Constraints holds the
// active, deduplicated set; Inactive the constraints that mention a guest who
// is not confirmed.
type Validation struct {
	Constraints []models.Constraint
	Inactive    []models.Constraint
	Conflicts   []models.ConstraintConflict
	Dropped     []models.ConstraintConflict

	r *roster
}

// Err returns a *ConflictError when contradictions remain.
func (v *Validation) Err() error {
	if len(v.Conflicts) == 0 {
		return nil
	}
	return &ConflictError{Conflicts: v.Conflicts}
}

// ValidateConstraints checks the constraint set against the guests and tables.
// Unknown references are returned as an *InputError; contradictions are
// reported in the Validation and left to the caller to resolve.
func ValidateConstraints(guests []models.Guest, tables []models.Table, constraints []models.Constraint) (*Validation, error) {
	r, issues := newRoster(guests, tables)
	v := r.validate(constraints, issues)
	if err := issues.orNil(); err != nil {
		return nil, err
	}
	return v, nil
}

func constraintKey(c models.Constraint) string {
	if c.Kind == models.FixedTable {
		return string(c.Kind) + "|" + c.GuestA + "|" + c.TableID
	}
	p := newPair(c.GuestA, c.GuestB)
	return string(c.Kind) + "|" + p.a + "|" + p.b
}

func describe(c models.Constraint) string {
	switch c.Kind {
	case models.FixedTable:
		return fmt.Sprintf("fixed_table(%s, %s)", c.GuestA, c.TableID)
	default:
		return fmt.Sprintf("%s(%s, %s)", c.Kind, c.GuestA, c.GuestB)
	}
}

func (r *roster) validate(constraints []models.Constraint, issues *InputError) *Validation {
	v := &Validation{r: r}
	seen := make(map[string]bool)

	for i, c := range constraints {
		where := fmt.Sprintf("constraint #%d", i)
		if c.ID != "" {
			where = fmt.Sprintf("constraint %q", c.ID)
		}

		ga, okA := r.guests[c.GuestA]
		if !okA {
			issues.add("%s references unknown guest %q", where, c.GuestA)
		}
		active := okA && ga.Confirmed()

		switch c.Kind {
		case models.MustSitTogether, models.MustNotSitTogether:
			gb, okB := r.guests[c.GuestB]
			if !okB {
				issues.add("%s references unknown guest %q", where, c.GuestB)
				continue
			}
			if c.GuestA == c.GuestB {
				issues.add("%s pairs guest %q with themself", where, c.GuestA)
				continue
			}
			active = active && gb.Confirmed()
		case models.FixedTable:
			if _, ok := r.tables[c.TableID]; !ok {
				issues.add("%s references unknown table %q", where, c.TableID)
				continue
			}
		default:
			issues.add("%s has unknown kind %q", where, c.Kind)
			continue
		}
		if !okA {
			continue
		}
		if !active {
			v.Inactive = append(v.Inactive, c)
			continue
		}

		key := constraintKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		v.Constraints = append(v.Constraints, c)
	}

	if len(issues.Issues) == 0 {
		v.Conflicts = toPublic(v.Constraints, r.findConflicts(v.Constraints))
	}
	return v
}

// AutoDrop removes conflicting constraints until the set is consistent. For
// each remaining conflict the constraint given last in the input is dropped,
// then the set is checked again.
func (v *Validation) AutoDrop() {
	for {
		found := v.r.findConflicts(v.Constraints)
		if len(found) == 0 {
			v.Conflicts = nil
			return
		}
		first := found[0]
		victim := first.idx[0]
		for _, i := range first.idx {
			if i > victim {
				victim = i
			}
		}
		v.Dropped = append(v.Dropped, models.ConstraintConflict{
			Kind:        first.kind,
			Message:     first.message,
			Constraints: []models.Constraint{v.Constraints[victim]},
		})
		v.Constraints = append(v.Constraints[:victim:victim], v.Constraints[victim+1:]...)
	}
}

type conflict struct {
	kind    string
	message string
	idx     []int // positions in the constraint slice
}

func toPublic(cs []models.Constraint, found []conflict) []models.ConstraintConflict {
	if len(found) == 0 {
		return nil
	}
	out := make([]models.ConstraintConflict, 0, len(found))
	for _, f := range found {
		cc := models.ConstraintConflict{Kind: f.kind, Message: f.message}
		for _, i := range f.idx {
			cc.Constraints = append(cc.Constraints, cs[i])
		}
		out = append(out, cc)
	}
	return out
}

// group is a together-component: guests linked by must_sit_together
type group struct {
	root     string
	members  []string
	together []int // must_sit_together constraint positions
	fixed    []int // fixed_table constraint positions on any member
}

func (g *group) fixedTables(cs []models.Constraint) []string {
	set := make(map[string]bool)
	var out []string
	for _, i := range g.fixed {
		t := cs[i].TableID
		if !set[t] {
			set[t] = true
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

func (r *roster) groups(cs []models.Constraint) (map[string]*group, func(string) string) {
	d := newDisjointSet()
	for _, c := range cs {
		if c.Kind == models.MustSitTogether {
			d.union(c.GuestA, c.GuestB)
		}
	}

	groups := make(map[string]*group)
	get := func(id string) *group {
		root := d.find(id)
		g, ok := groups[root]
		if !ok {
			g = &group{root: root}
			groups[root] = g
		}
		return g
	}
	for _, id := range d.elements() {
		g := get(id)
		g.members = append(g.members, id)
	}
	for i, c := range cs {
		switch c.Kind {
		case models.MustSitTogether:
			g := get(c.GuestA)
			g.together = append(g.together, i)
		case models.FixedTable:
			g := get(c.GuestA)
			if len(g.members) == 0 {
				g.members = []string{c.GuestA}
			}
			g.fixed = append(g.fixed, i)
		}
	}
	return groups, d.find
}

func (r *roster) findConflicts(cs []models.Constraint) []conflict {
	groups, find := r.groups(cs)

	roots := make([]string, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Strings(roots)

	maxCap := 0
	for _, t := range r.tables {
		if t.Capacity > maxCap {
			maxCap = t.Capacity
		}
	}

	var out []conflict
	broken := make(map[string]bool)

	for _, root := range roots {
		g := groups[root]
		tables := g.fixedTables(cs)
		if len(tables) > 1 {
			broken[root] = true
			idx := append(append([]int{}, g.fixed...), g.together...)
			sort.Ints(idx)
			out = append(out, conflict{
				kind:    ConflictFixedMultiple,
				message: fmt.Sprintf("guests seated together with %s are fixed to tables %v", root, tables),
				idx:     idx,
			})
			continue
		}
		limit, where := maxCap, "any table"
		if len(tables) == 1 {
			limit, where = r.tables[tables[0]].Capacity, "table "+tables[0]
		}
		if len(g.members) > limit {
			broken[root] = true
			idx := append(append([]int{}, g.together...), g.fixed...)
			sort.Ints(idx)
			out = append(out, conflict{
				kind:    ConflictGroupTooLarge,
				message: fmt.Sprintf("%d guests must sit together with %s but %s seats %d", len(g.members), root, where, limit),
				idx:     idx,
			})
		}
	}

	for i, c := range cs {
		if c.Kind != models.MustNotSitTogether {
			continue
		}
		ra, rb := find(c.GuestA), find(c.GuestB)
		if ra == rb {
			idx := append([]int{i}, groups[ra].together...)
			sort.Ints(idx)
			out = append(out, conflict{
				kind:    ConflictTogetherApart,
				message: fmt.Sprintf("%s contradicts must_sit_together links between them", describe(c)),
				idx:     idx,
			})
			continue
		}
		ga, gb := groups[ra], groups[rb]
		if ga == nil || gb == nil || broken[ra] || broken[rb] {
			continue
		}
		ta, tb := ga.fixedTables(cs), gb.fixedTables(cs)
		if len(ta) == 1 && len(tb) == 1 && ta[0] == tb[0] {
			idx := append(append([]int{i}, ga.fixed...), gb.fixed...)
			sort.Ints(idx)
			out = append(out, conflict{
				kind:    ConflictApartSameTable,
				message: fmt.Sprintf("%s but both are fixed to table %s", describe(c), ta[0]),
				idx:     idx,
			})
		}
	}

	load := make(map[string]int)
	byTable := make(map[string][]int)
	for _, root := range roots {
		g := groups[root]
		tables := g.fixedTables(cs)
		if broken[root] || len(tables) != 1 {
			continue
		}
		load[tables[0]] += len(g.members)
		byTable[tables[0]] = append(byTable[tables[0]], g.fixed...)
	}
	tableIDs := make([]string, 0, len(load))
	for id := range load {
		tableIDs = append(tableIDs, id)
	}
	sort.Strings(tableIDs)
	for _, id := range tableIDs {
		if capacity := r.tables[id].Capacity; load[id] > capacity {
			idx := byTable[id]
			sort.Ints(idx)
			out = append(out, conflict{
				kind:    ConflictFixedOverCapacity,
				message: fmt.Sprintf("%d guests are fixed to table %s which seats %d", load[id], id, capacity),
				idx:     idx,
			})
		}
	}

	return out
}
