package seating

import (
	"github.com/arnavshah/seating-api-go/pkg/models"
)

// roster indexes the caller's guests and tables by id
type roster struct {
	guests map[string]models.Guest
	tables map[string]models.Table
}

func validStatus(s models.RSVPStatus) bool {
	switch s {
	case "", models.RSVPConfirmed, models.RSVPPending, models.RSVPDeclined:
		return true
	}
	return false
}

func validRelationshipType(t models.RelationshipType) bool {
	switch t {
	case "", models.RelationshipPartner, models.RelationshipFamily, models.RelationshipFriend,
		models.RelationshipColleague, models.RelationshipAvoid:
		return true
	}
	return false
}

// newRoster checks ids, statuses and capacities. An empty RSVP status counts as pending.
func newRoster(guests []models.Guest, tables []models.Table) (*roster, *InputError) {
	issues := &InputError{}
	r := &roster{
		guests: make(map[string]models.Guest, len(guests)),
		tables: make(map[string]models.Table, len(tables)),
	}

	for i, g := range guests {
		if g.ID == "" {
			issues.add("guest #%d has no id", i)
			continue
		}
		if _, dup := r.guests[g.ID]; dup {
			issues.add("duplicate guest id %q", g.ID)
			continue
		}
		if !validStatus(g.RSVPStatus) {
			issues.add("guest %q has unknown rsvp status %q", g.ID, g.RSVPStatus)
		}
		r.guests[g.ID] = g
	}

	for i, t := range tables {
		if t.ID == "" {
			issues.add("table #%d has no id", i)
			continue
		}
		if _, dup := r.tables[t.ID]; dup {
			issues.add("duplicate table id %q", t.ID)
			continue
		}
		if t.Capacity < 1 {
			issues.add("table %q has capacity %d, must be at least 1", t.ID, t.Capacity)
		}
		r.tables[t.ID] = t
	}

	return r, issues
}

type pair struct {
	a, b string // a < b
}

func newPair(x, y string) pair {
	if x > y {
		x, y = y, x
	}
	return pair{a: x, b: y}
}

// weights normalises relationships into one undirected strength per pair.
// Entries nested on guests are read first (in guest order), then the
// top-level list; a later entry for the same pair replaces an earlier one.
// Pairs touching a guest that is not confirmed are dropped since they can
// never be seated together.
func (r *roster) weights(guests []models.Guest, relationships []models.Relationship) (map[pair]int, *InputError) {
	issues := &InputError{}
	out := make(map[pair]int)

	apply := func(rel models.Relationship, where string) {
		if rel.OtherGuestID == "" || rel.GuestID == "" {
			issues.add("%s: relationship needs two guest ids", where)
			return
		}
		ga, okA := r.guests[rel.GuestID]
		gb, okB := r.guests[rel.OtherGuestID]
		if !okA {
			issues.add("%s: relationship references unknown guest %q", where, rel.GuestID)
		}
		if !okB {
			issues.add("%s: relationship references unknown guest %q", where, rel.OtherGuestID)
		}
		if !okA || !okB {
			return
		}
		if rel.GuestID == rel.OtherGuestID {
			issues.add("%s: guest %q cannot have a relationship with themself", where, rel.GuestID)
			return
		}
		if rel.Strength < models.MinStrength || rel.Strength > models.MaxStrength {
			issues.add("%s: strength %d between %q and %q is outside [%d, %d]", where,
				rel.Strength, rel.GuestID, rel.OtherGuestID, models.MinStrength, models.MaxStrength)
			return
		}
		if !validRelationshipType(rel.Type) {
			issues.add("%s: unknown relationship type %q", where, rel.Type)
			return
		}
		if !ga.Confirmed() || !gb.Confirmed() {
			return
		}
		key := newPair(rel.GuestID, rel.OtherGuestID)
		if rel.Strength == 0 {
			delete(out, key)
			return
		}
		out[key] = rel.Strength
	}

	for _, g := range guests {
		for _, rel := range g.Relationships {
			if rel.GuestID == "" {
				rel.GuestID = g.ID
			} else if rel.GuestID != g.ID {
				issues.add("guest %q: nested relationship belongs to %q", g.ID, rel.GuestID)
				continue
			}
			apply(rel, "guest "+g.ID)
		}
	}
	for _, rel := range relationships {
		apply(rel, "relationships")
	}

	return out, issues
}
