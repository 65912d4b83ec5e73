package seating

import (
	"github.com/arnavshah/seating-api-go/pkg/models"
)

// reason explains why unit u is unseated: a table with enough free seats exists
// but every such table holds someone a member must be kept apart from. A unit
// with a fixed table only considers that table.
func (s *state) reason(u int) models.UnassignedReason {
	fixed := s.p.units[u].fixed
	for t := range s.p.tables {
		if fixed >= 0 && t != fixed {
			continue
		}
		if s.fits(u, t, -1) && !s.allowed(u, t, -1) {
			return models.ReasonConstraintDeadlock
		}
	}
	return models.ReasonNoCapacity
}

// seats numbers the guests at each table. With preserve, a guest keeps a seat
// index that is still valid at the same table; everyone else takes the lowest
// free seat, together-groups consecutively.
func (s *state) seats(preserve bool) []int {
	seat := make([]int, len(s.p.guests))
	for i := range seat {
		seat[i] = -1
	}
	for t, units := range s.seated {
		table := s.p.tables[t]
		taken := make([]bool, table.Capacity)
		if preserve {
			for _, u := range units {
				for _, g := range s.p.units[u].members {
					guest := s.p.guests[g]
					if guest.TableID != table.ID || guest.SeatIndex == nil {
						continue
					}
					if i := *guest.SeatIndex; i >= 0 && i < table.Capacity && !taken[i] {
						taken[i] = true
						seat[g] = i
					}
				}
			}
		}
		next := 0
		for _, u := range units {
			for _, g := range s.p.units[u].members {
				if seat[g] >= 0 {
					continue
				}
				for taken[next] {
					next++
				}
				taken[next] = true
				seat[g] = next
			}
		}
	}
	return seat
}

// result packages the final state. Every confirmed guest appears exactly once.
func (s *state) result(preserve bool, v *Validation) *models.OptimizeResult {
	seat := s.seats(preserve)
	reasons := make(map[int]models.UnassignedReason)

	res := &models.OptimizeResult{}
	d := &res.Diagnostics
	res.Assignment.Placements = make([]models.GuestPlacement, 0, len(s.p.guests))

	for g, guest := range s.p.guests {
		u := s.p.unitOf[g]
		pl := models.GuestPlacement{
			GuestID:   guest.ID,
			GuestName: guest.Name,
			SeatIndex: -1,
		}
		if t := s.tableOf[u]; t >= 0 {
			pl.Assigned = true
			pl.TableID = s.p.tables[t].ID
			pl.SeatIndex = seat[g]
			d.Seated++
		} else {
			rsn, ok := reasons[u]
			if !ok {
				rsn = s.reason(u)
				reasons[u] = rsn
			}
			pl.Reason = rsn
			d.Unassigned++
		}
		res.Assignment.Placements = append(res.Assignment.Placements, pl)
	}

	for t, table := range s.p.tables {
		d.Tables = append(d.Tables, models.TableSummary{
			TableID:  table.ID,
			Seated:   s.load[t],
			Capacity: table.Capacity,
			Score:    s.tableScore(t),
		})
	}

	for _, c := range s.p.constraints {
		if c.Kind == models.MustNotSitTogether {
			continue
		}
		u := s.p.unitOf[s.p.guestIdx[c.GuestA]]
		if s.tableOf[u] < 0 {
			d.UnsatisfiedConstraints = append(d.UnsatisfiedConstraints, models.ConstraintIssue{
				Constraint: c,
				Reason:     reasons[u],
			})
		}
	}

	if short := len(s.p.guests) - s.p.totalCapacity(); short > 0 {
		d.CapacityShortfall = short
	}
	d.Score = s.score
	d.IgnoredGuests = s.p.ignored
	d.InactiveConstraints = len(v.Inactive)
	d.DroppedConstraints = v.Dropped

	return res
}
