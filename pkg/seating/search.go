package seating

import (
	"context"
	"sort"
	"time"

	"github.com/arnavshah/seating-api-go/pkg/models"
)

// seed builds the starting assignment:
//  1. units with a fixed table go to it
//  2. with preserve, units keep the table their members already share
//  3. together-groups, largest first, go where their attraction is highest
//  4. remaining guests are placed best-fit in guest id order
//
// In lock mode steps 3 and 4 pick the first table that fits instead of scoring.
func (s *state) seed(preserve, lock bool) {
	for u, un := range s.p.units {
		if un.fixed >= 0 && s.fits(u, un.fixed, -1) && s.allowed(u, un.fixed, -1) {
			s.place(u, un.fixed)
		}
	}

	if preserve {
		for u, un := range s.p.units {
			if un.fixed >= 0 || s.tableOf[u] >= 0 {
				continue
			}
			if t := s.p.existingTable(u); t >= 0 && s.fits(u, t, -1) && s.allowed(u, t, -1) {
				s.place(u, t)
			}
		}
	}

	var groups []int
	for u := range s.p.units {
		if s.p.size(u) > 1 && s.tableOf[u] < 0 && s.p.units[u].fixed < 0 {
			groups = append(groups, u)
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return s.p.size(groups[i]) > s.p.size(groups[j])
	})
	for _, u := range groups {
		if t := s.bestTable(u, lock); t >= 0 {
			s.place(u, t)
		}
	}

	for u := range s.p.units {
		if s.p.size(u) == 1 && s.tableOf[u] < 0 && s.p.units[u].fixed < 0 {
			if t := s.bestTable(u, lock); t >= 0 {
				s.place(u, t)
			}
		}
	}
}

// bestTable picks the feasible table with the highest immediate gain for an
// unseated unit, breaking ties by most free seats and then lowest table id.
// With firstFit the lowest feasible table id wins. Returns -1 if none fits.
func (s *state) bestTable(u int, firstFit bool) int {
	best, bestGain, bestFree := -1, 0, 0
	for t := range s.p.tables {
		if !s.fits(u, t, -1) || !s.allowed(u, t, -1) {
			continue
		}
		if firstFit {
			return t
		}
		gain := s.affinity(u, t, -1)
		free := s.p.capacity(t) - s.load[t]
		if best < 0 || gain > bestGain || (gain == bestGain && free > bestFree) {
			best, bestGain, bestFree = t, gain, free
		}
	}
	return best
}

// fill seats any unit that has become placeable since seeding. A guest with a
// feasible seat is always seated, so a placement may lower the score; the
// returned delta is the score change caused by the placements.
func (s *state) fill() (placed bool, delta int) {
	before := s.score
	for u := range s.p.units {
		if s.tableOf[u] >= 0 || s.p.units[u].fixed >= 0 {
			continue
		}
		if t := s.bestTable(u, false); t >= 0 {
			s.place(u, t)
			placed = true
		}
	}
	return placed, s.score - before
}

// searchStats is accumulated by the improvement loop
type searchStats struct {
	passes int
	moves  int
	swaps  int
	stop   models.StopReason
}

// improve runs hill-climbing passes until a pass finds no improving move or the
// budget runs out. Budget and cancellation are only checked between passes so
// the state is always a complete, valid assignment when it returns.
func (s *state) improve(ctx context.Context, maxPasses int, deadline time.Time, now func() time.Time, st *searchStats) {
	for {
		if st.passes >= maxPasses {
			st.stop = models.StopMaxPasses
			return
		}
		if ctx.Err() != nil {
			st.stop = models.StopCancelled
			return
		}
		if now().After(deadline) {
			st.stop = models.StopTimeBudget
			return
		}
		improved := s.pass(st)
		st.passes++
		if !improved {
			st.stop = models.StopConverged
			return
		}
	}
}

// pass scans units in guest id order and tables in table id order, applying
// the first strictly improving move or swap found for each unit.
func (s *state) pass(st *searchStats) bool {
	improved := false

next:
	for u := range s.p.units {
		from := s.tableOf[u]
		if from < 0 || s.p.units[u].fixed >= 0 {
			continue
		}
		for t := range s.p.tables {
			if t == from {
				continue
			}
			if s.fits(u, t, -1) && s.allowed(u, t, -1) && s.moveDelta(u, t) > 0 {
				s.remove(u)
				s.place(u, t)
				st.moves++
				improved = true
				continue next
			}
			for _, v := range s.seated[t] {
				if s.p.units[v].fixed >= 0 {
					continue
				}
				if !s.fits(u, t, v) || !s.fits(v, from, u) || !s.allowed(u, t, v) || !s.allowed(v, from, u) {
					continue
				}
				if s.swapDelta(u, v) > 0 {
					s.remove(u)
					s.remove(v)
					s.place(u, t)
					s.place(v, from)
					st.swaps++
					improved = true
					continue next
				}
			}
		}
	}
	return improved
}
