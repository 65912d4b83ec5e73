package seating

import (
	"sort"

	"github.com/arnavshah/seating-api-go/pkg/models"
)

// state is a partial or full assignment of units to tables together with its
// running score. The score is the sum of strengths over every pair of guests
// sharing a table; unseated guests contribute nothing.
type state struct {
	p       *problem
	tableOf []int   // unit -> table, -1 unseated
	load    []int   // table -> seated guests
	seated  [][]int // table -> units, ascending
	score   int
}

func newState(p *problem) *state {
	s := &state{
		p:       p,
		tableOf: make([]int, len(p.units)),
		load:    make([]int, len(p.tables)),
		seated:  make([][]int, len(p.tables)),
	}
	for u := range s.tableOf {
		s.tableOf[u] = -1
	}
	return s
}

// affinity sums the strengths between the members of u and the guests at t,
// leaving out u itself and the unit skip.
//
// Complexity: O(|u| * guests at t)
func (s *state) affinity(u, t, skip int) int {
	sum := 0
	for _, v := range s.seated[t] {
		if v == u || v == skip {
			continue
		}
		for _, g := range s.p.units[u].members {
			w := s.p.weight[g]
			for _, h := range s.p.units[v].members {
				sum += w[h]
			}
		}
	}
	return sum
}

func (s *state) place(u, t int) {
	s.score += s.affinity(u, t, -1) + s.p.units[u].internal
	s.tableOf[u] = t
	s.load[t] += s.p.size(u)
	list := s.seated[t]
	i := sort.SearchInts(list, u)
	list = append(list, 0)
	copy(list[i+1:], list[i:])
	list[i] = u
	s.seated[t] = list
}

func (s *state) remove(u int) {
	t := s.tableOf[u]
	if t < 0 {
		return
	}
	list := s.seated[t]
	i := sort.SearchInts(list, u)
	s.seated[t] = append(list[:i], list[i+1:]...)
	s.load[t] -= s.p.size(u)
	s.tableOf[u] = -1
	s.score -= s.affinity(u, t, -1) + s.p.units[u].internal
}

// moveDelta is the score change of moving seated unit u to table t.
func (s *state) moveDelta(u, t int) int {
	return s.affinity(u, t, -1) - s.affinity(u, s.tableOf[u], -1)
}

// swapDelta is the score change of exchanging the tables of seated units u and v.
func (s *state) swapDelta(u, v int) int {
	x, y := s.tableOf[u], s.tableOf[v]
	return s.affinity(u, y, v) - s.affinity(u, x, v) +
		s.affinity(v, x, u) - s.affinity(v, y, u)
}

// fits reports whether u can sit at t once the unit leaving (or -1) has gone.
func (s *state) fits(u, t, leaving int) bool {
	free := s.p.capacity(t) - s.load[t]
	if leaving >= 0 && s.tableOf[leaving] == t {
		free += s.p.size(leaving)
	}
	return s.p.size(u) <= free
}

// allowed reports whether seating u at t keeps every must_not_sit_together
// pair apart, ignoring the members of the unit leaving.
func (s *state) allowed(u, t, leaving int) bool {
	for _, g := range s.p.units[u].members {
		for _, h := range s.p.apart[g] {
			v := s.p.unitOf[h]
			if v != leaving && v != u && s.tableOf[v] == t {
				return false
			}
		}
	}
	return true
}

// tableScore recomputes the score of one table from scratch.
func (s *state) tableScore(t int) int {
	var guests []int
	for _, v := range s.seated[t] {
		guests = append(guests, s.p.units[v].members...)
	}
	sum := 0
	for i, g := range guests {
		for _, h := range guests[i+1:] {
			sum += s.p.weight[g][h]
		}
	}
	return sum
}

// total recomputes the full score without using the running value.
func (s *state) total() int {
	sum := 0
	for t := range s.seated {
		sum += s.tableScore(t)
	}
	return sum
}

// ScoreArrangement scores a caller-built arrangement. Placements map guest ids
// to table ids; guests that are missing from it, or not confirmed, are unseated.
// Capacity is not checked: the score only depends on who shares a table.
func ScoreArrangement(in models.ScoreInput) (*models.ScoreResponse, error) {
	r, issues := newRoster(in.Guests, in.Tables)
	weights, relIssues := r.weights(in.Guests, in.Relationships)
	issues.merge(relIssues)

	guestIDs := make([]string, 0, len(in.Placements))
	for id := range in.Placements {
		guestIDs = append(guestIDs, id)
	}
	sort.Strings(guestIDs)
	for _, id := range guestIDs {
		if _, ok := r.guests[id]; !ok {
			issues.add("placement references unknown guest %q", id)
		}
		if t := in.Placements[id]; t != "" {
			if _, ok := r.tables[t]; !ok {
				issues.add("placement of %q references unknown table %q", id, t)
			}
		}
	}
	if err := issues.orNil(); err != nil {
		return nil, err
	}

	resp := &models.ScoreResponse{Tables: make(map[string]int, len(in.Tables))}
	for _, t := range in.Tables {
		resp.Tables[t.ID] = 0
	}
	for k, w := range weights {
		ta, tb := in.Placements[k.a], in.Placements[k.b]
		if ta != "" && ta == tb {
			resp.Tables[ta] += w
			resp.Score += w
		}
	}
	return resp, nil
}
