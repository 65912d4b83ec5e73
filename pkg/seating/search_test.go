package seating

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func seededState(t *testing.T, seed int64, n int) *state {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	in := randomInput(rng, n)

	r, issues := newRoster(in.Guests, in.Tables)
	weights, relIssues := r.weights(in.Guests, in.Relationships)
	issues.merge(relIssues)
	v := r.validate(in.Constraints, issues)
	require.NoError(t, issues.orNil())
	v.AutoDrop()

	s := newState(newProblem(r, weights, v.Constraints))
	s.seed(false, false)
	return s
}

func TestState_DeltasMatchRecomputedScore(t *testing.T) {
	s := seededState(t, 7, 40)
	require.Equal(t, s.total(), s.score)

	for u := range s.p.units {
		from := s.tableOf[u]
		if from < 0 {
			continue
		}
		for to := range s.p.tables {
			if to == from || !s.fits(u, to, -1) {
				continue
			}
			want := s.score + s.moveDelta(u, to)
			s.remove(u)
			s.place(u, to)
			require.Equal(t, want, s.score)
			require.Equal(t, s.total(), s.score)
			s.remove(u)
			s.place(u, from)
		}
	}

	for u := range s.p.units {
		for v := u + 1; v < len(s.p.units); v++ {
			x, y := s.tableOf[u], s.tableOf[v]
			if x < 0 || y < 0 || x == y || !s.fits(u, y, v) || !s.fits(v, x, u) {
				continue
			}
			want := s.score + s.swapDelta(u, v)
			s.remove(u)
			s.remove(v)
			s.place(u, y)
			s.place(v, x)
			require.Equal(t, want, s.score)
			require.Equal(t, s.total(), s.score)
			s.remove(u)
			s.remove(v)
			s.place(u, x)
			s.place(v, y)
		}
	}
}

func TestState_PassesStrictlyImprove(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		s := seededState(t, seed, 45)
		st := &searchStats{}
		for i := 0; i < 200; i++ {
			before, accepted := s.score, st.moves+st.swaps
			improved := s.pass(st)
			require.Equal(t, s.total(), s.score)
			if !improved {
				require.Equal(t, before, s.score)
				break
			}
			// every accepted move adds at least one point
			require.GreaterOrEqual(t, s.score-before, st.moves+st.swaps-accepted)
		}
	}
}
