package seating

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/seating-api-go/pkg/models"
)

func confirmed(ids ...string) []models.Guest {
	out := make([]models.Guest, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Guest{ID: id, Name: "Guest " + id, RSVPStatus: models.RSVPConfirmed})
	}
	return out
}

func tablesOf(caps ...int) []models.Table {
	out := make([]models.Table, 0, len(caps))
	for i, c := range caps {
		out = append(out, models.Table{ID: string(rune('1'+i)) + "-table", Shape: models.ShapeRound, Capacity: c})
	}
	return out
}

func together(a, b string) models.Constraint {
	return models.Constraint{Kind: models.MustSitTogether, GuestA: a, GuestB: b}
}

func apart(a, b string) models.Constraint {
	return models.Constraint{Kind: models.MustNotSitTogether, GuestA: a, GuestB: b}
}

func fixed(g, t string) models.Constraint {
	return models.Constraint{Kind: models.FixedTable, GuestA: g, TableID: t}
}

func conflictKinds(v *Validation) []string {
	var kinds []string
	for _, c := range v.Conflicts {
		kinds = append(kinds, c.Kind)
	}
	return kinds
}

func TestValidateConstraints_Clean(t *testing.T) {
	v, err := ValidateConstraints(confirmed("A", "B", "C"), tablesOf(2, 2), []models.Constraint{
		together("A", "B"),
		apart("A", "C"),
		fixed("C", "2-table"),
	})
	require.NoError(t, err)
	assert.Empty(t, v.Conflicts)
	assert.NoError(t, v.Err())
	assert.Len(t, v.Constraints, 3)
}

func TestValidateConstraints_Deduplicates(t *testing.T) {
	v, err := ValidateConstraints(confirmed("A", "B"), tablesOf(2), []models.Constraint{
		together("A", "B"),
		together("B", "A"),
		fixed("A", "1-table"),
		fixed("A", "1-table"),
	})
	require.NoError(t, err)
	assert.Len(t, v.Constraints, 2)
}

func TestValidateConstraints_TogetherAndApart(t *testing.T) {
	v, err := ValidateConstraints(confirmed("A", "B"), tablesOf(4), []models.Constraint{
		together("A", "B"),
		apart("A", "B"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{ConflictTogetherApart}, conflictKinds(v))
	assert.Len(t, v.Conflicts[0].Constraints, 2)

	err = v.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConstraintConflict))
	var ce *ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Len(t, ce.Conflicts, 1)
}

func TestValidateConstraints_TransitiveTogetherAndApart(t *testing.T) {
	v, err := ValidateConstraints(confirmed("A", "B", "C"), tablesOf(4), []models.Constraint{
		together("A", "B"),
		together("B", "C"),
		apart("C", "A"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{ConflictTogetherApart}, conflictKinds(v))
	assert.Len(t, v.Conflicts[0].Constraints, 3)
}

func TestValidateConstraints_FixedToTwoTables(t *testing.T) {
	v, err := ValidateConstraints(confirmed("A", "B"), tablesOf(4, 4), []models.Constraint{
		together("A", "B"),
		fixed("A", "1-table"),
		fixed("B", "2-table"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{ConflictFixedMultiple}, conflictKinds(v))
}

func TestValidateConstraints_FixedOverCapacity(t *testing.T) {
	v, err := ValidateConstraints(confirmed("A", "B", "C"), tablesOf(2, 4), []models.Constraint{
		fixed("A", "1-table"),
		fixed("B", "1-table"),
		fixed("C", "1-table"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{ConflictFixedOverCapacity}, conflictKinds(v))
	assert.Len(t, v.Conflicts[0].Constraints, 3)
}

func TestValidateConstraints_GroupTooLarge(t *testing.T) {
	v, err := ValidateConstraints(confirmed("A", "B", "C"), tablesOf(2, 2), []models.Constraint{
		together("A", "B"),
		together("B", "C"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{ConflictGroupTooLarge}, conflictKinds(v))
}

func TestValidateConstraints_ApartButFixedTogether(t *testing.T) {
	v, err := ValidateConstraints(confirmed("A", "B"), tablesOf(4), []models.Constraint{
		apart("A", "B"),
		fixed("A", "1-table"),
		fixed("B", "1-table"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{ConflictApartSameTable}, conflictKinds(v))
}

func TestValidateConstraints_UnknownReferences(t *testing.T) {
	_, err := ValidateConstraints(confirmed("A", "B"), tablesOf(2), []models.Constraint{
		together("A", "Z"),
		fixed("A", "missing"),
		{Kind: "sit_near", GuestA: "A", GuestB: "B"},
		apart("B", "B"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	var ie *InputError
	require.True(t, errors.As(err, &ie))
	assert.Len(t, ie.Issues, 4)
}

func TestValidateConstraints_InactiveForUnconfirmedGuests(t *testing.T) {
	guests := confirmed("A", "B")
	guests = append(guests, models.Guest{ID: "P", RSVPStatus: models.RSVPPending})
	v, err := ValidateConstraints(guests, tablesOf(2), []models.Constraint{
		together("A", "P"),
		fixed("P", "1-table"),
		apart("A", "B"),
	})
	require.NoError(t, err)
	assert.Len(t, v.Inactive, 2)
	assert.Len(t, v.Constraints, 1)
}

func TestValidation_AutoDropRemovesLatest(t *testing.T) {
	v, err := ValidateConstraints(confirmed("A", "B", "C"), tablesOf(2, 2), []models.Constraint{
		together("A", "B"),
		apart("A", "B"),
		fixed("C", "1-table"),
	})
	require.NoError(t, err)
	require.Len(t, v.Conflicts, 1)

	v.AutoDrop()
	assert.Empty(t, v.Conflicts)
	require.Len(t, v.Dropped, 1)
	assert.Equal(t, apart("A", "B"), v.Dropped[0].Constraints[0])
	assert.Equal(t, []models.Constraint{together("A", "B"), fixed("C", "1-table")}, v.Constraints)
}

func TestValidation_AutoDropSplitsOversizedGroup(t *testing.T) {
	v, err := ValidateConstraints(confirmed("A", "B", "C", "D"), tablesOf(2, 2), []models.Constraint{
		together("A", "B"),
		together("C", "D"),
		together("B", "C"),
	})
	require.NoError(t, err)
	v.AutoDrop()
	require.Len(t, v.Dropped, 1)
	assert.Equal(t, together("B", "C"), v.Dropped[0].Constraints[0])
	assert.Len(t, v.Constraints, 2)
}

func TestDisjointSet_RootIsSmallestID(t *testing.T) {
	d := newDisjointSet()
	d.union("m", "z")
	d.union("z", "c")
	assert.Equal(t, "c", d.find("m"))
	assert.Equal(t, "c", d.find("z"))
	assert.Equal(t, "q", d.find("q"))
	assert.Equal(t, []string{"c", "m", "z"}, d.elements())
}
