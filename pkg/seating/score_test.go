package seating

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/seating-api-go/pkg/models"
)

func TestScoreArrangement(t *testing.T) {
	resp, err := ScoreArrangement(models.ScoreInput{
		Guests: confirmed("A", "B", "C", "D"),
		Tables: tablesOf(4, 4),
		Relationships: []models.Relationship{
			rel("A", "B", 5),
			rel("A", "C", -2),
			rel("C", "D", 3),
			rel("B", "D", 4),
		},
		Placements: map[string]string{"A": "1-table", "B": "1-table", "C": "1-table", "D": "2-table"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Score)
	assert.Equal(t, map[string]int{"1-table": 3, "2-table": 0}, resp.Tables)
}

func TestScoreArrangement_UnseatedContributeNothing(t *testing.T) {
	resp, err := ScoreArrangement(models.ScoreInput{
		Guests:        confirmed("A", "B"),
		Tables:        tablesOf(2),
		Relationships: []models.Relationship{rel("A", "B", -4)},
		Placements:    map[string]string{"A": "1-table"},
	})
	require.NoError(t, err)
	assert.Zero(t, resp.Score)
}

func TestScoreArrangement_UnknownReferences(t *testing.T) {
	_, err := ScoreArrangement(models.ScoreInput{
		Guests:     confirmed("A"),
		Tables:     tablesOf(2),
		Placements: map[string]string{"A": "7-table", "Z": "1-table"},
	})
	require.Error(t, err)
	var ie *InputError
	require.True(t, errors.As(err, &ie))
	assert.Len(t, ie.Issues, 2)
}
