package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/arnavshah/seating-api-go/pkg/models"
)

func TestSeatingChart(t *testing.T) {
	in := models.OptimizeInput{
		Tables: []models.Table{{ID: "T1", Name: "Head table", Capacity: 2}},
	}
	res := &models.OptimizeResult{
		Assignment: models.Assignment{Placements: []models.GuestPlacement{
			{GuestID: "A", GuestName: "Ann", Assigned: true, TableID: "T1", SeatIndex: 0},
			{GuestID: "B", GuestName: "Bob", SeatIndex: -1, Reason: models.ReasonNoCapacity},
		}},
		Diagnostics: models.Diagnostics{
			Score:     4,
			StoppedBy: models.StopConverged,
			Tables:    []models.TableSummary{{TableID: "T1", Seated: 1, Capacity: 2, Score: 4}},
		},
	}

	buf, err := SeatingChart(in, res)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SeatingSheet, TablesSheet, DiagnosticsSheet}, f.GetSheetList())

	rows, err := f.GetRows(SeatingSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.GreaterOrEqual(t, len(rows[1]), 6)
	assert.Equal(t, []string{"A", "Ann", "T1", "Head table", "1", "seated"}, rows[1][:6])
	assert.Equal(t, []string{"B", "Bob", "", "", "", "unassigned", "no-capacity"}, rows[2])

	tables, err := f.GetRows(TablesSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "Head table", "1", "2", "1", "4"}, tables[1])

	stopped, err := f.GetCellValue(DiagnosticsSheet, "B7")
	require.NoError(t, err)
	assert.Equal(t, "converged", stopped)
}
