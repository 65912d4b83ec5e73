package export

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/arnavshah/seating-api-go/pkg/models"
)

// Sheet names written by SeatingChart
const (
	SeatingSheet     = "Seating"
	TablesSheet      = "Tables"
	DiagnosticsSheet = "Diagnostics"
)

var ErrGenerateFailed = errors.New("export: failed to generate workbook")

// ContentType is the MIME type of the generated workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SeatingChart renders an optimization result as an .xlsx workbook with one
// row per guest, one row per table and a sheet of run diagnostics.
func SeatingChart(in models.OptimizeInput, res *models.OptimizeResult) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(SeatingSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerateFailed, err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerateFailed, err)
	}
	for _, name := range []string{TablesSheet, DiagnosticsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGenerateFailed, err)
		}
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	tableNames := make(map[string]string, len(in.Tables))
	for _, t := range in.Tables {
		tableNames[t.ID] = t.Name
	}

	rows := [][]any{{"Guest ID", "Guest", "Table ID", "Table", "Seat", "Status", "Reason"}}
	for _, p := range res.Assignment.Placements {
		status, seat := "unassigned", any("")
		if p.Assigned {
			status, seat = "seated", p.SeatIndex+1
		}
		rows = append(rows, []any{p.GuestID, p.GuestName, p.TableID, tableNames[p.TableID], seat, status, string(p.Reason)})
	}
	if err := writeRows(f, SeatingSheet, rows, headerStyle); err != nil {
		return nil, err
	}

	rows = [][]any{{"Table ID", "Table", "Seated", "Capacity", "Free", "Score"}}
	for _, t := range res.Diagnostics.Tables {
		rows = append(rows, []any{t.TableID, tableNames[t.TableID], t.Seated, t.Capacity, t.Capacity - t.Seated, t.Score})
	}
	if err := writeRows(f, TablesSheet, rows, headerStyle); err != nil {
		return nil, err
	}

	d := res.Diagnostics
	rows = [][]any{
		{"Metric", "Value"},
		{"Score", d.Score},
		{"Seed score", d.SeedScore},
		{"Passes", d.Passes},
		{"Moves", d.Moves},
		{"Swaps", d.Swaps},
		{"Stopped by", string(d.StoppedBy)},
		{"Seated", d.Seated},
		{"Unassigned", d.Unassigned},
		{"Capacity shortfall", d.CapacityShortfall},
		{"Ignored guests", d.IgnoredGuests},
		{"Inactive constraints", d.InactiveConstraints},
		{"Unsatisfied constraints", len(d.UnsatisfiedConstraints)},
		{"Dropped constraints", len(d.DroppedConstraints)},
		{"Elapsed (ms)", d.ElapsedMs},
	}
	if err := writeRows(f, DiagnosticsSheet, rows, headerStyle); err != nil {
		return nil, err
	}

	f.SetColWidth(SeatingSheet, "A", "G", 16)
	f.SetColWidth(TablesSheet, "A", "F", 14)
	f.SetColWidth(DiagnosticsSheet, "A", "A", 24)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerateFailed, err)
	}
	return buf, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrGenerateFailed, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%w: %v", ErrGenerateFailed, err)
		}
	}
	if len(rows) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(rows[0]), 1)
		f.SetCellStyle(sheet, "A1", last, headerStyle)
	}
	return nil
}
