package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arnavshah/seating-api-go/pkg/models"
)

// csvTable is a header-indexed csv file
type csvTable struct {
	name    string
	cols    map[string]int
	records [][]string
}

func readCSV(name string, r io.Reader, required ...string) (*csvTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: file is empty", name)
		}
		return nil, fmt.Errorf("%s: failed to read header: %w", name, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range required {
		if _, ok := cols[col]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", name, col)
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &csvTable{name: name, cols: cols, records: records}, nil
}

// get returns the trimmed value of a column, "" when the column or cell is absent
func (t *csvTable) get(record []string, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (t *csvTable) atoi(record []string, line int, col string) (int, bool, error) {
	v := t.get(record, col)
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("%s line %d: %s %q is not a number", t.name, line, col, v)
	}
	return n, true, nil
}

// line numbers count the header as line 1
func parseGuestsCSV(r io.Reader) ([]models.Guest, error) {
	t, err := readCSV("guests_file", r, "id")
	if err != nil {
		return nil, err
	}
	guests := make([]models.Guest, 0, len(t.records))
	for i, rec := range t.records {
		g := models.Guest{
			ID:         t.get(rec, "id"),
			Name:       t.get(rec, "name"),
			RSVPStatus: models.RSVPStatus(strings.ToLower(t.get(rec, "rsvp_status"))),
			TableID:    t.get(rec, "table_id"),
		}
		seat, ok, err := t.atoi(rec, i+2, "seat_index")
		if err != nil {
			return nil, err
		}
		if ok {
			g.SeatIndex = &seat
		}
		guests = append(guests, g)
	}
	return guests, nil
}

func parseTablesCSV(r io.Reader) ([]models.Table, error) {
	t, err := readCSV("tables_file", r, "id", "capacity")
	if err != nil {
		return nil, err
	}
	tables := make([]models.Table, 0, len(t.records))
	for i, rec := range t.records {
		capacity, _, err := t.atoi(rec, i+2, "capacity")
		if err != nil {
			return nil, err
		}
		tables = append(tables, models.Table{
			ID:       t.get(rec, "id"),
			Name:     t.get(rec, "name"),
			Shape:    models.TableShape(strings.ToLower(t.get(rec, "shape"))),
			Capacity: capacity,
		})
	}
	return tables, nil
}

func parseRelationshipsCSV(r io.Reader) ([]models.Relationship, error) {
	t, err := readCSV("relationships_file", r, "guest_id", "other_guest_id", "strength")
	if err != nil {
		return nil, err
	}
	rels := make([]models.Relationship, 0, len(t.records))
	for i, rec := range t.records {
		strength, _, err := t.atoi(rec, i+2, "strength")
		if err != nil {
			return nil, err
		}
		rels = append(rels, models.Relationship{
			GuestID:      t.get(rec, "guest_id"),
			OtherGuestID: t.get(rec, "other_guest_id"),
			Type:         models.RelationshipType(strings.ToLower(t.get(rec, "type"))),
			Strength:     strength,
		})
	}
	return rels, nil
}

func parseConstraintsCSV(r io.Reader) ([]models.Constraint, error) {
	t, err := readCSV("constraints_file", r, "kind", "guest_a")
	if err != nil {
		return nil, err
	}
	cs := make([]models.Constraint, 0, len(t.records))
	for _, rec := range t.records {
		cs = append(cs, models.Constraint{
			ID:      t.get(rec, "id"),
			Kind:    models.ConstraintKind(strings.ToLower(t.get(rec, "kind"))),
			GuestA:  t.get(rec, "guest_a"),
			GuestB:  t.get(rec, "guest_b"),
			TableID: t.get(rec, "table_id"),
		})
	}
	return cs, nil
}

// writeAssignmentCSV renders one row per confirmed guest in placement order
func writeAssignmentCSV(w io.Writer, a models.Assignment) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"guest_id", "guest_name", "table_id", "seat_index", "status", "reason"}); err != nil {
		return err
	}
	for _, p := range a.Placements {
		seat, status := "", "unassigned"
		if p.Assigned {
			seat, status = strconv.Itoa(p.SeatIndex), "seated"
		}
		if err := writer.Write([]string{p.GuestID, p.GuestName, p.TableID, seat, status, string(p.Reason)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
