package models

// RSVPStatus represents a guest's attendance answer
type RSVPStatus string

const (
	RSVPConfirmed RSVPStatus = "confirmed"
	RSVPPending   RSVPStatus = "pending"
	RSVPDeclined  RSVPStatus = "declined"
)

// RelationshipType classifies the link between two guests
type RelationshipType string

const (
	RelationshipPartner   RelationshipType = "partner"
	RelationshipFamily    RelationshipType = "family"
	RelationshipFriend    RelationshipType = "friend"
	RelationshipColleague RelationshipType = "colleague"
	RelationshipAvoid     RelationshipType = "avoid"
)

// Strength bounds for relationships
const (
	MinStrength = -5
	MaxStrength = 5
)

// TableShape is only used by floor-plan rendering
type TableShape string

const (
	ShapeRound     TableShape = "round"
	ShapeRectangle TableShape = "rectangle"
	ShapeSquare    TableShape = "square"
	ShapeOther     TableShape = "other"
)

// ConstraintKind enumerates the hard rules
type ConstraintKind string

const (
	MustSitTogether    ConstraintKind = "must_sit_together"
	MustNotSitTogether ConstraintKind = "must_not_sit_together"
	FixedTable         ConstraintKind = "fixed_table"
)

// Guest represents a person to be seated
type Guest struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	RSVPStatus    RSVPStatus     `json:"rsvp_status"`
	TableID       string         `json:"table_id,omitempty"`
	SeatIndex     *int           `json:"seat_index,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty"`
}

// Confirmed reports whether the guest is eligible for a seat
func (g Guest) Confirmed() bool {
	return g.RSVPStatus == RSVPConfirmed
}

// Relationship is a scored affinity between two guests. When nested on a
// Guest, GuestID may be left empty and defaults to the owning guest.
type Relationship struct {
	GuestID      string           `json:"guest_id,omitempty"`
	OtherGuestID string           `json:"other_guest_id"`
	Type         RelationshipType `json:"type"`
	Strength     int              `json:"strength"`
}

// Table represents a table on the floor plan
type Table struct {
	ID       string     `json:"id"`
	Name     string     `json:"name,omitempty"`
	Shape    TableShape `json:"shape,omitempty"`
	Capacity int        `json:"capacity"`
}

// Constraint is a hard rule layered on top of relationship scoring.
// GuestB is used by the pairwise kinds, TableID by fixed_table.
type Constraint struct {
	ID      string         `json:"id,omitempty"`
	Kind    ConstraintKind `json:"kind"`
	GuestA  string         `json:"guest_a"`
	GuestB  string         `json:"guest_b,omitempty"`
	TableID string         `json:"table_id,omitempty"`
}

// OptimizeOptions tunes a single optimization run
type OptimizeOptions struct {
	MaxPasses         int  `json:"max_passes,omitempty"`
	TimeBudgetMs      int  `json:"time_budget_ms,omitempty"`
	PreserveExisting  bool `json:"preserve_existing"`
	RespectFixedOnly  bool `json:"respect_fixed_only"`
	AutoDropConflicts bool `json:"auto_drop_conflicts"`
}

// OptimizeInput is the data structure for the optimize endpoint
type OptimizeInput struct {
	Guests        []Guest         `json:"guests"`
	Tables        []Table         `json:"tables"`
	Relationships []Relationship  `json:"relationships,omitempty"`
	Constraints   []Constraint    `json:"constraints,omitempty"`
	Options       OptimizeOptions `json:"options"`
}
