package models

// UnassignedReason explains why a confirmed guest has no seat
type UnassignedReason string

const (
	ReasonNoCapacity         UnassignedReason = "no-capacity"
	ReasonConstraintDeadlock UnassignedReason = "constraint-deadlock"
)

// StopReason records why the improvement phase ended
type StopReason string

const (
	StopConverged  StopReason = "converged"
	StopMaxPasses  StopReason = "max-passes"
	StopTimeBudget StopReason = "time-budget"
	StopCancelled  StopReason = "cancelled"
	StopLocked     StopReason = "locked"
)

// GuestPlacement is the decision for one confirmed guest
type GuestPlacement struct {
	GuestID   string           `json:"guest_id"`
	GuestName string           `json:"guest_name,omitempty"`
	Assigned  bool             `json:"assigned"`
	TableID   string           `json:"table_id,omitempty"`
	SeatIndex int              `json:"seat_index"` // -1 when unassigned
	Reason    UnassignedReason `json:"reason,omitempty"`
}

// Assignment maps every confirmed guest to a seat or an explicit unassigned
// decision. Placements are ordered by guest id.
type Assignment struct {
	Placements []GuestPlacement `json:"placements"`
}

// Lookup returns the placement of a guest
func (a Assignment) Lookup(guestID string) (GuestPlacement, bool) {
	for _, p := range a.Placements {
		if p.GuestID == guestID {
			return p, true
		}
	}
	return GuestPlacement{}, false
}

// TableIDs returns guest id -> table id for assigned guests
func (a Assignment) TableIDs() map[string]string {
	out := make(map[string]string, len(a.Placements))
	for _, p := range a.Placements {
		if p.Assigned {
			out[p.GuestID] = p.TableID
		}
	}
	return out
}

// ConstraintConflict names a set of hard constraints that cannot hold together
type ConstraintConflict struct {
	Kind        string       `json:"kind"`
	Message     string       `json:"message"`
	Constraints []Constraint `json:"constraints"`
}

// ConstraintIssue is a constraint that could not be honoured in the output
type ConstraintIssue struct {
	Constraint Constraint       `json:"constraint"`
	Reason     UnassignedReason `json:"reason"`
}

// TableSummary reports the final load and score of a table
type TableSummary struct {
	TableID  string `json:"table_id"`
	Seated   int    `json:"seated"`
	Capacity int    `json:"capacity"`
	Score    int    `json:"score"`
}

// Diagnostics summarises an optimization run. Improvement never lowers the
// score, but seating a unit that became placeable after improvement can; the
// sum of those changes is FillDelta, so Score >= SeedScore + FillDelta.
type Diagnostics struct {
	Score                  int                  `json:"score"`
	SeedScore              int                  `json:"seed_score"`
	FillDelta              int                  `json:"fill_delta"`
	Passes                 int                  `json:"passes"`
	Moves                  int                  `json:"moves"`
	Swaps                  int                  `json:"swaps"`
	StoppedBy              StopReason           `json:"stopped_by"`
	Seated                 int                  `json:"seated"`
	Unassigned             int                  `json:"unassigned"`
	CapacityShortfall      int                  `json:"capacity_shortfall"`
	IgnoredGuests          int                  `json:"ignored_guests"`
	InactiveConstraints    int                  `json:"inactive_constraints"`
	Tables                 []TableSummary       `json:"tables"`
	UnsatisfiedConstraints []ConstraintIssue    `json:"unsatisfied_constraints,omitempty"`
	DroppedConstraints     []ConstraintConflict `json:"dropped_constraints,omitempty"`
	ElapsedMs              int64                `json:"elapsed_ms"`
}

// OptimizeResult is the data structure returned by an optimization run
type OptimizeResult struct {
	Assignment  Assignment  `json:"assignment"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// ScoreInput asks for the score of a caller-built arrangement
type ScoreInput struct {
	Guests        []Guest           `json:"guests"`
	Tables        []Table           `json:"tables"`
	Relationships []Relationship    `json:"relationships,omitempty"`
	Placements    map[string]string `json:"placements"` // guest id -> table id
}

// ScoreResponse is the data structure for the score endpoint
type ScoreResponse struct {
	Score  int            `json:"score"`
	Tables map[string]int `json:"tables"`
}

// ValidationResponse is the data structure for the validate endpoint
type ValidationResponse struct {
	Valid       bool                 `json:"valid"`
	Issues      []string             `json:"issues,omitempty"`
	Conflicts   []ConstraintConflict `json:"conflicts,omitempty"`
	Constraints []Constraint         `json:"constraints,omitempty"`
	Stats       map[string]int       `json:"stats,omitempty"`
}
