package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/seating-api-go/pkg/models"
	"github.com/arnavshah/seating-api-go/pkg/seating"
)

// ValidateInput runs the constraint validator without optimizing
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.OptimizeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, models.ValidationResponse{
			Valid:  false,
			Issues: []string{err.Error()},
		})
		return
	}

	v, err := seating.ValidateConstraints(input.Guests, input.Tables, input.Constraints)
	if err != nil {
		var inputErr *seating.InputError
		if !errors.As(err, &inputErr) {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ValidationResponse{Valid: false, Issues: inputErr.Issues})
		return
	}

	confirmed := 0
	for _, g := range input.Guests {
		if g.Confirmed() {
			confirmed++
		}
	}
	seats := 0
	for _, t := range input.Tables {
		seats += t.Capacity
	}

	c.JSON(http.StatusOK, models.ValidationResponse{
		Valid:       len(v.Conflicts) == 0,
		Conflicts:   v.Conflicts,
		Constraints: v.Constraints,
		Stats: map[string]int{
			"guest_count":          len(input.Guests),
			"confirmed_count":      confirmed,
			"table_count":          len(input.Tables),
			"seat_count":           seats,
			"constraint_count":     len(v.Constraints),
			"inactive_constraints": len(v.Inactive),
		},
	})
}
