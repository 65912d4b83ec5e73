package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arnavshah/seating-api-go/pkg/cache"
	"github.com/arnavshah/seating-api-go/pkg/database"
	"github.com/arnavshah/seating-api-go/pkg/export"
	"github.com/arnavshah/seating-api-go/pkg/models"
	"github.com/arnavshah/seating-api-go/pkg/seating"
)

// optimize runs the optimizer through the result cache and records usage
func (h *Handler) optimize(c *gin.Context, in models.OptimizeInput) (*models.OptimizeResult, error) {
	fingerprint, err := cache.Fingerprint(in)
	if err != nil {
		return nil, err
	}

	ctx := c.Request.Context()
	res, cached, err := h.Cache.GetResult(ctx, fingerprint)
	if err != nil {
		h.Logger.Warn("read cached result", zap.Error(err))
	}
	if !cached {
		res, err = h.Optimizer.Optimize(ctx, in)
		if err != nil {
			return nil, err
		}
		if err := h.Cache.SetResult(ctx, fingerprint, res); err != nil {
			h.Logger.Warn("cache result", zap.Error(err))
		}
	}

	h.RecordUsage(c, len(in.Guests), len(in.Tables))
	h.recordRun(c, fingerprint, in, res, cached)
	return res, nil
}

func (h *Handler) recordRun(c *gin.Context, fingerprint string, in models.OptimizeInput, res *models.OptimizeResult, cached bool) {
	apiKey, ok := apiKeyFrom(c)
	if !ok {
		return
	}
	run := database.SeatingRun{
		RunID:      uuid.NewString(),
		KeyID:      apiKey.ID,
		InputHash:  fingerprint,
		Guests:     len(in.Guests),
		Tables:     len(in.Tables),
		Score:      res.Diagnostics.Score,
		Unassigned: res.Diagnostics.Unassigned,
		StoppedBy:  string(res.Diagnostics.StoppedBy),
		Cached:     cached,
		ElapsedMs:  res.Diagnostics.ElapsedMs,
	}
	if err := h.DB.Create(&run).Error; err != nil {
		h.Logger.Warn("record run", zap.Uint("key_id", apiKey.ID), zap.Error(err))
		return
	}
	c.Header("X-Run-ID", run.RunID)
}

// OptimizeJSON handles the JSON-based optimization request
func (h *Handler) OptimizeJSON(c *gin.Context) {
	var input models.OptimizeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.optimize(c, input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// OptimizeXLSX optimizes a JSON request and returns the seating chart workbook
func (h *Handler) OptimizeXLSX(c *gin.Context) {
	var input models.OptimizeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.optimize(c, input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	buf, err := export.SeatingChart(input, res)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", `attachment; filename="seating_chart.xlsx"`)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// OptimizeCSV handles CSV file uploads for optimization
func (h *Handler) OptimizeCSV(c *gin.Context) {
	guestsFile, _ := c.FormFile("guests_file")
	tablesFile, _ := c.FormFile("tables_file")
	if guestsFile == nil || tablesFile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guests_file and tables_file are required"})
		return
	}

	var input models.OptimizeInput
	var err error

	if input.Guests, err = parseUpload(guestsFile, parseGuestsCSV); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Tables, err = parseUpload(tablesFile, parseTablesCSV); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if f, _ := c.FormFile("relationships_file"); f != nil {
		if input.Relationships, err = parseUpload(f, parseRelationshipsCSV); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if f, _ := c.FormFile("constraints_file"); f != nil {
		if input.Constraints, err = parseUpload(f, parseConstraintsCSV); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if input.Options, err = formOptions(c); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.optimize(c, input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	var out strings.Builder
	if err := writeAssignmentCSV(&out, res.Assignment); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"csv": out.String(), "diagnostics": res.Diagnostics})
}

func parseUpload[T any](fh *multipart.FileHeader, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f)
}

func formOptions(c *gin.Context) (models.OptimizeOptions, error) {
	var opts models.OptimizeOptions
	ints := []struct {
		name string
		dst  *int
	}{
		{"max_passes", &opts.MaxPasses},
		{"time_budget_ms", &opts.TimeBudgetMs},
	}
	for _, f := range ints {
		if v := c.PostForm(f.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, fmt.Errorf("%s must be a number", f.name)
			}
			*f.dst = n
		}
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"preserve_existing", &opts.PreserveExisting},
		{"respect_fixed_only", &opts.RespectFixedOnly},
		{"auto_drop_conflicts", &opts.AutoDropConflicts},
	}
	for _, f := range bools {
		if v := c.PostForm(f.name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, fmt.Errorf("%s must be true or false", f.name)
			}
			*f.dst = b
		}
	}
	return opts, nil
}

// Score evaluates a caller-built arrangement
func (h *Handler) Score(c *gin.Context) {
	var input models.ScoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := seating.ScoreArrangement(input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.RecordUsage(c, len(input.Guests), len(input.Tables))
	c.JSON(http.StatusOK, resp)
}
