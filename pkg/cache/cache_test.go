package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/seating-api-go/pkg/models"
)

func sampleInput() models.OptimizeInput {
	return models.OptimizeInput{
		Guests: []models.Guest{{ID: "A", RSVPStatus: models.RSVPConfirmed}},
		Tables: []models.Table{{ID: "T1", Capacity: 4}},
	}
}

func TestFingerprint_StableAndOptionSensitive(t *testing.T) {
	a, err := Fingerprint(sampleInput())
	require.NoError(t, err)
	b, err := Fingerprint(sampleInput())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	in := sampleInput()
	in.Options.PreserveExisting = true
	c, err := Fingerprint(in)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestCacheable(t *testing.T) {
	res := &models.OptimizeResult{}
	for stop, want := range map[models.StopReason]bool{
		models.StopConverged:  true,
		models.StopLocked:     true,
		models.StopMaxPasses:  false,
		models.StopTimeBudget: false,
		models.StopCancelled:  false,
	} {
		res.Diagnostics.StoppedBy = stop
		assert.Equal(t, want, Cacheable(res), stop)
	}
}

func TestNilClientDegrades(t *testing.T) {
	var c *Client
	ctx := context.Background()

	res, ok, err := c.GetResult(ctx, "abc")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, res)

	assert.NoError(t, c.SetResult(ctx, "abc", &models.OptimizeResult{}))

	n, err := c.IncrDaily(ctx, 1, time.Now())
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, c.Close())
}

func TestRateLimitKey_PerUTCDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	now := time.Date(2026, 3, 2, 5, 0, 0, 0, loc)
	assert.Equal(t, "seating:ratelimit:9:2026-03-01", rateLimitKey(9, now))
}
