package itinerary

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

func TestBuildPrompt(t *testing.T) {
	start := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	base := types.TripRequest{
		Destination:  "Kyoto, Japan",
		DurationDays: 4,
		BudgetLevel:  types.BudgetModerate,
		StayType:     types.StayHomestay,
		Interests:    "temples, ramen, hiking",
	}

	t.Run("every field appears verbatim", func(t *testing.T) {
		p := BuildPrompt(base)
		assert.Contains(t, p, "4-day travel itinerary for Kyoto, Japan.")
		assert.Contains(t, p, "'moderate' budget")
		assert.Contains(t, p, "stay in a 'homestay'")
		assert.Contains(t, p, "'temples, ramen, hiking'")
		assert.NotContains(t, p, "starting on")
	})

	t.Run("start date clause only when set", func(t *testing.T) {
		req := base
		req.StartDate = &start
		p := BuildPrompt(req)
		assert.Contains(t, p, "for Kyoto, Japan, starting on March 07, 2026.")
	})

	t.Run("asks for the locations block", func(t *testing.T) {
		p := BuildPrompt(base)
		assert.Contains(t, p, "```json")
		assert.Contains(t, p, `"locations"`)
		assert.True(t, strings.HasSuffix(strings.TrimSpace(p), "```"))
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, BuildPrompt(base), BuildPrompt(base))
	})
}
