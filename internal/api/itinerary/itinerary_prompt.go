package itinerary

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

const startDateLayout = "January 02, 2006"

const itineraryPromptTemplate = `
You are a professional AI travel planner. Your responses should be helpful, friendly, and engaging.

Create a detailed %d-day travel itinerary for %s%s.
The user has a '%s' budget and prefers to stay in a '%s'.
Their interests are: '%s'.

Your itinerary should include:
1. A day-wise plan with specific suggestions for morning, afternoon, and evening activities.
2. Recommendations for transportation within the destination.
3. Suggestions for accommodation based on the user's preference and budget.
4. A list of local foods and unique experiences they shouldn't miss.
5. An estimated total cost breakdown.

Format the text output beautifully using emojis and markdown.
`

// locationsInstruction asks the model for the trailing block SplitResponse looks for.
var locationsInstruction = `
### IMPORTANT ###
Finally, embed a single JSON object at the very end of your response, enclosed in ` + codeFence + jsonTag + ` ... ` + codeFence + `.
This JSON should contain a list of key locations mentioned. Each location must have "name", "day", "lat", and "lon".
Use numbers for "day", "lat" and "lon".

Example JSON format:
` + codeFence + jsonTag + `
{
  "locations": [
    { "name": "Eiffel Tower", "day": 1, "lat": 48.8584, "lon": 2.2945 },
    { "name": "Louvre Museum", "day": 2, "lat": 48.8606, "lon": 2.3376 }
  ]
}
` + codeFence + `
`

// BuildPrompt renders the itinerary instruction for a trip. It is
// deterministic and only branches on whether a start date was given.
func BuildPrompt(req types.TripRequest) string {
	startClause := ""
	if req.StartDate != nil {
		startClause = ", starting on " + req.StartDate.Format(startDateLayout)
	}

	var b strings.Builder
	fmt.Fprintf(&b, itineraryPromptTemplate,
		req.DurationDays,
		req.Destination,
		startClause,
		req.BudgetLevel,
		req.StayType,
		req.Interests,
	)
	b.WriteString(locationsInstruction)
	return b.String()
}
