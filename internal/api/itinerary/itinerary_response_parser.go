package itinerary

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

const (
	codeFence    = "```"
	jsonTag      = "json"
	locationsKey = "locations"
)

// candidateBlock is the span of text believed to hold the location payload.
// start and end delimit everything that is removed from the prose on success,
// payload is the part handed to the JSON decoder.
type candidateBlock struct {
	start   int
	end     int
	payload string
}

// SplitResponse separates the itinerary prose from the embedded location
// payload. Only the first candidate block is considered; later JSON-looking
// blocks stay in the prose as they are.
func SplitResponse(text string) types.SplitResult {
	block, ok := findCandidate(text)
	if !ok {
		return types.SplitResult{Prose: text, Outcome: types.SplitNoMatch}
	}

	locations, err := parseLocations(block.payload)
	if err != nil {
		return types.SplitResult{
			Prose:   text,
			Outcome: types.SplitParseFailed,
			Warning: fmt.Errorf("found a JSON-like block but could not parse it: %w", err),
		}
	}

	prose := strings.TrimSpace(text[:block.start] + text[block.end:])
	return types.SplitResult{
		Prose:     prose,
		Locations: locations,
		Outcome:   types.SplitParsed,
	}
}

// findCandidate runs the delimiter search: a ```json fence first, then any
// brace-delimited object that mentions the locations key.
func findCandidate(text string) (candidateBlock, bool) {
	if block, ok := findFencedBlock(text); ok {
		return block, true
	}
	return findBareObject(text)
}

// findFencedBlock looks for ```json followed by optional whitespace and an
// opening brace. The block closes at the first ``` preceded (ignoring
// whitespace) by a closing brace.
func findFencedBlock(text string) (candidateBlock, bool) {
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], codeFence)
		if i < 0 {
			return candidateBlock{}, false
		}
		open := from + i
		tagEnd := open + len(codeFence) + len(jsonTag)
		if tagEnd > len(text) {
			return candidateBlock{}, false
		}
		if !strings.EqualFold(text[open+len(codeFence):tagEnd], jsonTag) {
			from = open + len(codeFence)
			continue
		}

		brace := skipSpace(text, tagEnd)
		if brace < len(text) && text[brace] == '{' {
			if payloadEnd, blockEnd, ok := closingFence(text, brace); ok {
				return candidateBlock{
					start:   open,
					end:     blockEnd,
					payload: text[brace:payloadEnd],
				}, true
			}
		}
		from = tagEnd
	}
	return candidateBlock{}, false
}

// closingFence returns the end of the payload (just past the closing brace)
// and the end of the whole fenced block.
func closingFence(text string, brace int) (int, int, bool) {
	for from := brace + 1; from < len(text); {
		i := strings.Index(text[from:], codeFence)
		if i < 0 {
			return 0, 0, false
		}
		fence := from + i
		p := fence - 1
		for p > brace && isSpace(text[p]) {
			p--
		}
		if text[p] == '}' {
			return p + 1, fence + len(codeFence), true
		}
		from = fence + len(codeFence)
	}
	return 0, 0, false
}

// findBareObject is the unfenced fallback. It walks top-level objects in
// order and returns the first one that mentions the locations key. An object
// that never balances is taken up to the last closing brace so a malformed
// payload is reported as a parse failure rather than ignored.
func findBareObject(text string) (candidateBlock, bool) {
	if !strings.Contains(text, locationsKey) {
		return candidateBlock{}, false
	}

	for from := 0; from < len(text); {
		i := strings.IndexByte(text[from:], '{')
		if i < 0 {
			return candidateBlock{}, false
		}
		start := from + i

		end, balanced := matchBrace(text, start)
		if !balanced {
			last := strings.LastIndexByte(text, '}')
			if last > start && strings.Contains(text[start:last+1], locationsKey) {
				return candidateBlock{start: start, end: last + 1, payload: text[start : last+1]}, true
			}
			return candidateBlock{}, false
		}

		if strings.Contains(text[start:end], locationsKey) {
			return candidateBlock{start: start, end: end, payload: text[start:end]}, true
		}
		from = end
	}
	return candidateBlock{}, false
}

// matchBrace finds the brace closing the one at start, skipping braces that
// appear inside JSON strings. It returns the index just past it.
func matchBrace(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

func skipSpace(text string, i int) int {
	for i < len(text) && isSpace(text[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

type rawLocation struct {
	Name string     `json:"name"`
	Day  flexInt    `json:"day"`
	Lat  *flexFloat `json:"lat"`
	Lon  *flexFloat `json:"lon"`
}

// parseLocations is the structured parse stage.
func parseLocations(payload string) ([]types.NamedLocation, error) {
	// A map lookup keeps the key match exact; struct tags would also accept "Locations".
	var data map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("failed to parse locations JSON: %w", err)
	}
	rawList, ok := data[locationsKey]
	if !ok || string(rawList) == "null" {
		return nil, types.ErrMissingLocations
	}
	var entries []rawLocation
	if err := json.Unmarshal(rawList, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse locations list: %w", err)
	}

	locations := make([]types.NamedLocation, 0, len(entries))
	for i, raw := range entries {
		if raw.Lat == nil || raw.Lon == nil {
			return nil, fmt.Errorf("%w: entry %d (%q) is missing coordinates", types.ErrInvalidLocation, i, raw.Name)
		}
		lat, lon := float64(*raw.Lat), float64(*raw.Lon)
		if lat < -90 || lat > 90 {
			return nil, fmt.Errorf("%w: entry %d (%q) has latitude %v out of range", types.ErrInvalidLocation, i, raw.Name, lat)
		}
		if lon < -180 || lon > 180 {
			return nil, fmt.Errorf("%w: entry %d (%q) has longitude %v out of range", types.ErrInvalidLocation, i, raw.Name, lon)
		}
		locations = append(locations, types.NamedLocation{
			Name: raw.Name,
			Day:  int(raw.Day),
			Lat:  lat,
			Lon:  lon,
		})
	}
	return locations, nil
}

// flexFloat accepts a JSON number or a numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s, err := scalarText(b)
	if err != nil {
		return err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("coordinate %s is not numeric", b)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("coordinate %s is not finite", b)
	}
	*f = flexFloat(v)
	return nil
}

// flexInt accepts a JSON integer, an integral float such as 2.0, or the same as a string.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	s, err := scalarText(b)
	if err != nil {
		return err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return fmt.Errorf("day %s is not an integer", b)
	}
	*n = flexInt(v)
	return nil
}

func scalarText(b []byte) (string, error) {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	return string(b), nil
}
