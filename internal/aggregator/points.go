package aggregator

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// pointAliases is the ordered list of field names the loyalty service has
// used for the points balance. Earlier names win when several are present.
var pointAliases = []string{"puntos", "totalPuntos", "points", "loyaltyPoints", "total_points"}

// pointsFromJSON extracts the loyalty balance from a raw response, coerced
// to a non-negative integer. An unrecognized body yields 0.
func pointsFromJSON(raw []byte) int {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return 0
	}

	for _, alias := range pointAliases {
		if v, ok := fields[alias]; ok {
			if n, ok := coercePoints(v); ok {
				return n
			}
		}
	}
	return 0
}

// coercePoints turns a JSON value into a non-negative integer. Strings are
// accepted because one legacy loyalty deployment quotes its numbers.
func coercePoints(v any) (int, bool) {
	switch val := v.(type) {
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return clampPoints(int(f)), true
		}
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return clampPoints(int(f)), true
		}
	}
	return 0, false
}

func clampPoints(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
