package training

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ChartPoint is the average weight and reps of one logged (day, exercise) pair.
type ChartPoint struct {
	Label     string  `json:"label"`
	AvgWeight float64 `json:"avgWeight"`
	AvgReps   float64 `json:"avgReps"`
}

// Aggregate averages every (day, exercise) pair in store order using the
// default Aggregator. A non-empty exercise restricts the output to that exact
// exercise name.
func Aggregate(store Store, exercise string) []ChartPoint {
	return Aggregator{}.Points(store, exercise)
}

// Aggregator turns a Store into chart points.
//
// Only sets whose weight parses as a number count towards a pair. Both sums
// are divided by that weight count; pairs without any numeric weight produce
// no point. By default reps are only summed for the counted sets.
type Aggregator struct {
	// LegacyReps sums numeric reps from every set, including sets whose
	// weight did not count, while still dividing by the weight count. Older
	// charts were drawn this way.
	LegacyReps bool
}

// Points computes the chart series for store, optionally filtered to one exercise.
func (a Aggregator) Points(store Store, exercise string) []ChartPoint {
	var points []ChartPoint
	for _, log := range store.Logs() {
		if exercise != "" && log.Exercise != exercise {
			continue
		}

		var weights, reps []float64
		for _, set := range log.Sets {
			weight, counted := ParseNumber(set.Record.Weight)
			if counted {
				weights = append(weights, weight)
			}
			if !counted && !a.LegacyReps {
				continue
			}
			if r, ok := ParseNumber(set.Record.Reps); ok {
				reps = append(reps, r)
			}
		}
		if len(weights) == 0 {
			continue
		}

		// Divide before summing so several large finite entries cannot
		// overflow. A result that is still not finite drops the pair.
		count := float64(len(weights))
		avgWeight, avgReps := scaledSum(weights, count), scaledSum(reps, count)
		if !finite(avgWeight) || !finite(avgReps) {
			continue
		}

		points = append(points, ChartPoint{
			Label:     log.Day + " - " + log.Exercise,
			AvgWeight: avgWeight,
			AvgReps:   avgReps,
		})
	}
	return points
}

func scaledSum(values []float64, count float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v / count
	}
	return sum
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

var numberPrefix = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseNumber reads the leading decimal number of value, ignoring leading
// whitespace and any trailing text, so "80kg" is 80. Values without a numeric
// prefix, or that overflow to infinity, are rejected.
func ParseNumber(value string) (float64, bool) {
	value = strings.TrimLeftFunc(value, unicode.IsSpace)
	prefix := numberPrefix.FindString(value)
	if prefix == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(prefix, 64)
	if err != nil || !finite(n) {
		return 0, false
	}
	return n, true
}
