package simulator

import (
	"math"
	"math/rand"
	"time"
)

// peakHours are the café rushes: morning commute and the afternoon break.
var peakHours = map[int]bool{
	7: true, 8: true, 9: true,
	15: true, 16: true,
}

const (
	peakHourFactor = 1.8
	quietFactor    = 0.6
)

func isPeakHour(t time.Time) bool {
	return peakHours[t.Hour()]
}

// hourFactor scales the base order rate for the time of day. Before 7 and
// after 18 the café is quiet.
func hourFactor(t time.Time) float64 {
	switch h := t.Hour(); {
	case isPeakHour(t):
		return peakHourFactor
	case h < 7 || h >= 18:
		return quietFactor
	default:
		return 1.0
	}
}

// poisson draws from a Poisson distribution with mean lambda (Knuth).
func poisson(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= l {
			return k
		}
		k++
	}
}
