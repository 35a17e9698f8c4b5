// Package crossover locates meiotic crossovers as statistically significant
// extrema of the accumulated LLR series along a chromosome. The detector
// makes a single forward pass, tracking the running best maximum and minimum
// candidates; a candidate is confirmed once the series, a configurable number
// of points later, has moved away from it by more than ZScore standard
// deviations of the accumulated variance difference. Confirmed transitions
// are reported at their onset, found by scanning backward from the candidate.
//
// When two extrema of the same kind are confirmed consecutively, the one
// opposite-kind extremum between them was statistically masked and is
// recovered retroactively. Runs of two or more masked extrema between
// same-kind confirmations are not recovered.
package crossover

import (
	"math"

	"github.com/JaderDias/movingmedian"
)

// Point is one step of the series: a chromosome position with the
// accumulated LLR mean and variance up to it.
type Point struct {
	Pos  float64
	Mean float64
	Var  float64
}

// Accumulate turns per-bin (mean, variance) statistics into the cumulative
// series the detector scans. Variances add, positions are kept.
func Accumulate(points []Point) []Point {
	out := make([]Point, len(points))
	var m, v float64
	for i, p := range points {
		m += p.Mean
		v += p.Var
		out[i] = Point{Pos: p.Pos, Mean: m, Var: v}
	}
	return out
}

// Detector holds the scan parameters.
type Detector struct {
	// Lookahead is how many points past a candidate extremum the series must
	// extend before the candidate can be confirmed.
	Lookahead int
	// ZScore is the number of standard deviations the series must move away
	// from a candidate for confirmation.
	ZScore float64
	// Smooth, when above 1, applies a centered running median of that window
	// to the means before scanning. Zero disables smoothing.
	Smooth int
}

// significance of a drop (or rise) given the accumulated variance between the
// two points.
func sig(delta, dvar float64) float64 {
	if delta <= 0 {
		return 0
	}
	if dvar <= 0 {
		return math.Inf(1)
	}
	return delta / math.Sqrt(dvar)
}

// Detect scans the accumulated series once and returns the confirmed
// transition positions mapped to their significance scores. The input is not
// modified; identical inputs yield identical outputs.
func (d Detector) Detect(series []Point) map[float64]float64 {
	result := make(map[float64]float64)
	if len(series) < 2 {
		return result
	}
	pts := series
	if d.Smooth > 1 {
		pts = smooth(series, d.Smooth)
	}
	la := d.Lookahead
	if la < 1 {
		la = 1
	}

	maxIdx, minIdx := 0, 0
	lastCand := 0 // candidate index of the last confirmed extremum
	reset := -1   // detection index of the last confirmation
	lastKind := 0 // +1 max, -1 min, 0 none yet

	for i := 1; i < len(pts); i++ {
		if pts[i].Mean > pts[maxIdx].Mean {
			maxIdx = i
		}
		if pts[i].Mean < pts[minIdx].Mean {
			minIdx = i
		}
		if maxIdx != reset && i-maxIdx >= la {
			z := sig(pts[maxIdx].Mean-pts[i].Mean, pts[i].Var-pts[maxIdx].Var)
			if z > d.ZScore {
				// a candidate at the series origin marks the starting trend,
				// not a transition; advance the state without emitting.
				if maxIdx > 0 {
					onset := d.onset(pts, maxIdx, i, lastCand, +1)
					if lastKind == +1 {
						d.recover(pts, result, lastCand, onset, -1)
					}
					result[pts[onset].Pos] = z
				}
				lastCand, lastKind, reset = maxIdx, +1, i
				maxIdx, minIdx = i, i
				continue
			}
		}
		if minIdx != reset && i-minIdx >= la {
			z := sig(pts[i].Mean-pts[minIdx].Mean, pts[i].Var-pts[minIdx].Var)
			if z > d.ZScore {
				if minIdx > 0 {
					onset := d.onset(pts, minIdx, i, lastCand, -1)
					if lastKind == -1 {
						d.recover(pts, result, lastCand, onset, +1)
					}
					result[pts[onset].Pos] = z
				}
				lastCand, lastKind, reset = minIdx, -1, i
				maxIdx, minIdx = i, i
			}
		}
	}
	return result
}

// onset walks backward from the confirmed candidate toward the previous
// confirmed extremum and returns the earliest point that already meets the
// confirmation margin against the detection point.
func (d Detector) onset(pts []Point, cand, det, last, kind int) int {
	j := cand
	for t := cand; t > last; t-- {
		var z float64
		if kind > 0 {
			z = sig(pts[t].Mean-pts[det].Mean, pts[det].Var-pts[t].Var)
		} else {
			z = sig(pts[det].Mean-pts[t].Mean, pts[det].Var-pts[t].Var)
		}
		if z <= d.ZScore {
			break
		}
		j = t
	}
	return j
}

// recover inserts the best masked extremum of the given kind strictly between
// two same-kind confirmations. The candidate maximizes a normalized
// significance score: the weaker of its margins against the two flanking
// confirmed extrema.
func (d Detector) recover(pts []Point, result map[float64]float64, lo, hi, kind int) {
	best, bestScore := -1, 0.0
	for j := lo + 1; j < hi; j++ {
		var zl, zr float64
		if kind < 0 {
			zl = sig(pts[lo].Mean-pts[j].Mean, pts[j].Var-pts[lo].Var)
			zr = sig(pts[hi].Mean-pts[j].Mean, pts[hi].Var-pts[j].Var)
		} else {
			zl = sig(pts[j].Mean-pts[lo].Mean, pts[j].Var-pts[lo].Var)
			zr = sig(pts[j].Mean-pts[hi].Mean, pts[hi].Var-pts[j].Var)
		}
		score := math.Min(zl, zr)
		if score > bestScore {
			best, bestScore = j, score
		}
	}
	if best >= 0 {
		result[pts[best].Pos] = bestScore
	}
}

// smooth applies a centered running median to the means, leaving positions
// and variances untouched.
func smooth(series []Point, window int) []Point {
	out := make([]Point, len(series))
	copy(out, series)
	mm := movingmedian.NewMovingMedian(window)
	mid := (window - 1) / 2
	for i := 0; i < len(series) && i < mid; i++ {
		mm.Push(series[i].Mean)
	}
	for i := range out {
		if i+mid < len(series) {
			mm.Push(series[i+mid].Mean)
		}
		out[i].Mean = mm.Median()
	}
	return out
}
