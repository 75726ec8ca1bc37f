package stats

import (
	"math"
)

// DTWAlignment performs Dynamic Time Warping between two scalar sequences
// with unit step costs and |x-y| as the local cost
type DTWAlignment struct {
	constraintBand int  // Sakoe-Chiba band, <= 0 disables
	withPath       bool // reconstruct the warping path
}

// DTWResult contains DTW alignment results
type DTWResult struct {
	Distance    float64      `json:"distance"`             // accumulated cost at (n, m)
	Path        []AlignPoint `json:"path,omitempty"`       // optimal alignment path, start to end
	Deviations  []float64    `json:"deviations,omitempty"` // local cost along Path
	QueryLength int          `json:"query_length"`
	RefLength   int          `json:"ref_length"`
	Constraint  int          `json:"constraint"`
}

// AlignPoint represents a point in the alignment path
type AlignPoint struct {
	QueryIndex int     `json:"query_index"` // Index in query sequence
	RefIndex   int     `json:"ref_index"`   // Index in reference sequence
	Cost       float64 `json:"cost"`        // Local cost at this point
}

// NewDTWAlignmentWithParams creates DTW with a Sakoe-Chiba band; a band
// <= 0 is unconstrained. A band narrower than the length difference is
// widened to it so the end cell stays reachable.
func NewDTWAlignmentWithParams(constraintBand int, withPath bool) *DTWAlignment {
	return &DTWAlignment{
		constraintBand: constraintBand,
		withPath:       withPath,
	}
}

// Align computes the accumulated cost table
//
//	t[0][0] = 0, t[0][j] = t[i][0] = +Inf
//	t[i][j] = |q[i-1] - r[j-1]| + min(t[i-1][j], t[i][j-1], t[i-1][j-1])
//
// and returns t[n][m]. Either sequence being empty yields distance 0 and
// no path.
func (dtw *DTWAlignment) Align(query, reference []float64) *DTWResult {
	n, m := len(query), len(reference)

	result := &DTWResult{
		QueryLength: n,
		RefLength:   m,
		Constraint:  dtw.constraintBand,
	}
	if n == 0 || m == 0 {
		return result
	}

	band := dtw.constraintBand
	if band > 0 {
		band = max(band, abs(n-m))
		result.Constraint = band
	}

	cost := make([][]float64, n+1)
	for i := range cost {
		cost[i] = make([]float64, m+1)
		for j := range cost[i] {
			cost[i][j] = math.Inf(1)
		}
	}
	cost[0][0] = 0

	for i := 1; i <= n; i++ {
		lo, hi := 1, m
		if band > 0 {
			lo = max(1, i-band)
			hi = min(m, i+band)
		}
		for j := lo; j <= hi; j++ {
			local := math.Abs(query[i-1] - reference[j-1])
			cost[i][j] = local + min(cost[i-1][j], cost[i][j-1], cost[i-1][j-1])
		}
	}

	result.Distance = cost[n][m]

	if dtw.withPath {
		result.Path = backtrack(cost, query, reference)
		result.Deviations = make([]float64, len(result.Path))
		for k, p := range result.Path {
			result.Deviations[k] = p.Cost
		}
	}

	return result
}

// backtrack walks argmin predecessors from (n, m) to (1, 1), preferring
// the diagonal, then up (i-1, j), then left (i, j-1) on ties
func backtrack(cost [][]float64, query, reference []float64) []AlignPoint {
	i, j := len(query), len(reference)
	path := make([]AlignPoint, 0, i+j)

	for {
		path = append(path, AlignPoint{
			QueryIndex: i - 1,
			RefIndex:   j - 1,
			Cost:       math.Abs(query[i-1] - reference[j-1]),
		})
		if i == 1 && j == 1 {
			break
		}

		diag, up, left := cost[i-1][j-1], cost[i-1][j], cost[i][j-1]
		switch {
		case diag <= up && diag <= left:
			i, j = i-1, j-1
		case up <= left:
			i--
		default:
			j--
		}
	}

	for a, b := 0, len(path)-1; a < b; a, b = a+1, b-1 {
		path[a], path[b] = path[b], path[a]
	}

	return path
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
