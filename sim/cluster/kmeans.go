// Package cluster groups grid coordinates with k-means to suggest store locations.
// This package has no dependencies on sim/ and works on plain (row, col) points.
package cluster

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// MaxIterations caps the assignment/update loop.
const MaxIterations = 100

var (
	// ErrEmptyInput reports clustering over an empty point set.
	ErrEmptyInput = errors.New("empty input")
	// ErrInvalidClusterCount reports k < 1.
	ErrInvalidClusterCount = errors.New("invalid cluster count")
)

// Point is a grid coordinate.
type Point struct {
	Row float64 `json:"row"`
	Col float64 `json:"col"`
}

func (p Point) vec() []float64 { return []float64{p.Row, p.Col} }

// Result summarises one cluster. Centroid and RoundedCenter are (row, col).
type Result struct {
	Centroid      [2]float64 `json:"centroid"`
	RoundedCenter [2]int     `json:"rounded_center"`
	MemberCount   int        `json:"member_count"`
}

// Cluster runs k-means over points and returns min(k, len(points)) results, in
// centroid initialisation order. A k larger than the point count is not an
// error; the working centroid count is capped at len(points).
//
// Initialisation is farthest-first: the first centroid is a point chosen with rng,
// each later one is the point farthest from all centroids chosen so far. When k
// exceeds the number of distinct points the extra centroids duplicate existing
// ones and end with MemberCount 0. A centroid that loses all its members keeps
// its previous position. Member counts always come from an assignment against
// the returned centroids.
func Cluster(points []Point, k int, rng *rand.Rand) ([]Result, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("cluster: %w", ErrEmptyInput)
	}
	if k < 1 {
		return nil, fmt.Errorf("cluster: k=%d: %w", k, ErrInvalidClusterCount)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(0))
	}
	k = min(k, len(points))

	vecs := make([][]float64, len(points))
	for i, p := range points {
		vecs[i] = p.vec()
	}

	centroids := initCentroids(vecs, k, rng)
	assignment := make([]int, len(vecs))
	for i := range assignment {
		assignment[i] = -1
	}

	iterate(vecs, centroids, assignment, MaxIterations)

	results := make([]Result, k)
	for c, centroid := range centroids {
		results[c] = Result{
			Centroid:      [2]float64{centroid[0], centroid[1]},
			RoundedCenter: [2]int{int(math.Round(centroid[0])), int(math.Round(centroid[1]))},
		}
	}
	for _, c := range assignment {
		results[c].MemberCount++
	}
	return results, nil
}

func initCentroids(vecs [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := make([]float64, 2)
	copy(first, vecs[rng.Intn(len(vecs))])
	centroids = append(centroids, first)

	// nearest[i] is the distance from vecs[i] to its closest chosen centroid.
	nearest := make([]float64, len(vecs))
	for i, v := range vecs {
		nearest[i] = floats.Distance(v, centroids[0], 2)
	}
	for len(centroids) < k {
		far := floats.MaxIdx(nearest)
		next := make([]float64, 2)
		copy(next, vecs[far])
		centroids = append(centroids, next)
		for i, v := range vecs {
			nearest[i] = math.Min(nearest[i], floats.Distance(v, next, 2))
		}
	}
	return centroids
}

// iterate alternates assign and update until no assignment changes or limit
// rounds have run. It always ends on an assign, so assignment matches centroids.
func iterate(vecs, centroids [][]float64, assignment []int, limit int) {
	for iter := 0; iter < limit; iter++ {
		if !assign(vecs, centroids, assignment) {
			return
		}
		update(vecs, centroids, assignment)
	}
	assign(vecs, centroids, assignment)
}

// assign moves every point to its nearest centroid (first wins on ties) and
// reports whether any assignment changed.
func assign(vecs, centroids [][]float64, assignment []int) bool {
	changed := false
	for i, v := range vecs {
		best, bestDist := 0, math.Inf(1)
		for c, centroid := range centroids {
			if d := floats.Distance(v, centroid, 2); d < bestDist {
				best, bestDist = c, d
			}
		}
		if assignment[i] != best {
			assignment[i] = best
			changed = true
		}
	}
	return changed
}

// update moves each centroid to the mean of its members.
func update(vecs, centroids [][]float64, assignment []int) {
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, 2)
	}
	for i, c := range assignment {
		floats.Add(sums[c], vecs[i])
		counts[c]++
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		floats.ScaleTo(centroids[c], 1/float64(counts[c]), sums[c])
	}
}
