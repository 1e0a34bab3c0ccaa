package impute

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// KNN fills each missing entry with a distance-weighted average over the k
// nearest rows that observe the entry's column. Distances are root mean
// squared differences over the columns both rows observe, so rows with
// different missingness patterns remain comparable. Parameterized by the
// neighbour count k.
type KNN struct{}

// NewKNN creates a distance-weighted nearest-neighbour imputer.
func NewKNN() KNN {
	return KNN{}
}

func (KNN) Name() string {
	return "knn"
}

func (KNN) FitTransform(x *mat.Dense, params Params) (*mat.Dense, error) {
	k := int(params["k"])
	if k < 1 {
		return nil, errors.Errorf("knn: invalid neighbour count %d", k)
	}

	means, err := columnMeans(x)
	if err != nil {
		return nil, err
	}

	out := mat.DenseCopyOf(x)
	rows, cols := x.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if observed(x.At(i, j)) {
				continue
			}

			type neighbour struct {
				row   int
				dist  float64
				value float64
			}
			var ns []neighbour
			for r := 0; r < rows; r++ {
				if r == i || !observed(x.At(r, j)) {
					continue
				}
				d, ok := rowDistance(x, i, r)
				if !ok {
					continue
				}
				ns = append(ns, neighbour{row: r, dist: d, value: x.At(r, j)})
			}

			// No row observes this column alongside row i; fall back to the
			// column mean.
			if len(ns) == 0 {
				out.Set(i, j, means[j])
				continue
			}

			sort.Slice(ns, func(a, b int) bool {
				if ns[a].dist != ns[b].dist {
					return ns[a].dist < ns[b].dist
				}
				return ns[a].row < ns[b].row
			})
			if len(ns) > k {
				ns = ns[:k]
			}

			if ns[0].dist == 0 {
				// Exact duplicates; copy their value rather than dividing by
				// a zero distance.
				var (
					sum float64
					n   int
				)
				for _, nb := range ns {
					if nb.dist == 0 {
						sum += nb.value
						n++
					}
				}
				out.Set(i, j, sum/float64(n))
				continue
			}

			var num, den float64
			for _, nb := range ns {
				w := 1 / nb.dist
				num += w * nb.value
				den += w
			}
			out.Set(i, j, num/den)
		}
	}
	return out, nil
}

// rowDistance is the root mean squared difference between rows a and b over
// the columns both observe. ok is false when the rows share no observed
// column.
func rowDistance(x *mat.Dense, a, b int) (d float64, ok bool) {
	_, cols := x.Dims()
	var (
		sum float64
		n   int
	)
	for j := 0; j < cols; j++ {
		va, vb := x.At(a, j), x.At(b, j)
		if observed(va) && observed(vb) {
			diff := va - vb
			sum += diff * diff
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return math.Sqrt(sum / float64(n)), true
}
