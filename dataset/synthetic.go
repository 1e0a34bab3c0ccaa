package dataset

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Fixed seeds so the synthetic sources are reproducible across runs and
// independent of the harness generator that drives mask draws.
const (
	lowRankSeed   = 0
	swissRollSeed = 0
)

// lowRank builds a mostly low-rank matrix from two QR-orthonormalized
// Gaussian factors and a bell-shaped singular value profile. The profile is
// the sum of a low-rank term (1-tail)*exp(-(i/rank)^2) and a slowly decaying
// tail term tail*exp(-i/(10*rank)), so the matrix has an effective rank of
// effectiveRank while staying full rank numerically.
func lowRank(samples, features, effectiveRank int, tailStrength float64, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))

	u := orthonormal(rng, samples, features)
	v := orthonormal(rng, features, features)

	// Scale the columns of u by the singular value profile.
	us := mat.NewDense(samples, features, nil)
	for j := 0; j < features; j++ {
		si := float64(j) / float64(effectiveRank)
		low := (1 - tailStrength) * math.Exp(-si*si)
		tail := tailStrength * math.Exp(-0.1*si)
		s := low + tail
		for i := 0; i < samples; i++ {
			us.Set(i, j, u.At(i, j)*s)
		}
	}

	var x mat.Dense
	x.Mul(us, v.T())
	return &x
}

// orthonormal returns the thin Q factor of a random Gaussian rows x cols
// matrix, i.e. a matrix with orthonormal columns.
func orthonormal(rng *rand.Rand, rows, cols int) *mat.Dense {
	a := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			a.Set(i, j, rng.NormFloat64())
		}
	}

	var qr mat.QR
	qr.Factorize(a)
	var q mat.Dense
	qr.QTo(&q)
	return q.Slice(0, rows, 0, cols).(*mat.Dense)
}

// swissRoll samples the 3-D swiss roll embedding and appends the generating
// parameter t as a fourth feature column, so the matrix has one more column
// than the raw embedding.
func swissRoll(samples int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))

	x := mat.NewDense(samples, 4, nil)
	for i := 0; i < samples; i++ {
		t := 1.5 * math.Pi * (1 + 2*rng.Float64())
		y := 21 * rng.Float64()
		x.Set(i, 0, t*math.Cos(t))
		x.Set(i, 1, y)
		x.Set(i, 2, t*math.Sin(t))
		x.Set(i, 3, t)
	}
	return x
}
