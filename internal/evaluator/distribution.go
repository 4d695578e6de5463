package evaluator

import (
	"math"

	"github.com/yourusername/hedge-bets/internal/models"
)

// tailScaleDivisor sets each exponential tail's scale to a quarter of the
// adjacent inner segment, which makes the density continuous at q10 and q90.
const tailScaleDivisor = 4.0

// distribution is a continuous outcome distribution through three quantile
// points: linear CDF between (q10,0.1), (q50,0.5), (q90,0.9) with exponential
// tails carrying the outer 10% on each side. Zero-width segments collapse into
// point masses.
type distribution struct {
	q          models.Quantiles
	lowerScale float64
	upperScale float64
}

func newDistribution(q models.Quantiles) distribution {
	return distribution{
		q:          q,
		lowerScale: (q.Q50 - q.Q10) / tailScaleDivisor,
		upperScale: (q.Q90 - q.Q50) / tailScaleDivisor,
	}
}

// cdf returns P(X <= x).
func (d distribution) cdf(x float64) float64 {
	switch {
	case x < d.q.Q10:
		return d.lowerTail(x)
	case x < d.q.Q50:
		return d.lowerSegment(x)
	case x < d.q.Q90:
		return d.upperSegment(x)
	default:
		return d.upperTail(x)
	}
}

// cdfBelow returns P(X < x), which differs from cdf only at point masses.
func (d distribution) cdfBelow(x float64) float64 {
	switch {
	case x <= d.q.Q10:
		return d.lowerTail(x)
	case x <= d.q.Q50:
		return d.lowerSegment(x)
	case x <= d.q.Q90:
		return d.upperSegment(x)
	default:
		return d.upperTail(x)
	}
}

// midCDF splits any probability mass sitting exactly on x evenly between
// both sides.
func (d distribution) midCDF(x float64) float64 {
	return (d.cdf(x) + d.cdfBelow(x)) / 2
}

func (d distribution) lowerTail(x float64) float64 {
	if d.lowerScale <= 0 {
		return 0
	}
	return 0.1 * math.Exp((x-d.q.Q10)/d.lowerScale)
}

func (d distribution) lowerSegment(x float64) float64 {
	return 0.1 + 0.4*(x-d.q.Q10)/(d.q.Q50-d.q.Q10)
}

func (d distribution) upperSegment(x float64) float64 {
	return 0.5 + 0.4*(x-d.q.Q50)/(d.q.Q90-d.q.Q50)
}

func (d distribution) upperTail(x float64) float64 {
	if d.upperScale <= 0 {
		return 1
	}
	return 1 - 0.1*math.Exp(-(x-d.q.Q90)/d.upperScale)
}
