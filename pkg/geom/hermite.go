package geom

import (
	"astrodyn-platform/pkg/errors"
)

// HermiteInterpolator fits a polynomial through vector-valued samples using
// Newton divided differences. Each sample carries a value and optionally its
// first derivative; samples with derivatives count twice in the polynomial
// degree. Samples may be added in any abscissa order.
type HermiteInterpolator struct {
	abscissae      []float64
	topDiagonal    [][]float64
	bottomDiagonal [][]float64
	dimension      int
}

// NewHermiteInterpolator returns an empty interpolator.
func NewHermiteInterpolator() *HermiteInterpolator {
	return &HermiteInterpolator{}
}

// AddSamplePoint adds a sample at abscissa x. value is required; at most one
// derivative slice may follow and must have the same length. Adding two
// value-only samples at the same abscissa is rejected.
func (h *HermiteInterpolator) AddSamplePoint(x float64, value []float64, derivatives ...[]float64) error {
	if len(derivatives) > 1 {
		return errors.Newf("at most one derivative order supported, got %d", len(derivatives))
	}
	if h.dimension == 0 {
		h.dimension = len(value)
	}
	if len(value) != h.dimension {
		return errors.Newf("sample dimension mismatch: expected %d, got %d", h.dimension, len(value))
	}
	for i := 0; i <= len(derivatives); i++ {
		var y []float64
		if i == 0 {
			y = append([]float64(nil), value...)
		} else {
			if len(derivatives[i-1]) != h.dimension {
				return errors.Newf("derivative dimension mismatch: expected %d, got %d", h.dimension, len(derivatives[i-1]))
			}
			y = append([]float64(nil), derivatives[i-1]...)
		}

		// Insert the new entry and update the rightmost diagonal of the
		// divided differences table.
		n := len(h.abscissae)
		at := n - i
		h.bottomDiagonal = append(h.bottomDiagonal, nil)
		copy(h.bottomDiagonal[at+1:], h.bottomDiagonal[at:])
		h.bottomDiagonal[at] = y

		bottom0 := y
		for j := i; j < n; j++ {
			bottom1 := h.bottomDiagonal[n-(j+1)]
			dx := x - h.abscissae[n-(j+1)]
			if dx == 0 {
				return errors.Newf("duplicated abscissa %g in interpolation sample set", x)
			}
			inv := 1 / dx
			for k := 0; k < h.dimension; k++ {
				bottom1[k] = inv * (bottom0[k] - bottom1[k])
			}
			bottom0 = bottom1
		}

		h.topDiagonal = append(h.topDiagonal, append([]float64(nil), bottom0...))
		h.abscissae = append(h.abscissae, x)
	}
	return nil
}

// Value evaluates the fitted polynomial at x. It returns nil when no sample
// has been added.
func (h *HermiteInterpolator) Value(x float64) []float64 {
	v, _ := h.ValueAndDerivative(x)
	return v
}

// ValueAndDerivative evaluates the fitted polynomial and its first
// derivative at x. It returns nils when no sample has been added.
func (h *HermiteInterpolator) ValueAndDerivative(x float64) (value, derivative []float64) {
	if len(h.abscissae) == 0 {
		return nil, nil
	}
	value = make([]float64, h.dimension)
	derivative = make([]float64, h.dimension)
	valueCoeff := 1.0
	derivativeCoeff := 0.0
	for i, dd := range h.topDiagonal {
		deltaX := x - h.abscissae[i]
		for k := 0; k < h.dimension; k++ {
			value[k] += dd[k] * valueCoeff
			derivative[k] += dd[k] * derivativeCoeff
		}
		derivativeCoeff = valueCoeff + derivativeCoeff*deltaX
		valueCoeff *= deltaX
	}
	return value, derivative
}
