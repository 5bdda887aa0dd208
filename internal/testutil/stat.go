package testutil

import "math"

// Chi2Statistic is a chi-square test result, mirroring the original's
// Chi2Statistic<V> (src/testing/stat.rs).
type Chi2Statistic struct {
	Chi2 float64
	Dof  int
	P    float64
}

// chi2 computes the chi-square statistic and p-value for observed vs.
// expected frequency tables, matching the original's chi2().
func chi2(observed, expected []float64, dof int) Chi2Statistic {
	var stat float64
	for i := range observed {
		diff := observed[i] - expected[i]
		stat += diff * diff / expected[i]
	}
	return Chi2Statistic{Chi2: stat, Dof: dof, P: 1 - chiSquareCDF(stat, dof)}
}

// ChiSquareIndependence performs a chi-square test of independence over a
// contingency table (rows x cols), matching the original's
// chi2_independence(). Used by the statistical universality harness to
// check that a hasher's output on one key is independent of its output on
// another (spec P7's "approximately universal" testable property).
func ChiSquareIndependence(contingency [][]float64) Chi2Statistic {
	rows := len(contingency)
	cols := len(contingency[0])

	rowSums := make([]float64, rows)
	colSums := make([]float64, cols)
	var total float64

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := contingency[i][j]
			rowSums[i] += v
			colSums[j] += v
			total += v
		}
	}

	observed := make([]float64, 0, rows*cols)
	expected := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			observed = append(observed, contingency[i][j])
			expected = append(expected, rowSums[i]*colSums[j]/total)
		}
	}

	dof := (rows - 1) * (cols - 1)
	return chi2(observed, expected, dof)
}

// ChiSquareUniformity performs a chi-square goodness-of-fit test against a
// uniform distribution, matching the original's chi2_uniformity().
func ChiSquareUniformity(observed []float64) Chi2Statistic {
	var total float64
	for _, v := range observed {
		total += v
	}
	expectedValue := total / float64(len(observed))

	expected := make([]float64, len(observed))
	for i := range expected {
		expected[i] = expectedValue
	}

	return chi2(observed, expected, len(observed)-1)
}

// chiSquareCDF evaluates the chi-square CDF via the regularized lower
// incomplete gamma function (dof/2, x/2); no example repo in this corpus
// wraps a statistics library for a distribution CDF (the closest, the
// original's statrs crate, has no Go analogue among the pack's
// dependencies), so this is implemented directly against math.Gamma via
// the standard series/continued-fraction expansion.
func chiSquareCDF(x float64, dof int) float64 {
	if x <= 0 || dof <= 0 {
		return 0
	}
	return regularizedLowerIncompleteGamma(float64(dof)/2, x/2)
}

func regularizedLowerIncompleteGamma(a, x float64) float64 {
	if x < a+1 {
		return gammaSeries(a, x)
	}
	return 1 - gammaContinuedFraction(a, x)
}

func gammaSeries(a, x float64) float64 {
	if x == 0 {
		return 0
	}
	term := 1 / a
	sum := term
	for n := 1; n < 200; n++ {
		term *= x / (a + float64(n))
		sum += term
		if math.Abs(term) < math.Abs(sum)*1e-14 {
			break
		}
	}
	return sum * math.Exp(-x+a*math.Log(x)-lgamma(a))
}

func gammaContinuedFraction(a, x float64) float64 {
	const tiny = 1e-300
	b := x + 1 - a
	c := 1 / tiny
	d := 1 / b
	h := d
	for i := 1; i < 200; i++ {
		an := -float64(i) * (float64(i) - a)
		b += 2
		d = an*d + b
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = b + an/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		delta := d * c
		h *= delta
		if math.Abs(delta-1) < 1e-14 {
			break
		}
	}
	return math.Exp(-x+a*math.Log(x)-lgamma(a)) * h
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}
