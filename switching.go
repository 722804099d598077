package hybrid

import "math"

// PolynomialL is the default "Mercury" changeover function: a C2-continuous
// quintic whose first two derivatives vanish at both endpoints.
func PolynomialL(d, dcrit float64) float64 {
	y := (d - 0.1*dcrit) / (0.9 * dcrit)
	switch {
	case y < 0:
		return 0
	case y > 1:
		return 1
	default:
		return 10*(y*y*y) - 15*(y*y*y*y) + 6*(y*y*y*y*y)
	}
}

// fSmoothstep is the building block of SmoothL: exp(-1/x) for x>0, else 0.
func fSmoothstep(x float64) float64 {
	if x < 0 {
		return 0
	}
	return math.Exp(-1 / x)
}

// SmoothL is the infinitely differentiable changeover function.
func SmoothL(d, dcrit float64) float64 {
	y := (d - 0.1*dcrit) / (0.9 * dcrit)
	switch {
	case y < 0:
		return 0
	case y > 1:
		return 1
	default:
		fy := fSmoothstep(y)
		f1y := fSmoothstep(1 - y)
		return fy / (fy + f1y)
	}
}
