package cascade

import "github.com/maseology/mmaths"

// Pure storage-elevation-head-generation conversions. Missing physical
// metadata degrades to zeros, never errors; a single sparsely described
// reservoir must not halt the run.

// elevationOf linearly maps the storage fraction onto the reservoir's
// elevation range, clamped. 0 when capacity is unknown.
func elevationOf(r *Reservoir, sto float64) float64 {
	cap := r.capacity()
	if cap <= 0. {
		return 0.
	}
	e := mmaths.LinearTransform(r.MinElevFt, r.MaxElevFt, sto/cap)
	if e < r.MinElevFt {
		e = r.MinElevFt
	}
	if e > r.MaxElevFt {
		e = r.MaxElevFt
	}
	return e
}

// headOf derives hydraulic head from elevation: curve lookup when a head
// curve exists (extrapolating beyond its ends), elevation less tailwater
// otherwise. Never negative.
func headOf(r *Reservoir, elev float64) float64 {
	var h float64
	if r.HeadCurve != nil {
		h = interp(r.HeadCurve, elev, true)
	} else {
		h = elev - r.TailwaterFt
	}
	if h < 0. {
		return 0.
	}
	return h
}

// generationOf returns generation (MW) and the efficiency (%) used. Both are
// 0 when there is no release or no head.
func generationOf(r *Reservoir, rel, head float64) (gen, eff float64) {
	if rel <= 0. || head <= 0. {
		return 0., 0.
	}
	eff = defaultEff
	if r.EffCurve != nil {
		eff = interp(r.EffCurve, rel, false)
	}
	gen = rel * head * eff / 100. / genFactor
	if r.MaxGenerationMW != nil && gen > *r.MaxGenerationMW {
		gen = *r.MaxGenerationMW
		if gen <= 0. {
			eff = 0.
		}
	}
	if gen < 0. {
		gen = 0.
	}
	return gen, eff
}

// interp is a piecewise-linear lookup over a curve's sample points,
// extrapolating from the end segments when extrap is set, clamping to the
// end values otherwise.
func interp(c *Curve, x float64, extrap bool) float64 {
	n := len(c.X)
	if n == 0 || len(c.Y) != n {
		return 0.
	}
	if n == 1 {
		return c.Y[0]
	}
	seg := func(i int) float64 {
		x0, x1, y0, y1 := c.X[i], c.X[i+1], c.Y[i], c.Y[i+1]
		if x1 == x0 {
			return y0
		}
		return y0 + (y1-y0)*(x-x0)/(x1-x0)
	}
	switch {
	case x <= c.X[0]:
		if extrap {
			return seg(0)
		}
		return c.Y[0]
	case x >= c.X[n-1]:
		if extrap {
			return seg(n - 2)
		}
		return c.Y[n-1]
	}
	for i := 0; i < n-1; i++ {
		if x <= c.X[i+1] {
			return seg(i)
		}
	}
	return c.Y[n-1]
}
