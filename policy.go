package cascade

import (
	"math"
	"time"
)

// PolicyCoefs are the tunable coefficients of the release policy. The zero
// value is replaced by Default; calibration searches over these four terms.
type PolicyCoefs struct {
	TargetStorage    float64 // target storage fraction of capacity, storage reservoirs
	TargetRunOfRiver float64 // target storage fraction, run-of-river reservoirs
	Tolerance        float64 // steady band half-width, fraction of capacity
	FloodFactor      float64 // forced release as a multiple of inflow
}

func DefaultPolicyCoefs() PolicyCoefs {
	return PolicyCoefs{TargetStorage: .6, TargetRunOfRiver: .2, Tolerance: .05, FloodFactor: 1.2}
}

// seasonRule selects the active rule curve: Dec-Mar prefers winter, all else
// falls to summer. nil degrades the policy to pass-through.
func seasonRule(sr *SeasonalRules, t time.Time) *Rule {
	if sr == nil {
		return nil
	}
	switch t.Month() {
	case time.December, time.January, time.February, time.March:
		if sr.Winter != nil {
			return sr.Winter
		}
	}
	return sr.Summer
}

// releaseFor computes the policy release (cfs) for one reservoir at one
// timestep from its prior storage and total inflow. dtSec converts the
// storage deviation from target into an equivalent one-step flow rate.
func releaseFor(r *Reservoir, cf *PolicyCoefs, sto, qin float64, t time.Time, dtSec float64) float64 {
	rule := seasonRule(r.Rules, t)
	if rule == nil {
		return qin // pass-through, no further adjustment
	}

	cap := r.capacity()
	tgtfrac := cf.TargetStorage
	if r.Type == "run_of_river" {
		tgtfrac = cf.TargetRunOfRiver
	}
	if rule.TargetStoragePercent != nil {
		tgtfrac = *rule.TargetStoragePercent / 100.
	}
	target := cap * tgtfrac

	minrel := r.EnvMinReleaseCfs
	if rule.MinReleaseCfs != nil && *rule.MinReleaseCfs > minrel {
		minrel = *rule.MinReleaseCfs
	}
	maxrel := 2. * qin // permissive fallback
	switch {
	case rule.MaxReleaseCfs != nil:
		maxrel = *rule.MaxReleaseCfs
	case r.MaxReleaseCfs != nil:
		maxrel = *r.MaxReleaseCfs
	}
	if maxrel < minrel+1. { // avoid a degenerate zero-width band
		maxrel = minrel + 1.
	}

	rel := qin
	if cap > 0. {
		tol := cf.Tolerance * cap
		switch {
		case sto > target+tol: // surplus: draw storage back toward target
			rel = qin + (sto-target)*cfAcreFoot/dtSec
			if rel > maxrel {
				rel = maxrel
			}
		case sto < target-tol: // deficit: conserve toward target
			rel = qin - (target-sto)*cfAcreFoot/dtSec
			if rel < minrel {
				rel = minrel
			}
		}
	}

	// flood control override
	if fc := r.Rules.FloodControl; fc != nil && cap > 0. && sto/cap*100. > fc.MaxStoragePercent {
		if fr := math.Min(maxrel, qin*cf.FloodFactor); rel < fr {
			rel = fr
		}
	}

	// downstream minimum override
	if r.DownstreamMinReleaseCfs != nil && rel < *r.DownstreamMinReleaseCfs {
		rel = *r.DownstreamMinReleaseCfs
	}

	if rel < minrel {
		rel = minrel
	}
	if rel > maxrel {
		rel = maxrel
	}
	return rel
}
