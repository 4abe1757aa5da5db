package cascade

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/maseology/goHydro/hru"
)

// realization is the mutable state of one simulation run. Runs never share a
// realization; concurrent runs of the same cascade each build their own.
type realization struct {
	tp    *Topology
	cf    PolicyCoefs
	cur   []State   // current state per reservoir, seeds the next timestep
	rel   []float64 // this timestep's resolved releases, by reservoir index
	dtSec float64
}

// step resolves reservoir i at timestamp t given its direct inflow qd. All
// upstream reservoirs must already be resolved at t (zero-lag routing).
func (r *realization) step(i int, t time.Time, qd float64) State {
	res := &r.tp.Res[i]

	qup := 0.
	for _, iu := range r.tp.Us[i] {
		qup += r.rel[iu]
	}
	qin := qd + qup

	prior := r.cur[i]
	rel := releaseFor(res, &r.cf, prior.StorageAF, qin, t, r.dtSec)

	// mass balance
	dv := (qin - rel) * r.dtSec / cfAcreFoot
	sto := prior.StorageAF + dv

	// storage bound correction: adjust release, not storage, wherever
	// possible. Storage is tracked as an offset above minimum so a single
	// Overflow call yields spill (+) or deficit (-).
	clamped := false
	if res.MinStorageAF != nil || res.MaxStorageAF != nil {
		lo, hi := 0., math.Inf(1)
		if res.MinStorageAF != nil {
			lo = *res.MinStorageAF
		}
		if res.MaxStorageAF != nil {
			hi = *res.MaxStorageAF
		}
		x := hru.Res{Sto: prior.StorageAF - lo, Cap: hi - lo}
		if ex := x.Overflow(dv); ex != 0. {
			rel += ex * cfAcreFoot / r.dtSec
		}
		if rel < 0. {
			rel = 0.
		}
		if math.IsNaN(rel) || math.IsInf(rel, 0) {
			rel = 0.
		}
		// keep storage consistent with the adjusted release, then re-clamp
		sto = prior.StorageAF + (qin-rel)*r.dtSec/cfAcreFoot
		if sto > hi {
			sto, clamped = hi, true
		}
		if sto < lo {
			sto, clamped = lo, true
		}
	} else {
		if rel < 0. {
			rel = 0.
		}
		if math.IsNaN(rel) || math.IsInf(rel, 0) {
			rel = 0.
		}
		sto = prior.StorageAF + (qin-rel)*r.dtSec/cfAcreFoot
	}

	// test for water balance
	if !clamped {
		wbal := prior.StorageAF + (qin-rel)*r.dtSec/cfAcreFoot - sto
		if math.Abs(wbal) > nearzero {
			fmt.Printf("%15s %v%14.6f%14.6f%14.6f%14.6f%14.6f\n", res.ID, t, wbal, prior.StorageAF, sto, qin, rel)
			log.Fatalln("reservoir wbal error")
		}
	}

	elev := elevationOf(res, sto)
	head := headOf(res, elev)
	gen, eff := generationOf(res, rel, head)

	st := State{
		ReservoirID:   res.ID,
		T:             t,
		StorageAF:     sto,
		ElevationFt:   elev,
		InflowCfs:     qin,
		ReleaseCfs:    rel,
		GenerationMW:  gen,
		HeadFt:        head,
		EfficiencyPct: eff,
	}
	r.cur[i] = st
	r.rel[i] = rel
	return st
}

// defaultState seeds a reservoir that has no prior state: storage at the
// midpoint of its bounds, at the single known bound, or 0; flows at rest.
func defaultState(res *Reservoir) State {
	sto := 0.
	switch {
	case res.MinStorageAF != nil && res.MaxStorageAF != nil:
		sto = (*res.MinStorageAF + *res.MaxStorageAF) / 2.
	case res.MaxStorageAF != nil:
		sto = *res.MaxStorageAF
	case res.MinStorageAF != nil:
		sto = *res.MinStorageAF
	}
	elev := elevationOf(res, sto)
	return State{
		ReservoirID: res.ID,
		StorageAF:   sto,
		ElevationFt: elev,
		HeadFt:      headOf(res, elev),
	}
}
