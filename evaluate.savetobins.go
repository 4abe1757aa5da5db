package cascade

import (
	"fmt"

	"github.com/maseology/mmio"
)

func (ev *Evaluator) saveToBins(r *realization, out []State, hyd []float64, nt int, outdirprfx string) {

	n := len(ev.Topo.Res)
	lsto, gen := make([]float64, n), make([]float64, nt)
	for i := range ev.Topo.Res {
		lsto[i] = r.cur[i].StorageAF
	}
	for k, st := range out {
		gen[k/n] += st.GenerationMW
	}

	writeFloats(outdirprfx+"hyd.bin", hyd)
	writeFloats(outdirprfx+"gen.bin", gen)
	writeFloats(outdirprfx+"lsto.bin", lsto)
	writeStatesCsv(outdirprfx+"states.csv", ev.Topo.CascadeID, out)
}

func writeStatesCsv(fp, cascadeID string, states []State) {
	lns := make([]string, 0, len(states)+1)
	lns = append(lns, "cascade_id,reservoir_id,timestamp,inflow_cfs,storage_af,elevation_feet,release_cfs,generation_mw,head_feet,efficiency_percent")
	for _, st := range states {
		lns = append(lns, fmt.Sprintf("%s,%s,%s,%f,%f,%f,%f,%f,%f,%f",
			cascadeID, st.ReservoirID, st.T.Format("2006-01-02 15:04:05"),
			st.InflowCfs, st.StorageAF, st.ElevationFt, st.ReleaseCfs,
			st.GenerationMW, st.HeadFt, st.EfficiencyPct))
	}
	mmio.WriteLines(fp, lns)
}
