package cascade

import "github.com/254CARBON/cascade/inflow"

// EvaluateQuick runs the cascade serially with no progress reporting or
// output files, returning every reservoir state in resolution order per
// timestep plus the terminal-release hydrograph. This is the evaluation core
// the sampler and optimizer drive.
func (ev *Evaluator) EvaluateQuick(frc *inflow.Series, init map[string]State) ([]State, []float64) {
	nt := len(frc.T)
	if nt == 0 {
		return nil, nil
	}
	r := ev.buildRealization(init)
	n := len(ev.Topo.Res)
	out := make([]State, 0, nt*n)
	hyd := make([]float64, nt)
	for j, t := range frc.T {
		for _, i := range ev.Topo.Order { // upstream before downstream
			st := r.step(i, t, ev.flowAt(frc, i, j))
			out = append(out, st)
			if len(ev.Topo.Ds[i]) == 0 {
				hyd[j] += st.ReleaseCfs
			}
		}
	}
	return out, hyd
}
