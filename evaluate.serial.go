package cascade

import (
	"fmt"

	"github.com/254CARBON/cascade/inflow"
	"github.com/gosuri/uiprogress"
)

// EvaluateSerial runs a single simulation with a per-timestep progress bar,
// optionally dumping results under outdirprfx.
func (ev *Evaluator) EvaluateSerial(frc *inflow.Series, init map[string]State, outdirprfx string) []State {
	nt := len(frc.T)
	if nt == 0 {
		return nil
	}
	r := ev.buildRealization(init)
	n := len(ev.Topo.Res)

	uiprogress.Start()
	timestep := make(chan string)
	bar := uiprogress.AddBar(nt).AppendCompleted().PrependElapsed()
	bar.PrependFunc(func(b *uiprogress.Bar) string {
		return <-timestep
	})

	out := make([]State, 0, nt*n)
	hyd := make([]float64, nt)
	for j, t := range frc.T {
		timestep <- fmt.Sprint(t)
		for _, i := range ev.Topo.Order {
			st := r.step(i, t, ev.flowAt(frc, i, j))
			out = append(out, st)
			if len(ev.Topo.Ds[i]) == 0 {
				hyd[j] += st.ReleaseCfs
			}
		}
		bar.Incr()
	}
	close(timestep)
	uiprogress.Stop()

	if len(outdirprfx) > 0 {
		ev.saveToBins(r, out, hyd, nt, outdirprfx)
	}
	return out
}
