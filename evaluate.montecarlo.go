package cascade

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/254CARBON/cascade/inflow"
	"github.com/maseology/mmio"
	"github.com/maseology/montecarlo/smpln"
	"github.com/maseology/objfunc"
	mrg63k3a "github.com/maseology/goRNG/MRG63k3a"
)

// GenerateSamples runs n Latin-hypercube samples of the policy coefficients,
// writing each sample's outlet hydrograph and, when an observed series is
// given, a KGE score table for the batch.
func (ev *Evaluator) GenerateSamples(frc *inflow.Series, obs []float64, n int, outdir string) {

	// build sampling plan
	rng := rand.New(mrg63k3a.New())
	rng.Seed(time.Now().UnixNano())
	sp := smpln.NewLHC(rng, n, nCoefDim, false)

	outdirbatch := outdir + time.Now().Format("060102150405") // batch number = date
	func() { // save sample space
		lns := make([]string, n)
		for k := 0; k < n; k++ {
			lns[k] = fmt.Sprint(k)
			for j := 0; j < nCoefDim; j++ {
				lns[k] += fmt.Sprintf(",%f", sp.U[j][k])
			}
		}
		mmio.WriteLines(outdirbatch+".samplespace.csv", lns)
	}()

	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	scores := make([]float64, n)
	wg.Add(n)
	for k := 0; k < n; k++ {
		go func(k int, outdirprfx string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			ut := make([]float64, nCoefDim)
			for j := 0; j < nCoefDim; j++ {
				ut[j] = sp.U[j][k]
			}

			e := *ev
			e.Coefs = coefsFromU(ut)
			_, hyd := e.EvaluateQuick(frc, nil)
			writeFloats(outdirprfx+"hyd.bin", hyd)
			if obs != nil {
				scores[k] = objfunc.KGE(obs, hyd)
			}
		}(k, fmt.Sprintf("%s.%d.", outdirbatch, k))
	}
	wg.Wait()

	if obs != nil {
		lns := make([]string, n)
		for k := 0; k < n; k++ {
			lns[k] = fmt.Sprintf("%d,%f", k, scores[k])
		}
		mmio.WriteLines(outdirbatch+".kge.csv", lns)
	}
}
