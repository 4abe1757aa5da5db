package cascade

import (
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/254CARBON/cascade/inflow"
	"github.com/maseology/glbopt"
	"github.com/maseology/objfunc"
	mrg63k3a "github.com/maseology/goRNG/MRG63k3a"
)

// CalibrateCoefs searches the policy-coefficient space for the best fit of
// the simulated outlet hydrograph to an observed discharge series,
// minimizing 1-KGE with shuffled complex evolution. Returns the fitted
// coefficients and their KGE.
func (ev *Evaluator) CalibrateCoefs(frc *inflow.Series, obs []float64) (PolicyCoefs, float64) {
	rng := rand.New(mrg63k3a.New())
	rng.Seed(time.Now().UnixNano())

	gen := func(u []float64) float64 {
		e := *ev
		e.Coefs = coefsFromU(u)
		_, sim := e.EvaluateQuick(frc, nil)
		return 1. - objfunc.KGE(obs, sim)
	}

	fmt.Println(" optimizing..")
	uFinal, _ := glbopt.SCE(runtime.GOMAXPROCS(0), nCoefDim, rng, gen, true)

	cf := coefsFromU(uFinal)
	e := *ev
	e.Coefs = cf
	_, sim := e.EvaluateQuick(frc, nil)
	kge, nse, bias := objfunc.KGE(obs, sim), objfunc.NSE(obs, sim), objfunc.Bias(obs, sim)
	fmt.Printf("\nfinal coefficients:\n\ttarget storage:\t%v\n\ttarget ROR:\t%v\n\ttolerance:\t%v\n\tflood factor:\t%v\n", cf.TargetStorage, cf.TargetRunOfRiver, cf.Tolerance, cf.FloodFactor)
	fmt.Printf("\tKGE: %.3f\tNSE: %.3f\tbias: %.3f\n\n", kge, nse, bias)
	return cf, kge
}
