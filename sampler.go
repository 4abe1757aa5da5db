package cascade

import "github.com/maseology/mmaths"

// nCoefDim is the dimension of the policy-coefficient sample space.
const nCoefDim = 4

// coefsFromU maps a unit-hypercube sample onto policy-coefficient ranges.
func coefsFromU(u []float64) PolicyCoefs {
	return PolicyCoefs{
		TargetStorage:    mmaths.LinearTransform(.3, .9, u[0]),
		TargetRunOfRiver: mmaths.LinearTransform(.05, .5, u[1]),
		Tolerance:        mmaths.LogLinearTransform(.01, .2, u[2]), // keep >0, a zero band thrashes releases
		FloodFactor:      mmaths.LinearTransform(1., 2., u[3]),
	}
}
