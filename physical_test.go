package cascade

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElevationLinearInStorageFraction(t *testing.T) {
	r := Reservoir{ID: "r", MaxStorageAF: fpt(1000.), MinElevFt: 100., MaxElevFt: 200.}
	assert.Equal(t, 100., elevationOf(&r, 0.))
	assert.Equal(t, 150., elevationOf(&r, 500.))
	assert.Equal(t, 200., elevationOf(&r, 1000.))
	assert.Equal(t, 200., elevationOf(&r, 1500.)) // clamped
	assert.Equal(t, 100., elevationOf(&r, -10.))
}

func TestElevationZeroWithoutCapacity(t *testing.T) {
	r := Reservoir{ID: "r", MinElevFt: 100., MaxElevFt: 200.}
	assert.Zero(t, elevationOf(&r, 500.))
}

func TestHeadFromTailwater(t *testing.T) {
	r := Reservoir{ID: "r", TailwaterFt: 120.}
	assert.Equal(t, 30., headOf(&r, 150.))
	assert.Zero(t, headOf(&r, 100.)) // never negative
}

func TestHeadFromCurve(t *testing.T) {
	r := Reservoir{ID: "r", HeadCurve: &Curve{X: []float64{100., 200.}, Y: []float64{10., 50.}}}
	assert.Equal(t, 30., headOf(&r, 150.))
	assert.Equal(t, 70., headOf(&r, 250.)) // extrapolated from the end segment
	assert.Zero(t, headOf(&r, 50.))        // extrapolates to -10, floored
}

func TestGenerationZeroWithoutFlowOrHead(t *testing.T) {
	r := Reservoir{ID: "r"}
	for _, c := range [][2]float64{{0., 100.}, {-5., 100.}, {100., 0.}, {100., -1.}} {
		gen, eff := generationOf(&r, c[0], c[1])
		assert.Zero(t, gen)
		assert.Zero(t, eff)
	}
}

func TestGenerationDefaultEfficiency(t *testing.T) {
	r := Reservoir{ID: "r"}
	gen, eff := generationOf(&r, 100., 118.)
	assert.Equal(t, 85., eff)
	assert.InDelta(t, 100.*118.*.85/11.8, gen, 1e-9) // 850 MW
}

func TestGenerationEfficiencyCurve(t *testing.T) {
	r := Reservoir{ID: "r", EffCurve: &Curve{X: []float64{0., 100.}, Y: []float64{50., 90.}}}
	gen, eff := generationOf(&r, 50., 11.8)
	assert.Equal(t, 70., eff)
	assert.InDelta(t, 50.*.7, gen, 1e-9)

	_, eff = generationOf(&r, 500., 11.8) // clamped to the curve end
	assert.Equal(t, 90., eff)
}

func TestGenerationCap(t *testing.T) {
	r := Reservoir{ID: "r", MaxGenerationMW: fpt(100.)}
	gen, eff := generationOf(&r, 1000., 1000.)
	assert.Equal(t, 100., gen)
	assert.Equal(t, 85., eff)

	r.MaxGenerationMW = fpt(0.)
	gen, eff = generationOf(&r, 1000., 1000.)
	assert.Zero(t, gen)
	assert.Zero(t, eff)
}

func TestConversionsArePure(t *testing.T) {
	r := Reservoir{ID: "r", MaxStorageAF: fpt(1000.), MinElevFt: 100., MaxElevFt: 200., TailwaterFt: 90.}
	e1, e2 := elevationOf(&r, 640.), elevationOf(&r, 640.)
	h1, h2 := headOf(&r, e1), headOf(&r, e2)
	g1, f1 := generationOf(&r, 75., h1)
	g2, f2 := generationOf(&r, 75., h2)
	assert.Equal(t, e1, e2)
	assert.Equal(t, h1, h2)
	assert.Equal(t, g1, g2)
	assert.Equal(t, f1, f2)
}
