package cascade

import "time"

// State is the snapshot of one reservoir at one instant. A state is never
// mutated once built; each timestep replaces the previous snapshot.
type State struct {
	ReservoirID   string
	T             time.Time // UTC
	StorageAF     float64   // stored volume (acre-feet)
	ElevationFt   float64   // water-surface elevation
	InflowCfs     float64   // direct inflow plus upstream releases
	ReleaseCfs    float64   // policy release after bound correction
	GenerationMW  float64
	HeadFt        float64
	EfficiencyPct float64
}
