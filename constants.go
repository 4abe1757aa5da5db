package cascade

const (
	nearzero = 1e-8

	cfAcreFoot = 43560.   // cubic feet per acre-foot
	ftPerM     = 3.28084  // metric elevations normalized to feet at load
	genFactor  = 11.8     // cfs·ft·% to MW, simplified turbine constant
	defaultEff = 85.      // turbine efficiency (%) absent a curve
	secPerHr   = 3600.
)
