// Package inflow holds the time-ordered per-reservoir inflow observations
// driving a cascade simulation.
package inflow

import "time"

// Row is one raw inflow observation as it arrives from upstream plumbing.
// T is coerced to UTC at build; rows that will not parse are dropped.
type Row struct {
	T   string
	ID  string // reservoir id
	Cfs float64
}

// Series is the compiled observation matrix: strictly ascending timestamps
// by reservoir, missing cells zero-filled.
type Series struct {
	T           []time.Time // UTC, ascending
	XR          map[string]int
	Q           [][]float64 // [reservoir][date]
	IntervalSec float64
}
