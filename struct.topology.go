package cascade

import (
	"encoding/gob"
	"fmt"
	"os"
)

// Curve holds paired sample points for piecewise-linear lookup.
type Curve struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// Rule is one seasonal rule curve.
type Rule struct {
	TargetStoragePercent *float64 `json:"target_storage_percent,omitempty"`
	MinReleaseCfs        *float64 `json:"min_release_cfs,omitempty"`
	MaxReleaseCfs        *float64 `json:"max_release_cfs,omitempty"`
}

// FloodRule forces releases once storage exceeds a percent of capacity.
type FloodRule struct {
	MaxStoragePercent float64 `json:"max_storage_percent,omitempty"` // default 90
}

// SeasonalRules carries the rule curves applied by the release policy.
// Every reservoir owns its copy; cascade-level rules are copied in at build.
type SeasonalRules struct {
	Winter       *Rule      `json:"winter,omitempty"`
	Summer       *Rule      `json:"summer,omitempty"`
	FloodControl *FloodRule `json:"flood_control_curve,omitempty"`
}

// Reservoir is the static description of one reservoir. Metric inputs are
// normalized to feet at build; optional metadata remains nil when absent.
type Reservoir struct {
	ID                      string
	Type                    string // "storage" or "run_of_river"
	MinStorageAF            *float64
	MaxStorageAF            *float64
	MinElevFt, MaxElevFt    float64
	TailwaterFt             float64
	HeadCurve               *Curve // elevation (ft) vs head (ft)
	EffCurve                *Curve // release (cfs) vs efficiency (%)
	EnvMinReleaseCfs        float64
	DownstreamMinReleaseCfs *float64
	MaxReleaseCfs           *float64
	MaxGenerationMW         *float64
	Rules                   *SeasonalRules
	Easting, Northing       float64 // UTM, diagnostic prints only
	UTMzone                 int
}

// capacity returns the usable maximum storage, 0 when unknown.
func (r *Reservoir) capacity() float64 {
	if r.MaxStorageAF == nil {
		return 0.
	}
	return *r.MaxStorageAF
}

// Topology is the compiled, immutable description of a cascade.
type Topology struct {
	CascadeID string
	Res       []Reservoir
	XR        map[string]int // reservoir id to array index
	Us, Ds    [][]int        // upstream/downstream array indices
	Order     []int          // topologically safe resolution order
	Outer     [][]int        // concurrent-safe rounds, upstream rounds first
}

func (t *Topology) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" topology.SaveGob %v", err)
	}
	if err := gob.NewEncoder(f).Encode(t); err != nil {
		return fmt.Errorf(" topology.SaveGob %v", err)
	}
	f.Close()
	return nil
}

func LoadGobTopology(fp string) (*Topology, error) {
	var t Topology
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	enc := gob.NewDecoder(f)
	err = enc.Decode(&t)
	if err != nil {
		return nil, err
	}
	f.Close()
	return &t, nil
}

func (sr *SeasonalRules) copy() *SeasonalRules {
	if sr == nil {
		return nil
	}
	cpy := SeasonalRules{}
	cpyRule := func(r *Rule) *Rule {
		if r == nil {
			return nil
		}
		c := Rule{}
		if r.TargetStoragePercent != nil {
			v := *r.TargetStoragePercent
			c.TargetStoragePercent = &v
		}
		if r.MinReleaseCfs != nil {
			v := *r.MinReleaseCfs
			c.MinReleaseCfs = &v
		}
		if r.MaxReleaseCfs != nil {
			v := *r.MaxReleaseCfs
			c.MaxReleaseCfs = &v
		}
		return &c
	}
	cpy.Winter = cpyRule(sr.Winter)
	cpy.Summer = cpyRule(sr.Summer)
	if sr.FloodControl != nil {
		fc := *sr.FloodControl
		cpy.FloodControl = &fc
	}
	return &cpy
}
