package cascade

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/maseology/mmaths/slice"
)

// RawCascade is the on-disk cascade description.
type RawCascade struct {
	CascadeID     string         `json:"cascade_id"`
	Reservoirs    []RawReservoir `json:"reservoirs"`
	SeasonalRules *SeasonalRules `json:"seasonal_rules,omitempty"`
}

type RawReservoir struct {
	ReservoirID             string         `json:"reservoir_id"`
	ReservoirType           string         `json:"reservoir_type,omitempty"`
	Upstream                []string       `json:"upstream_reservoirs,omitempty"`
	Downstream              []string       `json:"downstream_reservoirs,omitempty"`
	MinStorageAF            *float64       `json:"min_storage_af,omitempty"`
	MaxStorageAF            *float64       `json:"max_storage_af,omitempty"`
	MinElevationM           *float64       `json:"min_elevation_m,omitempty"`
	MaxElevationM           *float64       `json:"max_elevation_m,omitempty"`
	TailwaterElevationM     *float64       `json:"tailwater_elevation_m,omitempty"`
	TailwaterElevationFt    *float64       `json:"tailwater_elevation_feet,omitempty"`
	HeadCurve               *Curve         `json:"head_curve,omitempty"`       // elevation (m) vs head (m)
	EfficiencyCurve         *Curve         `json:"efficiency_curve,omitempty"` // release (cfs) vs efficiency (%)
	EnvironmentalMinRelease *float64       `json:"environmental_min_release_cfs,omitempty"`
	DownstreamMinReleaseCfs *float64       `json:"downstream_min_release_cfs,omitempty"`
	MaxReleaseCfs           *float64       `json:"max_release_cfs,omitempty"`
	MaxGenerationMW         *float64       `json:"max_generation_mw,omitempty"`
	SeasonalRules           *SeasonalRules `json:"seasonal_rules,omitempty"`
	Easting                 float64        `json:"easting,omitempty"`
	Northing                float64        `json:"northing,omitempty"`
	UTMzone                 int            `json:"utm_zone,omitempty"`
}

// Registry holds compiled topologies keyed by cascade id. It is owned by the
// caller and passed explicitly; loading for an id overwrites the prior entry.
type Registry struct {
	cascades map[string]*Topology
}

func NewRegistry() *Registry {
	return &Registry{cascades: make(map[string]*Topology)}
}

// Topology returns the compiled topology for a loaded cascade id.
func (rg *Registry) Topology(cascadeID string) (*Topology, error) {
	t, ok := rg.cascades[cascadeID]
	if !ok {
		return nil, fmt.Errorf("cascade %q not loaded", cascadeID)
	}
	return t, nil
}

// Evaluator compiles a run-ready evaluator for a loaded cascade. stepHr is
// the simulation step in hours; <=0 defaults to hourly.
func (rg *Registry) Evaluator(cascadeID string, stepHr float64) (*Evaluator, error) {
	t, err := rg.Topology(cascadeID)
	if err != nil {
		return nil, err
	}
	return t.NewEvaluator(stepHr), nil
}

// LoadFile reads a JSON cascade description and registers it.
func (rg *Registry) LoadFile(fp string) error {
	b, err := os.ReadFile(fp)
	if err != nil {
		return fmt.Errorf(" registry.LoadFile %v", err)
	}
	var raw RawCascade
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf(" registry.LoadFile %s: %v", fp, err)
	}
	return rg.Load(&raw)
}

// Load compiles a raw cascade description and registers it by cascade id.
func (rg *Registry) Load(raw *RawCascade) error {
	t, err := buildTopology(raw)
	if err != nil {
		return err
	}
	rg.cascades[t.CascadeID] = t
	return nil
}

func buildTopology(raw *RawCascade) (*Topology, error) {
	if raw.CascadeID == "" {
		return nil, fmt.Errorf("cascade description missing cascade_id")
	}
	n := len(raw.Reservoirs)
	t := Topology{
		CascadeID: raw.CascadeID,
		Res:       make([]Reservoir, n),
		XR:        make(map[string]int, n),
	}
	for i, rr := range raw.Reservoirs {
		if rr.ReservoirID == "" {
			return nil, fmt.Errorf("cascade %s: reservoir %d missing reservoir_id", raw.CascadeID, i)
		}
		if _, ok := t.XR[rr.ReservoirID]; ok {
			return nil, fmt.Errorf("cascade %s: duplicate reservoir %q", raw.CascadeID, rr.ReservoirID)
		}
		t.XR[rr.ReservoirID] = i
		t.Res[i] = compileReservoir(&rr, raw.SeasonalRules)
	}

	// adjacency from the declared lists, either direction, deduplicated
	us, ds := make([]map[int]bool, n), make([]map[int]bool, n)
	for i := range us {
		us[i], ds[i] = map[int]bool{}, map[int]bool{}
	}
	for i, rr := range raw.Reservoirs {
		for _, uid := range rr.Upstream {
			iu, ok := t.XR[uid]
			if !ok {
				return nil, fmt.Errorf("cascade %s: reservoir %q references unknown upstream %q", raw.CascadeID, rr.ReservoirID, uid)
			}
			us[i][iu], ds[iu][i] = true, true
		}
		for _, did := range rr.Downstream {
			id, ok := t.XR[did]
			if !ok {
				return nil, fmt.Errorf("cascade %s: reservoir %q references unknown downstream %q", raw.CascadeID, rr.ReservoirID, did)
			}
			ds[i][id], us[id][i] = true, true
		}
	}
	t.Us, t.Ds = setsToLists(us), setsToLists(ds)

	var err error
	if t.Order, t.Outer, err = orderRounds(n, t.Us, t.Ds); err != nil {
		return nil, fmt.Errorf("cascade %s: %v", raw.CascadeID, err)
	}
	return &t, nil
}

func compileReservoir(rr *RawReservoir, cascadeRules *SeasonalRules) Reservoir {
	r := Reservoir{
		ID:                      rr.ReservoirID,
		Type:                    rr.ReservoirType,
		MaxStorageAF:            rr.MaxStorageAF,
		MinStorageAF:            rr.MinStorageAF,
		DownstreamMinReleaseCfs: rr.DownstreamMinReleaseCfs,
		MaxReleaseCfs:           rr.MaxReleaseCfs,
		MaxGenerationMW:         rr.MaxGenerationMW,
		EffCurve:                rr.EfficiencyCurve,
		Easting:                 rr.Easting,
		Northing:                rr.Northing,
		UTMzone:                 rr.UTMzone,
	}
	if r.Type == "" {
		r.Type = "storage"
	}
	if r.MaxStorageAF != nil && r.MinStorageAF == nil {
		zero := 0.
		r.MinStorageAF = &zero
	}
	if rr.MinElevationM != nil {
		r.MinElevFt = *rr.MinElevationM * ftPerM
	}
	if rr.MaxElevationM != nil {
		r.MaxElevFt = *rr.MaxElevationM * ftPerM
	}
	switch {
	case rr.TailwaterElevationFt != nil:
		r.TailwaterFt = *rr.TailwaterElevationFt
	case rr.TailwaterElevationM != nil:
		r.TailwaterFt = *rr.TailwaterElevationM * ftPerM
	}
	if rr.HeadCurve != nil { // metric curve, both axes to feet
		c := Curve{X: make([]float64, len(rr.HeadCurve.X)), Y: make([]float64, len(rr.HeadCurve.Y))}
		for i, v := range rr.HeadCurve.X {
			c.X[i] = v * ftPerM
		}
		for i, v := range rr.HeadCurve.Y {
			c.Y[i] = v * ftPerM
		}
		r.HeadCurve = &c
	}
	if rr.EnvironmentalMinRelease != nil {
		r.EnvMinReleaseCfs = *rr.EnvironmentalMinRelease
	}
	if rr.SeasonalRules != nil {
		r.Rules = rr.SeasonalRules.copy()
	} else {
		r.Rules = cascadeRules.copy() // owned copy, never a shared reference
	}
	if r.Rules != nil && r.Rules.FloodControl != nil && r.Rules.FloodControl.MaxStoragePercent <= 0. {
		r.Rules.FloodControl.MaxStoragePercent = 90.
	}
	return r
}

func setsToLists(m []map[int]bool) [][]int {
	out := make([][]int, len(m))
	for i, s := range m {
		out[i] = make([]int, 0, len(s))
		for j := 0; j < len(m); j++ {
			if s[j] {
				out[i] = append(out[i], j)
			}
		}
	}
	return out
}

// orderRounds ranks every reservoir by its longest path from a headwater and
// groups equal ranks into concurrent-safe rounds. Kahn's algorithm; a cycle
// leaves unresolved reservoirs and fails the build.
func orderRounds(n int, us, ds [][]int) ([]int, [][]int, error) {
	indeg, cnt := make([]int, n), make(map[int]int, n)
	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		indeg[i] = len(us[i])
		if indeg[i] == 0 {
			queue = append(queue, i)
			cnt[i] = 0
		}
	}
	nres := 0
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		nres++
		for _, id := range ds[i] {
			if cnt[i]+1 > cnt[id] {
				cnt[id] = cnt[i] + 1
			}
			indeg[id]--
			if indeg[id] == 0 {
				queue = append(queue, id)
			}
		}
	}
	if nres != n {
		return nil, nil, fmt.Errorf("cyclic upstream-downstream topology (%d of %d reservoirs resolvable)", nres, n)
	}

	mord, lord := slice.InvertMap(cnt)
	ord, outer := make([]int, 0, n), make([][]int, len(lord))
	for i, k := range lord {
		cpy := make([]int, len(mord[k]))
		copy(cpy, mord[k])
		outer[i] = cpy
		ord = append(ord, cpy...)
	}
	return ord, outer, nil
}
