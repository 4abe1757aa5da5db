package cascade

import "fmt"

// Subset crops the topology to an outlet reservoir and everything upstream
// of it, for focused runs against a single gauge.
func (t *Topology) Subset(outletID string) (*Topology, error) {
	io, ok := t.XR[outletID]
	if !ok {
		return nil, fmt.Errorf("cascade %s: unknown outlet reservoir %q", t.CascadeID, outletID)
	}

	keep := map[int]bool{io: true}
	queue := []int{io}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for _, iu := range t.Us[i] {
			if !keep[iu] {
				keep[iu] = true
				queue = append(queue, iu)
			}
		}
	}

	sub := Topology{
		CascadeID: t.CascadeID,
		Res:       make([]Reservoir, 0, len(keep)),
		XR:        make(map[string]int, len(keep)),
	}
	xr := make([]int, len(t.Res)) // old index to new
	for i := range xr {
		xr[i] = -1
	}
	for _, i := range t.Order { // preserves resolution order
		if keep[i] {
			xr[i] = len(sub.Res)
			sub.XR[t.Res[i].ID] = len(sub.Res)
			sub.Res = append(sub.Res, t.Res[i])
		}
	}

	n := len(sub.Res)
	sub.Us, sub.Ds = make([][]int, n), make([][]int, n)
	for io, in := range xr {
		if in < 0 {
			continue
		}
		for _, iu := range t.Us[io] {
			if xr[iu] >= 0 {
				sub.Us[in] = append(sub.Us[in], xr[iu])
			}
		}
		for _, id := range t.Ds[io] {
			if xr[id] >= 0 {
				sub.Ds[in] = append(sub.Ds[in], xr[id])
			}
		}
	}

	var err error
	if sub.Order, sub.Outer, err = orderRounds(n, sub.Us, sub.Ds); err != nil {
		return nil, fmt.Errorf("cascade %s: %v", t.CascadeID, err)
	}
	return &sub, nil
}
