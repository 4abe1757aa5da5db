package cascade

import (
	"fmt"

	"github.com/im7mortal/UTM"
)

// CheckAndPrint summarizes the compiled cascade: resolution rounds and, for
// georeferenced reservoirs, lat/long converted from their UTM coordinates.
func (t *Topology) CheckAndPrint() {

	fmt.Printf("   cascade %s: %d reservoirs in %d rounds, computationally ordered:\n", t.CascadeID, len(t.Res), len(t.Outer))
	if len(t.Outer) > 10 {
		for k, inner := range t.Outer {
			if k < 3 || k == len(t.Outer)-1 {
				fmt.Printf("        round %d (%d)\n", k+1, len(inner))
			} else if k == 3 {
				print("         ...\n")
			}
		}
	} else {
		for k, inner := range t.Outer {
			fmt.Printf("    round %d (%d)\n", k+1, len(inner))
			for _, i := range inner {
				r := &t.Res[i]
				fmt.Printf("%20s  %-12s  nUp %d  nDown %d\n", r.ID, r.Type, len(t.Us[i]), len(t.Ds[i]))
			}
		}
	}

	for i := range t.Res {
		r := &t.Res[i]
		if r.UTMzone <= 0 {
			continue
		}
		latitude, longitude, err := UTM.ToLatLon(r.Easting, r.Northing, r.UTMzone, "", true)
		if err != nil {
			fmt.Printf("%20s  coordinate error: %v\n", r.ID, err)
			continue
		}
		fmt.Printf("%20s  %.5f %.5f\n", r.ID, latitude, longitude)
	}
}
