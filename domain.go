package cascade

import "github.com/254CARBON/cascade/inflow"

// LoadDomain pulls a built model from its gob artifacts by file prefix.
func LoadDomain(mdlprfx string) (*Topology, *inflow.Series) {
	chkerr := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	top, err := LoadGobTopology(mdlprfx + "topology.gob")
	chkerr(err)
	frc, err := inflow.LoadGobSeries(mdlprfx + "inflow.gob")
	chkerr(err)
	return top, frc
}
