package cascade

import (
	"github.com/254CARBON/cascade/inflow"
	"github.com/maseology/mmio"
)

// BuildCascade reads a .cascade control file, compiles the cascade
// description and inflow series it points at, and persists both as gob
// artifacts under the model prefix.
func BuildCascade(controlFP string) (*Topology, *inflow.Series) {

	///////////////////////////////////////////////////////
	println("load .cascade file")
	var mdlprfx, cascFP, inflowFP string
	func(fp string) { // getFilePaths
		ins := mmio.NewInstruct(fp)
		mdlprfx = ins.Param["prfx"][0]
		cascFP = ins.Param["cascfp"][0]
		if ifp, ok := ins.Param["inflowfp"]; ok {
			inflowFP = ifp[0]
		}
	}(controlFP)

	///////////////////////////////////////////////////////
	println("building..")
	rg := NewRegistry()
	if err := rg.LoadFile(cascFP); err != nil {
		panic(err)
	}
	var top *Topology
	for cid := range rg.cascades {
		top, _ = rg.Topology(cid)
	}

	frc := func(fp string) *inflow.Series {
		if _, ok := mmio.FileExists(fp); ok {
			frc, err := inflow.LoadGobSeries(fp)
			if err != nil {
				panic(err)
			}
			return frc
		}
		println("  load inflows..")
		frc, err := inflow.FromCsv(inflowFP)
		if err != nil {
			panic(err)
		}
		if err := frc.SaveGob(fp); err != nil {
			panic(err)
		}
		return frc
	}(mdlprfx + "inflow.gob")

	// summarize
	println("\nBuild Summary\n==================================")
	top.CheckAndPrint()

	// save gobs
	println("\nSaving gobs..")
	if err := top.SaveGob(mdlprfx + "topology.gob"); err != nil {
		panic(err)
	}

	println()
	return top, frc
}
