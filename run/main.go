package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	cascade "github.com/254CARBON/cascade"
	"github.com/maseology/mmio"
)

func main() {

	if len(os.Args) < 2 {
		log.Fatalln("usage: run <control.cascade>")
	}
	controlFP := os.Args[1]

	fmt.Println("")
	tt := mmio.NewTimer()
	defer tt.Lap(fmt.Sprintf("\nRun complete. n processes: %v", runtime.GOMAXPROCS(0)))

	ins := mmio.NewInstruct(controlFP)
	mdlprfx := ins.Param["prfx"][0]

	// build gob artifacts when the control file points at raw inputs
	if _, ok := ins.Param["cascfp"]; ok {
		cascade.BuildCascade(controlFP)
		tt.Print("Build complete\n")
	}

	// load data
	top, frc := cascade.LoadDomain(mdlprfx)
	top.CheckAndPrint()
	tt.Print("Domain load complete\n")

	// run model
	outdir := mmio.GetFileDir(mdlprfx) + "/out/"
	mmio.MakeDir(outdir)
	stepHr := 1.
	if v, ok := ins.Param["stephr"]; ok {
		fmt.Sscan(v[0], &stepHr)
	}
	ev := top.NewEvaluator(stepHr)
	ev.EvaluateSerial(frc, nil, outdir)
}
