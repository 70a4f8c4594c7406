//go:build ignore

// generate_testdata.go writes sample plans for manual testing and timing runs.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/plans/small.xlsx   (4 lanes, 12 tasks)
//	testdata/plans/medium.xlsx  (20 lanes, 100 tasks)
//	testdata/plans/large.xlsx   (60 lanes, 480 tasks)
//	testdata/plans/small.csv    (same table as small.xlsx)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/easty4690-png/ab-agri-timeline/pkg/loader"
	"github.com/easty4690-png/ab-agri-timeline/pkg/testutil"
)

type datasetSpec struct {
	name          string
	timelineLanes int
	eventsPerLane int
	heatLanes     int
}

var datasets = []datasetSpec{
	{"small", 4, 3, 2},
	{"medium", 20, 5, 6},
	{"large", 60, 8, 12},
}

func main() {
	outputDir := filepath.Join("testdata", "plans")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		cfg := testutil.DefaultConfig()
		cfg.Seed = int64(ds.timelineLanes * ds.eventsPerLane) // reproducible per size
		cfg.TimelineLanes = ds.timelineLanes
		cfg.EventsPerLane = ds.eventsPerLane
		cfg.HeatLanes = ds.heatLanes
		cfg.HeatMonths = 6

		outputs := []string{filepath.Join(outputDir, ds.name+".xlsx")}
		if ds.name == "small" {
			outputs = append(outputs, filepath.Join(outputDir, ds.name+".csv"))
		}
		for _, path := range outputs {
			doc := testutil.New(cfg).Document(path)
			if err := loader.Save(doc, path); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
				os.Exit(1)
			}
			fmt.Printf("  Written %s (%d rows)\n", path, doc.Len())
		}
	}

	fmt.Println("\nDone! Sample plans created in", outputDir)
}
