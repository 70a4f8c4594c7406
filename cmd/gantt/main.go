// Command gantt draws Gantt charts with a heat map panel from a planning
// spreadsheet, and edits the spreadsheet in a terminal UI.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
