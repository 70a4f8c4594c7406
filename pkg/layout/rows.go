package layout

import (
	"strings"

	"github.com/easty4690-png/ab-agri-timeline/pkg/model"
)

// AssignRows returns the distinct lane identities of one section in
// first-occurrence order. Events without a Line Ref have no lane.
func AssignRows(events []model.Event, section model.Section) []string {
	seen := make(map[string]bool)
	var lanes []string
	for _, e := range events {
		if e.Section != section || !hasRowRef(e) {
			continue
		}
		if seen[e.RowRef] {
			continue
		}
		seen[e.RowRef] = true
		lanes = append(lanes, e.RowRef)
	}
	return lanes
}

func hasRowRef(e model.Event) bool {
	return strings.TrimSpace(e.RowRef) != ""
}

// laneIndex maps lane identity to its y index.
func laneIndex(lanes []string) map[string]int {
	idx := make(map[string]int, len(lanes))
	for i, l := range lanes {
		idx[l] = i
	}
	return idx
}
